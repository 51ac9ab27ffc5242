package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	LLM      LLMConfig
	CRM      CRMConfig
	History  HistoryConfig
	Rate     RateConfig
	Seed     SeedConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

type LLMConfig struct {
	Provider     string
	BaseURL      string
	APIKey       string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

type CRMConfig struct {
	BaseURL string
	APIKey  string
	Source  string
	Timeout time.Duration
}

type HistoryConfig struct {
	MaxItems int
}

type RateConfig struct {
	GeneratePerMinute int
	GenerateBurst     int
}

// SeedConfig enables the demo account in development when DemoPassword is set.
type SeedConfig struct {
	DemoUsername string
	DemoPassword string
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// LoadLLM reads only the generation settings, for tools that do not run the server.
func LoadLLM() (LLMConfig, error) {
	_ = godotenv.Load()
	r := &envReader{getenv: os.Getenv}
	cfg := r.llm()
	return cfg, r.err()
}

type envReader struct {
	getenv  func(string) string
	missing []string
	invalid []string
}

func (r *envReader) req(key string) string {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		r.missing = append(r.missing, key)
	}
	return v
}

func (r *envReader) opt(key, def string) string {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	return v
}

func (r *envReader) optInt(key string, def int) int {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		r.invalid = append(r.invalid, key)
		return def
	}
	return v
}

func (r *envReader) optFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.invalid = append(r.invalid, key)
		return def
	}
	return v
}

func (r *envReader) optDur(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		r.invalid = append(r.invalid, key)
		return def
	}
	return v
}

func (r *envReader) err() error {
	if len(r.missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(r.missing, ", "))
	}
	if len(r.invalid) > 0 {
		return fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(r.invalid, ", "))
	}
	return nil
}

func (r *envReader) llm() LLMConfig {
	cfg := LLMConfig{
		Provider:     strings.ToLower(r.opt("LLM_PROVIDER", ProviderOpenAI)),
		BaseURL:      r.opt("LLM_BASE_URL", ""),
		APIKey:       r.opt("LLM_API_KEY", ""),
		Model:        r.opt("LLM_MODEL", ""),
		Temperature:  r.optFloat("LLM_TEMPERATURE", 0.7),
		MaxTokens:    r.optInt("LLM_MAX_TOKENS", 500),
		Timeout:      r.optDur("LLM_TIMEOUT", 30*time.Second),
		MaxRetries:   r.optInt("LLM_MAX_RETRIES", 0),
		RetryBackoff: r.optDur("LLM_RETRY_BACKOFF", time.Second),
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
	if cfg.BaseURL == "" && cfg.Provider == ProviderOpenAI {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Provider != ProviderOpenAI && cfg.Provider != ProviderGemini {
		r.invalid = append(r.invalid, "LLM_PROVIDER")
	}
	return cfg
}

func FromEnv(getenv func(string) string) (Config, error) {
	r := &envReader{getenv: getenv}
	cfg := Config{}

	cfg.App = AppConfig{
		AppName:     r.req("APP_NAME"),
		Environment: r.req("APP_ENV"),
		HTTPPort:    r.req("HTTP_PORT"),
		LogLevel:    r.opt("LOG_LEVEL", "info"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     r.opt("DB_HOST", "localhost"),
		DBPort:     r.opt("DB_PORT", "5432"),
		DBName:     r.opt("DB_NAME", "captioncraft"),
		DBUser:     r.opt("DB_USER", "postgres"),
		DBPassword: r.opt("DB_PASSWORD", ""),
		DBSSLMode:  r.opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        r.optDur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(r.optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(r.optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   r.optDur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   r.optDur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: r.optDur("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),

		MigrationsDir: r.opt("DB_MIGRATIONS_DIR", "migrations"),
	}

	cfg.Redis = RedisConfig{
		Addr:     r.opt("REDIS_ADDR", "localhost:6379"),
		Password: r.opt("REDIS_PASSWORD", ""),
		DB:       r.optInt("REDIS_DB", 0),
	}

	cfg.JWT = JWTConfig{
		Secret:    r.req("JWT_SECRET"),
		AccessTTL: r.optDur("JWT_ACCESS_TTL", 24*time.Hour),
	}

	cfg.LLM = r.llm()

	cfg.CRM = CRMConfig{
		BaseURL: r.opt("CRM_BASE_URL", ""),
		APIKey:  r.opt("CRM_API_KEY", ""),
		Source:  r.opt("CRM_SOURCE", "Scale+ Captions App"),
		Timeout: r.optDur("CRM_TIMEOUT", 10*time.Second),
	}

	cfg.History = HistoryConfig{
		MaxItems: r.optInt("HISTORY_MAX_ITEMS", 0),
	}

	cfg.Rate = RateConfig{
		GeneratePerMinute: r.optInt("GENERATE_RATE_PER_MIN", 10),
		GenerateBurst:     r.optInt("GENERATE_BURST", 3),
	}

	cfg.Seed = SeedConfig{
		DemoUsername: r.opt("SEED_DEMO_USERNAME", "demo"),
		DemoPassword: r.opt("SEED_DEMO_PASSWORD", ""),
	}

	if err := r.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Environment, "development")
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.5-flash-lite"
	}
	return "gpt-4o-mini"
}
