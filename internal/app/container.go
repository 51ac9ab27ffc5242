package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"captioncraft/internal/config"
	"captioncraft/internal/database"
	"captioncraft/internal/database/migration"
	dbpostgres "captioncraft/internal/database/postgres"
	"captioncraft/internal/database/seeder"
	"captioncraft/internal/domain/caption"
	"captioncraft/internal/domain/profile"
	"captioncraft/internal/infrastructure/cache"
	"captioncraft/internal/infrastructure/crm"
	"captioncraft/internal/infrastructure/llm"
	"captioncraft/internal/infrastructure/persistence/postgres"
	"captioncraft/internal/infrastructure/persistence/redisstore"
	"captioncraft/internal/pkg/besteffort"
	"captioncraft/internal/pkg/jwt"
	"captioncraft/internal/pkg/logger"
	ucauth "captioncraft/internal/usecase/auth"
	uccaption "captioncraft/internal/usecase/caption"
	"captioncraft/migrations"

	"go.uber.org/zap"
)

const tokenIssuer = "captioncraft"

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB     database.DB
	Redis  *cache.Redis
	Runner *besteffort.Runner

	Auth     *ucauth.Service
	Captions *uccaption.Service
}

// Deps lets callers supply pre-built backends. Nil fields are built from config.
type Deps struct {
	DB        database.DB
	Profiles  profile.Repository
	Redis     *cache.Redis
	Generator caption.Generator
	Contacts  crm.ContactSyncer
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	return NewContainerWith(ctx, cfg, log, Deps{})
}

func NewContainerWith(ctx context.Context, cfg config.Config, log *zap.Logger, deps Deps) (*Container, error) {
	log = logger.OrNop(log)
	c := &Container{Config: cfg, Logger: log}

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	profiles := deps.Profiles
	if profiles == nil {
		db := deps.DB
		if db == nil {
			var err error
			db, err = dbpostgres.Connect(initCtx, cfg.Database)
			if err != nil {
				return nil, fmt.Errorf("connect postgres: %w", err)
			}
		}
		c.DB = db

		runner := migration.Runner{Dir: cfg.Database.MigrationsDir, FS: migrations.FS, Logger: log.Named("migration")}
		if err := runner.Run(initCtx, db.SQLDB()); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		if cfg.IsDevelopment() && cfg.Seed.DemoPassword != "" {
			seeds := seeder.Runner{
				Seeders: []seeder.Seeder{seeder.DemoProfileSeeder{Username: cfg.Seed.DemoUsername, Password: cfg.Seed.DemoPassword}},
				Logger:  log.Named("seeder"),
			}
			if err := seeds.Run(initCtx, db); err != nil {
				_ = c.Close()
				return nil, fmt.Errorf("seed: %w", err)
			}
		}
		profiles = postgres.NewProfileRepository(db)
	}

	rdb := deps.Redis
	if rdb == nil {
		var err error
		rdb, err = cache.NewRedis(initCtx, cfg.Redis, log.Named("redis"))
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}
	c.Redis = rdb

	gen := deps.Generator
	if gen == nil {
		var err error
		gen, err = llm.New(ctx, cfg.LLM, log.Named("llm"))
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("init generator: %w", err)
		}
	}

	contacts := deps.Contacts
	if contacts == nil {
		contacts = crm.NewContactClient(cfg.CRM.BaseURL, cfg.CRM.APIKey, cfg.CRM.Source, cfg.CRM.Timeout, log.Named("crm"))
		if contacts == nil {
			log.Info("crm contact sync disabled", zap.String("reason", "CRM_BASE_URL not set"))
		}
	}

	c.Runner = besteffort.NewRunner(cfg.CRM.Timeout, log.Named("besteffort"))

	sessions := redisstore.NewSessionStore(rdb)
	history := redisstore.NewHistoryStore(rdb, cfg.History.MaxItems, log.Named("history"))
	tokens := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.AccessTTL, tokenIssuer)

	c.Auth = ucauth.NewService(profiles, sessions, tokens, contacts, c.Runner, log.Named("auth"))
	c.Captions = uccaption.NewService(gen, history, log.Named("caption"))

	return c, nil
}

// Close waits for in-flight side tasks and releases connections.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Runner != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := c.Runner.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain background tasks: %w", err))
		}
		cancel()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
