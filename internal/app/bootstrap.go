package app

import (
	"context"
	"fmt"
	"strings"

	"captioncraft/internal/config"
	"captioncraft/internal/delivery/http/handler"
	"captioncraft/internal/delivery/http/middleware"
	"captioncraft/internal/delivery/http/routes"
	v1 "captioncraft/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP surface on top of an initialised container.
func New(c *Container) *App {
	errMw := middleware.NewErrorMiddleware(c.Logger)

	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ErrorHandler: errMw.ErrorHandler,
	})

	registerGlobalMiddleware(f, c, errMw)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects every backend and returns the app with its cleanup.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	deps := map[string]handler.Pinger{}
	if c.DB != nil {
		deps["postgres"] = c.DB
	}
	if c.Redis != nil {
		deps["redis"] = c.Redis
	}

	rate := middleware.NewRateLimitMiddleware(c.Config.Rate.GeneratePerMinute, c.Config.Rate.GenerateBurst)

	api := v1.Handlers{
		Auth:    handler.NewAuthHandler(c.Auth),
		Profile: handler.NewProfileHandler(c.Auth),
		Caption: handler.NewCaptionHandler(c.Captions, c.Auth, rate.Middleware()),
		AuthMw:  middleware.NewAuthMiddleware(c.Auth),
	}

	routes.NewRegistry(handler.NewHealthHandler(deps), api).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
