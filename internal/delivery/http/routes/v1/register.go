package v1

import (
	"captioncraft/internal/delivery/http/handler"
	"captioncraft/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Caption *handler.CaptionHandler
	AuthMw  *middleware.AuthMiddleware
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	authGroup := r.Group("/auth")
	if h.Auth != nil {
		h.Auth.RegisterRoutes(authGroup)
	}

	if h.AuthMw == nil {
		return
	}
	requireSession := h.AuthMw.Middleware()

	if h.Auth != nil {
		authGroup.Post("/logout", requireSession, h.Auth.Logout)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(r.Group("/profile", requireSession))
	}
	if h.Caption != nil {
		h.Caption.RegisterRoutes(r.Group("/captions", requireSession))
	}
}
