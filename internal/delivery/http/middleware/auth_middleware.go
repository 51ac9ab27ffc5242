package middleware

import (
	"context"
	"errors"
	"strings"

	"captioncraft/internal/domain/session"
	ucauth "captioncraft/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxProfileIDKey = "profile_id"
	CtxSessionIDKey = "session_id"
)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (session.Session, error)
}

// AuthMiddleware admits a request only when its bearer token maps to a live session marker.
type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return Unauthorized(nil)
		}

		sess, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, ucauth.ErrUnauthorized) {
				return Unauthorized(err)
			}
			return Internal(err)
		}

		c.Locals(CtxProfileIDKey, sess.ProfileID)
		c.Locals(CtxSessionIDKey, sess.ID)

		return c.Next()
	}
}

func ProfileID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxProfileIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func SessionID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxSessionIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
