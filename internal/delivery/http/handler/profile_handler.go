package handler

import (
	"context"

	"captioncraft/internal/delivery/http/dto"
	"captioncraft/internal/delivery/http/middleware"
	"captioncraft/internal/domain/profile"
	"captioncraft/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfileReader interface {
	Profile(ctx context.Context, id uuid.UUID) (profile.Profile, error)
}

type ProfileHandler struct {
	profiles ProfileReader
}

func NewProfileHandler(profiles ProfileReader) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	pid, ok := middleware.ProfileID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	p, err := h.profiles.Profile(c.Context(), pid)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}
