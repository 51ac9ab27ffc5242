package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"captioncraft/internal/delivery/http/dto"
	"captioncraft/internal/delivery/http/middleware"
	"captioncraft/internal/domain/caption"
	"captioncraft/internal/domain/profile"
	"captioncraft/internal/pkg/response"
	uccaption "captioncraft/internal/usecase/caption"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const maxListLimit = 500

type CaptionUsecase interface {
	Generate(ctx context.Context, p profile.Profile, form uccaption.GenerationForm) (caption.GenerationResult, error)
	List(ctx context.Context, profileID uuid.UUID, limit int) ([]caption.GenerationResult, error)
	Latest(ctx context.Context, profileID uuid.UUID) (caption.GenerationResult, error)
	Previous(ctx context.Context, profileID uuid.UUID, currentID string, limit int) ([]caption.GenerationResult, error)
}

type CaptionHandler struct {
	captions CaptionUsecase
	profiles ProfileReader
	limiter  fiber.Handler
}

// NewCaptionHandler builds the caption endpoints. generateLimiter, when set, guards generation only.
func NewCaptionHandler(captions CaptionUsecase, profiles ProfileReader, generateLimiter fiber.Handler) *CaptionHandler {
	return &CaptionHandler{captions: captions, profiles: profiles, limiter: generateLimiter}
}

func (h *CaptionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	if h.limiter != nil {
		r.Post("/", h.limiter, h.Generate)
	} else {
		r.Post("/", h.Generate)
	}
	r.Get("/", h.List)
	r.Get("/latest", h.Latest)
	r.Get("/:id/previous", h.Previous)
}

func (h *CaptionHandler) Generate(c fiber.Ctx) error {
	pid, ok := middleware.ProfileID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	var req dto.GenerateCaptionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Invalid request payload", nil, err)
	}

	form, fields := generationForm(req)
	if len(fields) > 0 {
		return middleware.BadRequest("Validation failed", fields, nil)
	}

	p, err := h.profiles.Profile(c.Context(), pid)
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	res, err := h.captions.Generate(c.Context(), p, form)
	if err != nil {
		return mapCaptionError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Caption generated", dto.NewCaptionResponse(res))
}

func (h *CaptionHandler) List(c fiber.Ctx) error {
	pid, ok := middleware.ProfileID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return middleware.BadRequest("Invalid limit", nil, err)
	}

	items, err := h.captions.List(c.Context(), pid, limit)
	if err != nil {
		return mapCaptionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, response.NewPage(dto.NewCaptionResponses(items)))
}

func (h *CaptionHandler) Latest(c fiber.Ctx) error {
	pid, ok := middleware.ProfileID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	res, err := h.captions.Latest(c.Context(), pid)
	if err != nil {
		return mapCaptionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCaptionResponse(res))
}

func (h *CaptionHandler) Previous(c fiber.Ctx) error {
	pid, ok := middleware.ProfileID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return middleware.BadRequest("Invalid limit", nil, err)
	}

	items, err := h.captions.Previous(c.Context(), pid, c.Params("id"), limit)
	if err != nil {
		return mapCaptionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, response.NewPage(dto.NewCaptionResponses(items)))
}

func generationForm(req dto.GenerateCaptionRequest) (uccaption.GenerationForm, map[string]string) {
	fields := map[string]string{}

	pt := caption.PostType(strings.ToLower(strings.TrimSpace(req.PostType)))
	if !pt.Valid() {
		fields["post_type"] = "must be one of promotional, inspirational, educational, conversational, custom"
	}
	pp := caption.PostPurpose(strings.ToLower(strings.TrimSpace(req.PostPurpose)))
	if !pp.Valid() {
		fields["post_purpose"] = "must be one of attention, sales, community, storytelling, custom"
	}

	return uccaption.GenerationForm{
		PostType:          pt,
		PostPurpose:       pp,
		CustomType:        strings.TrimSpace(req.CustomType),
		CustomPurpose:     strings.TrimSpace(req.CustomPurpose),
		AdditionalDetails: req.AdditionalDetails,
	}, fields
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxListLimit {
		return 0, errors.New("limit out of range")
	}
	return n, nil
}

func mapCaptionError(err error) error {
	switch {
	case errors.Is(err, caption.ErrGenerationFailed):
		return middleware.NewAppError(fiber.StatusBadGateway, "Caption generation failed, please try again", nil, err)
	case errors.Is(err, uccaption.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "No captions yet", nil, err)
	default:
		return middleware.Internal(err)
	}
}
