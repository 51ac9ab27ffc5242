package handler

import (
	"context"
	"errors"

	"captioncraft/internal/delivery/http/dto"
	"captioncraft/internal/delivery/http/middleware"
	"captioncraft/internal/domain/profile"
	"captioncraft/internal/pkg/response"
	ucauth "captioncraft/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (profile.Profile, ucauth.Token, error)
	Login(ctx context.Context, in ucauth.LoginInput) (profile.Profile, ucauth.Token, error)
	StartGuest(ctx context.Context, in ucauth.ProfileInput) (profile.Profile, ucauth.Token, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

type AuthHandler struct {
	uc AuthUsecase
}

func NewAuthHandler(uc AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterRoutes mounts the public endpoints. Logout needs a session and is mounted by the caller.
func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/business-types", h.BusinessTypes)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/guest", h.Guest)
}

func (h *AuthHandler) BusinessTypes(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.BusinessTypesResponse{BusinessTypes: profile.BusinessTypes})
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Invalid request payload", nil, err)
	}

	p, tok, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		ProfileInput: profileInput(req.ProfileRequest),
		Username:     req.Username,
		Password:     req.Password,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Registered", sessionResponse(p, tok))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Invalid request payload", nil, err)
	}

	p, tok, err := h.uc.Login(c.Context(), ucauth.LoginInput{Username: req.Username, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, sessionResponse(p, tok))
}

func (h *AuthHandler) Guest(c fiber.Ctx) error {
	var req dto.ProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Invalid request payload", nil, err)
	}

	p, tok, err := h.uc.StartGuest(c.Context(), profileInput(req))
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Session started", sessionResponse(p, tok))
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	sid, ok := middleware.SessionID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	if err := h.uc.Logout(c.Context(), sid); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Logged out", nil)
}

func profileInput(req dto.ProfileRequest) ucauth.ProfileInput {
	return ucauth.ProfileInput{
		Email:               req.Email,
		Phone:               req.Phone,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		BusinessName:        req.BusinessName,
		BusinessType:        req.BusinessType,
		CustomBusinessType:  req.CustomBusinessType,
		BusinessDescription: req.BusinessDescription,
	}
}

func sessionResponse(p profile.Profile, tok ucauth.Token) dto.SessionResponse {
	return dto.SessionResponse{
		Profile:     dto.NewProfileResponse(p),
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt,
	}
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var verr *ucauth.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.BadRequest("Validation failed", verr.Fields, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.BadRequest("Validation failed", nil, err)
	case errors.Is(err, ucauth.ErrUsernameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Username already taken", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid username or password", nil, err)
	case errors.Is(err, ucauth.ErrUnauthorized):
		return middleware.Unauthorized(err)
	default:
		return middleware.Internal(err)
	}
}
