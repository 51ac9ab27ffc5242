package dto

import (
	"time"

	"captioncraft/internal/domain/profile"

	"github.com/google/uuid"
)

type ProfileRequest struct {
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	BusinessName        string `json:"business_name"`
	BusinessType        string `json:"business_type"`
	CustomBusinessType  string `json:"custom_business_type"`
	BusinessDescription string `json:"business_description"`
}

type RegisterRequest struct {
	ProfileRequest
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProfileResponse struct {
	ID                  uuid.UUID `json:"id"`
	Username            *string   `json:"username"`
	Guest               bool      `json:"guest"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	BusinessName        string    `json:"business_name"`
	BusinessType        string    `json:"business_type"`
	BusinessDescription string    `json:"business_description"`
	CreatedAt           time.Time `json:"created_at"`
}

type SessionResponse struct {
	Profile     ProfileResponse `json:"profile"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

type BusinessTypesResponse struct {
	BusinessTypes []string `json:"business_types"`
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                  p.ID,
		Username:            p.Username,
		Guest:               p.IsGuest(),
		Email:               p.Email,
		Phone:               p.Phone,
		BusinessName:        p.BusinessName,
		BusinessType:        p.BusinessType,
		BusinessDescription: p.BusinessDescription,
		CreatedAt:           p.CreatedAt,
	}
}
