package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the business a caption is written for. Username is nil for guest profiles.
type Profile struct {
	ID                  uuid.UUID
	Username            *string
	PasswordHash        string
	Email               string
	Phone               string
	BusinessName        string
	BusinessType        string
	BusinessDescription string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p Profile) IsGuest() bool {
	return p.Username == nil
}

var BusinessTypes = []string{
	"E-commerce",
	"Service-based",
	"Coaching",
	"Consulting",
	"Real Estate",
	"Health & Wellness",
	"Food & Beverage",
	"Tech & SaaS",
	"Fashion & Beauty",
	"Education",
	"Travel",
	"Fitness",
	"Creative Agency",
	"Entertainment",
	"Financial Services",
	BusinessTypeOther,
}

const BusinessTypeOther = "Other"
