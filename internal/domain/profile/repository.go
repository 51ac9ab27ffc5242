package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrDuplicateName = errors.New("username already exists")
)

type Repository interface {
	Create(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
	GetByUsername(ctx context.Context, username string) (Profile, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
