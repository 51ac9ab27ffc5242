package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"captioncraft/internal/database"
	pgdb "captioncraft/internal/database/postgres"
	"captioncraft/internal/domain/profile"

	"github.com/google/uuid"
)

const usernameConstraint = "profiles_username_key"

const profileColumns = `id, username, password_hash, email, phone, business_name, business_type, business_description, created_at, updated_at`

type ProfileRepository struct {
	db database.DB
}

func NewProfileRepository(db database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	if r == nil || r.db == nil {
		return errors.New("nil db")
	}

	_, err := r.db.Exec(ctx, `
INSERT INTO profiles (id, username, password_hash, email, phone, business_name, business_type, business_description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID,
		p.Username,
		p.PasswordHash,
		p.Email,
		p.Phone,
		p.BusinessName,
		p.BusinessType,
		p.BusinessDescription,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if pgdb.IsUniqueViolation(err, usernameConstraint) {
			return profile.ErrDuplicateName
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	if r == nil || r.db == nil {
		return profile.Profile{}, errors.New("nil db")
	}
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (profile.Profile, error) {
	if r == nil || r.db == nil {
		return profile.Profile{}, errors.New("nil db")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return profile.Profile{}, profile.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE username = $1`, username)
	return scanProfile(row)
}

func (r *ProfileRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("nil db")
	}
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1)`, strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r == nil || r.db == nil {
		return errors.New("nil db")
	}
	n, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.PasswordHash,
		&p.Email,
		&p.Phone,
		&p.BusinessName,
		&p.BusinessType,
		&p.BusinessDescription,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if pgdb.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	return p, nil
}

var _ profile.Repository = (*ProfileRepository)(nil)
