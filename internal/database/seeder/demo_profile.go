package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"captioncraft/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DemoProfileSeeder creates a ready-to-use account for local development. Existing usernames are left alone.
type DemoProfileSeeder struct {
	Username string
	Password string
}

func (DemoProfileSeeder) Name() string { return "demo_profile" }

func (s DemoProfileSeeder) Run(ctx context.Context, db database.DB) error {
	username := strings.TrimSpace(s.Username)
	if username == "" {
		username = "demo"
	}
	if len(s.Password) < 8 {
		return errors.New("demo password must be at least 8 characters")
	}

	if err := EnsureTableColumns(ctx, db, "profiles",
		"id", "username", "password_hash", "email", "phone",
		"business_name", "business_type", "business_description",
	); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	_, err = db.Exec(ctx, `
INSERT INTO profiles (id, username, password_hash, email, phone, business_name, business_type, business_description)
SELECT $1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text
WHERE NOT EXISTS (SELECT 1 FROM profiles WHERE username = $2::text)`,
		uuid.New(),
		username,
		string(hash),
		"demo@captioncraft.local",
		"5550000000",
		"Crumb & Co",
		"Food & Beverage",
		"Family-run sourdough bakery baking small batches every morning.",
	)
	if err != nil {
		return fmt.Errorf("insert demo profile: %w", err)
	}
	return nil
}
