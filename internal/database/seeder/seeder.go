// Package seeder loads fixture rows after migrations have run.
package seeder

import (
	"context"

	"captioncraft/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
