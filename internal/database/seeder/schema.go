package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"captioncraft/internal/database"
)

// EnsureTableColumns fails when table lacks any of columns, naming every missing one.
func EnsureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return errors.New("nil db")
	}
	if strings.TrimSpace(table) == "" {
		return errors.New("empty table")
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return missingColumns(table, existing, columns)
}

func missingColumns(table string, existing map[string]struct{}, want []string) error {
	var missing []string
	for _, col := range want {
		if col == "" {
			return errors.New("empty column")
		}
		if _, ok := existing[col]; !ok {
			missing = append(missing, table+"."+col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}
