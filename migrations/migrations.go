package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

var gooseUp = goose.UpContext

// Up applies every embedded migration that has not run yet.
func Up(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migrations - Up - goose.SetDialect: %w", err)
	}

	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations - Up - goose.UpContext: %w", err)
	}

	return nil
}
