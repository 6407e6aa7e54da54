package migration

import (
	"context"
	"fmt"

	"payslip/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

var _ Migrator = (*MigrationRunner)(nil)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.1.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Statements lists the schema statements for driver in the order Run applies
// them. Drivers other than sqlite3 get the postgres dialect.
func Statements(driver string) []string {
	blobType, timeType := "BYTEA", "TIMESTAMP WITH TIME ZONE"
	if driver == "sqlite3" {
		blobType, timeType = "BLOB", "TIMESTAMP"
	}
	return []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS blobs (
			key TEXT PRIMARY KEY,
			content %s NOT NULL,
			revision VARCHAR(64) NOT NULL,
			size BIGINT NOT NULL DEFAULT 0,
			message TEXT,
			created_at %s DEFAULT CURRENT_TIMESTAMP,
			updated_at %s DEFAULT CURRENT_TIMESTAMP
		)
		`, blobType, timeType, timeType),
		"CREATE INDEX IF NOT EXISTS idx_blobs_updated_at ON blobs(updated_at DESC)",
	}
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range Statements(db.DriverName()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, fmt.Sprintf("failed to run migration %03d", i+1))
		}
	}
	return nil
}
