package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error
}

// Migrations lists every schema change, oldest first.
var Migrations = []Migration{
	{Name: "create_cv_snapshots", Up: createSnapshots},
	{Name: "add_output_pdf_to_cv_snapshots", Up: addOutputPDF},
	{Name: "index_cv_snapshots_created_at", Up: indexCreatedAt},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("Starting database migrations")

	for _, m := range Migrations {
		if err := m.Up(ctx, pool, logger); err != nil {
			logger.Error("Migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		logger.Debug("Migration completed", zap.String("name", m.Name))
	}

	logger.Info("All migrations completed successfully", zap.Int("count", len(Migrations)))
	return nil
}

func createSnapshots(ctx context.Context, pool *pgxpool.Pool, _ *zap.Logger) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cv_snapshots (
			id          UUID PRIMARY KEY,
			target_url  TEXT NOT NULL,
			status      TEXT NOT NULL,
			output_html TEXT NOT NULL DEFAULT '',
			error       TEXT NOT NULL DEFAULT '',
			metadata    JSONB DEFAULT '{}'::jsonb,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

// addOutputPDF adds the output_pdf column to tables created before PDF export.
func addOutputPDF(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	query := `
		ALTER TABLE cv_snapshots
		ADD COLUMN IF NOT EXISTS output_pdf TEXT NOT NULL DEFAULT '';
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		// the column may already exist on older servers without IF NOT EXISTS
		logger.Warn("Error adding output_pdf column (may already exist)", zap.Error(err))
		return nil
	}
	return nil
}

func indexCreatedAt(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS cv_snapshots_created_at_idx ON cv_snapshots (created_at DESC);`); err != nil {
		logger.Warn("Error creating created_at index", zap.Error(err))
	}
	return nil
}
