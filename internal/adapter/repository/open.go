// Package repository stores snapshot runs in Postgres, SQLite or memory.
package repository

import (
	"context"
	"fmt"
	"strings"

	"cv-site/internal/domain"
	"cv-site/internal/infrastructure/migration"
	"cv-site/pkg/infrastructure"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is implemented by every snapshot repository.
type Store interface {
	Save(ctx context.Context, s *domain.Snapshot) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Snapshot, error)
	List(ctx context.Context, limit int) ([]*domain.Snapshot, error)
	Close() error
}

// Open picks a backend from the DSN: postgres:// or postgresql:// use pgx,
// sqlite:// or a *.db path use SQLite, and an empty DSN keeps snapshots in
// memory.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case dsn == "":
		logger.Info("snapshot storage: memory")
		return NewMemoryRepo(), nil

	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		pool, err := infrastructure.NewSnapshotsPool(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migration.RunMigrations(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("snapshot storage: postgres")
		return NewSnapshotsRepo(pool), nil

	case strings.HasPrefix(dsn, "sqlite://"), strings.HasSuffix(dsn, ".db"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		repo, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		logger.Info("snapshot storage: sqlite", zap.String("path", path))
		return repo, nil
	}
	return nil, fmt.Errorf("unsupported database url %q", dsn)
}
