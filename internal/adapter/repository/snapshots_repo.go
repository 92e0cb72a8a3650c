package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cv-site/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrNotFound is returned by Get when no snapshot has the given id.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotsRepo persists snapshots in Postgres.
type SnapshotsRepo struct {
	pool *pgxpool.Pool
}

func NewSnapshotsRepo(pool *pgxpool.Pool) *SnapshotsRepo {
	return &SnapshotsRepo{pool: pool}
}

func (r *SnapshotsRepo) Save(ctx context.Context, s *domain.Snapshot) error {
	metaB, err := json.Marshal(s.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO cv_snapshots (id, target_url, status, output_html, output_pdf, error, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, output_html = EXCLUDED.output_html, output_pdf = EXCLUDED.output_pdf, error = EXCLUDED.error, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		s.ID, s.TargetURL, string(s.Status), s.OutputHTML, s.OutputPDF, s.Error, metaB, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *SnapshotsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Snapshot, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, target_url, status, output_html, output_pdf, error, metadata, created_at, updated_at
		FROM cv_snapshots WHERE id = $1`, id)

	var (
		s      domain.Snapshot
		status string
		metaB  []byte
	)
	err := row.Scan(&s.ID, &s.TargetURL, &status, &s.OutputHTML, &s.OutputPDF, &s.Error, &metaB, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Status = domain.SnapshotStatus(status)
	if err := decodeMetadata(metaB, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns up to limit snapshots, newest first; limit <= 0 means all.
func (r *SnapshotsRepo) List(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	var lim interface{} = limit
	if limit <= 0 {
		lim = nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, target_url, status, output_html, output_pdf, error, metadata, created_at, updated_at
		FROM cv_snapshots ORDER BY created_at DESC LIMIT $1`, lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Snapshot
	for rows.Next() {
		var (
			s      domain.Snapshot
			status string
			metaB  []byte
		)
		if err := rows.Scan(&s.ID, &s.TargetURL, &status, &s.OutputHTML, &s.OutputPDF, &s.Error, &metaB, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Status = domain.SnapshotStatus(status)
		if err := decodeMetadata(metaB, &s); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SnapshotsRepo) Close() error {
	r.pool.Close()
	return nil
}

func decodeMetadata(b []byte, s *domain.Snapshot) error {
	s.Metadata = map[string]interface{}{}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, &s.Metadata); err != nil {
		return fmt.Errorf("decode metadata for %s: %w", s.ID, err)
	}
	return nil
}
