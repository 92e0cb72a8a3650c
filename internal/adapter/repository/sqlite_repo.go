package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cv-site/internal/domain"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cv_snapshots (
	id          TEXT PRIMARY KEY,
	target_url  TEXT NOT NULL,
	status      TEXT NOT NULL,
	output_html TEXT NOT NULL DEFAULT '',
	output_pdf  TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	metadata    TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
)`

// sqliteTime is fixed-width so that text ordering matches time ordering.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteRepo persists snapshots in a local SQLite file.
type SQLiteRepo struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cv_snapshots: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Save(ctx context.Context, s *domain.Snapshot) error {
	metaB, err := json.Marshal(s.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO cv_snapshots (id, target_url, status, output_html, output_pdf, error, metadata, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET status = excluded.status, output_html = excluded.output_html, output_pdf = excluded.output_pdf, error = excluded.error, metadata = excluded.metadata, updated_at = excluded.updated_at`,
		s.ID.String(), s.TargetURL, string(s.Status), s.OutputHTML, s.OutputPDF, s.Error, string(metaB),
		s.CreatedAt.UTC().Format(sqliteTime), s.UpdatedAt.UTC().Format(sqliteTime))
	return err
}

func (r *SQLiteRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, target_url, status, output_html, output_pdf, error, metadata, created_at, updated_at
		FROM cv_snapshots WHERE id = ?`, id.String())
	s, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// List returns up to limit snapshots, newest first; limit <= 0 means all.
func (r *SQLiteRepo) List(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, target_url, status, output_html, output_pdf, error, metadata, created_at, updated_at
		FROM cv_snapshots ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Snapshot
	for rows.Next() {
		s, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (*domain.Snapshot, error) {
	var (
		s                domain.Snapshot
		id, status, meta string
		created, updated string
	)
	if err := row.Scan(&id, &s.TargetURL, &status, &s.OutputHTML, &s.OutputPDF, &s.Error, &meta, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("bad snapshot id %q: %w", id, err)
	}
	s.Status = domain.SnapshotStatus(status)
	if s.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = time.Parse(sqliteTime, updated); err != nil {
		return nil, err
	}
	if err := decodeMetadata([]byte(meta), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
