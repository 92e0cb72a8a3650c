package repository

import (
	"context"
	"sort"
	"sync"

	"cv-site/internal/domain"

	"github.com/google/uuid"
)

// MemoryRepo keeps snapshots for the lifetime of the process.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Snapshot
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[uuid.UUID]domain.Snapshot)}
}

func (r *MemoryRepo) Save(_ context.Context, s *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = clone(s)
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, id uuid.UUID) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(&s)
	return &c, nil
}

func (r *MemoryRepo) List(_ context.Context, limit int) ([]*domain.Snapshot, error) {
	r.mu.RLock()
	out := make([]*domain.Snapshot, 0, len(r.items))
	for _, s := range r.items {
		c := clone(&s)
		out = append(out, &c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Close() error { return nil }

// clone copies the metadata map so callers cannot mutate stored state.
func clone(s *domain.Snapshot) domain.Snapshot {
	c := *s
	c.Metadata = make(map[string]interface{}, len(s.Metadata))
	for k, v := range s.Metadata {
		c.Metadata[k] = v
	}
	return c
}
