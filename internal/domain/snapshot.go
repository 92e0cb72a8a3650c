package domain

import (
	"time"

	"github.com/google/uuid"
)

type SnapshotStatus string

const (
	StatusPending   SnapshotStatus = "pending"
	StatusRunning   SnapshotStatus = "running"
	StatusCompleted SnapshotStatus = "completed"
	StatusFailed    SnapshotStatus = "failed"
)

// Snapshot is one run of the static export pipeline.
type Snapshot struct {
	ID         uuid.UUID              `json:"id"`
	TargetURL  string                 `json:"target_url"`
	Status     SnapshotStatus         `json:"status"`
	OutputHTML string                 `json:"output_html,omitempty"`
	OutputPDF  string                 `json:"output_pdf,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

func NewSnapshot(targetURL string) *Snapshot {
	now := time.Now().UTC()
	return &Snapshot{
		ID:        uuid.New(),
		TargetURL: targetURL,
		Status:    StatusPending,
		Metadata:  map[string]interface{}{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Done reports whether the snapshot reached a terminal status.
func (s *Snapshot) Done() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}
