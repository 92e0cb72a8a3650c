package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cv-site/internal/domain"
	"cv-site/internal/view"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	mu        sync.Mutex
	page      string
	htmlFails int
	pdf       []byte
	pdfErr    error
	calls     int
}

func (f *fakeCapturer) CaptureHTML(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.htmlFails {
		return "", errors.New("chrome crashed")
	}
	if f.page != "" {
		return f.page, nil
	}
	return capturedPage, nil
}

func (f *fakeCapturer) PrintPDF(ctx context.Context, url string) ([]byte, error) {
	return f.pdf, f.pdfErr
}

type recordingRepo struct {
	mu       sync.Mutex
	statuses []domain.SnapshotStatus
	last     map[uuid.UUID]domain.Snapshot
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{last: map[uuid.UUID]domain.Snapshot{}}
}

func (r *recordingRepo) Save(_ context.Context, s *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s.Status)
	c := *s
	c.Metadata = map[string]interface{}{}
	for k, v := range s.Metadata {
		c.Metadata[k] = v
	}
	r.last[s.ID] = c
	return nil
}

func (r *recordingRepo) Get(_ context.Context, id uuid.UUID) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.last[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &s, nil
}

func (r *recordingRepo) List(_ context.Context, limit int) ([]*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Snapshot
	for _, s := range r.last {
		c := s
		out = append(out, &c)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newProcessor(t *testing.T, c Capturer, repo SnapshotRepo, pdf bool) (*SnapshotProcessor, string) {
	dir := t.TempDir()
	opts := SnapshotOptions{
		OutputDir:   dir,
		PDF:         pdf,
		Attempts:    3,
		Backoff:     time.Millisecond,
		PostProcess: ppOptions(),
	}
	return NewSnapshotProcessor(c, repo, opts, nil), dir
}

func TestSnapshotProcessor_RetriesAndWrites(t *testing.T) {
	repo := newRecordingRepo()
	p, dir := newProcessor(t, &fakeCapturer{htmlFails: 2, pdf: []byte("%PDF-1.7 ...")}, repo, true)

	snap := domain.NewSnapshot("http://localhost:8080")
	require.NoError(t, p.Process(context.Background(), snap))

	assert.Equal(t, domain.StatusCompleted, snap.Status)
	assert.Equal(t, 3, snap.Metadata["capture_attempts"])
	assert.Equal(t, filepath.Join(dir, "index.html"), snap.OutputHTML)
	assert.Equal(t, filepath.Join(dir, "cv.pdf"), snap.OutputPDF)

	html, err := os.ReadFile(snap.OutputHTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), `<base href="/Resume/">`)
	assert.Contains(t, string(html), "og:title")

	assert.Equal(t, []domain.SnapshotStatus{domain.StatusRunning, domain.StatusCompleted}, repo.statuses)
}

func TestSnapshotProcessor_InvalidPDFIsNonFatal(t *testing.T) {
	p, dir := newProcessor(t, &fakeCapturer{pdf: []byte("<html>")}, nil, true)

	snap := domain.NewSnapshot("http://localhost:8080")
	require.NoError(t, p.Process(context.Background(), snap))
	assert.Equal(t, domain.StatusCompleted, snap.Status)
	assert.Empty(t, snap.OutputPDF)
	assert.Contains(t, snap.Metadata["pdf_render_error"], "invalid PDF output")
	_, err := os.Stat(filepath.Join(dir, "cv.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSnapshotProcessor_CaptureFails(t *testing.T) {
	repo := newRecordingRepo()
	p, _ := newProcessor(t, &fakeCapturer{htmlFails: 10}, repo, false)

	snap := domain.NewSnapshot("http://localhost:8080")
	err := p.Process(context.Background(), snap)
	assert.ErrorContains(t, err, "capture failed after 3 attempts")
	assert.Equal(t, domain.StatusFailed, snap.Status)
	assert.Contains(t, snap.Error, "chrome crashed")
	assert.Equal(t, domain.StatusFailed, repo.statuses[len(repo.statuses)-1])
}

func TestSnapshotProcessor_Cancelled(t *testing.T) {
	c := &fakeCapturer{htmlFails: 10}
	p := NewSnapshotProcessor(c, nil, SnapshotOptions{OutputDir: t.TempDir(), Backoff: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := p.Process(ctx, domain.NewSnapshot("http://x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotProcessor_StartInBackground(t *testing.T) {
	repo := newRecordingRepo()
	p, _ := newProcessor(t, &fakeCapturer{}, repo, false)

	started := p.Start(context.Background(), "http://localhost:8080")
	assert.Equal(t, domain.StatusPending, started.Status)
	p.Wait()

	got, err := p.Get(context.Background(), started.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.NotEmpty(t, got.OutputHTML)
}

func TestSnapshotProcessor_ErrorPageFails(t *testing.T) {
	r, err := view.New()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, view.Page{Error: "boom"}))

	repo := newRecordingRepo()
	p, dir := newProcessor(t, &fakeCapturer{page: buf.String()}, repo, false)

	snap := domain.NewSnapshot("http://localhost:8080")
	err = p.Process(context.Background(), snap)
	assert.ErrorIs(t, err, ErrErrorPage)
	assert.Equal(t, domain.StatusFailed, snap.Status)
	assert.Empty(t, snap.OutputHTML)
	assert.Equal(t, domain.StatusFailed, repo.statuses[len(repo.statuses)-1])

	_, err = os.Stat(filepath.Join(dir, "index.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// countingCapturer returns a distinct page per call and records how many
// captures overlapped.
type countingCapturer struct {
	inflight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (c *countingCapturer) CaptureHTML(ctx context.Context, url string) (string, error) {
	n := c.inflight.Add(1)
	defer c.inflight.Add(-1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	call := c.calls.Add(1)
	return strings.Replace(capturedPage, "<main class=\"cv\">", fmt.Sprintf("<main class=\"cv\">job %d", call), 1), nil
}

func (c *countingCapturer) PrintPDF(ctx context.Context, url string) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

func TestSnapshotProcessor_ConcurrentJobsRunOneAtATime(t *testing.T) {
	c := &countingCapturer{}
	repo := newRecordingRepo()
	p, dir := newProcessor(t, c, repo, true)

	a := p.Start(context.Background(), "http://localhost:8080")
	b := p.Start(context.Background(), "http://localhost:8080")
	p.Wait()

	assert.EqualValues(t, 1, c.peak.Load())
	assert.EqualValues(t, 2, c.calls.Load())
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		got, err := p.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, got.Status)
	}

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "job 2")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"index.html", "cv.pdf"}, names)
}
