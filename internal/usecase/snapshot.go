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
	"time"

	"cv-site/internal/domain"
	"cv-site/internal/view"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Capturer drives a browser against the live page.
type Capturer interface {
	CaptureHTML(ctx context.Context, url string) (string, error)
	PrintPDF(ctx context.Context, url string) ([]byte, error)
}

type SnapshotRepo interface {
	Save(ctx context.Context, s *domain.Snapshot) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Snapshot, error)
	List(ctx context.Context, limit int) ([]*domain.Snapshot, error)
}

type SnapshotOptions struct {
	OutputDir string
	PDF       bool
	Attempts  int
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff     time.Duration
	PostProcess PostProcessOptions
}

const (
	htmlFileName = "index.html"
	pdfFileName  = "cv.pdf"
)

// ErrErrorPage is returned when the captured page is the failed-load page.
var ErrErrorPage = errors.New("captured page reports a failed cv load")

// SnapshotProcessor captures the page, post-processes it and writes the
// static artifacts, recording progress on the snapshot.
type SnapshotProcessor struct {
	capturer Capturer
	repo     SnapshotRepo
	opts     SnapshotOptions
	logger   *zap.Logger

	// mu serializes jobs; they all publish to the same output files.
	mu sync.Mutex
	wg sync.WaitGroup
}

func NewSnapshotProcessor(c Capturer, repo SnapshotRepo, opts SnapshotOptions, logger *zap.Logger) *SnapshotProcessor {
	if opts.Attempts < 1 {
		opts.Attempts = 3
	}
	if opts.Backoff == 0 {
		opts.Backoff = time.Second
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotProcessor{capturer: c, repo: repo, opts: opts, logger: logger}
}

// Start persists a pending snapshot of url and processes it in the
// background under ctx. The returned value is a copy taken before work began.
func (p *SnapshotProcessor) Start(ctx context.Context, url string) domain.Snapshot {
	snap := domain.NewSnapshot(url)
	p.save(ctx, snap, p.logger)
	started := *snap
	started.Metadata = map[string]interface{}{}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.Process(ctx, snap); err != nil {
			p.logger.Error("snapshot job failed", zap.String("snapshot", snap.ID.String()), zap.Error(err))
		}
	}()
	return started
}

// Wait blocks until every job launched by Start has finished.
func (p *SnapshotProcessor) Wait() {
	p.wg.Wait()
}

// Get looks a snapshot up in the repository.
func (p *SnapshotProcessor) Get(ctx context.Context, id uuid.UUID) (*domain.Snapshot, error) {
	if p.repo == nil {
		return nil, fmt.Errorf("snapshot %s: no repository configured", id)
	}
	return p.repo.Get(ctx, id)
}

// List returns up to limit snapshots, newest first.
func (p *SnapshotProcessor) List(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	if p.repo == nil {
		return nil, nil
	}
	return p.repo.List(ctx, limit)
}

// Process runs the whole pipeline for snap. A PDF failure is recorded in
// the metadata but does not fail the snapshot. Concurrent calls run one at
// a time.
func (p *SnapshotProcessor) Process(ctx context.Context, snap *domain.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := p.logger.With(zap.String("snapshot", snap.ID.String()), zap.String("url", snap.TargetURL))
	if snap.Metadata == nil {
		snap.Metadata = map[string]interface{}{}
	}

	snap.Status = domain.StatusRunning
	p.save(ctx, snap, log)

	page, attempts, err := retry(ctx, p.opts.Attempts, p.opts.Backoff, log, "capture", func(ctx context.Context) (string, error) {
		return p.capturer.CaptureHTML(ctx, snap.TargetURL)
	})
	snap.Metadata["capture_attempts"] = attempts
	if err != nil {
		return p.fail(ctx, snap, log, fmt.Errorf("capture %s: %w", snap.TargetURL, err))
	}
	if strings.Contains(page, view.ErrorMarker) {
		return p.fail(ctx, snap, log, fmt.Errorf("capture %s: %w", snap.TargetURL, ErrErrorPage))
	}

	pp := p.opts.PostProcess
	if pp.GeneratedAt.IsZero() {
		pp.GeneratedAt = time.Now()
	}
	out := PostProcess(page, pp)

	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return p.fail(ctx, snap, log, err)
	}
	htmlPath := filepath.Join(p.opts.OutputDir, htmlFileName)
	if err := writeFileAtomic(htmlPath, []byte(out)); err != nil {
		return p.fail(ctx, snap, log, err)
	}
	snap.OutputHTML = htmlPath
	snap.Metadata["html_bytes"] = len(out)
	log.Info("snapshot html written", zap.String("path", htmlPath), zap.Int("bytes", len(out)))

	if p.opts.PDF {
		p.writePDF(ctx, snap, log)
	}

	snap.Status = domain.StatusCompleted
	snap.UpdatedAt = time.Now().UTC()
	if p.repo != nil {
		if err := p.repo.Save(ctx, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}
	return nil
}

func (p *SnapshotProcessor) writePDF(ctx context.Context, snap *domain.Snapshot, log *zap.Logger) {
	pdf, _, err := retry(ctx, p.opts.Attempts, p.opts.Backoff, log, "pdf", func(ctx context.Context) ([]byte, error) {
		b, err := p.capturer.PrintPDF(ctx, snap.TargetURL)
		if err != nil {
			return nil, err
		}
		if !bytes.HasPrefix(b, []byte("%PDF")) {
			return nil, fmt.Errorf("invalid PDF output (len=%d)", len(b))
		}
		return b, nil
	})
	if err == nil {
		path := filepath.Join(p.opts.OutputDir, pdfFileName)
		if err = writeFileAtomic(path, pdf); err == nil {
			snap.OutputPDF = path
			snap.Metadata["pdf_bytes"] = len(pdf)
			return
		}
	}
	log.Warn("pdf export failed", zap.Error(err))
	snap.Metadata["pdf_render_error"] = err.Error()
}

func (p *SnapshotProcessor) fail(ctx context.Context, snap *domain.Snapshot, log *zap.Logger, err error) error {
	snap.Status = domain.StatusFailed
	snap.Error = err.Error()
	log.Error("snapshot failed", zap.Error(err))
	p.save(context.WithoutCancel(ctx), snap, log)
	return err
}

// writeFileAtomic replaces path so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// save persists intermediate states; failures are logged and ignored.
func (p *SnapshotProcessor) save(ctx context.Context, snap *domain.Snapshot, log *zap.Logger) {
	snap.UpdatedAt = time.Now().UTC()
	if p.repo == nil {
		return
	}
	if err := p.repo.Save(ctx, snap); err != nil {
		log.Warn("failed to save snapshot", zap.Error(err))
	}
}

// retry calls fn up to attempts times with exponential backoff and reports
// how many attempts were made.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, log *zap.Logger, what string, fn func(context.Context) (T, error)) (T, int, error) {
	var (
		zero    T
		lastErr error
	)
	for i := 0; i < attempts; i++ {
		v, err := fn(ctx)
		if err == nil {
			return v, i + 1, nil
		}
		lastErr = err
		log.Warn(what+" attempt failed", zap.Int("attempt", i+1), zap.Error(err))

		if i < attempts-1 {
			select {
			case <-time.After(time.Duration(1<<i) * backoff):
			case <-ctx.Done():
				return zero, i + 1, ctx.Err()
			}
		}
	}
	return zero, attempts, fmt.Errorf("%s failed after %d attempts: %w", what, attempts, lastErr)
}
