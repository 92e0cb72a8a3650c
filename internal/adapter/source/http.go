package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxDocumentSize bounds how much of a response body is read.
const maxDocumentSize = 8 << 20

var ErrDocumentTooLarge = errors.New("cv document exceeds 8 MiB")

// HTTPSource GETs the document from a URL, retrying transport errors and
// 5xx responses with exponential backoff.
type HTTPSource struct {
	URL      string
	HTTP     *http.Client
	Attempts int
	// Backoff is the first retry delay; it doubles on every attempt.
	Backoff time.Duration
	logger  *zap.Logger
}

func NewHTTPSource(url string, timeout time.Duration, attempts int, logger *zap.Logger) *HTTPSource {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		URL:      url,
		HTTP:     &http.Client{Timeout: timeout},
		Attempts: attempts,
		Backoff:  time.Second,
		logger:   logger,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for i := 0; i < s.Attempts; i++ {
		data, retry, err := s.get(ctx)
		if err == nil {
			return data, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("cv fetch failed", zap.String("url", s.URL), zap.Int("attempt", i+1), zap.Error(err))

		if i < s.Attempts-1 {
			backoff := time.Duration(1<<i) * s.Backoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("fetch %s after %d attempts: %w", s.URL, s.Attempts, lastErr)
}

// get performs a single request and reports whether a failure is retryable.
func (s *HTTPSource) get(ctx context.Context) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("cv source returned status %d", resp.StatusCode)
		return nil, resp.StatusCode >= 500, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, true, err
	}
	if len(data) > maxDocumentSize {
		return nil, false, fmt.Errorf("%w: %s is larger than %d bytes", ErrDocumentTooLarge, s.URL, maxDocumentSize)
	}
	return data, false, nil
}

func (s *HTTPSource) String() string { return s.URL }
