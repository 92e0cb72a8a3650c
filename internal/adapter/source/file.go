// Package source fetches the raw CV XML from disk or over HTTP.
package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the document from a local path on every Fetch.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read cv source %s: %w", s.Path, err)
	}
	return data, nil
}

func (s *FileSource) String() string { return "file:" + s.Path }
