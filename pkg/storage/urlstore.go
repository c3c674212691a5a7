package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kasuboski/vodsync/pkg/io"
	"github.com/kasuboski/vodsync/pkg/logger"
)

// URLStore persists the ordered list of tracked program seed URLs as a JSON
// array of strings.
type URLStore struct {
	fs   io.FileIO
	path string
}

// NewURLStore returns a URLStore backed by the file at path.
func NewURLStore(fs io.FileIO, path string) *URLStore {
	return &URLStore{fs: fs, path: path}
}

// Load reads the seed URLs in stored order. A missing file is an empty store.
func (s *URLStore) Load(ctx context.Context) ([]string, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.FromCtx(ctx).Debugw("url store does not exist yet", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read url store %q: %w", s.path, err)
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("url store %q: %w: %v", s.path, ErrMalformed, err)
	}

	return urls, nil
}

// Add prepends url to the store, preserving the relative order of the
// existing entries, and writes the store back in one replacement.
func (s *URLStore) Add(ctx context.Context, url string) error {
	urls, err := s.Load(ctx)
	if err != nil {
		return err
	}

	urls = append([]string{url}, urls...)

	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode url store: %w", err)
	}

	if err := s.fs.Replace(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write url store %q: %w", s.path, err)
	}

	logger.FromCtx(ctx).Infow("added url", "url", url, "total", len(urls))
	return nil
}
