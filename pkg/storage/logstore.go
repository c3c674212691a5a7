package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kasuboski/vodsync/pkg/io"
	"github.com/kasuboski/vodsync/pkg/logger"
	"github.com/kasuboski/vodsync/pkg/vod"
)

// LogStore persists the completion log, a JSON object mapping resolved
// program URLs to their downloaded episodes. It is the single source of
// download-completion truth.
type LogStore struct {
	fs   io.FileIO
	path string
}

// NewLogStore returns a LogStore backed by the file at path.
func NewLogStore(fs io.FileIO, path string) *LogStore {
	return &LogStore{fs: fs, path: path}
}

// Load reads the completion log, initializing the file to an empty mapping on
// first use.
func (s *LogStore) Load(ctx context.Context) (vod.Log, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.FromCtx(ctx).Infow("initializing empty download log", "path", s.path)
			if err := s.fs.WriteFile(s.path, []byte("{}"), 0o644); err != nil {
				return nil, fmt.Errorf("failed to initialize log %q: %w", s.path, err)
			}
			return vod.Log{}, nil
		}
		return nil, fmt.Errorf("failed to read log %q: %w", s.path, err)
	}

	var log vod.Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("log %q: %w: %v", s.path, ErrMalformed, err)
	}
	if log == nil {
		return nil, fmt.Errorf("log %q: %w: expected an object", s.path, ErrMalformed)
	}

	for url, rec := range log {
		if rec.URL == "" {
			rec.URL = url
			log[url] = rec
		}
	}

	return log, nil
}

// Save writes the full log, replacing the file in one operation. It is called
// exactly once per successful run; an aborted run never reaches it.
func (s *LogStore) Save(ctx context.Context, log vod.Log) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode log: %w", err)
	}

	if err := s.fs.Replace(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write log %q: %w", s.path, err)
	}

	logger.FromCtx(ctx).Debugw("persisted download log", "path", s.path, "programs", len(log))
	return nil
}
