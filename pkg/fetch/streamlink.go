package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/kasuboski/vodsync/pkg/logger"
)

const defaultQuality = "best"

// StreamlinkFetcher shells out to streamlink to save a stream to disk.
type StreamlinkFetcher struct {
	runner  Runner
	quality string
}

var _ Fetcher = (*StreamlinkFetcher)(nil)

func NewStreamlinkFetcher(runner Runner) *StreamlinkFetcher {
	return &StreamlinkFetcher{runner: runner, quality: defaultQuality}
}

// Fetch blocks until streamlink finishes writing destPath.
func (f *StreamlinkFetcher) Fetch(ctx context.Context, streamURL, destPath string) error {
	log := logger.FromCtx(ctx)
	log.Infow("fetching stream", "url", streamURL, "dest", destPath)

	err := f.runner.Run(ctx, "streamlink", "--output", destPath, streamURL, f.quality)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetchFailed, streamURL, err)
	}

	return nil
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ Runner = (*ExecRunner)(nil)

// Run executes the command and folds a tail of its stderr into the error so
// the abort message says what the tool complained about.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, tail(stderr.Bytes(), 512))
	}

	return nil
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(bytes.TrimSpace(b))
	}
	return string(bytes.TrimSpace(b[len(b)-n:]))
}
