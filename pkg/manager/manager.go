package manager

import (
	"context"
	"fmt"

	"github.com/kasuboski/vodsync/pkg/io"
	"github.com/kasuboski/vodsync/pkg/library"
	"github.com/kasuboski/vodsync/pkg/logger"
	"github.com/kasuboski/vodsync/pkg/machine"
	"github.com/kasuboski/vodsync/pkg/vod"
	"golang.org/x/sync/errgroup"
)

// URLStore lists the tracked seed URLs.
type URLStore interface {
	Load(ctx context.Context) ([]string, error)
}

// LogStore reads and replaces the download completion log.
type LogStore interface {
	Load(ctx context.Context) (vod.Log, error)
	Save(ctx context.Context, log vod.Log) error
}

// Scraper resolves seeds into listing pages and scrapes them.
type Scraper interface {
	Resolve(ctx context.Context, seedURL string) ([]string, error)
	Scrape(ctx context.Context, url string) (vod.Status, error)
}

// Fetcher saves one stream to a local file.
type Fetcher interface {
	Fetch(ctx context.Context, streamURL, destPath string) error
}

// CrawlManager orchestrates one crawl run: resolve, scrape, select targets,
// download, and persist the log.
type CrawlManager struct {
	urls    URLStore
	log     LogStore
	scraper Scraper
	fetcher Fetcher
	fs      io.FileIO
}

func New(urls URLStore, log LogStore, scraper Scraper, fetcher Fetcher, fs io.FileIO) CrawlManager {
	return CrawlManager{
		urls:    urls,
		log:     log,
		scraper: scraper,
		fetcher: fetcher,
		fs:      fs,
	}
}

// Options configures one crawl run.
type Options struct {
	// DestDir is the root directory downloads land under.
	DestDir string
	// Concurrency bounds the resolve/scrape fan-out; zero means unbounded.
	Concurrency int
	// DryRun stops the run after target computation.
	DryRun bool
}

// Target is one episode selected for download.
type Target struct {
	Program vod.ProgramID
	Episode vod.VOD
}

// Result reports what a run selected and did.
type Result struct {
	Targets    []Target
	Downloaded int
	DryRun     bool
}

// programTargets keeps a program's selection together so downloads and the
// log merge stay grouped per resolved URL.
type programTargets struct {
	id      vod.ProgramID
	targets []vod.VOD
}

// Crawl executes the full pipeline. The first error anywhere aborts the run;
// an aborted run never writes the log.
func (m CrawlManager) Crawl(ctx context.Context, opts Options) (*Result, error) {
	log := logger.FromCtx(ctx)
	run := newRunMachine()

	prior, err := m.log.Load(ctx)
	if err != nil {
		return nil, err
	}

	seeds, err := m.urls.Load(ctx)
	if err != nil {
		return nil, err
	}
	log.Infow("starting crawl", "seeds", len(seeds), "dryRun", opts.DryRun)

	if err := run.Transition(StateResolvingURLs); err != nil {
		return nil, err
	}
	pages, err := m.resolveAll(ctx, seeds, opts.Concurrency)
	if err != nil {
		return nil, m.abort(ctx, run, err)
	}

	if err := run.Transition(StateScrapingMetadata); err != nil {
		return nil, err
	}
	statuses, err := m.scrapeAll(ctx, pages, opts.Concurrency)
	if err != nil {
		return nil, m.abort(ctx, run, err)
	}

	if err := run.Transition(StateComputingTargets); err != nil {
		return nil, err
	}
	selected := computeTargets(statuses, prior)

	result := &Result{DryRun: opts.DryRun}
	for _, pt := range selected {
		for _, t := range pt.targets {
			result.Targets = append(result.Targets, Target{Program: pt.id, Episode: t})
		}
	}
	log.Infow("computed targets", "episodes", len(result.Targets))

	if opts.DryRun {
		return result, run.Transition(StateIdle)
	}

	if err := run.Transition(StateDownloading); err != nil {
		return nil, err
	}
	merged := prior
	for _, pt := range selected {
		downloaded, err := m.downloadProgram(ctx, pt, opts.DestDir)
		if err != nil {
			return nil, m.abort(ctx, run, err)
		}

		result.Downloaded += len(downloaded)
		merged = vod.Merge(merged, pt.id, downloaded)
	}

	if err := run.Transition(StatePersistingLog); err != nil {
		return nil, err
	}
	if err := m.log.Save(ctx, merged); err != nil {
		return nil, err
	}

	log.Infow("crawl finished", "downloaded", result.Downloaded)
	return result, run.Transition(StateIdle)
}

// resolveAll expands every seed concurrently, keeping seed order in the
// flattened output.
func (m CrawlManager) resolveAll(ctx context.Context, seeds []string, limit int) ([]string, error) {
	resolved := make([][]string, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, seed := range seeds {
		g.Go(func() error {
			pages, err := m.scraper.Resolve(gctx, seed)
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", seed, err)
			}
			resolved[i] = pages
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pages []string
	for _, r := range resolved {
		pages = append(pages, r...)
	}
	return pages, nil
}

// scrapeAll scrapes every resolved listing page concurrently, keeping page
// order in the output.
func (m CrawlManager) scrapeAll(ctx context.Context, pages []string, limit int) ([]vod.Status, error) {
	statuses := make([]vod.Status, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, page := range pages {
		g.Go(func() error {
			status, err := m.scraper.Scrape(gctx, page)
			if err != nil {
				return fmt.Errorf("failed to scrape %q: %w", page, err)
			}
			statuses[i] = status
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// computeTargets selects the free, not-yet-downloaded episodes per program.
func computeTargets(statuses []vod.Status, prior vod.Log) []programTargets {
	selected := make([]programTargets, 0, len(statuses))
	for _, status := range statuses {
		selected = append(selected, programTargets{
			id:      status.ProgramID,
			targets: vod.SelectTargets(status, prior[status.URL]),
		})
	}
	return selected
}

// downloadProgram fetches a program's targets strictly in order, returning
// the episodes that finished.
func (m CrawlManager) downloadProgram(ctx context.Context, pt programTargets, destDir string) ([]vod.Episode, error) {
	if len(pt.targets) == 0 {
		return nil, nil
	}

	if err := m.fs.MkdirAll(library.ProgramDir(destDir, pt.id.Title), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create program directory for %q: %w", pt.id.Title, err)
	}

	log := logger.FromCtx(ctx, "program", pt.id.Title)

	var downloaded []vod.Episode
	for _, t := range pt.targets {
		dest := library.EpisodePath(destDir, pt.id.Title, t.Subtitle, t.VideoURL)
		if err := m.fetcher.Fetch(ctx, t.VideoURL, dest); err != nil {
			return nil, err
		}

		downloaded = append(downloaded, t.Episode)
		log.Infow("downloaded episode", "video", t.VideoURL, "dest", dest)
	}

	return downloaded, nil
}

// abort moves the run to Aborted when the current phase allows it and hands
// the failure back for the caller to surface.
func (m CrawlManager) abort(ctx context.Context, run *machine.StateMachine[RunState], err error) error {
	if terr := run.Transition(StateAborted); terr != nil {
		logger.FromCtx(ctx).Warnw("abort from unexpected state", "error", terr)
	}

	logger.FromCtx(ctx).Errorw("run aborted", "error", err)
	return err
}
