package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kasuboski/vodsync/pkg/browser"
	"github.com/kasuboski/vodsync/pkg/logger"
	"github.com/kasuboski/vodsync/pkg/vod"
)

var (
	// ErrMissingField indicates a required piece of page content was absent,
	// such as an episode node without a video link.
	ErrMissingField = errors.New("required page content missing")
)

const defaultScrollInterval = 500 * time.Millisecond

// Scraper resolves seed URLs into their listing pages and extracts episode
// listings from them. Every operation drives its own page context, so one
// Scraper may serve many URLs concurrently.
type Scraper struct {
	session        browser.Session
	freeLabel      string
	scrollInterval time.Duration
	selectors      Selectors
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithScrollInterval sets the pause between scroll/measure cycles.
func WithScrollInterval(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.scrollInterval = d
		}
	}
}

// WithSelectors overrides the page selectors.
func WithSelectors(sel Selectors) Option {
	return func(s *Scraper) {
		s.selectors = sel
	}
}

// New returns a Scraper using the given browser session. freeLabel is the
// platform's literal no-payment label; episodes carrying any other label are
// treated as paid.
func New(session browser.Session, freeLabel string, opts ...Option) *Scraper {
	s := &Scraper{
		session:        session,
		freeLabel:      freeLabel,
		scrollInterval: defaultScrollInterval,
		selectors:      DefaultSelectors(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Resolve expands one seed URL into the URLs of all listing pages belonging
// to the same program. Without tab navigation the seed is the only page;
// with it the seed comes first, then each tab target in document order.
func (s *Scraper) Resolve(ctx context.Context, seedURL string) ([]string, error) {
	log := logger.FromCtx(ctx, "seed", seedURL)

	page, err := s.session.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open page for %q: %w", seedURL, err)
	}
	defer page.Close()

	if err := page.Navigate(ctx, seedURL); err != nil {
		return nil, err
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}

	tabs, err := parseTabs(html, seedURL, s.selectors)
	if err != nil {
		return nil, err
	}

	log.Debugw("resolved seed", "pages", len(tabs)+1)
	return append([]string{seedURL}, tabs...), nil
}

// Scrape drives the listing at url to completion and extracts the program
// title and every episode on it.
func (s *Scraper) Scrape(ctx context.Context, url string) (vod.Status, error) {
	log := logger.FromCtx(ctx, "url", url)

	page, err := s.session.NewPage(ctx)
	if err != nil {
		return vod.Status{}, fmt.Errorf("failed to open page for %q: %w", url, err)
	}
	defer page.Close()

	if err := page.Navigate(ctx, url); err != nil {
		return vod.Status{}, err
	}

	for _, selector := range []string{s.selectors.Episode, s.selectors.PriceLabel} {
		if err := page.WaitVisible(ctx, selector); err != nil {
			return vod.Status{}, err
		}
	}

	if err := s.scrollUntilStable(ctx, page); err != nil {
		return vod.Status{}, err
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return vod.Status{}, err
	}

	status, err := parseListing(html, url, s.freeLabel, s.selectors)
	if err != nil {
		return vod.Status{}, err
	}

	log.Infow("scraped program", "title", status.Title, "episodes", len(status.Episodes))
	return status, nil
}

// scrollUntilStable repeatedly scrolls to the bottom so the lazy-loaded
// listing keeps extending, and stops once two consecutive height measurements
// agree. There is deliberately no cycle cap: a page that keeps growing keeps
// the loop alive.
func (s *Scraper) scrollUntilStable(ctx context.Context, page browser.Page) error {
	var prev int64 = -1
	for {
		if err := page.ScrollToBottom(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.scrollInterval):
		}

		height, err := page.Height(ctx)
		if err != nil {
			return err
		}

		if height == prev {
			return nil
		}
		prev = height
	}
}
