package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures the chrome session.
type Options struct {
	// ExecPath overrides the browser binary; empty means chromedp's lookup.
	ExecPath  string
	Headless  bool
	UserAgent string
}

// ChromeSession drives a headless chrome process via chromedp. Every page is
// its own tab context sharing the one browser process.
type ChromeSession struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
}

var _ Session = (*ChromeSession)(nil)

// NewChromeSession starts a browser and returns a session handle. Close must
// be called to tear the browser down, including on aborted runs.
func NewChromeSession(ctx context.Context, opts Options) (*ChromeSession, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(ua),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Starts the browser process up front so a missing binary fails here
	// instead of inside the first scrape.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromeSession{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{browserCancel, allocCancel},
	}, nil
}

// NewPage opens a fresh tab.
func (s *ChromeSession) NewPage(_ context.Context) (Page, error) {
	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	return &chromePage{ctx: tabCtx, cancel: cancel}, nil
}

// Close tears down every tab and the browser process.
func (s *ChromeSession) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
}

type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

var _ Page = (*chromePage)(nil)

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %q: %w", url, err)
	}
	return nil
}

func (p *chromePage) WaitVisible(ctx context.Context, selector string) error {
	if err := p.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("selector %q never became visible: %w", selector, err)
	}
	return nil
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}
	return html, nil
}

func (p *chromePage) ScrollToBottom(ctx context.Context) error {
	err := p.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
	if err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

func (p *chromePage) Height(ctx context.Context) (int64, error) {
	var height int64
	if err := p.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
		return 0, fmt.Errorf("failed to measure page height: %w", err)
	}
	return height, nil
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}

// run executes actions on the tab context while honoring cancellation of the
// caller's context.
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(p.ctx, actions...)
	}()

	select {
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	case err := <-done:
		return err
	}
}
