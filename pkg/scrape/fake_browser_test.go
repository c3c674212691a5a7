package scrape

import (
	"context"
	"errors"
	"sync"

	"github.com/kasuboski/vodsync/pkg/browser"
)

// fakeSession hands out fakePages keyed by the URL navigated to. It stands in
// for a real browser so scraping logic is tested without one.
type fakeSession struct {
	mu     sync.Mutex
	pages  map[string]*fakePage
	opened int
	closed bool
}

func newFakeSession(pages map[string]*fakePage) *fakeSession {
	return &fakeSession{pages: pages}
}

func (s *fakeSession) NewPage(_ context.Context) (browser.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened++
	return &sessionPage{session: s}, nil
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// sessionPage proxies to whatever fakePage matches the navigated URL.
type sessionPage struct {
	session *fakeSession
	current *fakePage
}

func (p *sessionPage) Navigate(_ context.Context, url string) error {
	page, ok := p.session.pages[url]
	if !ok {
		return errors.New("navigation failed: " + url)
	}
	if page.navigateErr != nil {
		return page.navigateErr
	}
	p.current = page
	return nil
}

func (p *sessionPage) WaitVisible(_ context.Context, selector string) error {
	if p.current.waitErr != nil {
		return p.current.waitErr
	}
	return nil
}

func (p *sessionPage) HTML(_ context.Context) (string, error) {
	return p.current.html, nil
}

func (p *sessionPage) ScrollToBottom(_ context.Context) error {
	p.current.scrolls++
	return nil
}

func (p *sessionPage) Height(_ context.Context) (int64, error) {
	h := p.current.heights[0]
	if len(p.current.heights) > 1 {
		p.current.heights = p.current.heights[1:]
	}
	return h, nil
}

func (p *sessionPage) Close() error {
	return nil
}

// fakePage scripts the behavior of one URL: the HTML snapshot, the sequence
// of measured heights (the last value repeats forever), and injected errors.
type fakePage struct {
	html        string
	heights     []int64
	navigateErr error
	waitErr     error
	scrolls     int
}

func newFakePage(html string) *fakePage {
	return &fakePage{html: html, heights: []int64{1000}}
}
