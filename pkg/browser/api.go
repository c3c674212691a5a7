package browser

import "context"

// Session is one running browser automation session. Pages opened from it are
// independent tab contexts and may be driven concurrently.
type Session interface {
	NewPage(ctx context.Context) (Page, error)
	Close()
}

// Page is the capability the resolver and scraper need from one browser tab:
// navigate, wait for content, snapshot the document, and drive scrolling.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
	ScrollToBottom(ctx context.Context) error
	Height(ctx context.Context) (int64, error)
	Close() error
}
