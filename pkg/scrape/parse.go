package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kasuboski/vodsync/pkg/vod"
)

// Selectors locates the platform's markup. The defaults match the production
// listing pages; tests substitute their own.
type Selectors struct {
	// SeasonTab matches the anchors of the tab-like navigation pointing at
	// the other listing pages of a multi-part program.
	SeasonTab string
	// ProgramTitle matches the program title element.
	ProgramTitle string
	// Episode matches one episode node in the listing.
	Episode string
	// EpisodeLink matches the episode's video anchor, relative to Episode.
	EpisodeLink string
	// EpisodeSubtitle matches the optional subtitle, relative to Episode.
	EpisodeSubtitle string
	// PriceLabel matches the paid/free marker, relative to Episode.
	PriceLabel string
}

// DefaultSelectors returns the selectors for the production listing markup.
func DefaultSelectors() Selectors {
	return Selectors{
		SeasonTab:       ".tab-menu-list a[href]",
		ProgramTitle:    "h1.program-title",
		Episode:         ".episode-list .episode-item",
		EpisodeLink:     "a.episode-link",
		EpisodeSubtitle: ".episode-subtitle",
		PriceLabel:      ".price-label",
	}
}

// parseTabs extracts the listing-page URLs of a multi-part program from the
// seed page, resolved against base, in document order. No tabs means the
// program fits on the seed page alone.
func parseTabs(html, base string, sel Selectors) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid seed url %q: %w", base, err)
	}

	var tabs []string
	doc.Find(sel.SeasonTab).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		tabs = append(tabs, baseURL.ResolveReference(ref).String())
	})

	return tabs, nil
}

// parseListing extracts the program title and the full episode listing from a
// stabilized page snapshot. A single episode node without a video link fails
// the whole program.
func parseListing(html, pageURL, freeLabel string, sel Selectors) (vod.Status, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return vod.Status{}, fmt.Errorf("failed to parse page: %w", err)
	}

	title := strings.TrimSpace(doc.Find(sel.ProgramTitle).First().Text())
	if title == "" {
		return vod.Status{}, fmt.Errorf("%w: program title (%s) on %s", ErrMissingField, sel.ProgramTitle, pageURL)
	}

	baseURL, err := url.Parse(pageURL)
	if err != nil {
		return vod.Status{}, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}

	status := vod.Status{ProgramID: vod.ProgramID{URL: pageURL, Title: title}}

	var parseErr error
	doc.Find(sel.Episode).EachWithBreak(func(i int, node *goquery.Selection) bool {
		href, ok := node.Find(sel.EpisodeLink).First().Attr("href")
		if !ok {
			parseErr = fmt.Errorf("%w: episode %d of %q has no video link", ErrMissingField, i, title)
			return false
		}

		ref, err := url.Parse(href)
		if err != nil {
			parseErr = fmt.Errorf("episode %d of %q: invalid video link %q: %w", i, title, href, err)
			return false
		}

		label := strings.TrimSpace(node.Find(sel.PriceLabel).First().Text())

		status.Episodes = append(status.Episodes, vod.VOD{
			Episode: vod.Episode{
				VideoURL: baseURL.ResolveReference(ref).String(),
				Subtitle: strings.TrimSpace(node.Find(sel.EpisodeSubtitle).First().Text()),
			},
			Free: label == freeLabel,
		})
		return true
	})
	if parseErr != nil {
		return vod.Status{}, parseErr
	}

	return status, nil
}
