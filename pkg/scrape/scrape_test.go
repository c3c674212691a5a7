package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/kasuboski/vodsync/pkg/vod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const freeLabel = "無料"

const listingHTML = `<html><body>
<h1 class="program-title">Morning Show</h1>
<div class="episode-list">
  <div class="episode-item">
    <a class="episode-link" href="/videos/ep1">watch</a>
    <span class="price-label">無料</span>
  </div>
  <div class="episode-item">
    <a class="episode-link" href="/videos/ep2">watch</a>
    <span class="episode-subtitle">Episode 2</span>
    <span class="price-label">無料</span>
  </div>
  <div class="episode-item">
    <a class="episode-link" href="/videos/ep3">watch</a>
    <span class="episode-subtitle">Episode 3</span>
    <span class="price-label">有料</span>
  </div>
</div>
</body></html>`

const tabbedHTML = `<html><body>
<h1 class="program-title">Long Running Show</h1>
<ul class="tab-menu-list">
  <li><a href="/series/long?season=2">Season 2</a></li>
  <li><a href="https://vod.example/series/long?season=3">Season 3</a></li>
</ul>
</body></html>`

func newScraper(t *testing.T, pages map[string]*fakePage) (*Scraper, *fakeSession) {
	t.Helper()
	session := newFakeSession(pages)
	return New(session, freeLabel, WithScrollInterval(time.Millisecond)), session
}

func TestScraper_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("page without tabs resolves to the seed alone", func(t *testing.T) {
		seed := "https://vod.example/series/morning"
		s, _ := newScraper(t, map[string]*fakePage{seed: newFakePage(listingHTML)})

		urls, err := s.Resolve(ctx, seed)
		require.NoError(t, err)
		assert.Equal(t, []string{seed}, urls)
	})

	t.Run("tab targets follow the seed in document order", func(t *testing.T) {
		seed := "https://vod.example/series/long"
		s, _ := newScraper(t, map[string]*fakePage{seed: newFakePage(tabbedHTML)})

		urls, err := s.Resolve(ctx, seed)
		require.NoError(t, err)
		assert.Equal(t, []string{
			seed,
			"https://vod.example/series/long?season=2",
			"https://vod.example/series/long?season=3",
		}, urls)
	})

	t.Run("navigation failure aborts resolution", func(t *testing.T) {
		s, _ := newScraper(t, map[string]*fakePage{})

		_, err := s.Resolve(ctx, "https://vod.example/series/gone")
		assert.Error(t, err)
	})
}

func TestScraper_Scrape(t *testing.T) {
	ctx := context.Background()
	url := "https://vod.example/series/morning"

	t.Run("extracts title, episodes, and free flags", func(t *testing.T) {
		s, _ := newScraper(t, map[string]*fakePage{url: newFakePage(listingHTML)})

		status, err := s.Scrape(ctx, url)
		require.NoError(t, err)

		assert.Equal(t, vod.ProgramID{URL: url, Title: "Morning Show"}, status.ProgramID)
		assert.Equal(t, []vod.VOD{
			{Episode: vod.Episode{VideoURL: "https://vod.example/videos/ep1"}, Free: true},
			{Episode: vod.Episode{VideoURL: "https://vod.example/videos/ep2", Subtitle: "Episode 2"}, Free: true},
			{Episode: vod.Episode{VideoURL: "https://vod.example/videos/ep3", Subtitle: "Episode 3"}, Free: false},
		}, status.Episodes)
	})

	t.Run("scrolling stops once the height repeats", func(t *testing.T) {
		page := newFakePage(listingHTML)
		page.heights = []int64{1000, 1800, 2400, 2400}
		s, _ := newScraper(t, map[string]*fakePage{url: page})

		_, err := s.Scrape(ctx, url)
		require.NoError(t, err)

		// One scroll per measurement, ending on the first repeated height.
		assert.Equal(t, 4, page.scrolls)
	})

	t.Run("an episode without a video link fails the whole program", func(t *testing.T) {
		html := `<html><body>
<h1 class="program-title">Broken Show</h1>
<div class="episode-list">
  <div class="episode-item"><a class="episode-link" href="/videos/ok">w</a><span class="price-label">無料</span></div>
  <div class="episode-item"><span class="price-label">無料</span></div>
</div>
</body></html>`
		s, _ := newScraper(t, map[string]*fakePage{url: newFakePage(html)})

		_, err := s.Scrape(ctx, url)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("missing program title fails the scrape", func(t *testing.T) {
		html := `<html><body><div class="episode-list"></div></body></html>`
		s, _ := newScraper(t, map[string]*fakePage{url: newFakePage(html)})

		_, err := s.Scrape(ctx, url)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("free flag requires the exact platform label", func(t *testing.T) {
		s, _ := newScraper(t, map[string]*fakePage{url: newFakePage(listingHTML)})

		status, err := s.Scrape(ctx, url)
		require.NoError(t, err)
		assert.False(t, status.Episodes[2].Free, "paid label must not count as free")
	})

	t.Run("wait failure propagates", func(t *testing.T) {
		page := newFakePage(listingHTML)
		page.waitErr = assert.AnError
		s, _ := newScraper(t, map[string]*fakePage{url: page})

		_, err := s.Scrape(ctx, url)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
