package vod

// ProgramID identifies a tracked program by its resolved listing URL.
type ProgramID struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Episode is one playable video unit within a program. The video URL is the
// identity key; subtitle and free flag never participate in equality.
type Episode struct {
	VideoURL string `json:"videoURL"`
	Subtitle string `json:"subtitle,omitempty"`
}

// VOD is an episode as seen on a listing page. It only exists between
// scraping and target selection.
type VOD struct {
	Episode
	Free bool `json:"free"`
}

// Status is the result of scraping one resolved program URL.
type Status struct {
	ProgramID
	Episodes []VOD `json:"episodes"`
}

// Recorded is the persisted set of episodes already downloaded for a program.
type Recorded struct {
	ProgramID
	Episodes []Episode `json:"episodes"`
}

// Contains reports whether an episode with the given video URL was already
// downloaded.
func (r Recorded) Contains(videoURL string) bool {
	for _, e := range r.Episodes {
		if e.VideoURL == videoURL {
			return true
		}
	}
	return false
}

// Log maps a resolved program URL to its download record. A multi-part seed
// expands into several keys, one per listing page.
type Log map[string]Recorded

// SelectTargets returns the episodes from a fresh scrape that are free and not
// yet present in the prior record for the same URL. Listing order is
// preserved. The zero Recorded value means no prior downloads.
func SelectTargets(status Status, prior Recorded) []VOD {
	var targets []VOD
	for _, v := range status.Episodes {
		if !v.Free {
			continue
		}
		if prior.Contains(v.VideoURL) {
			continue
		}
		targets = append(targets, v)
	}
	return targets
}

// Merge returns a new Log with the downloaded episodes appended to the
// program's record. The input Log is never mutated; existing episodes keep
// their order and are never removed. A program with nothing downloaded is
// left untouched.
func Merge(log Log, id ProgramID, downloaded []Episode) Log {
	merged := make(Log, len(log)+1)
	for url, rec := range log {
		merged[url] = rec
	}

	if len(downloaded) == 0 {
		return merged
	}

	rec := merged[id.URL]
	rec.ProgramID = id

	seen := make(map[string]struct{}, len(rec.Episodes)+len(downloaded))
	episodes := make([]Episode, 0, len(rec.Episodes)+len(downloaded))
	for _, e := range rec.Episodes {
		seen[e.VideoURL] = struct{}{}
		episodes = append(episodes, e)
	}
	for _, e := range downloaded {
		if _, ok := seen[e.VideoURL]; ok {
			continue
		}
		seen[e.VideoURL] = struct{}{}
		episodes = append(episodes, e)
	}
	rec.Episodes = episodes

	merged[id.URL] = rec
	return merged
}
