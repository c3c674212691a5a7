package vod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func free(url, subtitle string) VOD {
	return VOD{Episode: Episode{VideoURL: url, Subtitle: subtitle}, Free: true}
}

func paid(url string) VOD {
	return VOD{Episode: Episode{VideoURL: url}, Free: false}
}

func TestSelectTargets(t *testing.T) {
	prog := ProgramID{URL: "https://vod.example/program/a", Title: "Program A"}

	t.Run("no prior record selects all free episodes", func(t *testing.T) {
		status := Status{ProgramID: prog, Episodes: []VOD{free("v1", "ep1"), free("v2", "ep2")}}

		targets := SelectTargets(status, Recorded{})
		assert.Equal(t, []VOD{free("v1", "ep1"), free("v2", "ep2")}, targets)
	})

	t.Run("already recorded episodes are skipped", func(t *testing.T) {
		status := Status{ProgramID: prog, Episodes: []VOD{free("v1", "ep1"), free("v2", "ep2")}}
		prior := Recorded{ProgramID: prog, Episodes: []Episode{{VideoURL: "v1", Subtitle: "ep1"}}}

		targets := SelectTargets(status, prior)
		assert.Equal(t, []VOD{free("v2", "ep2")}, targets)
	})

	t.Run("paid episodes are excluded even when unrecorded", func(t *testing.T) {
		status := Status{ProgramID: prog, Episodes: []VOD{paid("v1"), free("v2", "ep2"), paid("v3")}}

		targets := SelectTargets(status, Recorded{})
		assert.Equal(t, []VOD{free("v2", "ep2")}, targets)
	})

	t.Run("identity is the video url only", func(t *testing.T) {
		// Same URL with a different subtitle is still the same episode.
		status := Status{ProgramID: prog, Episodes: []VOD{free("v1", "renamed")}}
		prior := Recorded{ProgramID: prog, Episodes: []Episode{{VideoURL: "v1", Subtitle: "original"}}}

		targets := SelectTargets(status, prior)
		assert.Empty(t, targets)
	})

	t.Run("listing order is preserved", func(t *testing.T) {
		status := Status{ProgramID: prog, Episodes: []VOD{free("v3", ""), free("v1", ""), free("v2", "")}}

		targets := SelectTargets(status, Recorded{})
		assert.Equal(t, []VOD{free("v3", ""), free("v1", ""), free("v2", "")}, targets)
	})

	t.Run("idempotent against the merged record", func(t *testing.T) {
		status := Status{ProgramID: prog, Episodes: []VOD{free("v1", "ep1"), free("v2", "ep2")}}

		targets := SelectTargets(status, Recorded{})
		downloaded := make([]Episode, 0, len(targets))
		for _, v := range targets {
			downloaded = append(downloaded, v.Episode)
		}
		merged := Merge(Log{}, prog, downloaded)

		assert.Empty(t, SelectTargets(status, merged[prog.URL]))
	})
}

func TestMerge(t *testing.T) {
	prog := ProgramID{URL: "https://vod.example/program/a", Title: "Program A"}

	t.Run("new episodes append after existing ones", func(t *testing.T) {
		prior := Log{prog.URL: Recorded{ProgramID: prog, Episodes: []Episode{{VideoURL: "v1"}}}}

		merged := Merge(prior, prog, []Episode{{VideoURL: "v2", Subtitle: "ep2"}})

		assert.Equal(t, []Episode{{VideoURL: "v1"}, {VideoURL: "v2", Subtitle: "ep2"}}, merged[prog.URL].Episodes)
	})

	t.Run("input log is not mutated", func(t *testing.T) {
		prior := Log{prog.URL: Recorded{ProgramID: prog, Episodes: []Episode{{VideoURL: "v1"}}}}

		_ = Merge(prior, prog, []Episode{{VideoURL: "v2"}})

		assert.Equal(t, []Episode{{VideoURL: "v1"}}, prior[prog.URL].Episodes)
	})

	t.Run("no downloads leaves the program untouched", func(t *testing.T) {
		prior := Log{prog.URL: Recorded{ProgramID: prog, Episodes: []Episode{{VideoURL: "v1"}}}}

		merged := Merge(prior, prog, nil)

		assert.Equal(t, prior, merged)
	})

	t.Run("unrelated programs survive the merge", func(t *testing.T) {
		other := ProgramID{URL: "https://vod.example/program/b", Title: "Program B"}
		prior := Log{other.URL: Recorded{ProgramID: other, Episodes: []Episode{{VideoURL: "b1"}}}}

		merged := Merge(prior, prog, []Episode{{VideoURL: "v1"}})

		assert.Equal(t, prior[other.URL], merged[other.URL])
		assert.Len(t, merged, 2)
	})

	t.Run("no duplicate video urls after merge", func(t *testing.T) {
		prior := Log{prog.URL: Recorded{ProgramID: prog, Episodes: []Episode{{VideoURL: "v1"}}}}

		// A hostile input repeats both a prior episode and itself.
		merged := Merge(prior, prog, []Episode{{VideoURL: "v1"}, {VideoURL: "v2"}, {VideoURL: "v2"}})

		assert.Equal(t, []Episode{{VideoURL: "v1"}, {VideoURL: "v2"}}, merged[prog.URL].Episodes)
	})

	t.Run("first download creates the record with program identity", func(t *testing.T) {
		merged := Merge(Log{}, prog, []Episode{{VideoURL: "v1"}})

		rec := merged[prog.URL]
		assert.Equal(t, prog, rec.ProgramID)
		assert.Equal(t, []Episode{{VideoURL: "v1"}}, rec.Episodes)
	})
}

func TestRecordedContains(t *testing.T) {
	rec := Recorded{Episodes: []Episode{{VideoURL: "v1"}, {VideoURL: "v2"}}}

	assert.True(t, rec.Contains("v1"))
	assert.False(t, rec.Contains("v3"))
	assert.False(t, Recorded{}.Contains("v1"))
}
