package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain title untouched", in: "Morning Show", want: "Morning Show"},
		{name: "path separators stripped", in: "A/B\\C", want: "ABC"},
		{name: "windows reserved characters stripped", in: `What? Time: 10*"PM" <live>|`, want: "What Time 10PM live"},
		{name: "surrounding whitespace trimmed", in: "  Show  ", want: "Show"},
		{name: "non-ascii preserved", in: "見逃し配信", want: "見逃し配信"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFilename(tt.in))
		})
	}
}

func TestEpisodeFilename(t *testing.T) {
	t.Run("title, subtitle and trailing segment", func(t *testing.T) {
		got := EpisodeFilename("Show", "Episode 2", "https://vod.example/videos/ep2abc")
		assert.Equal(t, "Show - Episode 2_ep2abc.m2ts", got)
	})

	t.Run("absent subtitle is omitted", func(t *testing.T) {
		got := EpisodeFilename("Show", "", "https://vod.example/videos/ep1")
		assert.Equal(t, "Show_ep1.m2ts", got)
	})

	t.Run("query strings do not leak into the segment", func(t *testing.T) {
		got := EpisodeFilename("Show", "", "https://vod.example/videos/ep1?ref=list")
		assert.Equal(t, "Show_ep1.m2ts", got)
	})

	t.Run("illegal characters in both parts are stripped", func(t *testing.T) {
		got := EpisodeFilename("Show: Special", "Part 1/2", "https://vod.example/videos/ep9")
		assert.Equal(t, "Show Special - Part 12_ep9.m2ts", got)
	})
}

func TestEpisodePath(t *testing.T) {
	got := EpisodePath("/media/vod", "Show: Special", "Part 1", "https://vod.example/videos/ep1")
	want := filepath.Join("/media/vod", "Show Special", "Show Special - Part 1_ep1.m2ts")
	assert.Equal(t, want, got)
}

func TestProgramDir(t *testing.T) {
	assert.Equal(t, filepath.Join("dst", "AB"), ProgramDir("dst", "A/B"))
}
