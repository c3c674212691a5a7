package library

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Extension is the container produced by the stream fetcher.
const Extension = ".m2ts"

var illegalFilenameChars = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}

// CleanFilename strips characters that are illegal in filenames on common
// filesystems.
func CleanFilename(name string) string {
	clean := name
	for _, char := range illegalFilenameChars {
		clean = strings.ReplaceAll(clean, char, "")
	}

	return strings.TrimSpace(clean)
}

// EpisodeFilename derives the destination filename for one episode from the
// program title, the optional subtitle, and the trailing path segment of the
// video URL.
func EpisodeFilename(title, subtitle, videoURL string) string {
	name := CleanFilename(title)
	if subtitle != "" {
		name = fmt.Sprintf("%s - %s", name, CleanFilename(subtitle))
	}

	return fmt.Sprintf("%s_%s%s", name, lastPathSegment(videoURL), Extension)
}

// EpisodePath joins the destination root, the per-program directory, and the
// episode filename.
func EpisodePath(root, title, subtitle, videoURL string) string {
	return filepath.Join(ProgramDir(root, title), EpisodeFilename(title, subtitle, videoURL))
}

// ProgramDir is the per-program subdirectory under the destination root.
func ProgramDir(root, title string) string {
	return filepath.Join(root, CleanFilename(title))
}

func lastPathSegment(videoURL string) string {
	if u, err := url.Parse(videoURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}

	return path.Base(videoURL)
}
