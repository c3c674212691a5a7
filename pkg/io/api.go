package io

import "os"

// FileIO is an interface for the file operations the stores and the
// downloader need, so tests can run against an in-memory implementation.
type FileIO interface {
	Stat(target string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Replace(name string, data []byte, perm os.FileMode) error
	MkdirAll(name string, perm os.FileMode) error
}
