package io

import (
	"fmt"
	"os"
	"path/filepath"
)

var _ FileIO = (*StoreFileSystem)(nil)

// StoreFileSystem is the default implementation of file io using the os package
type StoreFileSystem struct{}

// Stat is a wrapper around os.Stat
func (o *StoreFileSystem) Stat(target string) (os.FileInfo, error) {
	return os.Stat(target)
}

// ReadFile is a wrapper around os.ReadFile
func (o *StoreFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile is a wrapper around os.WriteFile
func (o *StoreFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// MkdirAll is a wrapper around os.MkdirAll
func (o *StoreFileSystem) MkdirAll(path string, mode os.FileMode) error {
	return os.MkdirAll(path, mode)
}

// Replace swaps the contents of name for data in a single rename so a reader
// never observes a partially written file.
func (o *StoreFileSystem) Replace(name string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(name)
	tmp, err := os.CreateTemp(dir, filepath.Base(name)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, name); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}

// FileExists reports whether path can be stat'd.
func (o *StoreFileSystem) FileExists(path string) bool {
	_, err := o.Stat(path)
	return err == nil
}
