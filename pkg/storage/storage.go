package storage

import "errors"

var (
	// ErrMalformed indicates a persisted store file exists but does not parse
	// into the expected shape. Callers must not continue with partial data.
	ErrMalformed = errors.New("malformed store file")
)
