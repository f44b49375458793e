package domain

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrJobTerminal = errors.New("job already terminal")
	// ErrNoProvider means a source photo was supplied and no
	// structure-preserving tier produced an image.
	ErrNoProvider = errors.New("no generation provider succeeded")
)
