package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a word is not in an embedding space.
var ErrNotFound = errors.New("word not found")

// ValidationError reports a structural problem with user input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// VocabularyError reports a word list or word that resolved to no usable vectors.
type VocabularyError struct {
	Space  string
	Detail string
}

func (e *VocabularyError) Error() string {
	if e.Space == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s (%s)", e.Detail, e.Space)
}

// LoadError reports a failure to load a named embedding space.
type LoadError struct {
	Space string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Space, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
