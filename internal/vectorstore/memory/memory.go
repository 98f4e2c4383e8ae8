package memory

import (
	"errors"
	"fmt"
	"sync"

	"semspace/internal/domain"
	"semspace/internal/vectorstore"
)

var _ vectorstore.Storage = (*Space)(nil)

// Space is an in-memory embedding space keyed by word.
// Words are added during loading and the space is read-only afterwards.
type Space struct {
	mu        sync.RWMutex
	name      string
	dimension int
	vectors   map[string][]float64
	words     []string
}

func NewSpace(name string, dimension int) *Space {
	return &Space{name: name, dimension: dimension, vectors: make(map[string][]float64)}
}

// FromMap builds a space from a word to vector map. All vectors must share a dimension.
func FromMap(name string, vectors map[string][]float64) (*Space, error) {
	dim := 0
	for _, v := range vectors {
		dim = len(v)
		break
	}
	s := NewSpace(name, dim)
	for w, v := range vectors {
		if err := s.Add(w, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Space) Name() string { return s.name }

func (s *Space) Dimension() int { return s.dimension }

// Add stores the vector for word. The first occurrence of a word wins.
func (s *Space) Add(word string, vector []float64) error {
	if word == "" {
		return errors.New("empty word")
	}
	if len(vector) != s.dimension {
		return fmt.Errorf("vector dimension mismatch for %q: got %d, want %d", word, len(vector), s.dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vectors[word]; ok {
		return nil
	}
	s.vectors[word] = vector
	s.words = append(s.words, word)
	return nil
}

func (s *Space) Contains(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vectors[word]
	return ok
}

// Vector returns a copy of the stored vector so callers cannot mutate the space.
func (s *Space) Vector(word string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vectors[word]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, word)
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, nil
}

// Len returns the vocabulary size.
func (s *Space) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// Each calls fn for every word in insertion order until fn returns an error.
func (s *Space) Each(fn func(word string, vector []float64) error) error {
	s.mu.RLock()
	words := s.words
	s.mu.RUnlock()
	for _, w := range words {
		v, err := s.Vector(w)
		if err != nil {
			return err
		}
		if err := fn(w, v); err != nil {
			return err
		}
	}
	return nil
}
