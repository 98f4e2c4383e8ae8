package vectorstore

import "semspace/internal/domain"

// Storage is a loaded embedding space that can also enumerate its vocabulary.
type Storage interface {
	domain.EmbeddingSpace
	Len() int
	Each(fn func(word string, vector []float64) error) error
}
