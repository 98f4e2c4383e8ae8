package semantic

import (
	"errors"
	"fmt"

	"semspace/internal/domain"
)

// lookup returns the vector of w, or ok=false when w is out of vocabulary.
// Any failure other than domain.ErrNotFound is returned as an error.
func lookup(space domain.EmbeddingSpace, w string) (vec []float64, ok bool, err error) {
	vec, err = space.Vector(w)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup %q in %s: %w", w, space.Name(), err)
	}
	return vec, true, nil
}

// BuildAxis returns the unit vector pointing from the mean of contrast
// towards the mean of base. Out-of-vocabulary words are skipped.
func BuildAxis(space domain.EmbeddingSpace, base, contrast []string) ([]float64, error) {
	baseMean, err := meanOf(space, base, "base")
	if err != nil {
		return nil, err
	}
	contrastMean, err := meanOf(space, contrast, "contrast")
	if err != nil {
		return nil, err
	}
	direction := make([]float64, len(baseMean))
	for i := range direction {
		direction[i] = baseMean[i] - contrastMean[i]
	}
	n := norm(direction)
	if n == 0 {
		return nil, &domain.VocabularyError{
			Space:  space.Name(),
			Detail: fmt.Sprintf("degenerate axis: %v and %v have the same mean vector", base, contrast),
		}
	}
	for i := range direction {
		direction[i] /= n
	}
	return direction, nil
}

func meanOf(space domain.EmbeddingSpace, words []string, side string) ([]float64, error) {
	var vecs [][]float64
	for _, w := range words {
		v, ok, err := lookup(space, w)
		if err != nil {
			return nil, err
		}
		if ok {
			vecs = append(vecs, v)
		}
	}
	if len(vecs) == 0 {
		return nil, &domain.VocabularyError{
			Space:  space.Name(),
			Detail: fmt.Sprintf("none of the %s words %v are in the vocabulary", side, words),
		}
	}
	return mean(vecs), nil
}
