package semantic

import (
	"fmt"
	"strings"

	"semspace/internal/domain"
)

// Element is one group member: a word, optionally replaced by a transformed vector.
type Element struct {
	Word   string
	Vector []float64
}

// Transformed reports whether the element carries its own vector.
func (e Element) Transformed() bool { return e.Vector != nil }

// TransformGroups applies op between the extra word vector and every
// in-vocabulary word of the targeted groups. Untargeted groups, and all
// groups when op or extraWord is empty, are returned as plain words.
func TransformGroups(space domain.EmbeddingSpace, groups [][]string, op domain.Operation, target, extraWord string) ([][]Element, error) {
	out := make([][]Element, len(groups))
	for i, g := range groups {
		out[i] = make([]Element, len(g))
		for j, w := range g {
			out[i][j] = Element{Word: w}
		}
	}
	extraWord = strings.TrimSpace(extraWord)
	if op == domain.OpNone || extraWord == "" {
		return out, nil
	}

	extra, ok, err := lookup(space, extraWord)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.VocabularyError{
			Space:  space.Name(),
			Detail: fmt.Sprintf("extra word %q is not in the vocabulary", extraWord),
		}
	}
	for i, g := range groups {
		if !domain.Targets(target, i) {
			continue
		}
		elems := make([]Element, 0, len(g))
		for _, w := range g {
			v, ok, err := lookup(space, w)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			tv, err := op.Apply(extra, v)
			if err != nil {
				return nil, err
			}
			elems = append(elems, Element{Word: w, Vector: tv})
		}
		out[i] = elems
	}
	return out, nil
}
