// Package input parses and validates raw visualization input.
package input

import (
	"slices"
	"strings"

	"semspace/internal/domain"
)

// ParseWords splits comma-separated text into trimmed, non-empty words.
func ParseWords(text string) []string {
	out := []string{}
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Validation failure reasons.
const (
	ReasonEmptyAxis       = "X and Y space words cannot be empty."
	ReasonEmptyGroup      = "All groups must contain at least one word."
	ReasonTooManyGroups   = "Maximum 3 groups are allowed."
	ReasonBadOperation    = "Invalid operation."
	ReasonBadTargetGroup  = "Invalid target group."
	ReasonExtraWordNeeded = "Extra word is required when an operation is specified."
)

// Validate checks the structural rules of a request and returns the first
// violation as a *domain.ValidationError. It does not consult any embedding space.
func Validate(x, y domain.AxisSpec, groups [][]string, op domain.Operation, target, extraWord string) error {
	if len(x.Base) == 0 || len(x.Contrast) == 0 || len(y.Base) == 0 || len(y.Contrast) == 0 {
		return &domain.ValidationError{Reason: ReasonEmptyAxis}
	}
	for _, g := range groups {
		if len(g) == 0 {
			return &domain.ValidationError{Reason: ReasonEmptyGroup}
		}
	}
	if len(groups) > domain.MaxGroups {
		return &domain.ValidationError{Reason: ReasonTooManyGroups}
	}
	if op != domain.OpNone && !op.Valid() {
		return &domain.ValidationError{Reason: ReasonBadOperation}
	}
	if !slices.Contains(domain.TargetGroups, target) {
		return &domain.ValidationError{Reason: ReasonBadTargetGroup}
	}
	if op != domain.OpNone && strings.TrimSpace(extraWord) == "" {
		return &domain.ValidationError{Reason: ReasonExtraWordNeeded}
	}
	return nil
}

// ValidateRequest validates req, including its model selection against known.
func ValidateRequest(req domain.Request, known []string) error {
	if err := Validate(req.XAxis, req.YAxis, req.Groups, req.Operation, req.TargetGroup, req.ExtraWord); err != nil {
		return err
	}
	if len(req.Models) == 0 {
		return &domain.ValidationError{Reason: "Select at least one model."}
	}
	for _, m := range req.Models {
		if !slices.Contains(known, m) {
			return &domain.ValidationError{Reason: "Unknown model: " + m + "."}
		}
	}
	return nil
}
