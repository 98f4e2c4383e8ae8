package service

import (
	"semspace/internal/domain"
	"semspace/internal/input"
	"semspace/internal/semantic"
)

// Visualizer validates requests and projects them in each selected space.
type Visualizer struct {
	provider domain.Provider
	models   []string
}

// NewVisualizer creates a Visualizer. models lists the space names the
// provider can load; requests naming other spaces are rejected.
func NewVisualizer(provider domain.Provider, models []string) *Visualizer {
	return &Visualizer{provider: provider, models: models}
}

// Models returns the selectable space names.
func (v *Visualizer) Models() []string { return v.models }

// Visualize returns one result per requested model, in request order.
// Validation happens before any space is loaded; any failure aborts the whole request.
func (v *Visualizer) Visualize(req domain.Request) ([]domain.Result, error) {
	if err := input.ValidateRequest(req, v.models); err != nil {
		return nil, err
	}
	results := make([]domain.Result, 0, len(req.Models))
	for _, name := range req.Models {
		space, err := v.provider.Load(name)
		if err != nil {
			return nil, err
		}
		res, err := semantic.Visualize(space, req)
		if err != nil {
			return nil, err
		}
		res.Model = name
		results = append(results, res)
	}
	return results, nil
}
