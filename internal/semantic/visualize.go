package semantic

import (
	"strings"

	"semspace/internal/domain"
)

// Visualize runs axis construction, group transformation and projection
// for a single embedding space. Either the whole result is returned or an error.
func Visualize(space domain.EmbeddingSpace, req domain.Request) (domain.Result, error) {
	xAxis, err := BuildAxis(space, req.XAxis.Base, req.XAxis.Contrast)
	if err != nil {
		return domain.Result{}, err
	}
	yAxis, err := BuildAxis(space, req.YAxis.Base, req.YAxis.Contrast)
	if err != nil {
		return domain.Result{}, err
	}
	groups, err := TransformGroups(space, req.Groups, req.Operation, req.TargetGroup, req.ExtraWord)
	if err != nil {
		return domain.Result{}, err
	}
	points, labels, err := Project(space, xAxis, yAxis, groups)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Result{
		Model:  space.Name(),
		Points: points,
		Labels: labels,
		XLabel: AxisLabel(req.XAxis),
		YLabel: AxisLabel(req.YAxis),
	}, nil
}

// AxisLabel formats an axis for display as "base <---> contrast".
func AxisLabel(a domain.AxisSpec) string {
	return strings.Join(a.Base, ", ") + " <---> " + strings.Join(a.Contrast, ", ")
}
