package semantic

import "semspace/internal/domain"

// Project computes the (x, y) coordinates of every usable element. Plain
// words missing from space are dropped; labels[i] stays aligned with points[i].
func Project(space domain.EmbeddingSpace, xAxis, yAxis []float64, groups [][]Element) (points [][]domain.Point, labels [][]string, err error) {
	points = make([][]domain.Point, len(groups))
	labels = make([][]string, len(groups))
	for i, g := range groups {
		points[i] = make([]domain.Point, 0, len(g))
		labels[i] = make([]string, 0, len(g))
		for _, e := range g {
			vec := e.Vector
			if !e.Transformed() {
				var ok bool
				if vec, ok, err = lookup(space, e.Word); err != nil {
					return nil, nil, err
				}
				if !ok {
					continue
				}
			}
			points[i] = append(points[i], domain.Point{X: dot(vec, xAxis), Y: dot(vec, yAxis)})
			labels[i] = append(labels[i], e.Word)
		}
	}
	return points, labels, nil
}
