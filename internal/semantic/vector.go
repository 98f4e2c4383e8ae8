package semantic

import "math"

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

// mean returns the elementwise arithmetic mean of vecs, which must be non-empty.
func mean(vecs [][]float64) []float64 {
	out := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		for i := range out {
			out[i] += v[i]
		}
	}
	n := float64(len(vecs))
	for i := range out {
		out[i] /= n
	}
	return out
}
