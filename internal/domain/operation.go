package domain

import "fmt"

// Operation is a vector operation applied between the extra word and group words.
type Operation string

const (
	OpNone     Operation = ""
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
	OpAverage  Operation = "average"
)

// Operations lists the supported operations in display order.
var Operations = []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide, OpAverage}

// Valid reports whether op is OpNone or one of the supported operations.
func (op Operation) Valid() bool {
	if op == OpNone {
		return true
	}
	for _, o := range Operations {
		if op == o {
			return true
		}
	}
	return false
}

// Apply computes op(a, b) elementwise. Both vectors must have the same length.
func (op Operation) Apply(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("operation %s: dimension mismatch %d != %d", op, len(a), len(b))
	}
	out := make([]float64, len(a))
	switch op {
	case OpAdd:
		for i := range a {
			out[i] = a[i] + b[i]
		}
	case OpSubtract:
		for i := range a {
			out[i] = a[i] - b[i]
		}
	case OpMultiply:
		for i := range a {
			out[i] = a[i] * b[i]
		}
	case OpDivide:
		for i := range a {
			out[i] = a[i] / b[i]
		}
	case OpAverage:
		for i := range a {
			out[i] = (a[i] + b[i]) / 2
		}
	default:
		return nil, fmt.Errorf("unsupported operation %q", string(op))
	}
	return out, nil
}

// Target group selectors.
const (
	TargetAll = "all"
)

// TargetGroups lists the accepted target group selectors.
var TargetGroups = []string{TargetAll, "group_1", "group_2", "group_3"}

// MaxGroups is the maximum number of groups in a request.
const MaxGroups = 3

// Targets reports whether selector picks the group at zero-based index i.
func Targets(selector string, i int) bool {
	return selector == TargetAll || selector == fmt.Sprintf("group_%d", i+1)
}
