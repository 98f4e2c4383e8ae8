package domain

// EmbeddingSpace maps vocabulary words to fixed-length vectors.
// Implementations are immutable once loaded and safe for concurrent reads.
type EmbeddingSpace interface {
	Name() string
	Dimension() int
	Contains(word string) bool
	// Vector returns ErrNotFound when the word is not in the vocabulary.
	Vector(word string) ([]float64, error)
}

// Provider loads named embedding spaces.
type Provider interface {
	Load(name string) (EmbeddingSpace, error)
}

// AxisSpec is a pair of word lists defining one semantic contrast.
type AxisSpec struct {
	Base     []string `yaml:"base"`
	Contrast []string `yaml:"contrast"`
}

// Request is a single visualization request as produced by the UI.
type Request struct {
	Models      []string   `yaml:"models"`
	XAxis       AxisSpec   `yaml:"x_axis"`
	YAxis       AxisSpec   `yaml:"y_axis"`
	Groups      [][]string `yaml:"groups"`
	Operation   Operation  `yaml:"operation"`
	TargetGroup string     `yaml:"target_group"`
	ExtraWord   string     `yaml:"extra_word"`
}

// Point is a projected 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Result is a rendered-ready visualization for one embedding space.
// Points[i] and Labels[i] always have equal length.
type Result struct {
	Model  string
	Points [][]Point
	Labels [][]string
	XLabel string
	YLabel string
}
