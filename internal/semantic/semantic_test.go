package semantic

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semspace/internal/domain"
	"semspace/internal/vectorstore/memory"
	"semspace/internal/vectorstore/qdrant"
)

func testSpace(t *testing.T) *memory.Space {
	t.Helper()
	s, err := memory.FromMap("toy", map[string][]float64{
		"expensive": {2, 0, 0, 1},
		"cheap":     {-2, 0, 0, 1},
		"big":       {0, 3, 0, 0},
		"small":     {0, -1, 0, 0},
		"dog":       {1, 1, 1, 0},
		"cat":       {0.5, -1, 2, 0},
		"car":       {3, 2, 0, 1},
		"king":      {1, 2, 3, 4},
	})
	require.NoError(t, err)
	return s
}

func vec(t *testing.T, s domain.EmbeddingSpace, w string) []float64 {
	t.Helper()
	v, err := s.Vector(w)
	require.NoError(t, err)
	return v
}

func TestBuildAxisUnitNorm(t *testing.T) {
	s := testSpace(t)
	cases := []struct {
		base, contrast []string
	}{
		{[]string{"expensive"}, []string{"cheap"}},
		{[]string{"big", "dog"}, []string{"small"}},
		{[]string{"big", "unknownword"}, []string{"small", "cat", "car"}},
	}
	for _, c := range cases {
		axis, err := BuildAxis(s, c.base, c.contrast)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, norm(axis), 1e-12)
	}
}

func TestBuildAxisDirection(t *testing.T) {
	s := testSpace(t)
	axis, err := BuildAxis(s, []string{"expensive"}, []string{"cheap"})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0, 0, 0}, axis, 1e-12)

	axis, err = BuildAxis(s, []string{"big", "dog"}, []string{"small"})
	require.NoError(t, err)
	// mean(big, dog) - small = (0.5, 3, 0.5, 0)
	want := []float64{0.5, 3, 0.5, 0}
	n := math.Sqrt(0.25 + 9 + 0.25)
	for i := range want {
		want[i] /= n
	}
	assert.InDeltaSlice(t, want, axis, 1e-12)
}

func TestBuildAxisVocabularyErrors(t *testing.T) {
	s := testSpace(t)
	var verr *domain.VocabularyError

	_, err := BuildAxis(s, []string{"zzz"}, []string{"cheap"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))

	_, err = BuildAxis(s, []string{"expensive"}, []string{"qqq", "rrr"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))

	_, err = BuildAxis(s, []string{"dog"}, []string{"dog"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))
}

func TestTransformGroupsPassThrough(t *testing.T) {
	s := testSpace(t)
	groups := [][]string{{"dog", "zzz"}, {"car"}}
	out, err := TransformGroups(s, groups, domain.OpNone, "all", "king")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []Element{{Word: "dog"}, {Word: "zzz"}}, out[0])
	assert.Equal(t, []Element{{Word: "car"}}, out[1])

	out, err = TransformGroups(s, groups, domain.OpAdd, "all", "")
	require.NoError(t, err)
	assert.False(t, out[0][0].Transformed())
}

func TestTransformGroupsAverageTargetsOneGroup(t *testing.T) {
	s := testSpace(t)
	groups := [][]string{{"dog"}, {"cat", "zzz", "car"}, {"dog"}}
	out, err := TransformGroups(s, groups, domain.OpAverage, "group_2", "king")
	require.NoError(t, err)

	assert.Equal(t, []Element{{Word: "dog"}}, out[0])
	assert.Equal(t, []Element{{Word: "dog"}}, out[2])

	require.Len(t, out[1], 2)
	king := vec(t, s, "king")
	for j, w := range []string{"cat", "car"} {
		v := vec(t, s, w)
		want := make([]float64, len(v))
		for i := range v {
			want[i] = (king[i] + v[i]) / 2
		}
		assert.Equal(t, w, out[1][j].Word)
		assert.InDeltaSlice(t, want, out[1][j].Vector, 1e-12)
	}
}

func TestTransformGroupsAllOperations(t *testing.T) {
	s := testSpace(t)
	king := vec(t, s, "king")
	dog := vec(t, s, "dog")
	tests := []struct {
		op   domain.Operation
		want func(a, b float64) float64
	}{
		{domain.OpAdd, func(a, b float64) float64 { return a + b }},
		{domain.OpSubtract, func(a, b float64) float64 { return a - b }},
		{domain.OpMultiply, func(a, b float64) float64 { return a * b }},
		{domain.OpAverage, func(a, b float64) float64 { return (a + b) / 2 }},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			out, err := TransformGroups(s, [][]string{{"dog"}}, tt.op, "all", "king")
			require.NoError(t, err)
			for i := range king {
				assert.InDelta(t, tt.want(king[i], dog[i]), out[0][0].Vector[i], 1e-12)
			}
		})
	}

	out, err := TransformGroups(s, [][]string{{"dog"}}, domain.OpDivide, "all", "king")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0][0].Vector[0], 1e-12)
	assert.True(t, math.IsInf(out[0][0].Vector[3], 1))
}

func TestTransformGroupsUnknownExtraWord(t *testing.T) {
	s := testSpace(t)
	_, err := TransformGroups(s, [][]string{{"dog"}}, domain.OpAdd, "all", "queen")
	var verr *domain.VocabularyError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "queen")
}

func TestProjectDropsUnknownWords(t *testing.T) {
	s := testSpace(t)
	xAxis := []float64{1, 0, 0, 0}
	yAxis := []float64{0, 1, 0, 0}
	groups := [][]Element{
		{{Word: "dog"}, {Word: "nope"}, {Word: "cat"}},
		{{Word: "nada"}},
		{{Word: "custom", Vector: []float64{7, 8, 9, 10}}},
	}
	points, labels, err := Project(s, xAxis, yAxis, groups)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, []string{"dog", "cat"}, labels[0])
	assert.Equal(t, []domain.Point{{X: 1, Y: 1}, {X: 0.5, Y: -1}}, points[0])
	assert.Empty(t, points[1])
	assert.Empty(t, labels[1])
	assert.Equal(t, []domain.Point{{X: 7, Y: 8}}, points[2])
	assert.Equal(t, []string{"custom"}, labels[2])
	for i := range points {
		assert.Len(t, labels[i], len(points[i]))
	}
}

func TestProjectIdempotent(t *testing.T) {
	s := testSpace(t)
	xAxis, err := BuildAxis(s, []string{"expensive"}, []string{"cheap"})
	require.NoError(t, err)
	yAxis, err := BuildAxis(s, []string{"big"}, []string{"small"})
	require.NoError(t, err)
	groups, err := TransformGroups(s, [][]string{{"dog", "cat"}, {"car"}}, domain.OpAdd, "group_1", "king")
	require.NoError(t, err)

	p1, l1, err := Project(s, xAxis, yAxis, groups)
	require.NoError(t, err)
	p2, l2, err := Project(s, xAxis, yAxis, groups)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, l1, l2)
}

func TestVisualizeEndToEnd(t *testing.T) {
	s := testSpace(t)
	req := domain.Request{
		XAxis:       domain.AxisSpec{Base: []string{"expensive"}, Contrast: []string{"cheap"}},
		YAxis:       domain.AxisSpec{Base: []string{"big"}, Contrast: []string{"small"}},
		Groups:      [][]string{{"dog", "cat"}},
		TargetGroup: "all",
	}
	res, err := Visualize(s, req)
	require.NoError(t, err)

	assert.Equal(t, "toy", res.Model)
	require.Len(t, res.Points, 1)
	require.Len(t, res.Points[0], 2)
	assert.Equal(t, []string{"dog", "cat"}, res.Labels[0])
	assert.Equal(t, "expensive <---> cheap", res.XLabel)
	assert.Equal(t, "big <---> small", res.YLabel)

	expensive, cheap := vec(t, s, "expensive"), vec(t, s, "cheap")
	dir := make([]float64, len(expensive))
	for i := range dir {
		dir[i] = expensive[i] - cheap[i]
	}
	n := norm(dir)
	for i := range dir {
		dir[i] /= n
	}
	for j, w := range res.Labels[0] {
		assert.InDelta(t, dot(vec(t, s, w), dir), res.Points[0][j].X, 1e-12)
	}
}

func TestVisualizeFailsWholeRequest(t *testing.T) {
	s := testSpace(t)
	req := domain.Request{
		XAxis:       domain.AxisSpec{Base: []string{"expensive"}, Contrast: []string{"cheap"}},
		YAxis:       domain.AxisSpec{Base: []string{"nothing"}, Contrast: []string{"small"}},
		Groups:      [][]string{{"dog"}},
		TargetGroup: "all",
	}
	res, err := Visualize(s, req)
	require.Error(t, err)
	assert.Nil(t, res.Points)
}

func TestAxisLabel(t *testing.T) {
	assert.Equal(t, "rich, costly <---> cheap", AxisLabel(domain.AxisSpec{Base: []string{"rich", "costly"}, Contrast: []string{"cheap"}}))
}

func TestTransformGroupsTrimsExtraWord(t *testing.T) {
	s := testSpace(t)
	out, err := TransformGroups(s, [][]string{{"dog"}}, domain.OpAdd, "all", "  king ")
	require.NoError(t, err)
	require.Len(t, out[0], 1)
	assert.Equal(t, []float64{2, 3, 4, 4}, out[0][0].Vector)
}

// failingSpace fails every lookup of the words in broken with a transport error.
type failingSpace struct {
	*memory.Space
	broken map[string]bool
}

var errUnavailable = errors.New("backend unavailable")

func (f failingSpace) Contains(word string) bool {
	return !f.broken[word] && f.Space.Contains(word)
}

func (f failingSpace) Vector(word string) ([]float64, error) {
	if f.broken[word] {
		return nil, errUnavailable
	}
	return f.Space.Vector(word)
}

func TestLookupFailuresAreNotVocabularyErrors(t *testing.T) {
	req := domain.Request{
		XAxis:       domain.AxisSpec{Base: []string{"expensive"}, Contrast: []string{"cheap"}},
		YAxis:       domain.AxisSpec{Base: []string{"big"}, Contrast: []string{"small"}},
		Groups:      [][]string{{"dog", "cat"}},
		TargetGroup: "all",
	}
	tests := []struct {
		name   string
		broken string
		op     domain.Operation
		extra  string
	}{
		{name: "axis word", broken: "cheap"},
		{name: "group word", broken: "cat"},
		{name: "transformed group word", broken: "cat", op: domain.OpAdd, extra: "king"},
		{name: "extra word", broken: "king", op: domain.OpAdd, extra: "king"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := failingSpace{Space: testSpace(t), broken: map[string]bool{tt.broken: true}}
			r := req
			r.Operation, r.ExtraWord = tt.op, tt.extra
			res, err := Visualize(s, r)
			require.Error(t, err)
			assert.ErrorIs(t, err, errUnavailable)
			var verr *domain.VocabularyError
			assert.False(t, errors.As(err, &verr))
			assert.Nil(t, res.Points)
		})
	}
}

func newQdrantSpace(t *testing.T, vectors map[string][]float64, failing string) *qdrant.Space {
	t.Helper()
	byID := map[string]string{}
	for w := range vectors {
		byID[qdrant.PointID(w)] = w
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/words":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"result": map[string]any{"config": map[string]any{"params": map[string]any{"vectors": map[string]any{"size": 4}}}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/collections/words/points":
			var body struct {
				IDs []string `json:"ids"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			result := []map[string]any{}
			for _, id := range body.IDs {
				if failing != "" && id == qdrant.PointID(failing) {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				if word, ok := byID[id]; ok {
					result = append(result, map[string]any{"id": id, "payload": map[string]any{"word": word}, "vector": vectors[word]})
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"result": result})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	s, err := qdrant.Open("q", qdrant.Config{URL: srv.URL, Collection: "words"})
	require.NoError(t, err)
	return s
}

func TestVisualizeQdrantServerError(t *testing.T) {
	vectors := map[string][]float64{
		"expensive": {2, 0, 0, 1}, "cheap": {-2, 0, 0, 1},
		"big": {0, 3, 0, 0}, "small": {0, -1, 0, 0},
		"dog": {1, 1, 1, 0}, "cat": {0.5, -1, 2, 0},
	}
	req := domain.Request{
		XAxis:       domain.AxisSpec{Base: []string{"expensive"}, Contrast: []string{"cheap"}},
		YAxis:       domain.AxisSpec{Base: []string{"big"}, Contrast: []string{"small"}},
		Groups:      [][]string{{"dog", "cat", "unknown"}},
		TargetGroup: "all",
	}

	res, err := Visualize(newQdrantSpace(t, vectors, ""), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "cat"}, res.Labels[0])

	_, err = Visualize(newQdrantSpace(t, vectors, "cat"), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	var verr *domain.VocabularyError
	assert.False(t, errors.As(err, &verr))

	req.Operation, req.ExtraWord = domain.OpAdd, "cat"
	_, err = Visualize(newQdrantSpace(t, vectors, "cat"), req)
	require.Error(t, err)
	assert.False(t, errors.As(err, &verr))
}
