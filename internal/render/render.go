// Package render draws projection results as terminal scatter plots.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"semspace/internal/domain"
)

const marker = '●'

// GroupColors holds the per-group point and label colours (blue, red, green).
var GroupColors = []lipgloss.Color{"12", "9", "10"}

var (
	frameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Options controls the plot area size in terminal cells.
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width < 20 {
		o.Width = 80
	}
	if o.Height < 5 {
		o.Height = 24
	}
	return o
}

type cell struct {
	r     rune
	group int
}

type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for i := range c.cells {
		c.cells[i] = make([]cell, w)
		for j := range c.cells[i] {
			c.cells[i][j] = cell{r: ' ', group: -1}
		}
	}
	return c
}

func (c *canvas) free(row, col, n int) bool {
	if row < 0 || row >= c.h || col < 0 || col+n > c.w {
		return false
	}
	for j := col; j < col+n; j++ {
		if c.cells[row][j].r != ' ' {
			return false
		}
	}
	return true
}

func (c *canvas) write(row, col int, s []rune, group int) {
	for i, r := range s {
		c.cells[row][col+i] = cell{r: r, group: group}
	}
}

// placement is the cell position of a point marker and its label.
// Points with a NaN or infinite coordinate are not drawn.
type placement struct {
	Row, Col           int
	LabelRow, LabelCol int
	Drawn              bool
	Placed             bool
}

func finite(p domain.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// layout maps every point onto a w x h grid and finds a non-overlapping
// spot for each label, searching outwards from the point row.
func layout(points [][]domain.Point, labels [][]string, w, h int) ([][]placement, *canvas, error) {
	if len(points) != len(labels) {
		return nil, nil, fmt.Errorf("render: %d point groups but %d label groups", len(points), len(labels))
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range points {
		if len(points[i]) != len(labels[i]) {
			return nil, nil, fmt.Errorf("render: group %d has %d points but %d labels", i+1, len(points[i]), len(labels[i]))
		}
		for _, p := range points[i] {
			if !finite(p) {
				continue
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if maxX-minX == 0 {
		minX, maxX = minX-1, maxX+1
	}
	if maxY-minY == 0 {
		minY, maxY = minY-1, maxY+1
	}

	c := newCanvas(w, h)
	out := make([][]placement, len(points))
	for i, g := range points {
		out[i] = make([]placement, len(g))
		for j, p := range g {
			if !finite(p) {
				continue
			}
			col := int(math.Round((p.X - minX) / (maxX - minX) * float64(w-1)))
			row := h - 1 - int(math.Round((p.Y-minY)/(maxY-minY)*float64(h-1)))
			out[i][j] = placement{Row: row, Col: col, Drawn: true}
			c.write(row, col, []rune{marker}, i)
		}
	}
	for i := range points {
		for j := range points[i] {
			pl := &out[i][j]
			if !pl.Drawn {
				continue
			}
			label := []rune(labels[i][j])
			if r, col, ok := findSpot(c, pl.Row, pl.Col, len(label)); ok {
				c.write(r, col, label, i)
				pl.LabelRow, pl.LabelCol, pl.Placed = r, col, true
			}
		}
	}
	return out, c, nil
}

func findSpot(c *canvas, row, col, n int) (int, int, bool) {
	for d := 0; d < c.h; d++ {
		for _, r := range []int{row - d, row + d} {
			if c.free(r, col+2, n) {
				return r, col + 2, true
			}
			if c.free(r, col-n-1, n) {
				return r, col - n - 1, true
			}
			if d == 0 {
				break
			}
		}
	}
	return 0, 0, false
}

// Render draws one result as a framed scatter plot with axis labels and a legend.
func Render(res domain.Result, opts Options) (string, error) {
	opts = opts.withDefaults()
	_, c, err := layout(res.Points, res.Labels, opts.Width, opts.Height)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Semantic Space 2D Representation: " + res.Model))
	b.WriteString("\n")
	b.WriteString(axisStyle.Render("y: " + res.YLabel))
	b.WriteString("\n")

	lines := make([]string, c.h)
	for i, row := range c.cells {
		lines[i] = renderRow(row)
	}
	b.WriteString(frameStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(axisStyle.Render("x: " + res.XLabel))
	b.WriteString("\n")
	b.WriteString(Legend(len(res.Points)))
	return b.String(), nil
}

// Legend returns the "● Group i" legend line for n groups.
func Legend(n int) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, groupStyle(i).Render(fmt.Sprintf("%c Group %d", marker, i+1)))
	}
	return strings.Join(parts, "  ")
}

func groupStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(GroupColors[i%len(GroupColors)])
}

func renderRow(row []cell) string {
	var b strings.Builder
	start := 0
	for j := 1; j <= len(row); j++ {
		if j < len(row) && row[j].group == row[start].group {
			continue
		}
		seg := make([]rune, 0, j-start)
		for _, cl := range row[start:j] {
			seg = append(seg, cl.r)
		}
		if g := row[start].group; g >= 0 {
			b.WriteString(groupStyle(g).Render(string(seg)))
		} else {
			b.WriteString(string(seg))
		}
		start = j
	}
	return b.String()
}
