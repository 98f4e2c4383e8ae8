package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"semspace/internal/config"
	"semspace/internal/domain"
	"semspace/internal/input"
	"semspace/internal/render"
)

// VisualizerPort is the TUI-facing subset of the visualization service.
type VisualizerPort interface {
	Models() []string
	Visualize(req domain.Request) ([]domain.Result, error)
}

const (
	fieldModels = iota
	fieldXBase
	fieldXContrast
	fieldYBase
	fieldYContrast
	fieldGroup1
	fieldGroup2
	fieldGroup3
	fieldOperation
	fieldTarget
	fieldExtra
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Models (comma-separated)",
	"X-axis base words",
	"X-axis contrast words",
	"Y-axis base words",
	"Y-axis contrast words",
	"Group 1 words",
	"Group 2 words",
	"Group 3 words",
	"Operation (none, add, subtract, multiply, divide, average)",
	"Target group (all, group_1, group_2, group_3)",
	"Extra word for operation",
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service  VisualizerPort
	inputs   []textinput.Model
	focus    int
	viewport viewport.Model
	plots    []string
	status   string
	render   render.Options
	ready    bool
}

// New creates a new TUI model with the form prefilled from defaults.
func New(service VisualizerPort, defaults config.DefaultsConfig, opts render.Options) Model {
	values := [fieldCount]string{
		strings.Join(defaults.Models, ", "),
		defaults.XBase,
		defaults.XContrast,
		defaults.YBase,
		defaults.YContrast,
		"", "", "",
		defaults.Operation,
		defaults.TargetGroup,
		defaults.ExtraWord,
	}
	for i, g := range defaults.Groups {
		if i < domain.MaxGroups {
			values[fieldGroup1+i] = g
		}
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 0
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[0].Focus()
	status := "Available models: " + strings.Join(service.Models(), ", ") + ". Tab to move, Enter to visualize."
	return Model{
		service:  service,
		inputs:   inputs,
		viewport: viewport.New(0, 0),
		status:   status,
		render:   opts,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := formBoxStyle.GetFrameSize()
		reserved := 2 + 2*fieldCount + fh + 1 // header + status, label and input per field
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(5, msg.Height-reserved)
		m.viewport.SetContent(m.renderPlots())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		case "pgdown":
			m.viewport.ViewDown()
			return m, nil
		case "pgup":
			m.viewport.ViewUp()
			return m, nil
		case "enter":
			m.visualize()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

func (m *Model) visualize() {
	req := m.Request()
	results, err := m.service.Visualize(req)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.plots = nil
		m.viewport.SetContent(m.renderPlots())
		return
	}
	plots := make([]string, 0, len(results))
	for _, res := range results {
		out, err := render.Render(res, m.render)
		if err != nil {
			m.status = "Error: " + err.Error()
			m.plots = nil
			m.viewport.SetContent(m.renderPlots())
			return
		}
		plots = append(plots, out)
	}
	m.plots = plots
	m.status = fmt.Sprintf("Rendered %d model(s). PgUp/PgDn to scroll.", len(plots))
	m.viewport.SetContent(m.renderPlots())
	m.viewport.GotoTop()
}

// Request builds a visualization request from the current form values.
func (m Model) Request() domain.Request {
	v := func(i int) string { return m.inputs[i].Value() }
	op := strings.ToLower(strings.TrimSpace(v(fieldOperation)))
	if op == "none" {
		op = ""
	}
	return domain.Request{
		Models:      input.ParseWords(v(fieldModels)),
		XAxis:       domain.AxisSpec{Base: input.ParseWords(v(fieldXBase)), Contrast: input.ParseWords(v(fieldXContrast))},
		YAxis:       domain.AxisSpec{Base: input.ParseWords(v(fieldYBase)), Contrast: input.ParseWords(v(fieldYContrast))},
		Groups:      [][]string{input.ParseWords(v(fieldGroup1)), input.ParseWords(v(fieldGroup2)), input.ParseWords(v(fieldGroup3))},
		Operation:   domain.Operation(op),
		TargetGroup: strings.TrimSpace(v(fieldTarget)),
		ExtraWord:   strings.TrimSpace(v(fieldExtra)),
	}
}

// Status returns the current status line.
func (m Model) Status() string { return m.status }

// View renders the form, the plot viewport and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Semantic Space Visualizer")
	var form strings.Builder
	for i, in := range m.inputs {
		label := labelStyle
		if i == m.focus {
			label = focusedLabelStyle
		}
		form.WriteString(label.Render(fieldLabels[i]))
		form.WriteString("\n")
		form.WriteString(in.View())
		if i < len(m.inputs)-1 {
			form.WriteString("\n")
		}
	}
	statusStyle := okStyle
	if strings.HasPrefix(m.status, "Error:") {
		statusStyle = errStyle
	}
	return header + "\n" + formBoxStyle.Render(form.String()) + "\n" + m.viewport.View() + "\n" + statusStyle.Render(m.status)
}

func (m Model) renderPlots() string {
	if len(m.plots) == 0 {
		return "No plot yet."
	}
	return strings.Join(m.plots, "\n\n")
}

var (
	formBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	okStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
