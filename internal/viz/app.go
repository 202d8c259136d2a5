package viz

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/zntune/internal/analysis"
)

const (
	stateForm = iota
	stateRunning
	stateResult
)

const (
	fieldEquation = iota
	fieldInput
	fieldOutput
	fieldMethod
	numFields
)

var fieldLabels = [numFields]string{"equation", "input", "output", "method"}

// Runner is the part of analysis.Analyzer the form needs.
type Runner interface {
	Run(ctx context.Context, req analysis.Request) (*analysis.Run, error)
}

type runDoneMsg struct {
	run *analysis.Run
	err error
}

type tickMsg struct{}

// OnRun is called with every successful run, e.g. to persist it. A
// returned error is shown below the report.
type OnRun func(*analysis.Run) error

type model struct {
	state  int
	cursor int
	values [numFields]string
	runner Runner
	onRun  OnRun
	theme  int
	styles Styles
	frame  int
	run    *analysis.Run
	err    error
	note   string
	width  int
}

// NewApp returns the bubbletea model of the analysis form.
func NewApp(r Runner, onRun OnRun) tea.Model {
	return newModel(r, onRun)
}

func newModel(r Runner, onRun OnRun) model {
	m := model{
		runner: r,
		onRun:  onRun,
		styles: NewStyles(Themes[0]),
		width:  80,
	}
	m.values[fieldMethod] = "ziegler-nichols"
	return m
}

// RunApp runs the form full-screen until the user quits.
func RunApp(r Runner, onRun OnRun) error {
	_, err := tea.NewProgram(NewApp(r, onRun), tea.WithAltScreen()).Run()
	return err
}

func (m model) request() analysis.Request {
	return analysis.Request{
		Equation: strings.TrimSpace(m.values[fieldEquation]),
		Input:    strings.TrimSpace(m.values[fieldInput]),
		Output:   strings.TrimSpace(m.values[fieldOutput]),
		Method:   strings.TrimSpace(m.values[fieldMethod]),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		m.frame++
		return m, tick()
	case runDoneMsg:
		m.run, m.err, m.note = msg.run, msg.err, ""
		m.state = stateResult
		if msg.err == nil && m.onRun != nil {
			if err := m.onRun(msg.run); err != nil {
				m.note = err.Error()
			}
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.state {
	case stateForm:
		return m.formKey(msg)
	case stateResult:
		return m.resultKey(msg)
	}
	return m, nil
}

func (m model) formKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.cursor = (m.cursor + 1) % numFields
	case tea.KeyShiftTab, tea.KeyUp:
		m.cursor = (m.cursor + numFields - 1) % numFields
	case tea.KeyBackspace:
		v := []rune(m.values[m.cursor])
		if len(v) > 0 {
			m.values[m.cursor] = string(v[:len(v)-1])
		}
	case tea.KeySpace:
		m.values[m.cursor] += " "
	case tea.KeyRunes:
		m.values[m.cursor] += string(msg.Runes)
	case tea.KeyEnter:
		m.state, m.frame = stateRunning, 0
		return m, tea.Batch(m.analyze(), tick())
	}
	return m, nil
}

func (m model) resultKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "b", "enter":
		m.state = stateForm
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = NewStyles(Themes[m.theme])
	}
	return m, nil
}

func (m model) analyze() tea.Cmd {
	req, r := m.request(), m.runner
	return func() tea.Msg {
		run, err := r.Run(context.Background(), req)
		return runDoneMsg{run: run, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) View() string {
	s := m.styles
	switch m.state {
	case stateRunning:
		return s.Focused.Render(AnimatedSpinner(m.frame)) + " analyzing...\n"
	case stateResult:
		if m.err != nil {
			return s.Error.Render("analysis failed") + "\n\n" +
				s.KeyHint.Render("b back  q quit") + "\n"
		}
		out := Report(s, m.run, m.width)
		if m.note != "" {
			out += "\n" + s.Error.Render(m.note) + "\n"
		}
		return out + "\n" + s.KeyHint.Render("b back  t theme  q quit") + "\n"
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("zntune") + s.Muted.Render("  reaction-curve PID tuning") + "\n")
	b.WriteString(s.Separator(min(m.width, 60)) + "\n\n")
	for i, label := range fieldLabels {
		line := s.Field(label, m.values[i], 10)
		if i == m.cursor {
			line = s.Focused.Render("> ") + line + s.Focused.Render("▏")
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + s.Muted.Render("the equation is recorded; the plant analyzed is 1/(2s + 1)") + "\n")
	b.WriteString(s.KeyHint.Render("tab next  enter analyze  esc quit") + "\n")
	return b.String()
}
