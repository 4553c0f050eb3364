// Package tui provides a Bubble Tea terminal interface for the review loop:
// paste release text, inspect and correct the extracted fields, validate,
// and generate the portal fill script, all against a local session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jackzampolin/maestro/internal/extract"
	"github.com/jackzampolin/maestro/internal/home"
	"github.com/jackzampolin/maestro/internal/release"
	"github.com/jackzampolin/maestro/internal/schema"
	"github.com/jackzampolin/maestro/internal/script"
	"github.com/jackzampolin/maestro/internal/session"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("221"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Width(15)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("78")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateExtracting
	StateReview
	StateGenerated
	StateError
)

// Config wires the local pipeline into the UI.
type Config struct {
	// Extractor runs model extraction. Required.
	Extractor *extract.Extractor

	// Generator renders the fill script. Required.
	Generator *script.Generator

	// Home receives generated scripts. Required.
	Home *home.Dir

	// InitialText prefills the input so `maestro review "text"` skips the
	// paste step.
	InitialText string
}

// Model is the Bubble Tea model for the review loop.
type Model struct {
	state     State
	textarea  textarea.Model
	editInput textinput.Model
	spinner   spinner.Model
	editing   bool

	cfg  Config
	sess *session.Session
	snap session.Snapshot

	scriptPath string
	statusLine string
	err        error

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new review model around a local session.
func NewModel(ctx context.Context, cfg Config, sess *session.Session) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste the release announcement here..."
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(10)
	ta.Focus()
	if cfg.InitialText != "" {
		ta.SetValue(cfg.InitialText)
	}

	ti := textinput.New()
	ti.Placeholder = "field=value (e.g. isrc=USRC17607839)"
	ti.CharLimit = 300
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	cctx, cancel := context.WithCancel(ctx)

	return Model{
		state:     StateInput,
		textarea:  ta,
		editInput: ti,
		spinner:   sp,
		cfg:       cfg,
		sess:      sess,
		ctx:       cctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// extractDoneMsg is sent when model extraction finishes.
type extractDoneMsg struct {
	text string
	rec  release.Record
	err  error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 4
		if w > 100 {
			w = 100
		}
		if w < 20 {
			w = 20
		}
		m.textarea.SetWidth(w)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}

		switch m.state {
		case StateInput:
			switch msg.String() {
			case "ctrl+d":
				if strings.TrimSpace(m.textarea.Value()) != "" {
					m.state = StateExtracting
					return m, tea.Batch(m.runExtract(), m.spinner.Tick)
				}
			case "esc":
				m.cancel()
				return m, tea.Quit
			}

		case StateReview:
			if m.editing {
				switch msg.String() {
				case "enter":
					m.applyEdit()
					return m, nil
				case "esc":
					m.editing = false
					m.editInput.Blur()
					return m, nil
				}
			} else {
				switch msg.String() {
				case "e":
					m.editing = true
					m.statusLine = ""
					m.editInput.SetValue("")
					m.editInput.Focus()
					return m, textinput.Blink
				case "v":
					m.doValidate()
					return m, nil
				case "g":
					m.doGenerate()
					return m, nil
				case "n":
					m.reset()
					return m, textarea.Blink
				case "q", "esc":
					m.cancel()
					return m, tea.Quit
				}
			}

		case StateGenerated, StateError:
			switch msg.String() {
			case "n", "r":
				m.reset()
				return m, textarea.Blink
			case "q", "esc":
				m.cancel()
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case extractDoneMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			break
		}
		m.sess.SetExtracted(msg.text, msg.rec, m.cfg.Extractor.Provider())
		// Validate immediately so the reviewer sees issues alongside fields.
		if _, err := m.sess.Validate(); err != nil {
			m.state = StateError
			m.err = err
			break
		}
		m.snap = m.sess.Snapshot()
		m.state = StateReview
		m.statusLine = ""
	}

	// Forward remaining input to the focused component
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.editing {
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// runExtract calls the extraction model in the background.
func (m *Model) runExtract() tea.Cmd {
	text := m.textarea.Value()
	return func() tea.Msg {
		rec, err := m.cfg.Extractor.Extract(m.ctx, text, extract.Opts{SessionID: m.sess.ID()})
		return extractDoneMsg{text: text, rec: rec, err: err}
	}
}

func (m *Model) applyEdit() {
	raw := strings.TrimSpace(m.editInput.Value())
	m.editing = false
	m.editInput.Blur()
	if raw == "" {
		return
	}

	field, value, ok := strings.Cut(raw, "=")
	if !ok {
		m.statusLine = fmt.Sprintf("invalid edit %q: expected field=value", raw)
		return
	}
	field = strings.TrimSpace(field)

	if err := m.sess.ApplyEdit(field, value); err != nil {
		m.statusLine = err.Error()
		return
	}
	m.snap = m.sess.Snapshot()
	m.statusLine = field + " updated, press v to re-validate"
}

func (m *Model) doValidate() {
	if _, err := m.sess.Validate(); err != nil {
		m.statusLine = err.Error()
		return
	}
	m.snap = m.sess.Snapshot()
	m.statusLine = ""
}

func (m *Model) doGenerate() {
	out, err := m.sess.Generate(m.cfg.Generator)
	if err != nil {
		m.statusLine = err.Error()
		return
	}
	m.snap = m.sess.Snapshot()

	path, err := m.cfg.Home.SaveScript(m.sess.ID(), out)
	if err != nil {
		m.statusLine = "script generated but not saved: " + err.Error()
		return
	}
	m.scriptPath = path
	m.state = StateGenerated
}

// reset returns to the input state for another release.
func (m *Model) reset() {
	m.state = StateInput
	m.err = nil
	m.statusLine = ""
	m.scriptPath = ""
	m.editing = false
	m.editInput.Blur()
	m.textarea.SetValue("")
	m.textarea.Focus()
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Maestro Release Review"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Free text in, validated portal fill script out"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateExtracting:
		b.WriteString(m.viewExtracting())
	case StateReview:
		b.WriteString(m.viewReview())
	case StateGenerated:
		b.WriteString(m.viewGenerated())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Paste the release announcement:"))
	b.WriteString("\n\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewExtracting() string {
	return fmt.Sprintf("%s %s\n",
		m.spinner.View(),
		subtitleStyle.Render("Extracting release fields with "+m.cfg.Extractor.Provider()+"..."))
}

func (m Model) viewReview() string {
	var b strings.Builder

	for _, f := range schema.Fields() {
		value, err := schema.FieldValue(m.snap.Record, f.Name)
		if err != nil {
			continue
		}
		b.WriteString(labelStyle.Render(f.Label))
		if value == "" {
			b.WriteString(dimStyle.Render("(empty)"))
		} else {
			b.WriteString(value)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if verdict := m.snap.Verdict; verdict != nil {
		for _, e := range verdict.Errors {
			b.WriteString(errorStyle.Render(fmt.Sprintf("x %s: %s", e.Field, e.Message)))
			b.WriteString("\n")
		}
		for _, a := range verdict.Advisories {
			b.WriteString(warningStyle.Render(fmt.Sprintf("! %s: %s", a.Field, a.Message)))
			b.WriteString("\n")
		}
		if verdict.Blocking {
			b.WriteString(errorStyle.Render("Blocked: fix the errors above, then press v"))
		} else {
			b.WriteString(successStyle.Render("Ready: press g to generate the fill script"))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(dimStyle.Render("Edited: press v to validate"))
		b.WriteString("\n")
	}

	if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(m.statusLine))
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Edit field:"))
		b.WriteString("\n")
		b.WriteString(m.editInput.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewGenerated() string {
	var b strings.Builder
	box := boxStyle.Render(fmt.Sprintf(
		"Fill script ready\n\n"+
			"Saved to: %s\n\n"+
			"Open the portal form, then paste the script\n"+
			"into the browser developer console.",
		m.scriptPath,
	))
	b.WriteString(box)
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Extraction failed:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "ctrl+d: extract • esc: quit"
	case StateExtracting:
		return "ctrl+c: cancel"
	case StateReview:
		if m.editing {
			return "enter: apply • esc: cancel edit"
		}
		return "e: edit • v: validate • g: generate • n: new text • q: quit"
	case StateGenerated, StateError:
		return "n: new release • q: quit"
	}
	return ""
}

// Run starts the review UI and blocks until the user quits. It returns the
// path of the saved fill script, or "" when none was generated.
func Run(ctx context.Context, cfg Config, sess *session.Session) (string, error) {
	p := tea.NewProgram(NewModel(ctx, cfg, sess), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(Model); ok {
		return fm.scriptPath, nil
	}
	return "", nil
}
