// Package popup is the terminal popup: a text box, a submit button, a
// loading indicator, an error line, and a scrollable hint region, all
// driven by a nudge.Session.
package popup

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/zoobzio/nudge"
)

// chromeHeight is the number of rows the popup uses outside the input box
// and the result region.
const chromeHeight = 8

const (
	defaultWidth        = 72
	defaultResultHeight = 12
	placeholder         = "Paste your LeetCode problem or code here..."
	buttonLabel         = "Get Hint"
	loadingLabel        = "Analyzing your problem..."
	helpText            = "ctrl+s / alt+enter submit • tab focus • pgup/pgdn scroll • esc quit"
)

type focusTarget int

const (
	focusInput focusTarget = iota
	focusButton
)

// Messages
type (
	// changedMsg signals that the session updated the surface.
	changedMsg struct{}
	// submittedMsg carries the outcome of one submit cycle.
	submittedMsg struct {
		hint string
		err  error
	}
)

// Options configures the popup.
type Options struct {
	// MaxHeight caps the input box height in rows. Zero means
	// nudge.MaxInputHeight.
	MaxHeight int
	// Style is a glamour style name. Empty means auto-detect.
	Style string
	// Session options passed through to nudge.NewSession.
	Session []nudge.SessionOption
}

// Model is the Bubble Tea model for the popup.
type Model struct {
	ctx     context.Context
	session *nudge.Session
	surface *surface

	input    textarea.Model
	result   viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   styles
	style    string

	frame     frame
	shownSeq  uint64
	focus     focusTarget
	pending   bool
	maxHeight int
	width     int
	height    int
}

// New builds the popup model and the session behind it.
func New(ctx context.Context, source nudge.HintSource, opts Options) Model {
	surf := newSurface()
	session := nudge.NewSession(source, surf, opts.Session...)

	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(defaultWidth)
	ta.SetHeight(1)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	st := defaultStyles()
	sp.Style = st.Loading

	maxHeight := opts.MaxHeight
	if maxHeight <= 0 {
		maxHeight = nudge.MaxInputHeight
	}

	m := Model{
		ctx:       ctx,
		session:   session,
		surface:   surf,
		input:     ta,
		result:    viewport.New(defaultWidth, defaultResultHeight),
		spinner:   sp,
		styles:    st,
		style:     opts.Style,
		maxHeight: maxHeight,
	}
	m.renderer = newRenderer(opts.Style, defaultWidth)
	return m
}

// Session returns the session driving the popup.
func (m Model) Session() *nudge.Session {
	return m.session
}

// Run opens the popup in the alternate screen and blocks until it closes.
func Run(ctx context.Context, source nudge.HintSource, opts Options) error {
	p := tea.NewProgram(New(ctx, source, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newRenderer(style string, width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStylePath(style)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return renderer
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.waitForChange(),
	)
}

// waitForChange delivers a changedMsg when the session next touches the
// surface.
func (m Model) waitForChange() tea.Cmd {
	surf := m.surface
	return func() tea.Msg {
		if !surf.wait() {
			return nil
		}
		return changedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.sync()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case changedMsg:
		return m, m.waitForChange()

	case submittedMsg:
		m.pending = false
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.session.Close()
		m.surface.close()
		return m, tea.Quit

	case "ctrl+s", "alt+enter", "ctrl+enter":
		return m.submit()

	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.result, cmd = m.result.Update(msg)
		return m, cmd
	}

	if m.focus == focusButton {
		if msg.Type == tea.KeyEnter || msg.String() == " " {
			return m.submit()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.session.Edit(m.ctx)
		m.sync()
		m.fitInput()
	}
	return m, cmd
}

// submit starts one submit cycle. A disabled button ignores the press.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading() {
		return m, nil
	}
	m.pending = true

	ctx, session, text := m.ctx, m.session, m.input.Value()
	run := func() tea.Msg {
		hint, err := session.Submit(ctx, text)
		return submittedMsg{hint: hint, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusButton
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

func (m Model) loading() bool {
	return m.pending || m.frame.loading
}

// sync pulls the latest surface frame into the model.
func (m *Model) sync() {
	f := m.surface.snapshot()
	m.frame = f

	if f.focus && m.focus != focusInput {
		m.focus = focusInput
		m.input.Focus()
	}

	if f.showResult && f.resultSeq != m.shownSeq {
		m.shownSeq = f.resultSeq
		m.result.SetContent(m.render(f.result))
		m.result.GotoTop()
	}
}

func (m Model) render(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// layout recomputes component sizes after a window resize.
func (m *Model) layout() {
	width := m.width - 4
	if width < 1 {
		width = 1
	}
	m.input.SetWidth(width)
	m.result.Width = width
	m.renderer = newRenderer(m.style, width-2)

	m.fitInput()

	resultHeight := m.height - chromeHeight - m.input.Height() - 2
	if resultHeight < 3 {
		resultHeight = 3
	}
	m.result.Height = resultHeight

	if m.frame.showResult {
		m.result.SetContent(m.render(m.frame.result))
	}
}

// fitInput sizes the input box to its content within the height cap.
func (m *Model) fitInput() {
	limit := m.maxHeight
	if m.height > 0 {
		if avail := m.height - chromeHeight; avail < limit {
			limit = avail
		}
	}
	if limit < 1 {
		limit = 1
	}
	m.input.SetHeight(nudge.FitHeight(m.input.LineCount(), limit))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("nudge"))
	b.WriteString(" ")
	b.WriteString(m.styles.Subtitle.Render("hints for DSA problems, never full solutions"))
	b.WriteString("\n\n")

	box := m.styles.Input
	if m.focus == focusInput {
		box = m.styles.InputFocused
	}
	b.WriteString(box.Render(m.input.View()))
	b.WriteString("\n")

	b.WriteString(m.buttonView())
	b.WriteString("\n")

	if m.frame.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.frame.errMsg))
		b.WriteString("\n")
	}

	if m.frame.showResult {
		b.WriteString(m.styles.Result.Render(m.result.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(helpText))
	return b.String()
}

func (m Model) buttonView() string {
	if m.loading() {
		return lipgloss.JoinHorizontal(lipgloss.Center,
			m.styles.ButtonDisabled.Render(buttonLabel),
			" ",
			m.spinner.View(),
			m.styles.Loading.Render(loadingLabel),
		)
	}
	if m.focus == focusButton {
		return m.styles.ButtonFocused.Render(buttonLabel)
	}
	return m.styles.Button.Render(buttonLabel)
}
