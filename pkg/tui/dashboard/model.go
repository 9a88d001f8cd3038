// Package dashboard is the Bubble Tea front end for a session.Manager: an
// entry form, the selected day's breakdown, the history chart, the recent
// list and the summary and insight panels.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/session"
	"tableflip.dev/daylog/pkg/store"
	"tableflip.dev/daylog/pkg/tui/components/help"
	"tableflip.dev/daylog/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeCommand
	modeHelp
)

const normalHelp = "j/k move, a add, i insight, r refresh, : commands, ? help"

// messages
type sessionEventMsg struct{ ev session.Event }
type opDoneMsg struct {
	op  session.Op
	err error
}
type storeChangedMsg struct{}

// Model contains UI state. Activity state lives in the session manager; the
// model keeps the last snapshot for rendering.
type Model struct {
	mgr *session.Manager
	ctx context.Context
	th  theme.Theme

	mode mode
	snap session.Snapshot

	// cursor indexes snap.Activities.
	cursor int

	fields []activity.Field
	inputs []textinput.Model
	focus  int

	command textinput.Model
	status  string
	help    *help.Model

	changes <-chan store.Change

	termWidth  int
	termHeight int
}

// Option customises a Model.
type Option func(*Model)

// WithContext sets the context passed to session operations.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithStoreChanges reloads the activity list whenever ch delivers.
func WithStoreChanges(ch <-chan store.Change) Option {
	return func(m *Model) { m.changes = ch }
}

// New creates a dashboard for mgr.
func New(mgr *session.Manager, opts ...Option) Model {
	m := Model{
		mgr:    mgr,
		ctx:    context.Background(),
		th:     theme.Default(),
		mode:   modeNormal,
		fields: activity.Fields(),
		status: normalHelp,
	}
	for _, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 16
		ti.Placeholder = placeholder(f)
		ti.Styles.Cursor.Color = lipgloss.Color("218")
		m.inputs = append(m.inputs, ti)
	}
	cmd := textinput.New()
	cmd.Prompt = ""
	cmd.Placeholder = "command"
	m.command = cmd

	for _, opt := range opts {
		opt(&m)
	}
	if mgr != nil {
		m.snap = mgr.Snapshot()
	}
	return m
}

func helpSize(width, height int) (int, int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = 24
	}
	return width - 4, height - 4
}

func placeholder(f activity.Field) string {
	if f == activity.FieldDate {
		return activity.DateLayout
	}
	return "hours"
}

// Init loads the activity list and subscribes to session events.
func (m Model) Init() tea.Cmd {
	if m.mgr == nil {
		return nil
	}
	return tea.Batch(m.initialize(), waitForEvent(m.mgr.Events()), waitForChange(m.changes))
}

func (m Model) initialize() tea.Cmd {
	mgr, ctx := m.mgr, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: session.OpInitialize, err: mgr.Initialize(ctx)}
	}
}

func (m Model) submit() tea.Cmd {
	mgr, ctx := m.mgr, m.ctx
	return func() tea.Msg {
		_, err := mgr.SubmitDraft(ctx)
		return opDoneMsg{op: session.OpSubmit, err: err}
	}
}

func (m Model) requestInsight(r activity.Record) tea.Cmd {
	mgr, ctx := m.mgr, m.ctx
	return func() tea.Msg {
		_, err := mgr.RequestInsight(ctx, r)
		return opDoneMsg{op: session.OpInsight, err: err}
	}
}

func waitForEvent(ch <-chan session.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return sessionEventMsg{ev: ev}
	}
}

func waitForChange(ch <-chan store.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		if m.help != nil {
			m.help.SetSize(helpSize(msg.Width, msg.Height))
		}
	case sessionEventMsg:
		m.refresh()
		cmds = append(cmds, waitForEvent(m.mgr.Events()))
	case storeChangedMsg:
		cmds = append(cmds, m.initialize(), waitForChange(m.changes))
	case opDoneMsg:
		m.refresh()
		m.status = describeDone(msg.op, msg.err)
		if msg.op == session.OpSubmit && msg.err == nil {
			m.leaveInsert()
		}
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
				m.help = nil
				break
			}
			cmds = append(cmds, m.help.Update(msg))
		case modeInsert:
			cmds = append(cmds, m.updateInsert(msg)...)
		case modeCommand:
			cmds = append(cmds, m.updateCommand(msg)...)
		case modeNormal:
			cmds = append(cmds, m.updateNormal(msg)...)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateNormal(msg tea.KeyPressMsg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg.String() {
	case ":":
		m.mode = modeCommand
		m.command.Reset()
		cmds = append(cmds, m.command.Focus())
		m.status = "COMMAND: type :q or :exit to quit"
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.moveCursor(-len(m.snap.Activities))
	case "G", "end":
		m.moveCursor(len(m.snap.Activities))
	case "a", "o":
		cmds = append(cmds, m.enterInsert())
	case "i":
		if m.snap.Selected == nil {
			m.status = "Select an activity first"
			break
		}
		if m.mgr == nil {
			break
		}
		m.status = "Requesting insight…"
		cmds = append(cmds, m.requestInsight(*m.snap.Selected))
	case "r":
		if m.mgr == nil {
			break
		}
		m.status = "Refreshing…"
		cmds = append(cmds, m.initialize())
	case "?":
		m.mode = modeHelp
		m.help = help.New(helpSize(m.termWidth, m.termHeight))
	case "q":
		m.status = "Use :q or :exit to quit"
	}
	return cmds
}

func (m *Model) updateInsert(msg tea.KeyPressMsg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg.String() {
	case "esc":
		m.leaveInsert()
		m.status = "Add cancelled, draft kept"
	case "tab", "down":
		cmds = append(cmds, m.focusField(m.focus+1))
	case "shift+tab", "up":
		cmds = append(cmds, m.focusField(m.focus-1))
	case "enter":
		if m.focus < len(m.inputs)-1 {
			cmds = append(cmds, m.focusField(m.focus+1))
			break
		}
		if m.mgr == nil {
			break
		}
		m.status = "Saving…"
		cmds = append(cmds, m.submit())
	default:
		var cmd tea.Cmd
		before := m.inputs[m.focus].Value()
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
		if after := m.inputs[m.focus].Value(); after != before && m.mgr != nil {
			if err := m.mgr.UpdateDraftField(m.fields[m.focus], after); err != nil {
				m.status = "ERR: " + err.Error()
			}
		}
	}
	return cmds
}

func (m *Model) updateCommand(msg tea.KeyPressMsg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.command.Value())
		switch input {
		case "q", "quit", "exit":
			cmds = append(cmds, tea.Quit)
		case "r", "refresh":
			if m.mgr != nil {
				cmds = append(cmds, m.initialize())
			}
		case "":
		default:
			m.status = fmt.Sprintf("Unknown command: %s", input)
		}
		m.mode = modeNormal
		m.command.Reset()
		m.command.Blur()
	case "esc":
		m.mode = modeNormal
		m.command.Reset()
		m.command.Blur()
		m.status = "Command cancelled"
	default:
		var cmd tea.Cmd
		m.command, cmd = m.command.Update(msg)
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (m *Model) enterInsert() tea.Cmd {
	m.mode = modeInsert
	m.status = "INSERT: tab next field, enter save, esc cancel"
	draft := m.snap.Draft
	for i, f := range m.fields {
		m.inputs[i].SetValue(draft.Get(f))
		m.inputs[i].CursorEnd()
	}
	return m.focusField(0)
}

func (m *Model) leaveInsert() {
	m.mode = modeNormal
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.syncInputs()
}

func (m *Model) focusField(i int) tea.Cmd {
	n := len(m.inputs)
	i = ((i % n) + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// syncInputs mirrors the session draft into the form.
func (m *Model) syncInputs() {
	for i, f := range m.fields {
		if v := m.snap.Draft.Get(f); m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
		}
	}
}

func (m *Model) moveCursor(delta int) {
	n := len(m.snap.Activities)
	if n == 0 || m.mgr == nil {
		return
	}
	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next > n-1 {
		next = n - 1
	}
	m.cursor = next
	m.mgr.SelectActivity(m.snap.Activities[next])
	m.snap = m.mgr.Snapshot()
}

// refresh re-reads the session and keeps the cursor on the selection.
func (m *Model) refresh() {
	if m.mgr == nil {
		return
	}
	m.snap = m.mgr.Snapshot()
	m.cursor = cursorFor(m.snap)
	if m.mode != modeInsert {
		m.syncInputs()
	}
}

func cursorFor(s session.Snapshot) int {
	n := len(s.Activities)
	if n == 0 {
		return 0
	}
	if s.Selected != nil && s.Selected.ID != "" {
		for i, r := range s.Activities {
			if r.ID == s.Selected.ID {
				return i
			}
		}
	}
	return n - 1
}

func describeDone(op session.Op, err error) string {
	if err != nil {
		return fmt.Sprintf("ERR: %s failed: %v", op, err)
	}
	switch op {
	case session.OpInitialize:
		return "Loaded"
	case session.OpSubmit:
		return "Added"
	case session.OpInsight:
		return "Insight ready"
	}
	return normalHelp
}

// Run starts the dashboard in the alternate screen.
func Run(mgr *session.Manager, opts ...Option) error {
	p := tea.NewProgram(New(mgr, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
