// Package help renders the dashboard key reference.
package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
)

//go:embed help.md
var helpMarkdown string

const (
	minWidth  = 32
	minHeight = 8
)

// Model renders the Glamour-based help inside a bordered, scrollable
// viewport.
type Model struct {
	viewport viewport.Model
	width    int
	height   int

	frame lipgloss.Style
	err   error
}

// New constructs a help model sized to the provided bounds.
func New(width, height int) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	m := &Model{
		viewport: vp,
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
	}
	m.SetSize(width, height)
	return m
}

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return cmd
}

func (m *Model) View() string {
	body := m.viewport.View()
	if body == "" && m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	return m.frame.Width(m.width).Height(m.height).Render(body)
}

// SetSize re-renders the markdown to fit the new bounds.
func (m *Model) SetSize(width, height int) {
	width = max(width, minWidth)
	height = max(height, minHeight)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(width-m.frame.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-m.frame.GetVerticalFrameSize(), 1)
	m.viewport.SetWidth(innerWidth)
	m.viewport.SetHeight(innerHeight)
	m.render(innerWidth)
}

func (m *Model) render(wrap int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(wrap, 10)),
	)
	if err == nil {
		var content string
		if content, err = renderer.Render(strings.TrimSpace(helpMarkdown)); err == nil {
			m.err = nil
			m.viewport.SetContent(strip(content))
			m.viewport.SetYOffset(0)
			return
		}
	}
	m.err = err
	m.viewport.SetContent("help unavailable: " + err.Error())
}

// strip drops glamour's colours; the frame supplies the styling.
func strip(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			inSeq = true
		case inSeq:
			inSeq = !ansi.IsTerminator(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
