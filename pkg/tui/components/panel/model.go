// Package panel renders framed text panels for the dashboard.
package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/daylog/pkg/tui/theme"
)

// Model renders a titled panel whose body is wrapped to the panel width.
type Model struct {
	title      string
	body       string
	width      int
	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
	bodyStyle  lipgloss.Style
}

func New(th theme.PanelTheme) Model {
	return Model{
		frameStyle: th.Frame,
		titleStyle: th.Title,
		bodyStyle:  th.Body,
	}
}

// SetContent updates the panel title and body text.
func (m *Model) SetContent(title, body string) {
	m.title = title
	m.body = body
}

// SetWidth sets the outer width including the frame. Zero disables wrapping.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// View returns the rendered panel string and its total height in lines.
func (m Model) View() (string, int) {
	var content []string
	if m.title != "" {
		content = append(content, m.titleStyle.Render(m.title))
	}
	body := strings.TrimSpace(m.body)
	if inner := m.innerWidth(); inner > 0 {
		body = wordwrap.String(body, inner)
	}
	if body != "" {
		content = append(content, m.bodyStyle.Render(body))
	}
	view := m.frameStyle.Render(strings.Join(content, "\n"))
	height := strings.Count(view, "\n") + 1
	return view, height
}

func (m Model) innerWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := m.width - m.frameStyle.GetHorizontalFrameSize()
	if w < 1 {
		return 1
	}
	return w
}
