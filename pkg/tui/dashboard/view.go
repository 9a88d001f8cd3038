package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/tui/components/panel"
	"tableflip.dev/daylog/pkg/tui/theme"
	"tableflip.dev/daylog/pkg/viewmodel"
)

const (
	hoursPerDay  = 24
	minLeft      = 34
	maxLeft      = 46
	defaultWidth = 100
	barGlyph     = "█"
)

// View renders the form and breakdown on the left, history and panels on
// the right, and the status bar underneath.
func (m Model) View() string {
	width := m.termWidth
	if width <= 0 {
		width = defaultWidth
	}
	left := width / 3
	if left < minLeft {
		left = minLeft
	}
	if left > maxLeft {
		left = maxLeft
	}
	right := width - left - 3
	if right < 30 {
		right = 30
	}

	leftCol := lipgloss.JoinVertical(lipgloss.Left,
		m.viewForm(),
		"",
		m.viewBreakdown(left),
	)
	rightCol := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHistory(right),
		"",
		m.viewRecent(),
		"",
		m.viewPanels(right),
	)
	gap := lipgloss.NewStyle().Padding(0, 1).Render
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, gap(" "), rightCol)

	switch m.mode {
	case modeCommand:
		body += "\n\n:" + m.command.View()
	case modeHelp:
		if m.help != nil {
			body = m.help.View()
		}
	}

	return body + "\n\n" + m.viewStatus()
}

func (m Model) viewForm() string {
	title := m.th.Panel.Title.Render("New activity")
	lines := []string{title}
	for i, f := range m.fields {
		label := m.th.Form.Label
		if m.mode == modeInsert && i == m.focus {
			label = m.th.Form.FocusedLabel
		}
		lines = append(lines, fmt.Sprintf("%s %s", label.Render(fmt.Sprintf("%-9s", f)), m.inputs[i].View()))
	}
	if m.mode != modeInsert {
		lines = append(lines, m.th.Form.Hint.Render("press a to add"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewBreakdown(width int) string {
	title := "Breakdown"
	if m.snap.Selected != nil {
		title += " · " + m.snap.Selected.Date.String()
	}
	lines := []string{m.th.Panel.Title.Render(title)}

	slices := viewmodel.Breakdown(m.snap.Selected)
	if len(slices) == 0 {
		lines = append(lines, m.th.Form.Hint.Render("no activity selected"))
		return strings.Join(lines, "\n")
	}
	barWidth := width - 18
	if barWidth < 4 {
		barWidth = 4
	}
	for _, s := range slices {
		n := scale(s.Value, hoursPerDay, barWidth)
		bar := lipgloss.NewStyle().Foreground(theme.Hex(s.Color)).Render(strings.Repeat(barGlyph, n))
		lines = append(lines, fmt.Sprintf("%-9s %5s %s", s.Category, activity.FormatHours(s.Value), bar))
	}
	return strings.Join(lines, "\n")
}

// viewHistory draws one stacked bar per day, most recent at the bottom.
// Rows other than the selection are faded.
func (m Model) viewHistory(width int) string {
	lines := []string{m.th.Panel.Title.Render("History")}
	series := viewmodel.TimeSeries(m.snap.Activities)
	if len(series) == 0 {
		lines = append(lines, m.th.Form.Hint.Render("no activities yet"))
		return strings.Join(lines, "\n")
	}

	rows := m.historyRows()
	start := 0
	if len(series) > rows {
		start = len(series) - rows
		if m.cursor < start {
			start = m.cursor
		}
	}
	end := start + rows
	if end > len(series) {
		end = len(series)
	}

	barWidth := width - 16
	if barWidth < 8 {
		barWidth = 8
	}
	for i := start; i < end; i++ {
		r := series[i]
		selected := m.isSelected(i, r)
		marker := "  "
		if selected {
			marker = m.th.Chart.Marker.Render("→ ")
		}
		lines = append(lines, marker+r.Date.String()+" "+m.stackedBar(r, barWidth, selected))
	}
	legend := make([]string, 0, 4)
	for i, c := range activity.Categories() {
		sw := lipgloss.NewStyle().Foreground(theme.Hex(viewmodel.ColorAt(i))).Render(barGlyph)
		legend = append(legend, sw+" "+string(c))
	}
	lines = append(lines, m.th.Chart.Axis.Render("  ")+strings.Join(legend, "  "))
	return strings.Join(lines, "\n")
}

func (m Model) historyRows() int {
	if m.termHeight <= 0 {
		return 10
	}
	rows := m.termHeight/2 - 4
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m Model) isSelected(i int, r activity.Record) bool {
	sel := m.snap.Selected
	if sel == nil {
		return false
	}
	if sel.ID != "" {
		return sel.ID == r.ID
	}
	return i == m.cursor
}

func (m Model) stackedBar(r activity.Record, width int, selected bool) string {
	var b strings.Builder
	for i, c := range activity.Categories() {
		n := scale(r.Hours(c), hoursPerDay, width)
		if n == 0 {
			continue
		}
		code := viewmodel.ColorAt(i)
		style := lipgloss.NewStyle().Foreground(theme.Hex(code))
		if !selected {
			style = lipgloss.NewStyle().Foreground(theme.Fade(code, m.th.Chart.Background, 0.45))
		}
		b.WriteString(style.Render(strings.Repeat(barGlyph, n)))
	}
	return b.String()
}

func (m Model) viewRecent() string {
	lines := []string{m.th.Panel.Title.Render("Recent")}
	recent := viewmodel.Recent(m.snap.Activities)
	if len(recent) == 0 {
		lines = append(lines, m.th.Form.Hint.Render("none"))
	}
	for _, r := range recent {
		line := fmt.Sprintf("%s  %sh total, %sh sleep", r.Date, activity.FormatHours(r.Total()), activity.FormatHours(r.Sleep))
		if sel := m.snap.Selected; sel != nil && sel.ID != "" && sel.ID == r.ID {
			line = m.th.Chart.Selected.Render(line)
		}
		lines = append(lines, "  "+line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewPanels(width int) string {
	summary := panel.New(m.th.Panel)
	summary.SetWidth(width)
	body := ""
	if m.snap.Selected != nil {
		body = m.snap.Selected.Summary
	}
	summary.SetContent("Summary", body)
	sv, _ := summary.View()

	in := panel.New(m.th.Panel)
	in.SetWidth(width)
	in.SetContent("Insight", m.snap.Insight)
	iv, _ := in.View()

	return lipgloss.JoinVertical(lipgloss.Left, sv, iv)
}

func (m Model) viewStatus() string {
	modeStr := map[mode]string{modeNormal: "NORMAL", modeInsert: "INSERT", modeCommand: "CMD", modeHelp: "HELP"}[m.mode]
	parts := []string{m.th.Footer.Status.Render(fmt.Sprintf("[%s] %s", modeStr, m.status))}
	if m.snap.Busy {
		parts = append(parts, m.th.Footer.Busy.Render(fmt.Sprintf("⟳ %s…", m.snap.InFlight)))
	}
	if m.snap.LastError != "" {
		parts = append(parts, m.th.Footer.Error.Render(m.snap.LastError))
	}
	return strings.Join(parts, "  ")
}

// scale maps v out of limit onto width cells, rounding to nearest. Values at
// or beyond limit fill the width.
func scale(v, limit float64, width int) int {
	if width <= 0 || limit <= 0 || math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= limit {
		return width
	}
	return min(int(v/limit*float64(width)+0.5), width)
}
