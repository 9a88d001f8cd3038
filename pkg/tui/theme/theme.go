package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the dashboard.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Form   FormTheme
	Chart  ChartTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Busy   lipgloss.Style
	Error  lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// FormTheme styles the activity entry form.
type FormTheme struct {
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Hint         lipgloss.Style
}

// ChartTheme styles bars and axes.
type ChartTheme struct {
	Axis     lipgloss.Style
	Marker   lipgloss.Style
	Selected lipgloss.Style
	// Background is blended into bar colours for unselected rows.
	Background string
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Busy:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Form: FormTheme{
			Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			FocusedLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Hint:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		},
		Chart: ChartTheme{
			Axis:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Marker:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Selected:   lipgloss.NewStyle().Bold(true),
			Background: "#303030",
		},
	}
}

// Hex parses a "#rrggbb" palette entry, falling back to grey.
func Hex(code string) colorful.Color {
	c, err := colorful.Hex(code)
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return c
}

// Fade blends code toward bg by t (0 keeps code, 1 yields bg).
func Fade(code, bg string, t float64) color.Color {
	return Hex(code).BlendLab(Hex(bg), t).Clamped()
}
