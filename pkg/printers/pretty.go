package printers

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/viewmodel"
)

const (
	textWidth      = 80
	totalsBarWidth = 40
)

type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
	// Plain disables colour and markdown rendering.
	Plain bool
}

// New prints to f, going plain when f is not a terminal.
func New(f *os.File) *PrettyPrint {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &PrettyPrint{Out: f, Plain: !tty}
}

func (pp *PrettyPrint) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if pp.Plain {
		c.DisableColor()
	}
	return c
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Out)
}

func (pp *PrettyPrint) Title(title string) {
	_, _ = pp.style(color.Bold, color.Underline).Fprintln(pp.Out, title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	_, _ = pp.style(color.Bold, color.Underline).Fprint(pp.Out, title)
	c := pp.style(color.Faint)
	_, _ = c.Fprintf(pp.Out, " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.Out, " activity")
	default:
		_, _ = c.Fprintln(pp.Out, " activities")
	}
}

// Activities prints one row per record.
func (pp *PrettyPrint) Activities(records ...activity.Record) {
	if len(records) == 0 {
		_, _ = pp.style(color.Faint, color.Italic).Fprint(pp.Out, " none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(pp.header()...)
	id := pp.style(color.FgHiYellow, color.Italic, color.Faint)
	for _, r := range records {
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, id.Sprint(string(r.ID)))
		}
		row = append(row, r.Date.String())
		for _, c := range activity.Categories() {
			row = append(row, activity.FormatHours(r.Hours(c)))
		}
		row = append(row, activity.FormatHours(r.Total()))
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	pp.NewLine()
}

func (pp *PrettyPrint) header() []interface{} {
	b := pp.style(color.Bold)
	var cols []interface{}
	if pp.ShowID {
		cols = append(cols, b.Sprint("ID"))
	}
	cols = append(cols, b.Sprint("Date"))
	for _, c := range activity.Categories() {
		cols = append(cols, b.Sprint(string(c)))
	}
	return append(cols, b.Sprint("Total"))
}

// Totals prints per-category sums with a proportional bar.
func (pp *PrettyPrint) Totals(slices []viewmodel.Slice) {
	values := make([]float64, len(slices))
	for i, s := range slices {
		values[i] = s.Value
	}
	bars := barLengths(values, totalsBarWidth)

	tbl := uitable.New()
	tbl.Separator = "  "
	for i, s := range slices {
		bar := strings.Repeat("■", bars[i])
		tbl.AddRow(string(s.Category), activity.FormatHours(s.Value), pp.hex(s.Color).Sprint(bar))
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	pp.NewLine()
}

// barLengths splits width across values in proportion to their sum. Values
// are divided by the largest first so huge hour counts cannot overflow it.
func barLengths(values []float64, width int) []int {
	out := make([]int, len(values))
	var peak float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return out
	}
	if math.IsInf(peak, 1) {
		for i, v := range values {
			if math.IsInf(v, 1) {
				out[i] = width
			}
		}
		return out
	}
	var sum float64
	for _, v := range values {
		if v > 0 {
			sum += v / peak
		}
	}
	for i, v := range values {
		if v > 0 {
			out[i] = min(int(v/peak/sum*float64(width)+0.5), width)
		}
	}
	return out
}

func (pp *PrettyPrint) hex(code string) *color.Color {
	var r, g, b int
	if _, err := fmt.Sscanf(code, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return pp.style()
	}
	c := color.RGB(r, g, b)
	if pp.Plain {
		c.DisableColor()
	}
	return c
}

// Record prints a single record with its summary.
func (pp *PrettyPrint) Record(r activity.Record) {
	pp.Activities(r)
	if r.Summary != "" {
		pp.Title("Summary")
		pp.Markdown(r.Summary)
	}
}

// Markdown renders generated text. Model output is usually markdown, so
// terminals get glamour; pipes get plain wrapped text.
func (pp *PrettyPrint) Markdown(text string) {
	if !pp.Plain {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(markdownStyle()),
			glamour.WithWordWrap(textWidth),
		)
		if err == nil {
			if out, err := r.Render(text); err == nil {
				_, _ = fmt.Fprint(pp.Out, out)
				return
			}
		}
	}
	_, _ = fmt.Fprintln(pp.Out, wordwrap.String(strings.TrimSpace(text), textWidth))
	pp.NewLine()
}

func markdownStyle() string {
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
