package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/activity"
)

// ActivityOptions collects one day of hours. Values stay raw strings; the
// session draft parses them.
type ActivityOptions struct {
	Date     string
	Work     string
	Leisure  string
	Sleep    string
	Exercise string
}

func AddActivityArgs(cmd *cobra.Command, o *ActivityOptions) {
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Day being logged, example: --date="2024-06-03". Defaults to today.`)
	cmd.Flags().StringVarP(&o.Work, "work", "w", "0", "Hours of work.")
	cmd.Flags().StringVarP(&o.Leisure, "leisure", "l", "0", "Hours of leisure.")
	cmd.Flags().StringVarP(&o.Sleep, "sleep", "s", "0", "Hours of sleep.")
	cmd.Flags().StringVarP(&o.Exercise, "exercise", "e", "0", "Hours of exercise.")
}

// Values maps the flags onto draft fields.
func (o *ActivityOptions) Values(now time.Time) map[activity.Field]string {
	date := o.Date
	if date == "" || date == "today" {
		date = activity.DateOf(now).String()
	}
	return map[activity.Field]string{
		activity.FieldDate:     date,
		activity.FieldWork:     o.Work,
		activity.FieldLeisure:  o.Leisure,
		activity.FieldSleep:    o.Sleep,
		activity.FieldExercise: o.Exercise,
	}
}
