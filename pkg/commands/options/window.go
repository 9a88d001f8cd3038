package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/timeutil"
)

// WindowOptions
type WindowOptions struct {
	Last     string
	Calendar bool
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVar(&o.Last, "last", "",
		"Only include this trailing window, for example 3d, 1w or 1mo.")
	cmd.Flags().BoolVarP(&o.Calendar, "calendar", "c", false,
		"Also print a calendar of logged days.")
}

// Window returns the number of days to include, zero meaning everything.
func (o *WindowOptions) Window() (int, string, error) {
	if o.Last == "" {
		return 0, "", nil
	}
	return timeutil.ParseWindow(o.Last)
}
