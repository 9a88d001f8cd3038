package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/commands/options"
	"tableflip.dev/daylog/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list logged days with per-category totals",
		Long: `List prints every logged day in store order, followed by the total hours
per category.

Examples:
  daylog list
  daylog list --last 2w --calendar
  daylog list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			days, label, err := wo.Window()
			if err != nil {
				return oo.HandleError(cmd.OutOrStdout(), err)
			}

			ctx := cmd.Context()
			c, err := openClient(ctx, cmd, nil)
			if err != nil {
				return oo.HandleError(cmd.OutOrStdout(), err)
			}
			defer c.Close()

			pp := newPrinter(cmd)
			pp.ShowID = oo.ShowID
			l := list.List{
				Session:  c.Session,
				Printer:  pp,
				Days:     days,
				Label:    label,
				Calendar: wo.Calendar,
				JSON:     oo.JSON,
			}
			return oo.HandleError(cmd.OutOrStdout(), l.Do(ctx))
		},
	}

	options.AddWindowArgs(cmd, wo)
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
