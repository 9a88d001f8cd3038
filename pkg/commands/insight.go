package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/activity"
	"tableflip.dev/daylog/pkg/commands/options"
	"tableflip.dev/daylog/pkg/runner/insight"
)

func addInsight(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "insight [id]",
		Short: "ask for insight about a logged day",
		Example: `
daylog insight
daylog insight 5f0c2a9e-8d4e-4bb2-9a43-0d6b1f0b7c11
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			c, err := openClient(ctx, cmd, nil)
			if err != nil {
				return oo.HandleError(cmd.OutOrStdout(), err)
			}
			defer c.Close()

			n := insight.Insight{
				Session: c.Session,
				Printer: newPrinter(cmd),
				JSON:    oo.JSON,
			}
			if len(args) == 1 {
				n.ID = activity.ID(args[0])
			}
			return oo.HandleError(cmd.OutOrStdout(), n.Do(ctx))
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
