package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/commands/options"
	"tableflip.dev/daylog/pkg/prompt"
	"tableflip.dev/daylog/pkg/runner/add"
)

// terminalAsker builds the prompt used by add -i.
var terminalAsker = prompt.Terminal

func addAdd(topLevel *cobra.Command) {
	ao := &options.ActivityOptions{}
	interactive := false
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "log hours for a day",
		Example: `
daylog add --work 8 --leisure 2 --sleep 7.5 --exercise 1
daylog add --date 2024-06-03 -w 6 -s 8
daylog add -i
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			c, err := openClient(ctx, cmd, nil)
			if err != nil {
				return oo.HandleError(cmd.OutOrStdout(), err)
			}
			defer c.Close()

			values := ao.Values(time.Now())
			if interactive {
				if values, err = prompt.Fields(terminalAsker(cmd.InOrStdin(), cmd.ErrOrStderr()), values); err != nil {
					return oo.HandleError(cmd.OutOrStdout(), err)
				}
			}

			pp := newPrinter(cmd)
			pp.ShowID = oo.ShowID
			a := add.Add{
				Session: c.Session,
				Printer: pp,
				Values:  values,
				JSON:    oo.JSON,
			}
			return oo.HandleError(cmd.OutOrStdout(), a.Do(ctx))
		},
	}

	options.AddActivityArgs(cmd, ao)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for each field, using the flags as defaults.")
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
