package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	root = &rootOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "daylog",
		Short: base.Wrap80("Track how each day splits between work, leisure, sleep and exercise, and ask a language model what it makes of it."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addRootArgs(cmd, root)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAdd(topLevel)
	addList(topLevel)
	addInsight(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
