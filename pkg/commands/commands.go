package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:           "daybook",
		Short:         options.Wrap80("Todos, a pomodoro timer and statistics in the terminal."),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addKey(topLevel)
	addRegister(topLevel)
	addPasswd(topLevel)
	addTodo(topLevel)
	addStats(topLevel)
	addCalendar(topLevel)
	addVersion(topLevel)
}
