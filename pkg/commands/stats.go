package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	uo := &options.UserOptions{}
	oo := &options.OutputOptions{}
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completed todos and focus time",
		Example: `
daybook stats --user ada
daybook stats --user ada --last 2w
daybook stats --user ada --last 1w3d --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := login(cmd, uo)
			if err != nil {
				return oo.HandleError(err)
			}
			st := stats.Stats{
				Service: s.Service,
				Window:  wo.Window,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(st.Do(cmd.Context()))
		},
	}

	options.AddUserArgs(cmd, uo)
	options.AddWindowArgs(cmd, wo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
