package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
daybook ui
`,
		ValidArgs: []string{},
		Args:      cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			i := ui.UI{}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
