package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/tui/views/calendar"
)

func addCalendar(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Calendar (coming soon)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			_, _ = color.New(color.Bold).Fprintln(out, calendar.Title)
			_, _ = fmt.Fprintln(out, calendar.Notice)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
