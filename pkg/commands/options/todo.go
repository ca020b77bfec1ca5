package options

import (
	"github.com/spf13/cobra"
)

// PriorityOptions
type PriorityOptions struct {
	Priority bool
}

func AddPriorityArgs(cmd *cobra.Command, o *PriorityOptions) {
	cmd.Flags().BoolVarP(&o.Priority, "priority", "p", false,
		"Flag the todo as a priority.")
}

// ListOptions
type ListOptions struct {
	All    bool
	ShowID bool
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"Include completed todos.")
	cmd.Flags().BoolVar(&o.ShowID, "id", true,
		"Show short ids.")
}

// WindowOptions
type WindowOptions struct {
	Window string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVarP(&o.Window, "last", "l", "1w",
		"Statistics window, like 1d, 2w or 1w3d.")
}
