package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/runner/todos"
)

func addTodo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"todos", "t"},
		Short:   "Work with your todo list",
		Example: `
daybook todo list --user ada
daybook todo add --user ada -p call the bank
daybook todo done --user ada 171dff69
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTodoList(cmd)
	addTodoAdd(cmd)
	addTodoDone(cmd)
	addTodoRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addTodoList(topLevel *cobra.Command) {
	uo := &options.UserOptions{}
	oo := &options.OutputOptions{}
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos, open first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := login(cmd, uo)
			if err != nil {
				return oo.HandleError(err)
			}
			l := todos.List{
				Service: s.Service,
				All:     lo.All,
				ShowID:  lo.ShowID,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddUserArgs(cmd, uo)
	options.AddListArgs(cmd, lo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addTodoAdd(topLevel *cobra.Command) {
	uo := &options.UserOptions{}
	oo := &options.OutputOptions{}
	po := &options.PriorityOptions{}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := login(cmd, uo)
			if err != nil {
				return oo.HandleError(err)
			}
			a := todos.Add{
				Service:  s.Service,
				Title:    strings.Join(args, " "),
				Priority: po.Priority,
				Out:      cmd.OutOrStdout(),
			}
			return oo.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddUserArgs(cmd, uo)
	options.AddPriorityArgs(cmd, po)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addTodoDone(topLevel *cobra.Command) {
	uo := &options.UserOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "done [id]",
		Aliases: []string{"complete"},
		Short:   "Mark a todo done by id or id prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := login(cmd, uo)
			if err != nil {
				return oo.HandleError(err)
			}
			d := todos.Done{Service: s.Service, ID: args[0], Out: cmd.OutOrStdout()}
			return oo.HandleError(d.Do(cmd.Context()))
		},
	}

	options.AddUserArgs(cmd, uo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addTodoRemove(topLevel *cobra.Command) {
	uo := &options.UserOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a todo by id or id prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := login(cmd, uo)
			if err != nil {
				return oo.HandleError(err)
			}
			r := todos.Remove{Service: s.Service, ID: args[0], Out: cmd.OutOrStdout()}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddUserArgs(cmd, uo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
