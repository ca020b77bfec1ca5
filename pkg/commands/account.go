package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/commands/options"
)

func addRegister(topLevel *cobra.Command) {
	uo := &options.UserOptions{}
	oo := &options.OutputOptions{}
	var displayName string

	cmd := &cobra.Command{
		Use:   "register [username]",
		Short: "Create a local account",
		Example: `
daybook register ada --name "Ada Lovelace"
echo 's3cret!' | daybook register ada --password-from-stdin
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				uo.User = args[0]
			}
			s, err := openSession(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			name, err := uo.Username(s.Prompter)
			if err != nil {
				return oo.HandleError(err)
			}
			var pass string
			if uo.PasswordFromStdin {
				pass, err = uo.Password(cmd.InOrStdin(), s.Prompter)
			} else {
				pass, err = s.Prompter.NewPassword("Password")
			}
			if err != nil {
				return oo.HandleError(err)
			}
			acct, err := s.Accounts.Register(name, pass, displayName)
			if err != nil {
				return oo.HandleError(err)
			}
			pslog.Ctx(cmd.Context()).Debug("account registered", "user", acct.Username)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", acct.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "Display name.")
	options.AddUserArgs(cmd, uo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addPasswd(topLevel *cobra.Command) {
	uo := &options.UserOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change an account password",
		Example: `
daybook passwd --user ada
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			name, err := uo.Username(s.Prompter)
			if err != nil {
				return oo.HandleError(err)
			}
			current, err := s.Prompter.Password("Current password")
			if err != nil {
				return oo.HandleError(err)
			}
			next, err := s.Prompter.NewPassword("New password")
			if err != nil {
				return oo.HandleError(err)
			}
			if err := s.Accounts.ChangePassword(name, current, next); err != nil {
				return oo.HandleError(err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "password changed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&uo.User, "user", "u", "", "Username.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
