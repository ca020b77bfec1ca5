package options

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/prompt"
)

// UserOptions identify the account a command acts for.
type UserOptions struct {
	User              string
	PasswordFromStdin bool
}

func AddUserArgs(cmd *cobra.Command, o *UserOptions) {
	cmd.Flags().StringVarP(&o.User, "user", "u", os.Getenv("DAYBOOK_USER"),
		"Username to act as. Defaults to $DAYBOOK_USER.")
	cmd.Flags().BoolVar(&o.PasswordFromStdin, "password-from-stdin", false,
		"Read the password from stdin instead of prompting.")
}

// Username returns --user or asks for it.
func (o *UserOptions) Username(p *prompt.Prompter) (string, error) {
	if strings.TrimSpace(o.User) != "" {
		return o.User, nil
	}
	return p.String("Username", "")
}

// Password reads the password from in when --password-from-stdin is set and
// prompts otherwise.
func (o *UserOptions) Password(in io.Reader, p *prompt.Prompter) (string, error) {
	if !o.PasswordFromStdin {
		return p.Password("Password")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	pass := strings.TrimSpace(string(data))
	if pass == "" {
		return "", errors.New("password from stdin is empty")
	}
	return pass, nil
}
