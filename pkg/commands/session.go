package commands

import (
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/commands/options"
	"tableflip.dev/daybook/pkg/prompt"
	"tableflip.dev/daybook/pkg/store"
)

// session is what a one-shot command needs: the store, the account book and
// a Service scoped to whoever signs in.
type session struct {
	Persistence store.Persistence
	Accounts    *auth.Accounts
	Service     *app.Service
	Prompter    *prompt.Prompter
}

func openSession(cmd *cobra.Command) (*session, error) {
	logger := pslog.Ctx(cmd.Context())
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.LoadWithLogger(cfg, logger)
	if err != nil {
		return nil, err
	}
	state := auth.NewState()
	return &session{
		Persistence: p,
		Accounts:    auth.NewAccounts(p, state, logger),
		Service:     &app.Service{Persistence: p, Auth: state},
		Prompter:    &prompt.Prompter{},
	}, nil
}

// login opens the store and signs in with --user and a password.
func login(cmd *cobra.Command, uo *options.UserOptions) (*session, error) {
	s, err := openSession(cmd)
	if err != nil {
		return nil, err
	}
	name, err := uo.Username(s.Prompter)
	if err != nil {
		return nil, err
	}
	pass, err := uo.Password(cmd.InOrStdin(), s.Prompter)
	if err != nil {
		return nil, err
	}
	if _, err := s.Accounts.Login(name, pass); err != nil {
		return nil, err
	}
	return s, nil
}
