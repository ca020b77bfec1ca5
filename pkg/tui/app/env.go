package teaui

import (
	"context"

	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/notify"
	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/store"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/views/profile"
)

// Deps are what the caller provides; everything else is built here.
type Deps struct {
	Config      store.Config
	Persistence store.Persistence
	Logger      pslog.Logger
}

// Env holds the process-wide singletons. NewEnv builds each exactly once;
// every view receives the same instances.
type Env struct {
	Persistence store.Persistence
	State       *auth.State
	Themes      *theme.Manager
	Accounts    *auth.Accounts
	Notifier    *notify.Manager
	Service     *app.Service
	Pomodoro    pomodoro.Config
	Logger      pslog.Logger

	// Permissions runs the bootstrap check. It is the Notifier unless a test
	// replaces it.
	Permissions PermissionRequester
}

// NewEnv wires the singletons around deps.
func NewEnv(ctx context.Context, deps Deps) *Env {
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}

	scheme := "auto"
	cycle := pomodoro.DefaultConfig()
	if deps.Config != nil {
		scheme = deps.Config.Theme()
		cycle = deps.Config.Pomodoro()
	}
	if deps.Persistence != nil {
		if v, ok, err := deps.Persistence.Setting(profile.ThemeSetting); err == nil && ok {
			scheme = v
		}
	}

	state := auth.NewState()
	notifier := notify.NewManager(deps.Persistence, logger.With("component", "notify"))
	return &Env{
		Persistence: deps.Persistence,
		State:       state,
		Themes:      theme.NewManager(theme.ParseScheme(scheme), nil),
		Accounts:    auth.NewAccounts(deps.Persistence, state, logger.With("component", "auth")),
		Notifier:    notifier,
		Service:     &app.Service{Persistence: deps.Persistence, Auth: state},
		Pomodoro:    cycle,
		Logger:      logger,
		Permissions: notifier,
	}
}
