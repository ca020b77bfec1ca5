package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"pkt.systems/pslog"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserExists         = errors.New("auth: user already exists")
	ErrAccountNotFound    = errors.New("auth: account not found")
	ErrNotSignedIn        = errors.New("auth: not signed in")
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{1,31}$`)

const minPasswordLength = 6

// Account is a stored local user.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"password_hash"`
	Created      time.Time `json:"created"`
	LastLogin    time.Time `json:"last_login,omitempty"`

	Preferences Preferences `json:"preferences"`
}

// Preferences are per-user pomodoro settings in minutes. Zero values fall
// back to the configured defaults.
type Preferences struct {
	FocusMinutes int `json:"focus_minutes,omitempty"`
	ShortMinutes int `json:"short_minutes,omitempty"`
	LongMinutes  int `json:"long_minutes,omitempty"`
	Rounds       int `json:"rounds,omitempty"`
}

// Name is the display name, falling back to the username.
func (a *Account) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// AccountStore persists accounts keyed by username. Account returns
// ErrAccountNotFound for unknown users.
type AccountStore interface {
	Account(username string) (*Account, error)
	StoreAccount(a *Account) error
}

// Accounts registers and authenticates users and flips State on login and
// logout.
type Accounts struct {
	store AccountStore
	state *State
	log   pslog.Logger
	cost  int
	now   func() time.Time
}

// NewAccounts wires an account book to its store and the shared State.
func NewAccounts(store AccountStore, state *State, logger pslog.Logger) *Accounts {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Accounts{
		store: store,
		state: state,
		log:   logger,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

// NormalizeUsername lowercases and validates a username.
func NormalizeUsername(username string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(name) {
		return "", fmt.Errorf("auth: invalid username %q", username)
	}
	return name, nil
}

// Register creates a new account. It does not sign the user in.
func (a *Accounts) Register(username, password, displayName string) (*Account, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("auth: password must be at least %d characters", minPasswordLength)
	}
	if _, err := a.store.Account(name); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, err
	}
	acct := &Account{
		ID:           uuid.NewString(),
		Username:     name,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		Created:      a.now(),
	}
	if err := a.store.StoreAccount(acct); err != nil {
		a.log.Warn("auth register failed", "user", name, "err", err)
		return nil, err
	}
	a.log.Info("auth register ok", "user", name)
	return acct, nil
}

// Authenticate verifies credentials without touching State.
func (a *Accounts) Authenticate(username, password string) (*Account, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	acct, err := a.store.Account(name)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		a.log.Warn("auth login rejected", "user", name)
		return nil, ErrInvalidCredentials
	}
	return acct, nil
}

// SignIn records the login time and marks acct as the authenticated user.
func (a *Accounts) SignIn(acct *Account) {
	now := a.now()
	acct.LastLogin = now
	if err := a.store.StoreAccount(acct); err != nil {
		a.log.Warn("auth last login not saved", "user", acct.Username, "err", err)
	}
	a.log.Info("auth login ok", "user", acct.Username)
	a.state.SignIn(Session{UserID: acct.ID, Username: acct.Username, SignedIn: now})
}

// Login authenticates and signs in.
func (a *Accounts) Login(username, password string) (*Account, error) {
	acct, err := a.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	a.SignIn(acct)
	return acct, nil
}

// Logout signs the current user out.
func (a *Accounts) Logout() {
	if sess, ok := a.state.Session(); ok {
		a.log.Info("auth logout", "user", sess.Username)
	}
	a.state.SignOut()
}

// Current loads the signed-in account.
func (a *Accounts) Current() (*Account, error) {
	sess, ok := a.state.Session()
	if !ok {
		return nil, ErrNotSignedIn
	}
	return a.store.Account(sess.Username)
}

// ChangePassword replaces the hash after verifying the current password.
func (a *Accounts) ChangePassword(username, current, next string) error {
	if len(next) < minPasswordLength {
		return fmt.Errorf("auth: password must be at least %d characters", minPasswordLength)
	}
	acct, err := a.Authenticate(username, current)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), a.cost)
	if err != nil {
		return err
	}
	acct.PasswordHash = string(hash)
	if err := a.store.StoreAccount(acct); err != nil {
		return err
	}
	a.log.Info("auth password changed", "user", acct.Username)
	return nil
}

// SetPreferences stores prefs on the signed-in account.
func (a *Accounts) SetPreferences(prefs Preferences) (*Account, error) {
	acct, err := a.Current()
	if err != nil {
		return nil, err
	}
	acct.Preferences = prefs
	if err := a.store.StoreAccount(acct); err != nil {
		return nil, err
	}
	return acct, nil
}
