package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/tui/theme"
)

type fakeAccounts struct {
	state      *auth.State
	password   string
	registered []string
}

func (f *fakeAccounts) Authenticate(username, password string) (*auth.Account, error) {
	if password != f.password {
		return nil, auth.ErrInvalidCredentials
	}
	return &auth.Account{ID: "id-" + username, Username: username}, nil
}

func (f *fakeAccounts) Register(username, password, displayName string) (*auth.Account, error) {
	f.registered = append(f.registered, username)
	f.password = password
	return &auth.Account{ID: "id-" + username, Username: username, DisplayName: displayName}, nil
}

func (f *fakeAccounts) SignIn(acct *auth.Account) {
	f.state.SignIn(auth.Session{UserID: acct.ID, Username: acct.Username})
}

func newForm() (*Model, *fakeAccounts) {
	accts := &fakeAccounts{state: auth.NewState(), password: "hunter22"}
	m := New(accts, theme.NewManager(theme.SchemeDark, func() bool { return true }), nil)
	m.SetSize(80, 24)
	return m, accts
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func submit(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	if !m.Busy() {
		t.Fatalf("form should be busy while checking")
	}
	m.Update(cmd())
}

func TestLoginSignsIn(t *testing.T) {
	m, accts := newForm()
	typeText(m, "ada")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(m, "hunter22")
	submit(t, m)

	sess, ok := accts.state.Session()
	if !ok || sess.Username != "ada" {
		t.Fatalf("expected ada signed in, got %+v (%v)", sess, ok)
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error %v", m.Err())
	}
}

func TestLoginShowsErrorInline(t *testing.T) {
	m, accts := newForm()
	typeText(m, "ada")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "nope")
	submit(t, m)

	if accts.state.IsAuthenticated() {
		t.Fatalf("bad password must not sign in")
	}
	if m.Err() == nil || !strings.Contains(m.View(), "wrong password") {
		t.Fatalf("expected inline error, got view:\n%s", m.View())
	}
}

func TestRegisterToggle(t *testing.T) {
	m, accts := newForm()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.Registering() || !strings.Contains(m.View(), "Create a daybook account") {
		t.Fatalf("expected register mode")
	}
	typeText(m, "grace")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "s3cret!")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "Grace")
	submit(t, m)

	if len(accts.registered) != 1 || accts.registered[0] != "grace" {
		t.Fatalf("expected registration, got %v", accts.registered)
	}
	if !accts.state.IsAuthenticated() {
		t.Fatalf("registration should sign in")
	}
}

func TestEmptySubmitRejected(t *testing.T) {
	m, _ := newForm()
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.Err() == nil {
		t.Fatalf("expected validation error without a command")
	}
}

func TestStaleResultIgnored(t *testing.T) {
	m, accts := newForm()
	other, _ := newForm()
	m.Update(resultMsg{form: other, account: &auth.Account{ID: "x", Username: "x"}})
	if accts.state.IsAuthenticated() {
		t.Fatalf("result for another form must be ignored")
	}
}
