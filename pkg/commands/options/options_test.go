package options

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/prompt"
)

func TestWrap(t *testing.T) {
	got := Wrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Fatalf("unexpected wrap %q", got)
	}
	if Wrap("   ", 10) != "   " {
		t.Fatalf("blank text should be returned as is")
	}
}

func TestPasswordFromStdin(t *testing.T) {
	o := &UserOptions{PasswordFromStdin: true}
	pass, err := o.Password(strings.NewReader("s3cret!\n"), &prompt.Prompter{})
	if err != nil || pass != "s3cret!" {
		t.Fatalf("expected trimmed password, got %q (%v)", pass, err)
	}
	if _, err := o.Password(strings.NewReader("  \n"), &prompt.Prompter{}); err == nil {
		t.Fatalf("expected an error for an empty password")
	}
}

func TestUsernameFromFlag(t *testing.T) {
	o := &UserOptions{User: "ada"}
	name, err := o.Username(&prompt.Prompter{})
	if err != nil || name != "ada" {
		t.Fatalf("expected flag value, got %q (%v)", name, err)
	}
}

func TestHandleErrorPassesThroughWithoutJSON(t *testing.T) {
	want := errors.New("boom")
	var buf bytes.Buffer
	o := &OutputOptions{Out: &buf}
	if err := o.HandleError(want); !errors.Is(err, want) {
		t.Fatalf("expected error to pass through, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be printed without --json, got %q", buf.String())
	}
}

func TestHandleErrorJSONCarriesCode(t *testing.T) {
	var buf bytes.Buffer
	o := &OutputOptions{JSON: true, Out: &buf}
	if err := o.HandleError(fmt.Errorf("login: %w", auth.ErrInvalidCredentials)); err != nil {
		t.Fatalf("json mode should print and swallow, got %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if got["code"] != "invalid_credentials" || !strings.Contains(got["error"], "login:") {
		t.Fatalf("unexpected payload %v", got)
	}
	if ErrorCode(errors.New("other")) != "error" {
		t.Fatalf("unknown errors should map to the generic code")
	}
}
