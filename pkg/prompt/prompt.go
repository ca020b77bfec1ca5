// Package prompt asks for values on the terminal with promptui.
package prompt

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrEmpty is returned when a required answer is blank.
var ErrEmpty = errors.New("prompt: answer required")

var templates = &promptui.PromptTemplates{
	Prompt:  "{{ . }}: ",
	Valid:   "{{ . | green }}: ",
	Invalid: "{{ . | red }}: ",
	Success: "{{ . | bold }}: ",
}

// Prompter reads answers. The zero value uses the process terminal.
type Prompter struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// String asks for a value, returning def when the answer is blank. With no
// default a blank answer is rejected.
func (p *Prompter) String(label, def string) (string, error) {
	pr := promptui.Prompt{
		Label:     label,
		Default:   def,
		Templates: templates,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" && def == "" {
				return ErrEmpty
			}
			return nil
		},
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	result, err := pr.Run()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result) == "" {
		return def, nil
	}
	return strings.TrimSpace(result), nil
}

// Password asks for a secret without echoing it.
func (p *Prompter) Password(label string) (string, error) {
	pr := promptui.Prompt{
		Label:     label,
		Mask:      '*',
		Templates: templates,
		Validate: func(input string) error {
			if input == "" {
				return ErrEmpty
			}
			return nil
		},
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	return pr.Run()
}

// NewPassword asks twice and fails when the answers differ.
func (p *Prompter) NewPassword(label string) (string, error) {
	first, err := p.Password(label)
	if err != nil {
		return "", err
	}
	second, err := p.Password("Confirm " + strings.ToLower(label))
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("prompt: passwords do not match")
	}
	return first, nil
}

// Confirm asks a yes/no question. Anything but yes is false.
func (p *Prompter) Confirm(label string) (bool, error) {
	pr := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}
	if _, err := pr.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
