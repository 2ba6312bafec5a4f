package ui

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a prompt is needed but stdin is not a
// terminal.
var ErrNotInteractive = errors.New("stdin is not a terminal")

// Prompter asks the operator for input.
type Prompter interface {
	Secret(ctx context.Context, title, description string) (string, error)
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// FormPrompter prompts with huh forms.
type FormPrompter struct{}

// CanPrompt reports whether stdin is attached to a terminal.
func CanPrompt() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Secret reads a value without echoing it. An empty answer is allowed.
func (FormPrompter) Secret(ctx context.Context, title, description string) (string, error) {
	if !CanPrompt() {
		return "", ErrNotInteractive
	}
	var value string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(description).
				EchoMode(huh.EchoModePassword).
				Value(&value).
				Validate(validateNoWhitespace),
		),
	).RunWithContext(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Confirm asks a yes/no question. The default answer is no.
func (FormPrompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	if !CanPrompt() {
		return false, ErrNotInteractive
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).RunWithContext(ctx)
	return ok, err
}

func validateNoWhitespace(s string) error {
	if strings.ContainsAny(strings.TrimSpace(s), " \t\n") {
		return errors.New("value must not contain whitespace")
	}
	return nil
}
