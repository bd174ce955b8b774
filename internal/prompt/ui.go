// Package prompt provides the interactive capability injected into every flow that asks the operator something.
package prompt

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/valen-cli/valen/internal/messages"
)

// UI defines the interaction methods.
type UI interface {
	Select(title string, options []string, current *string) error
	Confirm(title string, value *bool) error
	Input(title string, value *string) error
	SecretInput(title string, value *string) error
	Note(title string, body string) error
}

var (
	// ErrBack reports that the operator asked to leave the current prompt (esc).
	ErrBack = errors.New(messages.PromptBack)
	// ErrCancelled reports that the operator cancelled the session (ctrl+c or closed input).
	ErrCancelled = errors.New(messages.PromptCancelled)
)

// IsInteractive reports whether stdin and stdout are both interactive terminals.
func IsInteractive() bool {
	return isTerminalFile(os.Stdin) && isTerminalFile(os.Stdout)
}

func isTerminalFile(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

var isInteractiveFunc = IsInteractive

// New returns the UI for the current process: huh forms on a terminal,
// a line prompter over in/out otherwise. assumeYes wraps the result so
// prompts with a default are answered without asking.
func New(in io.Reader, out io.Writer, assumeYes bool) UI {
	var ui UI
	if isInteractiveFunc() {
		ui = NewHuhUI()
	} else {
		ui = NewLineUI(in, out)
	}
	if assumeYes {
		return AssumeDefaults(ui)
	}
	return ui
}

// Choose runs Select starting from the first option and returns the pick.
func Choose(ui UI, title string, options []string) (string, error) {
	choice := ""
	if len(options) > 0 {
		choice = options[0]
	}
	if err := ui.Select(title, options, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

// Ask runs Confirm seeded with def and returns the answer.
func Ask(ui UI, title string, def bool) (bool, error) {
	value := def
	if err := ui.Confirm(title, &value); err != nil {
		return false, err
	}
	return value, nil
}
