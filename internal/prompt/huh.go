package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/valen-cli/valen/internal/messages"
)

// HuhUI asks questions with single-field huh forms rendered on stderr.
type HuhUI struct {
	isTerminal func() bool
	// ctrlCAbort is set by formFilter while a form runs and cleared before
	// the next one, so a stale ctrl+c never turns a later esc into a cancel.
	ctrlCAbort bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI returns a HuhUI that refuses to run outside a terminal.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: IsInteractive}
}

// formKeyMap makes both esc and ctrl+c quit the form; runForm tells them
// apart afterwards. Each field's Prev and Next bindings never fire because
// Quit sees those keys first, so they are reused to show the two hints in
// the help line.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))

	back := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	cancel := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancel"))
	hints := []struct{ prev, next *key.Binding }{
		{&km.Select.Prev, &km.Select.Next},
		{&km.Confirm.Prev, &km.Confirm.Next},
		{&km.Input.Prev, &km.Input.Next},
		{&km.Note.Prev, &km.Note.Next},
	}
	for _, h := range hints {
		*h.prev = back
		*h.next = cancel
	}

	// Typing into a select must not start filtering; options are short.
	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)
	return km
}

// hintField re-applies the form key map whenever huh repositions the field.
//
// huh disables Prev on the first field and Next on the last one. Every form
// built here holds exactly one field, so without this wrapper both hints
// would vanish from the help line.
type hintField struct {
	huh.Field
	km *huh.KeyMap
}

// Update returns the wrapper itself; the group stores whatever model comes
// back and would otherwise drop it.
func (f *hintField) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := f.Field.Update(msg)
	if field, ok := model.(huh.Field); ok {
		f.Field = field
	}
	return f, cmd
}

func (f *hintField) WithPosition(p huh.FieldPosition) huh.Field {
	f.Field.WithPosition(p)
	f.WithKeyMap(f.km)
	return f
}

func newHintField(field huh.Field) huh.Field {
	return &hintField{Field: field, km: formKeyMap()}
}

// formFilter watches the messages bubbletea feeds the form.
//
// A ctrl+c key press sets ctrlCAbort before huh turns it into
// ErrUserAborted; esc leaves the flag clear, which runForm reads as back.
// An InterruptMsg becomes a QuitMsg so the renderer still clears the form.
// A SIGINT sent from outside arrives without a key press and so reads as
// back, not cancel.
func (ui *HuhUI) formFilter() func(tea.Model, tea.Msg) tea.Msg {
	return func(_ tea.Model, msg tea.Msg) tea.Msg {
		switch m := msg.(type) {
		case tea.KeyMsg:
			if m.Type == tea.KeyCtrlC {
				ui.ctrlCAbort = true
			}
		case tea.InterruptMsg:
			return tea.QuitMsg{}
		}
		return msg
	}
}

// runForm runs form and maps an abort to ErrBack (esc) or ErrCancelled (ctrl+c).
func (ui *HuhUI) runForm(form *huh.Form) error {
	isTerminal := ui.isTerminal
	if isTerminal == nil {
		isTerminal = IsInteractive
	}
	if !isTerminal() {
		return errors.New(messages.PromptRequiresTerminal)
	}

	ui.ctrlCAbort = false
	form.WithKeyMap(formKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithReportFocus(),
		tea.WithFilter(ui.formFilter()),
	)

	err := runFormFunc(form)
	if !errors.Is(err, huh.ErrUserAborted) {
		return err
	}
	if ui.ctrlCAbort {
		return ErrCancelled
	}
	return ErrBack
}

// ask runs a form holding only field.
func (ui *HuhUI) ask(field huh.Field) error {
	return ui.runForm(huh.NewForm(huh.NewGroup(newHintField(field))))
}

// Select asks for one of options, starting on *current.
func (ui *HuhUI) Select(title string, options []string, current *string) error {
	return ui.ask(huh.NewSelect[string]().Title(title).Options(huh.NewOptions(options...)...).Value(current))
}

// Confirm asks a yes/no question, starting on *value.
func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.ask(huh.NewConfirm().Title(title).Value(value))
}

// Input asks for a line of text, prefilled with *value.
func (ui *HuhUI) Input(title string, value *string) error {
	return ui.ask(huh.NewInput().Title(title).Value(value))
}

// SecretInput asks for a line of text without echoing it.
func (ui *HuhUI) SecretInput(title string, value *string) error {
	return ui.ask(huh.NewInput().Title(title).Value(value).EchoMode(huh.EchoModePassword))
}

// Note shows body until the operator continues.
func (ui *HuhUI) Note(title string, body string) error {
	return ui.ask(huh.NewNote().Title(title).Description(body))
}
