package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHuhUI(t *testing.T) {
	ui := NewHuhUI()
	assert.NotNil(t, ui)
	assert.NotNil(t, ui.isTerminal)
}

func TestHuhUI_NoTTY(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return false }}

	var s string
	var b bool
	assert.Error(t, ui.Select("Title", []string{"A", "B"}, &s))
	assert.Error(t, ui.Confirm("Title", &b))
	assert.Error(t, ui.Input("Title", &s))
	assert.Error(t, ui.SecretInput("Title", &s))
	err := ui.Note("Title", "Body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func withRunForm(t *testing.T, fn func(form *huh.Form) error) {
	t.Helper()
	orig := runFormFunc
	t.Cleanup(func() { runFormFunc = orig })
	runFormFunc = fn
}

func TestHuhUI_RunFormSuccess(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	called := false
	withRunForm(t, func(form *huh.Form) error {
		assert.NotNil(t, form)
		called = true
		return nil
	})

	var res string
	require.NoError(t, ui.Input("Title", &res))
	assert.True(t, called)
}

func TestHuhUI_EscMapsToBack(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	withRunForm(t, func(*huh.Form) error { return huh.ErrUserAborted })

	var res string
	assert.ErrorIs(t, ui.Select("Title", []string{"A"}, &res), ErrBack)
}

func TestHuhUI_CtrlCMapsToCancelled(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	withRunForm(t, func(*huh.Form) error {
		ui.ctrlCAbort = true
		return huh.ErrUserAborted
	})

	var res bool
	assert.ErrorIs(t, ui.Confirm("Title", &res), ErrCancelled)

	withRunForm(t, func(*huh.Form) error { return huh.ErrUserAborted })
	assert.ErrorIs(t, ui.Confirm("Title", &res), ErrBack, "flag must reset between forms")
}

func TestFormFilter(t *testing.T) {
	ui := &HuhUI{}
	filter := ui.formFilter()

	msg := filter(nil, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, ui.ctrlCAbort)
	assert.IsType(t, tea.WindowSizeMsg{}, msg)

	msg = filter(nil, tea.InterruptMsg{})
	assert.False(t, ui.ctrlCAbort)
	assert.IsType(t, tea.QuitMsg{}, msg)

	msg = filter(nil, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, ui.ctrlCAbort)
	assert.IsType(t, tea.KeyMsg{}, msg)
}

func TestFormKeyMap(t *testing.T) {
	km := formKeyMap()
	assert.Equal(t, []string{"ctrl+c", "esc"}, km.Quit.Keys())
	assert.Equal(t, "back", km.Select.Prev.Help().Desc)
	assert.False(t, km.Select.Filter.Enabled())
}

func TestFormKeyMap_HintsOnEveryField(t *testing.T) {
	km := formKeyMap()
	for name, pair := range map[string][2]string{
		"select":  {km.Select.Prev.Help().Desc, km.Select.Next.Help().Desc},
		"confirm": {km.Confirm.Prev.Help().Desc, km.Confirm.Next.Help().Desc},
		"input":   {km.Input.Prev.Help().Desc, km.Input.Next.Help().Desc},
		"note":    {km.Note.Prev.Help().Desc, km.Note.Next.Help().Desc},
	} {
		assert.Equal(t, [2]string{"back", "cancel"}, pair, name)
	}
}

func TestHintField_KeepsHintsAfterPositioning(t *testing.T) {
	field := newHintField(huh.NewInput().Title("Name"))
	positioned := field.WithPosition(huh.FieldPosition{})
	assert.Same(t, field, positioned)

	var descs []string
	for _, b := range positioned.KeyBinds() {
		if b.Enabled() {
			descs = append(descs, b.Help().Desc)
		}
	}
	assert.Contains(t, descs, "back")
	assert.Contains(t, descs, "cancel")
}

func TestHintField_UpdateKeepsWrapper(t *testing.T) {
	field := newHintField(huh.NewConfirm().Title("Apply?"))
	model, _ := field.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Same(t, field, model)
}
