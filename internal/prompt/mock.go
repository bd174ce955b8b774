package prompt

// MockUI is a UI whose answers come from function fields. A nil field
// leaves the seeded value untouched.
type MockUI struct {
	SelectFunc      func(title string, options []string, current *string) error
	ConfirmFunc     func(title string, value *bool) error
	InputFunc       func(title string, value *string) error
	SecretInputFunc func(title string, value *string) error
	NoteFunc        func(title string, body string) error
}

// Select implements UI.
func (m *MockUI) Select(title string, options []string, current *string) error {
	if m.SelectFunc == nil {
		return nil
	}
	return m.SelectFunc(title, options, current)
}

// Confirm implements UI.
func (m *MockUI) Confirm(title string, value *bool) error {
	if m.ConfirmFunc == nil {
		return nil
	}
	return m.ConfirmFunc(title, value)
}

// Input implements UI.
func (m *MockUI) Input(title string, value *string) error {
	if m.InputFunc == nil {
		return nil
	}
	return m.InputFunc(title, value)
}

// SecretInput implements UI.
func (m *MockUI) SecretInput(title string, value *string) error {
	if m.SecretInputFunc == nil {
		return nil
	}
	return m.SecretInputFunc(title, value)
}

// Note implements UI.
func (m *MockUI) Note(title string, body string) error {
	if m.NoteFunc == nil {
		return nil
	}
	return m.NoteFunc(title, body)
}
