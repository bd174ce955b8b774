package prompt

// defaultsUI answers every prompt that already carries a usable default
// and forwards the rest to the wrapped UI.
type defaultsUI struct {
	UI
}

// AssumeDefaults wraps ui so confirmations keep their seeded value and
// selections or inputs with a valid current value are not asked.
func AssumeDefaults(ui UI) UI {
	if _, ok := ui.(defaultsUI); ok {
		return ui
	}
	return defaultsUI{UI: ui}
}

func (d defaultsUI) Select(title string, options []string, current *string) error {
	if indexOf(options, *current) >= 0 {
		return nil
	}
	return d.UI.Select(title, options, current)
}

func (d defaultsUI) Confirm(string, *bool) error {
	return nil
}

func (d defaultsUI) Input(title string, value *string) error {
	if *value != "" {
		return nil
	}
	return d.UI.Input(title, value)
}
