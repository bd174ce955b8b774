package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valen-cli/valen/internal/messages"
)

// LineUI implements UI over plain line-oriented streams.
// It serves piped stdin and CI shells where huh cannot draw.
type LineUI struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLineUI creates a LineUI reading answers from in and writing prompts to out.
func NewLineUI(in io.Reader, out io.Writer) *LineUI {
	return &LineUI{reader: bufio.NewReader(in), out: out}
}

// readLine returns the trimmed line and whether input is exhausted.
func (ui *LineUI) readLine() (string, bool, error) {
	line, err := ui.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	return strings.TrimSpace(line), errors.Is(err, io.EOF), nil
}

// Select prints numbered options and reads a 1-based choice.
// An empty answer keeps the current value when it is one of the options.
func (ui *LineUI) Select(title string, options []string, current *string) error {
	if len(options) == 0 {
		return fmt.Errorf(messages.PromptNoOptionsFmt, title)
	}
	defIndex := indexOf(options, *current)
	for {
		if _, err := fmt.Fprintln(ui.out, title); err != nil {
			return err
		}
		for i, o := range options {
			marker := " "
			if i == defIndex {
				marker = "*"
			}
			if _, err := fmt.Fprintf(ui.out, messages.PromptOptionFmt, marker, i+1, o); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(ui.out, messages.PromptChoiceFmt, len(options)); err != nil {
			return err
		}
		response, eof, err := ui.readLine()
		if err != nil {
			return err
		}
		if response == "" {
			if eof {
				return ErrCancelled
			}
			if defIndex >= 0 {
				return nil
			}
		}
		if n, convErr := strconv.Atoi(response); convErr == nil && n >= 1 && n <= len(options) {
			*current = options[n-1]
			return nil
		}
		if idx := indexOf(options, response); idx >= 0 {
			*current = options[idx]
			return nil
		}
		if eof {
			return fmt.Errorf(messages.PromptInvalidChoiceFmt, response)
		}
		if _, err := fmt.Fprintf(ui.out, messages.PromptRetryChoiceFmt, len(options)); err != nil {
			return err
		}
	}
}

// Confirm asks a yes/no question. The incoming value is the default.
func (ui *LineUI) Confirm(title string, value *bool) error {
	defaultYes := *value
	for {
		format := messages.PromptNoDefaultFmt
		if defaultYes {
			format = messages.PromptYesDefaultFmt
		}
		if _, err := fmt.Fprintf(ui.out, format, title); err != nil {
			return err
		}
		response, eof, err := ui.readLine()
		if err != nil {
			return err
		}
		if response == "" {
			if eof {
				return ErrCancelled
			}
			*value = defaultYes
			return nil
		}
		switch strings.ToLower(response) {
		case "y", "yes":
			*value = true
			return nil
		case "n", "no":
			*value = false
			return nil
		}
		if eof {
			return fmt.Errorf(messages.PromptInvalidResponse, response)
		}
		if _, err := fmt.Fprintln(ui.out, messages.PromptRetryYesNo); err != nil {
			return err
		}
	}
}

// Input reads a line. An empty answer keeps the current value.
func (ui *LineUI) Input(title string, value *string) error {
	format := messages.PromptInputFmt
	args := []any{title}
	if *value != "" {
		format = messages.PromptInputDefaultFmt
		args = append(args, *value)
	}
	if _, err := fmt.Fprintf(ui.out, format, args...); err != nil {
		return err
	}
	response, eof, err := ui.readLine()
	if err != nil {
		return err
	}
	if response == "" {
		if eof && *value == "" {
			return ErrCancelled
		}
		return nil
	}
	*value = response
	return nil
}

// SecretInput reads a line without echoing a default back.
func (ui *LineUI) SecretInput(title string, value *string) error {
	if _, err := fmt.Fprintf(ui.out, messages.PromptInputFmt, title); err != nil {
		return err
	}
	response, eof, err := ui.readLine()
	if err != nil {
		return err
	}
	if response == "" && eof {
		return ErrCancelled
	}
	if response != "" {
		*value = response
	}
	return nil
}

// Note prints a title and body.
func (ui *LineUI) Note(title string, body string) error {
	if _, err := fmt.Fprintln(ui.out, title); err != nil {
		return err
	}
	if body == "" {
		return nil
	}
	_, err := fmt.Fprintln(ui.out, body)
	return err
}

func indexOf(options []string, value string) int {
	for i, o := range options {
		if o == value {
			return i
		}
	}
	return -1
}
