// Package browser opens URLs with the operating system's default handler.
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/valen-cli/valen/internal/messages"
)

// Opener opens a URL.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// System opens URLs through open, xdg-open or rundll32.
type System struct {
	GOOS string
}

var runCommand = func(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Start()
}

// Command returns the launcher command for goos.
func Command(goos string, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Open launches the default browser without waiting for it to exit.
func (s System) Open(ctx context.Context, url string) error {
	goos := s.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	name, args := Command(goos, url)
	if err := runCommand(ctx, name, args...); err != nil {
		return fmt.Errorf(messages.BrowserOpenFmt, url, err)
	}
	return nil
}
