package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	name, args := Command("darwin", "https://x")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"https://x"}, args)

	name, args = Command("windows", "https://x")
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", "https://x"}, args)

	name, _ = Command("linux", "https://x")
	assert.Equal(t, "xdg-open", name)
}

func TestSystemOpen(t *testing.T) {
	orig := runCommand
	t.Cleanup(func() { runCommand = orig })

	var gotName string
	var gotArgs []string
	runCommand = func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}
	require.NoError(t, System{GOOS: "darwin"}.Open(context.Background(), "https://helper"))
	assert.Equal(t, "open", gotName)
	assert.Equal(t, []string{"https://helper"}, gotArgs)

	runCommand = func(context.Context, string, ...string) error { return errors.New("no display") }
	err := System{GOOS: "linux"}.Open(context.Background(), "https://helper")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://helper")
	assert.Contains(t, err.Error(), "no display")
}
