package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskman/internal/app"
)

func mockLaunchTUI(t *testing.T) *bool {
	t.Helper()
	originalFunc := launchTUIFunc
	t.Cleanup(func() { launchTUIFunc = originalFunc })

	called := false
	launchTUIFunc = func(_ *app.Container) error {
		called = true
		return nil
	}
	return &called
}

func TestNewRootCommand_NoArgs_LaunchesTUI(t *testing.T) {
	called := mockLaunchTUI(t)

	root := NewRootCommand(nil, "test-version")
	root.SetArgs([]string{})
	err := root.Execute()

	assert.NoError(t, err)
	assert.True(t, *called, "launchTUIFunc should be called when no arguments are provided")
}

func TestNewRootCommand_TUICommand(t *testing.T) {
	called := mockLaunchTUI(t)

	root := NewRootCommand(nil, "test-version")
	root.SetArgs([]string{"tui"})
	require.NoError(t, root.Execute())
	assert.True(t, *called)
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	called := mockLaunchTUI(t)

	root := NewRootCommand(nil, "test-version")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})
	err := root.Execute()

	assert.NoError(t, err)
	assert.False(t, *called, "launchTUIFunc should NOT be called when --help is provided")
	assert.Contains(t, buf.String(), "Task Management:")
	assert.Contains(t, buf.String(), "Setup Commands:")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	c, _ := newTestContainer(t)
	c.AppConfig.Warnings = []string{"unknown section: workers"}

	root := NewRootCommand(c, "test-version")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"list"})
	require.NoError(t, root.Execute())

	assert.Contains(t, stderr.String(), "Warning: unknown section: workers")
}

func TestNewRootCommand_DataDirFlag(t *testing.T) {
	root := NewRootCommand(nil, "test-version")
	flag := root.PersistentFlags().Lookup(DataDirFlag)
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}
