package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskman/internal/app"
	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/testutil"
)

// newConfigTestContainer creates a container whose config loader and
// manager work on real temporary directories.
func newConfigTestContainer(t *testing.T) *app.Container {
	t.Helper()
	return app.NewWithDeps(
		app.Config{DataDir: t.TempDir(), GlobalConfigDir: t.TempDir()},
		testutil.NewMockTaskStore(),
		&testutil.MockStoreInitializer{},
		&testutil.MockClock{NowTime: testNow},
		&testutil.MockIDGenerator{},
	)
}

func TestConfigTemplate(t *testing.T) {
	out, err := execute(t, newConfigTemplateCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "[store]")
	assert.Contains(t, out, "[list]")

	var parsed map[string]any
	assert.NoError(t, toml.Unmarshal([]byte(out), &parsed))
}

func TestConfigInit(t *testing.T) {
	c := newConfigTestContainer(t)

	out, err := execute(t, newConfigCommand(c), "init")
	require.NoError(t, err)
	path := filepath.Join(c.Config.DataDir, domain.ConfigFileName)
	assert.Contains(t, out, "Created config file: "+path)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	_, err = execute(t, newConfigCommand(c), "init")
	assert.ErrorIs(t, err, domain.ErrConfigExists)

	out, err = execute(t, newConfigCommand(c), "init", "--global")
	require.NoError(t, err)
	assert.Contains(t, out, c.Config.GlobalConfigDir)
}

func TestConfigShow(t *testing.T) {
	c := newConfigTestContainer(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(c.Config.DataDir, domain.ConfigFileName),
		[]byte("[server]\naddr = \"127.0.0.1:7000\"\n"),
		0o644,
	))

	out, err := execute(t, newConfigCommand(c), "show")
	require.NoError(t, err)

	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "(not found)")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "127.0.0.1:7000")
	assert.Contains(t, out, domain.StoreJSON)
}

func TestInitCommand(t *testing.T) {
	c := newConfigTestContainer(t)
	storeInit := &testutil.MockStoreInitializer{}
	c.StoreInitializer = storeInit

	out, err := execute(t, newInitCommand(c))
	require.NoError(t, err)
	assert.True(t, storeInit.Initialized)
	assert.Contains(t, out, "Initialized taskman in "+c.Config.DataDir)
	assert.Contains(t, out, "Created config file")

	// Running init again keeps the config
	out, err = execute(t, newInitCommand(c))
	require.NoError(t, err)
	assert.NotContains(t, out, "Created config file")

	storeInit.InitErr = assert.AnError
	_, err = execute(t, newInitCommand(c))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestServeCommand_Flags(t *testing.T) {
	c := newConfigTestContainer(t)
	cmd := newServeCommand(c)
	flag := cmd.Flags().Lookup("addr")
	require.NoError(t, cmd.ValidateArgs(nil))
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}
