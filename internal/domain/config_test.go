package domain

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/home/u/.local/share/taskman", DataDir("/home/u/.local/share"))
	assert.Equal(t, "/home/u/.config/taskman", GlobalConfigDir("/home/u/.config"))
	assert.Equal(t, "/data/taskman/config.toml", LocalConfigPath("/data/taskman"))
	assert.Equal(t, "/data/taskman/tasks.json", TasksStorePath("/data/taskman"))
	assert.Equal(t, "/data/taskman/logs/taskman.log", LogPath("/data/taskman"))
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, StoreJSON, cfg.Store.Type)
	assert.Equal(t, DefaultPollInterval, cfg.Store.PollInterval)
	assert.Equal(t, DefaultSortBy, cfg.List.DefaultSort)
	assert.True(t, cfg.List.SearchesDescription())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestListConfig_InitialQuery(t *testing.T) {
	off := false
	q := ListConfig{DefaultSort: SortTitleAsc, SearchDescription: &off}.InitialQuery()
	assert.Equal(t, SortTitleAsc, q.SortBy)
	assert.False(t, q.SearchDescription)

	// Unknown sort falls back to the default
	q = ListConfig{DefaultSort: "bogus"}.InitialQuery()
	assert.Equal(t, DefaultSortBy, q.SortBy)
	assert.True(t, q.SearchDescription)
}

func TestRenderConfigTemplate(t *testing.T) {
	out := RenderConfigTemplate(NewDefaultConfig())

	assert.True(t, strings.HasPrefix(out, "# taskman configuration"))
	assert.Contains(t, out, `type = "json"`)
	assert.Contains(t, out, `default_sort = "created_desc"`)
	assert.Contains(t, out, `search_description = true`)
	assert.Contains(t, out, `poll_interval = "2s"`)

	// The rendered template must itself be valid TOML
	var parsed map[string]any
	require.NoError(t, toml.Unmarshal([]byte(out), &parsed))
	assert.Contains(t, parsed, "store")
	assert.Contains(t, parsed, "server")
}
