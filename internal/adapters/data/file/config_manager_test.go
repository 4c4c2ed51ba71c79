package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adembc/lazylaunch/internal/core/domain"
)

func TestConfigManager_EnsureExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cm := NewConfigManager(path)
	defaults := domain.DefaultConfig("/cfg", "/data")

	created, err := cm.EnsureExists(defaults)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "menu_launcher: dmenu")
	assert.Contains(t, string(data), "console_launcher: konsole --nofork -e")
	assert.Contains(t, string(data), "console_launcher must block until ssh exits")
	assert.Contains(t, string(data), "remote_dir: /cfg/remote")

	created, err = cm.EnsureExists(defaults)
	require.NoError(t, err)
	assert.False(t, created)
}
