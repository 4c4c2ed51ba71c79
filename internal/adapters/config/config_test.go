package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Adembc/lazylaunch/internal/core/domain"
)

func newTestOSConfig(t *testing.T) *OSConfig {
	t.Helper()
	return &OSConfig{homeDir: t.TempDir()}
}

func TestOSConfig_Paths(t *testing.T) {
	c := &OSConfig{homeDir: "/home/alice"}

	assert.Equal(t, "/home/alice/.config/lazylaunch/config.yaml", c.ConfigFile())
	assert.Equal(t, "/home/alice/.config/lazylaunch/logs/lazylaunch.log", c.LogPath("lazylaunch.log"))
	assert.Equal(t, "/home/alice/.local/share/lazylaunch/history.db", c.DataPath("history.db"))
}

func TestLoad_SeedsDefaultsWhenMissing(t *testing.T) {
	c := newTestOSConfig(t)

	cfg, err := c.Load(zaptest.NewLogger(t).Sugar(), "")
	require.NoError(t, err)

	assert.Equal(t, "dmenu", cfg.MenuLauncher)
	assert.Equal(t, "Default", cfg.Theme)
	assert.Equal(t, "konsole --nofork -e", cfg.ConsoleLauncher)
	assert.Equal(t, c.ConfigPath("remote"), cfg.RemoteDir)
	assert.Equal(t, c.DataPath("history.db"), cfg.HistoryDB)

	share, err := homedir.Expand("~/Nextcloud/RDPshare/")
	require.NoError(t, err)
	assert.Equal(t, share, cfg.RDPSharedFolder)

	_, err = os.Stat(c.ConfigFile())
	assert.NoError(t, err)
}

func TestLoad_FileValuesOverrideDefaults(t *testing.T) {
	c := newTestOSConfig(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("menu_launcher: rofi\nremote_dir: /srv/remote\nhistory_db: \"\"\n"), 0o600))

	cfg, err := c.Load(zaptest.NewLogger(t).Sugar(), path)
	require.NoError(t, err)

	assert.Equal(t, "rofi", cfg.MenuLauncher)
	assert.Equal(t, "/srv/remote", cfg.RemoteDir)
	assert.Empty(t, cfg.HistoryDB)
	assert.Equal(t, "dd-DuckDuckGo", cfg.DefaultSearchEngine)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	c := newTestOSConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: firefox\n"), 0o600))
	t.Setenv("LAZYLAUNCH_BROWSER", "chromium --new-window")

	cfg, err := c.Load(zaptest.NewLogger(t).Sugar(), path)
	require.NoError(t, err)
	assert.Equal(t, "chromium --new-window", cfg.Browser)
}

func TestLoad_MalformedFile(t *testing.T) {
	c := newTestOSConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("menu_launcher: [unterminated\n"), 0o600))

	_, err := c.Load(zaptest.NewLogger(t).Sugar(), path)
	assert.True(t, errors.Is(err, domain.ErrCorruptData))
}
