// Copyright 2025.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Adembc/lazylaunch/internal/adapters/data/file"
	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	AppName   = "lazylaunch"
	EnvPrefix = "LAZYLAUNCH"
)

// OSConfig resolves the per-user locations of the launcher.
type OSConfig struct {
	homeDir string
}

func NewOSConfig() (*OSConfig, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &OSConfig{homeDir: home}, nil
}

func (c *OSConfig) HomeDir() string {
	return c.homeDir
}

func (c *OSConfig) ConfigPath(elems ...string) string {
	return filepath.Join(c.homeDir, ".config", AppName, filepath.Join(elems...))
}

func (c *OSConfig) DataPath(elems ...string) string {
	return filepath.Join(c.homeDir, ".local", "share", AppName, filepath.Join(elems...))
}

func (c *OSConfig) LogPath(filename string) string {
	return c.ConfigPath("logs", filename)
}

// ConfigFile is the default config.yaml location.
func (c *OSConfig) ConfigFile() string {
	return c.ConfigPath("config.yaml")
}

// Load reads the YAML config at path, seeding it with defaults when missing.
// LAZYLAUNCH_<KEY> environment variables override file values.
func (c *OSConfig) Load(logger *zap.SugaredLogger, path string) (domain.Config, error) {
	if path == "" {
		path = c.ConfigFile()
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("%w: config path %q: %v", domain.ErrInvalidInput, path, err)
	}

	defaults := domain.DefaultConfig(c.ConfigPath(), c.DataPath())

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, defaults)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		created, err := file.NewConfigManager(path).EnsureExists(defaults)
		if err != nil {
			logger.Warnw("failed to write default config", "path", path, "error", err)
		} else if created {
			logger.Infow("wrote default config", "path", path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return domain.Config{}, fmt.Errorf("%w: config %s: %v", domain.ErrCorruptData, path, err)
		}
		logger.Debugw("config file not readable, using defaults", "path", path, "error", err)
	}

	var cfg domain.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.Config{}, fmt.Errorf("%w: decode config: %v", domain.ErrCorruptData, err)
	}

	expandPaths(&cfg)
	return cfg, nil
}

func setDefaults(v *viper.Viper, d domain.Config) {
	v.SetDefault("menu_launcher", d.MenuLauncher)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("browser", d.Browser)
	v.SetDefault("console_launcher", d.ConsoleLauncher)
	v.SetDefault("rdp_shared_folder", d.RDPSharedFolder)
	v.SetDefault("default_search_engine", d.DefaultSearchEngine)
	v.SetDefault("remote_dir", d.RemoteDir)
	v.SetDefault("websearch_dir", d.WebSearchDir)
	v.SetDefault("apps_dir", d.AppsDir)
	v.SetDefault("remmina_dir", d.RemminaDir)
	v.SetDefault("history_db", d.HistoryDB)
}

// expandPaths expands ~ in path-valued keys; a failed expansion keeps the raw value.
func expandPaths(cfg *domain.Config) {
	for _, p := range []*string{
		&cfg.RDPSharedFolder,
		&cfg.RemoteDir,
		&cfg.WebSearchDir,
		&cfg.AppsDir,
		&cfg.RemminaDir,
		&cfg.HistoryDB,
	} {
		if expanded, err := homedir.Expand(*p); err == nil {
			*p = expanded
		}
	}
}
