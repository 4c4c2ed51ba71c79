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

package domain

import "path/filepath"

// Config represents the application configuration
type Config struct {
	// MenuLauncher is the picker binary, or "tview" for the built-in terminal picker.
	MenuLauncher string `yaml:"menu_launcher" mapstructure:"menu_launcher"`
	Theme        string `yaml:"theme" mapstructure:"theme"`

	// Browser is the default browser command; arguments are split on spaces.
	Browser string `yaml:"browser" mapstructure:"browser"`

	// ConsoleLauncher wraps ssh sessions, e.g. "konsole --nofork -e". It must
	// stay in the foreground until ssh exits: secret files are removed as soon
	// as it returns, so terminals that hand off to a running instance
	// (gnome-terminal, konsole without --nofork) break password and key logins.
	ConsoleLauncher string `yaml:"console_launcher" mapstructure:"console_launcher"`

	RDPSharedFolder     string `yaml:"rdp_shared_folder" mapstructure:"rdp_shared_folder"`
	DefaultSearchEngine string `yaml:"default_search_engine" mapstructure:"default_search_engine"`

	RemoteDir    string `yaml:"remote_dir" mapstructure:"remote_dir"`
	WebSearchDir string `yaml:"websearch_dir" mapstructure:"websearch_dir"`
	AppsDir      string `yaml:"apps_dir" mapstructure:"apps_dir"`
	RemminaDir   string `yaml:"remmina_dir" mapstructure:"remmina_dir"`

	// HistoryDB is the sqlite connection history; empty disables it.
	HistoryDB string `yaml:"history_db" mapstructure:"history_db"`
}

// DefaultConfig returns the default configuration with the provided config and data directories
func DefaultConfig(configDirPath, dataDirPath string) Config {
	if configDirPath == "" {
		configDirPath = "~/.config/lazylaunch"
	}
	if dataDirPath == "" {
		dataDirPath = "~/.local/share/lazylaunch"
	}

	return Config{
		MenuLauncher:        "dmenu",
		Theme:               "Default",
		Browser:             "qutebrowser --target window",
		ConsoleLauncher:     "konsole --nofork -e",
		RDPSharedFolder:     "~/Nextcloud/RDPshare/",
		DefaultSearchEngine: "dd-DuckDuckGo",
		RemoteDir:           filepath.Join(configDirPath, "remote"),
		WebSearchDir:        filepath.Join(configDirPath, "websearch"),
		AppsDir:             "/usr/share/applications",
		RemminaDir:          "~/.local/share/remmina",
		HistoryDB:           filepath.Join(dataDirPath, "history.db"),
	}
}
