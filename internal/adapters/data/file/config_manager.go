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

package file

import (
	"os"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"gopkg.in/yaml.v3"
)

const configHeader = `# lazylaunch configuration. Every key can also be set as LAZYLAUNCH_<KEY>.
# console_launcher must block until ssh exits; secret files are removed when it
# returns. Use "konsole --nofork -e", "xterm -e" or "alacritty -e", not
# gnome-terminal.
`

type ConfigManager struct {
	filePath string
}

func NewConfigManager(filePath string) *ConfigManager {
	return &ConfigManager{filePath: filePath}
}

// EnsureExists writes defaults when the config file does not exist yet.
func (cm *ConfigManager) EnsureExists(defaults domain.Config) (bool, error) {
	if _, err := os.Stat(cm.filePath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := cm.Save(defaults); err != nil {
		return false, err
	}
	return true, nil
}

func (cm *ConfigManager) Save(config domain.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return writeFileAtomic(cm.filePath, append([]byte(configHeader), data...), 0o600)
}
