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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Adembc/lazylaunch/internal/core/domain"
)

// SessionFilePrefix marks session cache files in the temp directory.
const SessionFilePrefix = "kiZIN"

// sessionCache keeps the vault session token in a temp file that lives until
// the desktop session cleans the temp directory. There is no expiry and no
// locking between concurrent launcher instances.
type sessionCache struct {
	dir    string
	logger *zap.SugaredLogger
}

// NewSessionCache stores session files in dir, or the system temp dir when dir is empty.
func NewSessionCache(logger *zap.SugaredLogger, dir string) *sessionCache {
	if dir == "" {
		dir = os.TempDir()
	}
	return &sessionCache{dir: dir, logger: logger}
}

func (c *sessionCache) Find() (domain.VaultSession, bool, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, SessionFilePrefix+"*"))
	if err != nil {
		return "", false, err
	}
	if len(matches) > 1 {
		c.logger.Warnw("several session cache files found, using the newest", "count", len(matches))
	}

	var newest string
	var newestInfo os.FileInfo
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if newestInfo == nil || info.ModTime().After(newestInfo.ModTime()) {
			newest, newestInfo = m, info
		}
	}
	if newest == "" {
		return "", false, nil
	}

	// #nosec G304 -- path comes from a glob under the cache directory
	data, err := os.ReadFile(newest)
	if err != nil {
		return "", false, fmt.Errorf("failed to read session cache: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false, nil
	}
	return domain.VaultSession(token), true, nil
}

func (c *sessionCache) Store(session domain.VaultSession) error {
	f, err := os.CreateTemp(c.dir, SessionFilePrefix)
	if err != nil {
		return fmt.Errorf("failed to create session cache: %w", err)
	}
	if _, err := f.WriteString(string(session)); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("failed to write session cache: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("failed to write session cache: %w", err)
	}
	c.logger.Debugw("session cached", "path", f.Name())
	return nil
}
