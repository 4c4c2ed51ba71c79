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

const HostFileSuffix = ".json"

type hostRepo struct {
	root   string
	logger *zap.SugaredLogger
}

// NewHostRepo returns a registry rooted at root. The root is not created here;
func NewHostRepo(logger *zap.SugaredLogger, root string) *hostRepo {
	return &hostRepo{root: root, logger: logger}
}

// Root returns the registry directory.
func (r *hostRepo) Root() string { return r.root }

// ListHosts reports a missing root as ErrMissingDirectory.
func (r *hostRepo) ListHosts() ([]string, error) {
	return ListEntries(r.root, HostFileSuffix)
}

func (r *hostRepo) Exists(name string) bool {
	path, err := r.pathFor(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (r *hostRepo) Load(name string) (domain.HostRecord, error) {
	path, err := r.pathFor(name)
	if err != nil {
		return domain.HostRecord{}, err
	}
	// #nosec G304 -- path is confined to the registry root by pathFor
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.HostRecord{}, fmt.Errorf("%w: host %q", domain.ErrNotFound, name)
		}
		return domain.HostRecord{}, fmt.Errorf("failed to read host %q: %w", name, err)
	}
	return domain.UnmarshalHostRecord(name, data)
}

func (r *hostRepo) Save(host domain.HostRecord) error {
	path, err := r.pathFor(host.Name)
	if err != nil {
		return err
	}
	data, err := domain.MarshalHostRecord(host)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data, 0o600); err != nil {
		r.logger.Errorw("failed to write host record", "host", host.Name, "path", path, "error", err)
		return fmt.Errorf("failed to write host %q: %w", host.Name, err)
	}
	return nil
}

func (r *hostRepo) Delete(name string) error {
	path, err := r.pathFor(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: host %q", domain.ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete host %q: %w", name, err)
	}
	return nil
}

// pathFor maps a host name such as "office/gw" to its document path, refusing
// names that would escape the root.
func (r *hostRepo) pathFor(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(name)))
	if name == "" || clean == "." || filepath.IsAbs(clean) ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid host name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(r.root, clean+HostFileSuffix), nil
}

// writeFileAtomic writes data next to path and renames it into place, so a
// concurrent reader sees either the old or the new document.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".lazylaunch-tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := os.Chmod(tmp.Name(), perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
