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
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
)

// EntryLister walks launcher directories.
type EntryLister struct{}

func (EntryLister) ListEntries(root, suffix string) ([]string, error) {
	return ListEntries(root, suffix)
}

// ListEntries returns the slash-separated paths, relative to root and without
// suffix, of every file under root ending in suffix. Symlinked directories are
// followed; each real directory is visited once.
func ListEntries(root, suffix string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingDirectory, root)
	}

	w := entryWalker{suffix: suffix, visited: make(map[string]bool)}
	if err := w.walk(root, ""); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(w.entries)
	return w.entries, nil
}

type entryWalker struct {
	suffix  string
	visited map[string]bool
	entries []string
}

func (w *entryWalker) walk(dir, rel string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if w.visited[resolved] {
		return nil
	}
	w.visited[resolved] = true

	items, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, d := range items {
		path := filepath.Join(dir, d.Name())
		name := d.Name()
		if rel != "" {
			name = rel + "/" + name
		}

		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				// dangling link
				continue
			}
			isDir = target.IsDir()
		}

		if isDir {
			if err := w.walk(path, name); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(d.Name(), w.suffix) {
			w.entries = append(w.entries, strings.TrimSuffix(name, w.suffix))
		}
	}
	return nil
}
