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

package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"go.uber.org/zap"
)

const (
	desktopSuffix   = ".desktop"
	remminaSuffix   = ".remmina"
	templateSuffix  = ".txt"
	searchTermsSlot = "[SEARCH]"
)

// launcherService implements the thin modes: desktop apps, remmina
// profiles and web search templates.
type launcherService struct {
	cfg      domain.Config
	entries  ports.EntryLister
	runner   ports.ProcessRunner
	menu     ports.Menu
	lookPath func(string) (string, error)
	readFile func(string) ([]byte, error)
	logger   *zap.SugaredLogger
}

func NewLauncherService(
	logger *zap.SugaredLogger,
	cfg domain.Config,
	entries ports.EntryLister,
	runner ports.ProcessRunner,
	menu ports.Menu,
) *launcherService {
	return &launcherService{
		cfg:      cfg,
		entries:  entries,
		runner:   runner,
		menu:     menu,
		lookPath: exec.LookPath,
		readFile: os.ReadFile,
		logger:   logger,
	}
}

// Apps opens a desktop entry.
func (s *launcherService) Apps(ctx context.Context) error {
	if err := checkTools(s.lookPath, program(s.cfg.MenuLauncher), "exo-open"); err != nil {
		return err
	}
	return s.openEntry(ctx, "APPS", s.cfg.AppsDir, desktopSuffix)
}

// Remmina opens a saved remmina profile.
func (s *launcherService) Remmina(ctx context.Context) error {
	if err := checkTools(s.lookPath, program(s.cfg.MenuLauncher), "exo-open", "remmina"); err != nil {
		return err
	}
	return s.openEntry(ctx, "Remmina", s.cfg.RemminaDir, remminaSuffix)
}

func (s *launcherService) openEntry(ctx context.Context, prompt, root, suffix string) error {
	entries, err := s.entries.ListEntries(root, suffix)
	if err != nil {
		return err
	}
	entry, err := choose(ctx, s.menu, prompt, entries)
	if err != nil {
		return err
	}
	path := filepath.Join(root, filepath.FromSlash(entry)+suffix)
	if err := s.runner.Spawn([]string{"exo-open", path}); err != nil {
		s.logger.Errorw("failed to open entry", "error", err, "path", path)
		return err
	}
	s.logger.Infow("entry opened", "mode", prompt, "entry", entry)
	return nil
}

// WebSearch opens a search URL built from a template. Templates are files
// named "<key>-<Name>.txt" holding a URL with a [SEARCH] slot.
func (s *launcherService) WebSearch(ctx context.Context) error {
	if err := checkTools(s.lookPath, program(s.cfg.MenuLauncher), program(s.cfg.Browser)); err != nil {
		return err
	}
	templates, err := s.entries.ListEntries(s.cfg.WebSearchDir, templateSuffix)
	if err != nil {
		return err
	}

	answer, err := s.menu.Show(ctx, domain.MenuRequest{Prompt: "Web Search", Options: templates})
	if err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fmt.Errorf("%w: Web Search", domain.ErrMenuAborted)
	}

	template, terms, err := s.resolveSearch(ctx, templates, answer)
	if err != nil {
		return err
	}
	if terms == "" {
		return fmt.Errorf("%w: no search terms", domain.ErrMenuAborted)
	}

	searchURL, err := s.searchURL(template, terms)
	if err != nil {
		return err
	}
	argv := append(strings.Fields(s.cfg.Browser), searchURL)
	if err := s.runner.Spawn(argv); err != nil {
		s.logger.Errorw("failed to open browser", "error", err, "url", searchURL)
		return err
	}
	s.logger.Infow("web search opened", "template", template)
	return nil
}

// resolveSearch picks the template and terms for the menu answer.
func (s *launcherService) resolveSearch(ctx context.Context, templates []string, answer string) (string, string, error) {
	for _, t := range templates {
		if t == answer {
			terms, err := askOptional(ctx, s.menu, "Search")
			return t, terms, err
		}
	}

	key, rest, _ := strings.Cut(answer, " ")
	for _, t := range templates {
		if templateKey(t) == key {
			return t, strings.TrimSpace(rest), nil
		}
	}

	for _, t := range templates {
		if t == s.cfg.DefaultSearchEngine {
			return t, answer, nil
		}
	}
	return "", "", fmt.Errorf("%w: search engine %q", domain.ErrNotFound, s.cfg.DefaultSearchEngine)
}

// templateKey is the part of a template name before the first dash.
func templateKey(template string) string {
	name := filepath.Base(filepath.FromSlash(template))
	key, _, _ := strings.Cut(name, "-")
	return key
}

func (s *launcherService) searchURL(template, terms string) (string, error) {
	path := filepath.Join(s.cfg.WebSearchDir, filepath.FromSlash(template)+templateSuffix)
	data, err := s.readFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	pattern := strings.TrimSpace(string(data))
	return strings.ReplaceAll(pattern, searchTermsSlot, escapeTerms(terms)), nil
}

// escapeTerms percent-encodes everything a query value could break on,
// spaces included.
func escapeTerms(terms string) string {
	return strings.ReplaceAll(url.QueryEscape(terms), "+", "%20")
}
