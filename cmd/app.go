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

package main

import (
	"context"

	"github.com/Adembc/lazylaunch/internal/adapters/config"
	"github.com/Adembc/lazylaunch/internal/adapters/data/file"
	"github.com/Adembc/lazylaunch/internal/adapters/data/sqlite"
	"github.com/Adembc/lazylaunch/internal/adapters/flags"
	"github.com/Adembc/lazylaunch/internal/adapters/logger"
	"github.com/Adembc/lazylaunch/internal/adapters/menu"
	"github.com/Adembc/lazylaunch/internal/adapters/probe"
	"github.com/Adembc/lazylaunch/internal/adapters/process"
	"github.com/Adembc/lazylaunch/internal/adapters/ui"
	"github.com/Adembc/lazylaunch/internal/adapters/vault"
	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"github.com/Adembc/lazylaunch/internal/core/services"
	"go.uber.org/zap"
)

type hostCatalog interface {
	Load(name string) (domain.HostRecord, error)
	LoadAll() ([]domain.HostRecord, error)
}

type commandPreviewer interface {
	Preview(ctx context.Context, host domain.HostRecord, index int) ([]string, error)
}

type compatibilityProber interface {
	Probe(ctx context.Context, host string, port int) (string, error)
}

type modeLauncher interface {
	Apps(ctx context.Context) error
	Remmina(ctx context.Context) error
	WebSearch(ctx context.Context) error
}

type remoteFlow interface {
	Run(ctx context.Context) error
}

// app is the wired launcher for one invocation.
type app struct {
	logger      *zap.SugaredLogger
	registry    hostCatalog
	connections commandPreviewer
	prober      compatibilityProber
	launcher    modeLauncher
	remote      remoteFlow
	// history is nil when the history database is disabled or unavailable.
	history ports.HistoryStore
	closers []func() error
}

func newApp(cliFlags *flags.CobraFlags) (*app, error) {
	osConfig, err := config.NewOSConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(osConfig.LogPath(ui.AppName+".log"), cliFlags.IsDebug())
	if err != nil {
		return nil, err
	}
	a := &app{logger: log, closers: []func() error{log.Sync}}

	cfg, err := osConfig.Load(log, cliFlags.ConfigFile())
	if err != nil {
		log.Errorw("failed to load config", "error", err)
		a.close()
		return nil, err
	}

	picker, err := newMenu(log, osConfig, cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	if cfg.HistoryDB != "" {
		db, err := sqlite.Open(cfg.HistoryDB)
		if err != nil {
			log.Warnw("connection history disabled", "error", err, "path", cfg.HistoryDB)
		} else {
			a.history = sqlite.NewHistoryRepo(db)
			a.closers = append([]func() error{db.Close}, a.closers...)
		}
	}

	runner := process.NewRunner(log)
	bitwarden := vault.NewBitwarden(log)
	sessions := services.NewSessionService(log, file.NewSessionCache(log, ""), bitwarden, picker)
	registry := services.NewRegistryService(log, file.NewHostRepo(log, cfg.RemoteDir))
	connections := services.NewConnectionService(log, cfg, registry, sessions, bitwarden, runner, a.history)
	prober := services.NewProbeService(log, probe.NewNmapScanner(log, runner))

	a.registry = registry
	a.connections = connections
	a.prober = prober
	a.launcher = services.NewLauncherService(log, cfg, file.EntryLister{}, runner, picker)
	a.remote = services.NewRemoteService(log, cfg, registry, connections, prober, sessions, bitwarden, picker)
	return a, nil
}

// newMenu returns the built-in terminal picker or the configured external one.
func newMenu(log *zap.SugaredLogger, osConfig *config.OSConfig, cfg domain.Config) (ports.Menu, error) {
	if cfg.MenuLauncher == services.TerminalPicker {
		return ui.NewPicker(log), nil
	}
	themes, err := menu.LoadThemes(osConfig.ConfigPath("themes.toml"))
	if err != nil {
		return nil, err
	}
	theme, err := themes.Get(cfg.Theme)
	if err != nil {
		log.Errorw("unknown theme", "theme", cfg.Theme, "available", themes.Names())
		return nil, err
	}
	return menu.NewExternal(log, cfg.MenuLauncher, theme), nil
}

func (a *app) close() {
	for _, c := range a.closers {
		//nolint:errcheck // closing on the way out; Sync may fail on a tty
		c()
	}
}
