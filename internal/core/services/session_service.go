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

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"go.uber.org/zap"
)

const unlockPrompt = "Unlock Pass"

var _ ports.SessionProvider = (*sessionService)(nil)

// sessionService hands out the cached vault session, unlocking the vault
// once when no usable cache file exists. The cache has no expiry and no
// locking between concurrent launcher instances.
type sessionService struct {
	store   ports.SessionStore
	vault   ports.Vault
	menu    ports.Menu
	logger  *zap.SugaredLogger
	session domain.VaultSession
}

func NewSessionService(logger *zap.SugaredLogger, store ports.SessionStore, vault ports.Vault, menu ports.Menu) *sessionService {
	return &sessionService{
		store:  store,
		vault:  vault,
		menu:   menu,
		logger: logger,
	}
}

func (s *sessionService) Session(ctx context.Context) (domain.VaultSession, error) {
	if s.session != "" {
		return s.session, nil
	}

	session, ok, err := s.store.Find()
	if err != nil {
		s.logger.Warnw("failed to read session cache", "error", err)
	}
	if ok {
		s.session = session
		return session, nil
	}

	passphrase, err := s.menu.Show(ctx, domain.MenuRequest{Prompt: unlockPrompt, Password: true})
	if err != nil {
		return "", err
	}
	if passphrase == "" {
		return "", fmt.Errorf("%w: empty master passphrase", domain.ErrAuth)
	}

	session, err = s.vault.Unlock(ctx, passphrase)
	if err != nil {
		s.logger.Errorw("failed to unlock vault", "error", err)
		return "", err
	}
	s.logger.Infow("vault unlocked")

	if err := s.store.Store(session); err != nil {
		s.logger.Warnw("failed to cache vault session", "error", err)
	}
	if err := s.vault.Sync(ctx, session); err != nil {
		s.logger.Warnw("vault sync failed", "error", err)
	}

	s.session = session
	return session, nil
}
