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
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const secretFilePattern = "lazylaunch-secret-*"

// connectionService turns a ProtocolRecord into exactly one external command.
type connectionService struct {
	cfg      domain.Config
	registry *registryService
	sessions ports.SessionProvider
	vault    ports.Vault
	runner   ports.ProcessRunner
	// history is optional.
	history ports.HistoryStore
	logger  *zap.SugaredLogger

	lookPath func(string) (string, error)
	now      func() time.Time
	newID    func() string
	tempDir  string
}

func NewConnectionService(
	logger *zap.SugaredLogger,
	cfg domain.Config,
	registry *registryService,
	sessions ports.SessionProvider,
	vault ports.Vault,
	runner ports.ProcessRunner,
	history ports.HistoryStore,
) *connectionService {
	return &connectionService{
		cfg:      cfg,
		registry: registry,
		sessions: sessions,
		vault:    vault,
		runner:   runner,
		history:  history,
		logger:   logger,
		lookPath: exec.LookPath,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Connect dispatches protocol index of host and records the use.
func (s *connectionService) Connect(ctx context.Context, host domain.HostRecord, index int) error {
	if index < 0 || index >= len(host.Protocols) {
		return fmt.Errorf("%w: protocol %d of %s", domain.ErrNotFound, index, host.Name)
	}
	p := host.Protocols[index]
	s.logger.Infow("connecting", "host", host.Name, "label", p.Label(), "protocol", p.Kind())

	switch e := p.Endpoint.(type) {
	case domain.SSHEndpoint:
		return s.connectSSH(ctx, &host, index, e)
	case domain.VNCEndpoint:
		return s.connectVNC(ctx, &host, index, e)
	case domain.RDPEndpoint:
		return s.connectRDP(ctx, &host, index, e)
	case domain.WebEndpoint:
		return s.connectWeb(ctx, &host, index, e)
	default:
		return fmt.Errorf("%w: %s has no usable endpoint", domain.ErrCorruptData, host.Name)
	}
}

func (s *connectionService) connectSSH(ctx context.Context, host *domain.HostRecord, index int, e domain.SSHEndpoint) error {
	tools := []string{program(s.cfg.ConsoleLauncher), "ssh"}
	if e.AuthMethod != domain.AuthKey {
		tools = append(tools, "sshpass")
	}
	if err := checkTools(s.lookPath, tools...); err != nil {
		return err
	}

	session, cred, err := s.login(ctx, e.CredentialRef)
	if err != nil {
		return err
	}

	var passwordFile, keyFile string
	if e.AuthMethod == domain.AuthKey {
		keyFile, err = s.vault.GetAttachment(ctx, session, e.CredentialRef, e.KeyFile)
		if err != nil {
			s.logger.Errorw("failed to fetch ssh key", "error", err, "host", host.Name)
			return err
		}
		defer s.removeSecretFile(keyFile)
	} else {
		passwordFile, err = s.writeSecretFile([]byte(cred.Password))
		if err != nil {
			return err
		}
		defer s.removeSecretFile(passwordFile)
	}

	argv := buildSSHCommand(strings.Fields(s.cfg.ConsoleLauncher), e, cred.Username, passwordFile, keyFile)
	return s.runAndWait(ctx, host, index, argv)
}

func (s *connectionService) connectVNC(ctx context.Context, host *domain.HostRecord, index int, e domain.VNCEndpoint) error {
	if err := checkTools(s.lookPath, "vncpasswd", "ssvncviewer"); err != nil {
		return err
	}
	_, cred, err := s.login(ctx, e.CredentialRef)
	if err != nil {
		return err
	}

	obfuscated, err := s.runner.Output(ctx, []byte(cred.Password+"\n"), []string{"vncpasswd", "-f"})
	if err != nil {
		s.logger.Errorw("failed to encode vnc password", "error", err, "host", host.Name)
		return err
	}
	passwdFile, err := s.writeSecretFile(obfuscated)
	if err != nil {
		return err
	}
	defer s.removeSecretFile(passwdFile)

	return s.runAndWait(ctx, host, index, buildVNCCommand(e, passwdFile))
}

func (s *connectionService) connectRDP(ctx context.Context, host *domain.HostRecord, index int, e domain.RDPEndpoint) error {
	if err := checkTools(s.lookPath, "xfreerdp"); err != nil {
		return err
	}
	_, cred, err := s.login(ctx, e.CredentialRef)
	if err != nil {
		return err
	}

	argv := buildRDPCommand(e, cred, cred.Password, s.cfg.RemoteDir, s.cfg.RDPSharedFolder)
	if err := s.runner.Spawn(argv); err != nil {
		s.logger.Errorw("failed to start rdp client", "error", err, "host", host.Name)
		return err
	}
	return s.recordDispatch(ctx, host, index)
}

func (s *connectionService) connectWeb(ctx context.Context, host *domain.HostRecord, index int, e domain.WebEndpoint) error {
	argv := buildWebCommand(s.cfg.Browser, e)
	if len(argv) < 2 {
		return fmt.Errorf("%w: no browser configured", domain.ErrInvalidInput)
	}
	if err := checkTools(s.lookPath, argv[0]); err != nil {
		return err
	}
	if err := s.runner.Spawn(argv); err != nil {
		s.logger.Errorw("failed to open browser", "error", err, "host", host.Name, "url", e.URL)
		return err
	}
	return s.recordDispatch(ctx, host, index)
}

// Preview returns the command Connect would run for protocol index, with
// secrets replaced by placeholders. It never writes a secret to disk.
func (s *connectionService) Preview(ctx context.Context, host domain.HostRecord, index int) ([]string, error) {
	if index < 0 || index >= len(host.Protocols) {
		return nil, fmt.Errorf("%w: protocol %d of %s", domain.ErrNotFound, index, host.Name)
	}

	switch e := host.Protocols[index].Endpoint.(type) {
	case domain.SSHEndpoint:
		_, cred, err := s.login(ctx, e.CredentialRef)
		if err != nil {
			return nil, err
		}
		if e.AuthMethod == domain.AuthKey {
			return buildSSHCommand(nil, e, cred.Username, "", KeyFilePlaceholder), nil
		}
		return buildSSHCommand(nil, e, cred.Username, PasswordFilePlaceholder, ""), nil
	case domain.VNCEndpoint:
		return buildVNCCommand(e, PasswordFilePlaceholder), nil
	case domain.RDPEndpoint:
		_, cred, err := s.login(ctx, e.CredentialRef)
		if err != nil {
			return nil, err
		}
		return buildRDPCommand(e, cred, RedactedPassword, s.cfg.RemoteDir, s.cfg.RDPSharedFolder), nil
	case domain.WebEndpoint:
		return buildWebCommand(s.cfg.Browser, e), nil
	default:
		return nil, fmt.Errorf("%w: %s has no usable endpoint", domain.ErrCorruptData, host.Name)
	}
}

func (s *connectionService) login(ctx context.Context, itemID string) (domain.VaultSession, domain.Credential, error) {
	session, err := s.sessions.Session(ctx)
	if err != nil {
		return "", domain.Credential{}, err
	}
	cred, err := s.vault.GetLogin(ctx, session, itemID)
	if err != nil {
		s.logger.Errorw("failed to fetch credential", "error", err, "item", itemID)
		return "", domain.Credential{}, err
	}
	return session, cred, nil
}

// runAndWait starts argv and blocks until it exits. The caller removes any
// secret file afterwards, so the tool can read it for its whole lifetime.
func (s *connectionService) runAndWait(ctx context.Context, host *domain.HostRecord, index int, argv []string) error {
	proc, err := s.runner.Start(ctx, argv)
	if err != nil {
		s.logger.Errorw("failed to start connection", "error", err, "host", host.Name, "program", argv[0])
		return err
	}
	recordErr := s.recordDispatch(ctx, host, index)

	if err := proc.Wait(); err != nil {
		s.logger.Warnw("connection ended with error", "error", err, "host", host.Name)
	}
	return recordErr
}

// recordDispatch persists the usage counters and appends to the history.
// A history failure is only logged.
func (s *connectionService) recordDispatch(ctx context.Context, host *domain.HostRecord, index int) error {
	now := s.now()
	if err := s.registry.RecordUse(host, index, now); err != nil {
		return err
	}
	p := host.Protocols[index]
	event := domain.ConnectionEvent{
		ID:          s.newID(),
		Host:        host.Name,
		Label:       p.Label(),
		Kind:        p.Kind(),
		Target:      p.Endpoint.Target(),
		ConnectedAt: now,
	}
	s.logger.Infow("connection dispatched", "id", event.ID, "host", host.Name, "label", event.Label,
		"protocol", event.Kind, "count", p.ConnectionTimes)

	if s.history == nil {
		return nil
	}
	if err := s.history.Record(ctx, event); err != nil {
		s.logger.Warnw("failed to record connection history", "error", err, "host", host.Name)
	}
	return nil
}

// writeSecretFile stores data in a fresh 0600 file.
func (s *connectionService) writeSecretFile(data []byte) (string, error) {
	f, err := os.CreateTemp(s.tempDir, secretFilePattern)
	if err != nil {
		return "", fmt.Errorf("create secret file: %w", err)
	}
	path := f.Name()
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		s.removeSecretFile(path)
		return "", fmt.Errorf("chmod secret file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		s.removeSecretFile(path)
		return "", fmt.Errorf("write secret file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.removeSecretFile(path)
		return "", fmt.Errorf("close secret file: %w", err)
	}
	return path, nil
}

func (s *connectionService) removeSecretFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warnw("failed to remove secret file", "error", err, "path", path)
	}
}
