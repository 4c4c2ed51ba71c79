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
	"os/exec"
	"strconv"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"go.uber.org/zap"
)

// Pseudo-commands typed after a host name in the remote menu.
const (
	actionAdd    = "add"
	actionDelete = "del"
	actionModify = "mod"
)

const (
	allProtocolsLabel = "All"
	confirmYes        = "Yes"
	confirmNo         = "No"
)

// remoteService drives the remote-connection-management menu.
type remoteService struct {
	cfg         domain.Config
	registry    *registryService
	connections *connectionService
	prober      *probeService
	sessions    ports.SessionProvider
	vault       ports.Vault
	menu        ports.Menu
	lookPath    func(string) (string, error)
	logger      *zap.SugaredLogger
}

func NewRemoteService(
	logger *zap.SugaredLogger,
	cfg domain.Config,
	registry *registryService,
	connections *connectionService,
	prober *probeService,
	sessions ports.SessionProvider,
	vault ports.Vault,
	menu ports.Menu,
) *remoteService {
	return &remoteService{
		cfg:         cfg,
		registry:    registry,
		connections: connections,
		prober:      prober,
		sessions:    sessions,
		vault:       vault,
		menu:        menu,
		lookPath:    exec.LookPath,
		logger:      logger,
	}
}

// Run shows the host menu and performs the chosen connection or workflow.
func (s *remoteService) Run(ctx context.Context) error {
	err := checkTools(s.lookPath,
		program(s.cfg.MenuLauncher), program(s.cfg.Browser),
		"bw", "ssh", "sshpass", "ssvncviewer", "xfreerdp",
	)
	if err != nil {
		return err
	}

	names, err := s.registry.ListHosts()
	if err != nil {
		return err
	}
	answer, err := s.menu.Show(ctx, domain.MenuRequest{Prompt: "Remote", Options: names})
	if err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fmt.Errorf("%w: Remote", domain.ErrMenuAborted)
	}

	if s.registry.Exists(answer) {
		return s.connect(ctx, answer)
	}

	name, action := splitAction(answer)
	switch action {
	case actionAdd:
		return s.add(ctx, name)
	case actionDelete:
		return s.remove(ctx, name)
	case actionModify:
		return s.modify(ctx, name)
	default:
		return fmt.Errorf("%w: host %q", domain.ErrNotFound, answer)
	}
}

// splitAction separates a trailing ADD, DEL or MOD from the host name.
func splitAction(answer string) (string, string) {
	fields := strings.Fields(answer)
	if len(fields) < 2 {
		return answer, ""
	}
	last := strings.ToLower(fields[len(fields)-1])
	switch last {
	case actionAdd, actionDelete, actionModify:
		return strings.Join(fields[:len(fields)-1], " "), last
	}
	return answer, ""
}

func (s *remoteService) connect(ctx context.Context, name string) error {
	host, err := s.registry.Load(name)
	if err != nil {
		return err
	}
	index, err := s.pickProtocol(ctx, host)
	if err != nil {
		return err
	}
	return s.connections.Connect(ctx, host, index)
}

// pickProtocol asks for a protocol only when the host has several.
func (s *remoteService) pickProtocol(ctx context.Context, host domain.HostRecord) (int, error) {
	switch len(host.Protocols) {
	case 0:
		return 0, fmt.Errorf("%w: %s has no protocols", domain.ErrNotFound, host.Name)
	case 1:
		return 0, nil
	}
	label, err := choose(ctx, s.menu, "Protocol", host.Labels())
	if err != nil {
		return 0, err
	}
	index, _ := host.IndexOf(label)
	return index, nil
}

func (s *remoteService) add(ctx context.Context, name string) error {
	if err := validateHostName(name); err != nil {
		return err
	}
	kinds := make([]string, 0, len(domain.ProtocolKinds))
	for _, k := range domain.ProtocolKinds {
		kinds = append(kinds, string(k))
	}
	kind, err := choose(ctx, s.menu, "Protocol", kinds)
	if err != nil {
		return err
	}
	p, err := s.promptProtocol(ctx, domain.ProtocolKind(kind))
	if err != nil {
		return err
	}
	return s.registry.AddProtocol(name, p)
}

func (s *remoteService) remove(ctx context.Context, name string) error {
	if !s.registry.Exists(name) {
		return fmt.Errorf("%w: host %q", domain.ErrNotFound, name)
	}
	host, err := s.registry.Load(name)
	if err != nil {
		return err
	}

	index := AllProtocols
	if len(host.Protocols) > 1 {
		labels := append(host.Labels(), allProtocolsLabel)
		label, err := choose(ctx, s.menu, "Protocol", labels)
		if err != nil {
			return err
		}
		if i, ok := host.IndexOf(label); ok && label != allProtocolsLabel {
			index = i
		}
	}

	if err := s.confirm(ctx); err != nil {
		return err
	}
	_, err = s.registry.RemoveProtocol(name, index)
	return err
}

func (s *remoteService) modify(ctx context.Context, name string) error {
	host, err := s.registry.Load(name)
	if err != nil {
		return err
	}
	index, err := s.pickProtocol(ctx, host)
	if err != nil {
		return err
	}
	p, err := s.promptProtocol(ctx, host.Protocols[index].Kind())
	if err != nil {
		return err
	}
	return s.registry.ReplaceProtocol(name, index, p)
}

func (s *remoteService) confirm(ctx context.Context) error {
	answer, err := choose(ctx, s.menu, "Are You Sure ?", []string{confirmNo, confirmYes})
	if err != nil {
		return err
	}
	if answer != confirmYes {
		return fmt.Errorf("%w: not confirmed", domain.ErrMenuAborted)
	}
	return nil
}

// promptProtocol asks for the fields of one protocol kind.
func (s *remoteService) promptProtocol(ctx context.Context, kind domain.ProtocolKind) (domain.ProtocolRecord, error) {
	switch kind {
	case domain.ProtocolSSH:
		return s.promptSSH(ctx)
	case domain.ProtocolRDP:
		return s.promptRDP(ctx)
	case domain.ProtocolVNC:
		return s.promptVNC(ctx)
	case domain.ProtocolWeb:
		return s.promptWeb(ctx)
	default:
		return domain.ProtocolRecord{}, fmt.Errorf("%w: unknown protocol %q", domain.ErrInvalidInput, kind)
	}
}

func (s *remoteService) promptSSH(ctx context.Context) (domain.ProtocolRecord, error) {
	host, err := ask(ctx, s.menu, "Host/IP")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	portText, err := ask(ctx, s.menu, "port number", strconv.Itoa(domain.DefaultSSHPort))
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	port, err := strconv.Atoi(portText)
	if err != nil || port <= 0 || port > 65535 {
		return domain.ProtocolRecord{}, fmt.Errorf("%w: port %q", domain.ErrInvalidInput, portText)
	}
	customName, err := askOptional(ctx, s.menu, "Custom Name")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	auth, err := choose(ctx, s.menu, "Authentication Method", []string{string(domain.AuthKey), string(domain.AuthPass)})
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	method := domain.AuthMethod(auth)
	item, keyFile, err := s.pickVaultItem(ctx, method == domain.AuthKey)
	if err != nil {
		return domain.ProtocolRecord{}, err
	}

	option, err := s.prober.Probe(ctx, host, port)
	if err != nil {
		s.logger.Warnw("storing host without ssh options", "error", err, "host", host)
		option = ""
	}

	return domain.ProtocolRecord{
		Name: customName,
		Endpoint: domain.SSHEndpoint{
			Host:          host,
			Port:          port,
			AuthMethod:    method,
			CredentialRef: item.ID,
			KeyFile:       keyFile,
			Option:        option,
		},
	}, nil
}

func (s *remoteService) promptRDP(ctx context.Context) (domain.ProtocolRecord, error) {
	host, err := ask(ctx, s.menu, "Host/IP")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	customName, err := askOptional(ctx, s.menu, "Custom Name")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	dom, err := askOptional(ctx, s.menu, "Domain")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	sni, err := askOptional(ctx, s.menu, "SNI domain")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	item, _, err := s.pickVaultItem(ctx, false)
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	return domain.ProtocolRecord{
		Name: customName,
		Endpoint: domain.RDPEndpoint{
			Host:          host,
			AuthMethod:    domain.AuthPass,
			CredentialRef: item.ID,
			Domain:        dom,
			SNIDomain:     sni,
		},
	}, nil
}

func (s *remoteService) promptVNC(ctx context.Context) (domain.ProtocolRecord, error) {
	host, err := ask(ctx, s.menu, "Host/IP")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	customName, err := askOptional(ctx, s.menu, "Custom Name")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	item, _, err := s.pickVaultItem(ctx, false)
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	return domain.ProtocolRecord{
		Name: customName,
		Endpoint: domain.VNCEndpoint{
			Host:          host,
			AuthMethod:    domain.AuthPass,
			CredentialRef: item.ID,
		},
	}, nil
}

func (s *remoteService) promptWeb(ctx context.Context) (domain.ProtocolRecord, error) {
	url, err := ask(ctx, s.menu, "URL")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	customName, err := askOptional(ctx, s.menu, "Custom Name")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	browser, err := askOptional(ctx, s.menu, "Browser command")
	if err != nil {
		return domain.ProtocolRecord{}, err
	}
	return domain.ProtocolRecord{
		Name:     customName,
		Endpoint: domain.WebEndpoint{URL: url, Browser: browser},
	}, nil
}

// pickVaultItem lets the user choose a vault login. For key authentication
// only items with attachments are offered, and the attachment name is
// returned as well.
func (s *remoteService) pickVaultItem(ctx context.Context, withKey bool) (domain.VaultItem, string, error) {
	session, err := s.sessions.Session(ctx)
	if err != nil {
		return domain.VaultItem{}, "", err
	}
	items, err := s.vault.ListItems(ctx, session)
	if err != nil {
		s.logger.Errorw("failed to list vault items", "error", err)
		return domain.VaultItem{}, "", err
	}

	var candidates []domain.VaultItem
	for _, item := range items {
		if withKey && !item.HasAttachments() {
			continue
		}
		candidates = append(candidates, item)
	}
	if len(candidates) == 0 {
		return domain.VaultItem{}, "", fmt.Errorf("%w: no usable vault items", domain.ErrNotFound)
	}

	names := make([]string, 0, len(candidates))
	for _, item := range candidates {
		names = append(names, item.Name)
	}
	name, err := choose(ctx, s.menu, "UserID from Bitwarden", names)
	if err != nil {
		return domain.VaultItem{}, "", err
	}
	var item domain.VaultItem
	for _, c := range candidates {
		if c.Name == name {
			item = c
			break
		}
	}

	if !withKey {
		return item, "", nil
	}
	if len(item.Attachments) == 1 {
		return item, item.Attachments[0], nil
	}
	keyFile, err := choose(ctx, s.menu, "Key file", item.Attachments)
	if err != nil {
		return domain.VaultItem{}, "", err
	}
	return item, keyFile, nil
}
