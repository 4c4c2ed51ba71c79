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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"go.uber.org/zap"
)

// AllProtocols selects every protocol of a host in RemoveProtocol.
const AllProtocols = -1

type registryService struct {
	hostRepository ports.HostRepository
	logger         *zap.SugaredLogger
}

// NewRegistryService creates a new instance of registryService.
func NewRegistryService(logger *zap.SugaredLogger, hr ports.HostRepository) *registryService {
	return &registryService{
		logger:         logger,
		hostRepository: hr,
	}
}

// ListHosts returns the sorted host names of the registry.
func (s *registryService) ListHosts() ([]string, error) {
	hosts, err := s.hostRepository.ListHosts()
	if err != nil {
		s.logger.Errorw("failed to list hosts", "error", err)
		return nil, err
	}
	return hosts, nil
}

func (s *registryService) Exists(name string) bool {
	return s.hostRepository.Exists(name)
}

func (s *registryService) Load(name string) (domain.HostRecord, error) {
	host, err := s.hostRepository.Load(name)
	if err != nil {
		s.logger.Errorw("failed to load host", "error", err, "host", name)
		return domain.HostRecord{}, err
	}
	return host, nil
}

// LoadAll loads every host. Unreadable documents are logged and skipped so
// one bad file does not hide the rest of the registry.
func (s *registryService) LoadAll() ([]domain.HostRecord, error) {
	names, err := s.ListHosts()
	if err != nil {
		return nil, err
	}
	hosts := make([]domain.HostRecord, 0, len(names))
	for _, name := range names {
		host, err := s.hostRepository.Load(name)
		if err != nil {
			s.logger.Warnw("skipping unreadable host", "error", err, "host", name)
			continue
		}
		hosts = append(hosts, host)
	}
	return hosts, nil
}

// validateHostName rejects names that cannot be a registry file.
func validateHostName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: host name is required", domain.ErrInvalidInput)
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("%w: host name must not start or end with spaces", domain.ErrInvalidInput)
	}
	return nil
}

// validateProtocol reports an incomplete record as invalid input: it comes
// from the user, not from disk.
func validateProtocol(p domain.ProtocolRecord) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// AddProtocol appends p to host name, creating the host when needed.
func (s *registryService) AddProtocol(name string, p domain.ProtocolRecord) error {
	if err := validateHostName(name); err != nil {
		return err
	}
	if err := validateProtocol(p); err != nil {
		s.logger.Warnw("validation failed on add", "error", err, "host", name)
		return err
	}

	host, err := s.hostRepository.Load(name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		host = domain.HostRecord{Name: name}
	case err != nil:
		s.logger.Errorw("failed to load host", "error", err, "host", name)
		return err
	}

	host.Protocols = append(host.Protocols, p)
	if err := s.hostRepository.Save(host); err != nil {
		s.logger.Errorw("failed to add protocol", "error", err, "host", name, "protocol", p.Kind())
		return err
	}
	s.logger.Infow("protocol added", "host", name, "protocol", p.Kind(), "label", p.Label())
	return nil
}

// ReplaceProtocol swaps the protocol at index, keeping its usage statistics.
func (s *registryService) ReplaceProtocol(name string, index int, p domain.ProtocolRecord) error {
	if err := validateProtocol(p); err != nil {
		s.logger.Warnw("validation failed on update", "error", err, "host", name)
		return err
	}
	host, err := s.Load(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(host.Protocols) {
		return fmt.Errorf("%w: protocol %d of %s", domain.ErrNotFound, index, name)
	}

	old := host.Protocols[index]
	p.ConnectionTimes = old.ConnectionTimes
	p.LastConnection = old.LastConnection
	host.Protocols[index] = p

	if err := s.hostRepository.Save(host); err != nil {
		s.logger.Errorw("failed to update protocol", "error", err, "host", name, "index", index)
		return err
	}
	s.logger.Infow("protocol updated", "host", name, "index", index, "protocol", p.Kind())
	return nil
}

// RemoveProtocol removes the protocol at index, or every protocol when index
// is AllProtocols. A host left without protocols is deleted. It reports
// whether the host file is gone.
func (s *registryService) RemoveProtocol(name string, index int) (bool, error) {
	host, err := s.Load(name)
	if err != nil {
		return false, err
	}

	if index == AllProtocols || len(host.Protocols) <= 1 {
		if index != AllProtocols && index != 0 {
			return false, fmt.Errorf("%w: protocol %d of %s", domain.ErrNotFound, index, name)
		}
		return true, s.DeleteHost(name)
	}
	if index < 0 || index >= len(host.Protocols) {
		return false, fmt.Errorf("%w: protocol %d of %s", domain.ErrNotFound, index, name)
	}

	removed := host.Protocols[index]
	host.Protocols = append(host.Protocols[:index], host.Protocols[index+1:]...)
	if err := s.hostRepository.Save(host); err != nil {
		s.logger.Errorw("failed to remove protocol", "error", err, "host", name, "index", index)
		return false, err
	}
	s.logger.Infow("protocol removed", "host", name, "label", removed.Label())
	return false, nil
}

func (s *registryService) DeleteHost(name string) error {
	if err := s.hostRepository.Delete(name); err != nil {
		s.logger.Errorw("failed to delete host", "error", err, "host", name)
		return err
	}
	s.logger.Infow("host deleted", "host", name)
	return nil
}

// RecordUse bumps the usage counters of protocol index and persists the host.
func (s *registryService) RecordUse(host *domain.HostRecord, index int, now time.Time) error {
	if index < 0 || index >= len(host.Protocols) {
		return fmt.Errorf("%w: protocol %d of %s", domain.ErrNotFound, index, host.Name)
	}
	host.Protocols[index].RecordUse(now)
	if err := s.hostRepository.Save(*host); err != nil {
		s.logger.Errorw("failed to record connection metadata", "error", err, "host", host.Name)
		return err
	}
	return nil
}
