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
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"go.uber.org/zap"
)

// Algorithms a current OpenSSH client negotiates without extra flags.
var (
	LocalCiphers = []string{
		"chacha20-poly1305@openssh.com", "aes128-ctr", "aes192-ctr", "aes256-ctr",
		"aes128-gcm@openssh.com", "aes256-gcm@openssh.com",
	}
	LocalKex = []string{
		"curve25519-sha256", "curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256", "ecdh-sha2-nistp384", "ecdh-sha2-nistp521",
		"diffie-hellman-group-exchange-sha256", "diffie-hellman-group16-sha512",
		"diffie-hellman-group18-sha512", "diffie-hellman-group14-sha256",
	}
	LocalMacs = []string{
		"umac-64-etm@openssh.com", "umac-128-etm@openssh.com",
		"hmac-sha2-256-etm@openssh.com", "hmac-sha2-512-etm@openssh.com", "hmac-sha1-etm@openssh.com",
		"umac-64@openssh.com", "umac-128@openssh.com",
		"hmac-sha2-256", "hmac-sha2-512", "hmac-sha1",
	}
)

type probeService struct {
	scanner   ports.AlgorithmScanner
	preferred map[domain.AlgorithmCategory][]string
	logger    *zap.SugaredLogger
}

func NewProbeService(logger *zap.SugaredLogger, scanner ports.AlgorithmScanner) *probeService {
	return &probeService{
		scanner: scanner,
		preferred: map[domain.AlgorithmCategory][]string{
			domain.AlgorithmCipher: LocalCiphers,
			domain.AlgorithmKex:    LocalKex,
			domain.AlgorithmMAC:    LocalMacs,
		},
		logger: logger,
	}
}

// Probe returns the extra ssh flags needed to talk to host:port, or "" when
// the default algorithms already overlap with what the server offers.
func (s *probeService) Probe(ctx context.Context, host string, port int) (string, error) {
	offer, err := s.scanner.Scan(ctx, host, port)
	if err != nil {
		s.logger.Warnw("ssh algorithm scan failed", "error", err, "host", host, "port", port)
		return "", err
	}

	var flags []string
	for _, category := range domain.AlgorithmCategories {
		offered := offer[category]
		preferred := s.preferred[category]
		if len(intersect(preferred, offered)) > 0 {
			continue
		}

		local, err := s.scanner.Supported(ctx, category)
		if err != nil {
			return "", err
		}
		matches := intersect(symmetricDifference(local, preferred), offered)
		if len(matches) == 0 {
			s.logger.Debugw("no compatible algorithm", "host", host, "category", category)
			continue
		}
		flags = append(flags, algorithmFlag(category, matches))
	}

	options := strings.Join(flags, " ")
	s.logger.Infow("ssh compatibility probed", "host", host, "port", port, "options", options)
	return options, nil
}

// algorithmFlag enables matches in one ssh option; ssh keeps only the first
// value of a repeated option.
func algorithmFlag(category domain.AlgorithmCategory, matches []string) string {
	list := strings.Join(matches, ",")
	switch category {
	case domain.AlgorithmCipher:
		return "-c " + list
	case domain.AlgorithmKex:
		return "-o KexAlgorithms=+" + list
	case domain.AlgorithmMAC:
		return "-o MACs=+" + list
	default:
		return fmt.Sprintf("-o %s=+%s", category, list)
	}
}

// intersect keeps the elements of a that are in b, in a's order.
func intersect(a, b []string) []string {
	set := toSet(b)
	var out []string
	for _, v := range a {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}

// symmetricDifference lists a-only elements then b-only elements.
func symmetricDifference(a, b []string) []string {
	inA, inB := toSet(a), toSet(b)
	var out []string
	for _, v := range a {
		if !inB[v] {
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !inA[v] {
			out = append(out, v)
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
