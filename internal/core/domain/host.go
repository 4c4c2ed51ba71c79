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

package domain

import (
	"time"
)

// ProtocolKind is the tag of a ProtocolRecord.
type ProtocolKind string

const (
	ProtocolSSH ProtocolKind = "ssh"
	ProtocolVNC ProtocolKind = "vnc"
	ProtocolRDP ProtocolKind = "rdp"
	ProtocolWeb ProtocolKind = "web"
)

// ProtocolKinds lists the kinds in the order the add workflow offers them.
var ProtocolKinds = []ProtocolKind{ProtocolRDP, ProtocolSSH, ProtocolWeb, ProtocolVNC}

// AuthMethod selects how an ssh connection authenticates.
type AuthMethod string

const (
	AuthKey  AuthMethod = "key"
	AuthPass AuthMethod = "pass"
)

// DefaultSSHPort is used by the prober when a record carries no port.
const DefaultSSHPort = 22

// Endpoint is the variant part of a ProtocolRecord. It is implemented only by
// SSHEndpoint, VNCEndpoint, RDPEndpoint and WebEndpoint.
type Endpoint interface {
	Kind() ProtocolKind
	// Target is the address shown in listings and history.
	Target() string
	validate() error
}

type SSHEndpoint struct {
	Host string
	// Port is 0 when the record does not carry one.
	Port          int
	AuthMethod    AuthMethod
	CredentialRef string
	KeyFile       string
	// Option holds extra client flags computed by the compatibility prober.
	Option string
}

func (SSHEndpoint) Kind() ProtocolKind { return ProtocolSSH }
func (e SSHEndpoint) Target() string   { return e.Host }

// EffectivePort returns the port ssh will connect to.
func (e SSHEndpoint) EffectivePort() int {
	if e.Port == 0 {
		return DefaultSSHPort
	}
	return e.Port
}

type VNCEndpoint struct {
	Host          string
	AuthMethod    AuthMethod
	CredentialRef string
	Option        string
}

func (VNCEndpoint) Kind() ProtocolKind { return ProtocolVNC }
func (e VNCEndpoint) Target() string   { return e.Host }

type RDPEndpoint struct {
	Host string
	// RDPFile is a saved connection file launched instead of Host.
	RDPFile       string
	AuthMethod    AuthMethod
	CredentialRef string
	Domain        string
	SNIDomain     string
}

func (RDPEndpoint) Kind() ProtocolKind { return ProtocolRDP }

func (e RDPEndpoint) Target() string {
	if e.RDPFile != "" {
		return e.RDPFile
	}
	return e.Host
}

type WebEndpoint struct {
	URL string
	// Browser overrides the configured browser command when set.
	Browser string
}

func (WebEndpoint) Kind() ProtocolKind { return ProtocolWeb }
func (e WebEndpoint) Target() string   { return e.URL }

// ProtocolRecord is one connection method of a host.
type ProtocolRecord struct {
	Name            string
	ConnectionTimes int
	LastConnection  time.Time
	Endpoint        Endpoint
}

// Kind returns the tag of the record, or "" when no endpoint is set.
func (p ProtocolRecord) Kind() ProtocolKind {
	if p.Endpoint == nil {
		return ""
	}
	return p.Endpoint.Kind()
}

// Label is the text shown when a host has to be disambiguated.
func (p ProtocolRecord) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return string(p.Kind())
}

// RecordUse marks one successful dispatch.
func (p *ProtocolRecord) RecordUse(now time.Time) {
	p.ConnectionTimes++
	p.LastConnection = now.Truncate(time.Second)
}

// Validate checks the variant-specific required fields.
func (p ProtocolRecord) Validate() error {
	if p.Endpoint == nil {
		return corruptf("protocol record has no endpoint")
	}
	return p.Endpoint.validate()
}

// HostRecord is the persisted set of protocols of one remote target. Name is the
// registry file name without extension and is not part of the document.
type HostRecord struct {
	Name      string
	Protocols []ProtocolRecord
}

// Labels returns the disambiguation labels in record order.
func (h HostRecord) Labels() []string {
	labels := make([]string, 0, len(h.Protocols))
	for _, p := range h.Protocols {
		labels = append(labels, p.Label())
	}
	return labels
}

// IndexOf maps a label back to the first protocol that displays it.
func (h HostRecord) IndexOf(label string) (int, bool) {
	for i, p := range h.Protocols {
		if p.Label() == label {
			return i, true
		}
	}
	return -1, false
}

func (e SSHEndpoint) validate() error {
	if e.Host == "" {
		return corruptf("ssh: host is required")
	}
	if e.CredentialRef == "" {
		return corruptf("ssh: UserID is required")
	}
	if e.Port < 0 || e.Port > 65535 {
		return corruptf("ssh: port %d out of range", e.Port)
	}
	switch e.AuthMethod {
	case AuthPass:
	case AuthKey:
		if e.KeyFile == "" {
			return corruptf("ssh: keyFile is required for key authentication")
		}
	default:
		return corruptf("ssh: authMeth must be key or pass, got %q", e.AuthMethod)
	}
	return nil
}

func (e VNCEndpoint) validate() error {
	if e.Host == "" {
		return corruptf("vnc: host is required")
	}
	if e.CredentialRef == "" {
		return corruptf("vnc: UserID is required")
	}
	return nil
}

func (e RDPEndpoint) validate() error {
	if e.Host == "" && e.RDPFile == "" {
		return corruptf("rdp: host or RDPfile is required")
	}
	if e.CredentialRef == "" {
		return corruptf("rdp: UserID is required")
	}
	return nil
}

func (e WebEndpoint) validate() error {
	if e.URL == "" {
		return corruptf("web: url is required")
	}
	return nil
}
