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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LastConnectionLayout is the on-disk format of LastConnection, in local time.
const LastConnectionLayout = "2006-01-02 15:04:05"

// protocolJSON is the flat wire shape of a ProtocolRecord. Key names are the
// ones existing registries already use.
type protocolJSON struct {
	Protocol        string   `json:"protocol"`
	URL             string   `json:"url,omitempty"`
	Host            string   `json:"host,omitempty"`
	Port            portJSON `json:"port,omitempty"`
	Name            string   `json:"name,omitempty"`
	AuthMeth        string   `json:"authMeth,omitempty"`
	UserID          string   `json:"UserID,omitempty"`
	KeyFile         string   `json:"keyFile,omitempty"`
	Option          string   `json:"option,omitempty"`
	Browser         string   `json:"browser,omitempty"`
	RDPFile         string   `json:"RDPfile,omitempty"`
	Domain          string   `json:"domain,omitempty"`
	SNIDomain       string   `json:"SNIdomain,omitempty"`
	ConnectionTimes int      `json:"ConnectionTimes,omitempty"`
	LastConnection  string   `json:"LastConnection,omitempty"`
}

type hostJSON struct {
	Protocols *[]protocolJSON `json:"protocols"`
}

// portJSON is written as a string and read from a string or a number.
type portJSON string

func (p *portJSON) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = portJSON(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("port must be a string or a number")
	}
	*p = portJSON(n.String())
	return nil
}

// MarshalHostRecord renders the registry document with 4-space indentation.
func MarshalHostRecord(h HostRecord) ([]byte, error) {
	if len(h.Protocols) == 0 {
		return nil, fmt.Errorf("%w: host %q has no protocols", ErrInvalidInput, h.Name)
	}
	protocols := make([]protocolJSON, 0, len(h.Protocols))
	for i, p := range h.Protocols {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("protocol %d of %q: %w", i, h.Name, err)
		}
		protocols = append(protocols, toJSON(p))
	}
	data, err := json.MarshalIndent(hostJSON{Protocols: &protocols}, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// UnmarshalHostRecord parses and validates a registry document. Every failure
// wraps ErrCorruptData.
func UnmarshalHostRecord(name string, data []byte) (HostRecord, error) {
	var doc hostJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return HostRecord{}, corruptf("%s: %v", name, err)
	}
	if doc.Protocols == nil {
		return HostRecord{}, corruptf("%s: missing protocols", name)
	}
	if len(*doc.Protocols) == 0 {
		return HostRecord{}, corruptf("%s: no protocols", name)
	}
	host := HostRecord{Name: name, Protocols: make([]ProtocolRecord, 0, len(*doc.Protocols))}
	for i, raw := range *doc.Protocols {
		p, err := fromJSON(raw)
		if err != nil {
			return HostRecord{}, fmt.Errorf("%s: protocol %d: %w", name, i, err)
		}
		host.Protocols = append(host.Protocols, p)
	}
	return host, nil
}

func fromJSON(raw protocolJSON) (ProtocolRecord, error) {
	p := ProtocolRecord{
		Name:            raw.Name,
		ConnectionTimes: raw.ConnectionTimes,
	}
	if raw.ConnectionTimes < 0 {
		return ProtocolRecord{}, corruptf("ConnectionTimes must not be negative")
	}
	if raw.LastConnection != "" {
		t, err := time.ParseInLocation(LastConnectionLayout, raw.LastConnection, time.Local)
		if err != nil {
			return ProtocolRecord{}, corruptf("LastConnection %q: %v", raw.LastConnection, err)
		}
		p.LastConnection = t
	}

	auth := AuthMethod(strings.ToLower(raw.AuthMeth))
	switch ProtocolKind(strings.ToLower(raw.Protocol)) {
	case ProtocolSSH:
		port := 0
		if raw.Port != "" {
			n, err := strconv.Atoi(string(raw.Port))
			if err != nil {
				return ProtocolRecord{}, corruptf("ssh: port %q is not a number", raw.Port)
			}
			port = n
		}
		p.Endpoint = SSHEndpoint{
			Host:          raw.Host,
			Port:          port,
			AuthMethod:    auth,
			CredentialRef: raw.UserID,
			KeyFile:       raw.KeyFile,
			Option:        raw.Option,
		}
	case ProtocolVNC:
		p.Endpoint = VNCEndpoint{
			Host:          raw.Host,
			AuthMethod:    auth,
			CredentialRef: raw.UserID,
			Option:        raw.Option,
		}
	case ProtocolRDP:
		p.Endpoint = RDPEndpoint{
			Host:          raw.Host,
			RDPFile:       raw.RDPFile,
			AuthMethod:    auth,
			CredentialRef: raw.UserID,
			Domain:        raw.Domain,
			SNIDomain:     raw.SNIDomain,
		}
	case ProtocolWeb:
		p.Endpoint = WebEndpoint{URL: raw.URL, Browser: raw.Browser}
	default:
		return ProtocolRecord{}, corruptf("unknown protocol %q", raw.Protocol)
	}
	if err := p.Validate(); err != nil {
		return ProtocolRecord{}, err
	}
	return p, nil
}

func toJSON(p ProtocolRecord) protocolJSON {
	out := protocolJSON{
		Protocol:        string(p.Kind()),
		Name:            p.Name,
		ConnectionTimes: p.ConnectionTimes,
	}
	if !p.LastConnection.IsZero() {
		out.LastConnection = p.LastConnection.In(time.Local).Format(LastConnectionLayout)
	}
	switch e := p.Endpoint.(type) {
	case SSHEndpoint:
		out.Host = e.Host
		if e.Port != 0 {
			out.Port = portJSON(strconv.Itoa(e.Port))
		}
		out.AuthMeth = string(e.AuthMethod)
		out.UserID = e.CredentialRef
		out.KeyFile = e.KeyFile
		out.Option = e.Option
	case VNCEndpoint:
		out.Host = e.Host
		out.AuthMeth = string(e.AuthMethod)
		out.UserID = e.CredentialRef
		out.Option = e.Option
	case RDPEndpoint:
		out.Host = e.Host
		out.RDPFile = e.RDPFile
		out.AuthMeth = string(e.AuthMethod)
		out.UserID = e.CredentialRef
		out.Domain = e.Domain
		out.SNIDomain = e.SNIDomain
	case WebEndpoint:
		out.URL = e.URL
		out.Browser = e.Browser
	}
	return out
}
