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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
)

// Placeholders used when a command is shown instead of run.
const (
	PasswordFilePlaceholder = "<password-file>"
	KeyFilePlaceholder      = "<key-file>"
	RedactedPassword        = "********"
)

// Fixed xfreerdp session settings.
var rdpSessionFlags = []string{
	"/bpp:32",
	"/audio-mode:0",
	"/mic:format:1",
	"/sound:latency:50",
	"+auto-reconnect",
	"/auto-reconnect-max-retries:4",
}

var rdpDisplayFlags = []string{
	"/w:1900",
	"/h:1000",
	"/dynamic-resolution",
	"+clipboard",
	"/cert-ignore",
}

// buildSSHCommand returns the console-wrapped ssh invocation. passwordFile
// routes the login through sshpass; keyFile is passed as the identity.
// Host keys are never verified.
func buildSSHCommand(console []string, e domain.SSHEndpoint, username, passwordFile, keyFile string) []string {
	argv := append([]string{}, console...)
	if passwordFile != "" {
		argv = append(argv, "sshpass", "-f", passwordFile)
	}
	argv = append(argv, "ssh", "-o", "StrictHostKeyChecking=no")
	argv = append(argv, strings.Fields(e.Option)...)
	if e.Port != 0 {
		argv = append(argv, "-p", strconv.Itoa(e.Port))
	}
	if keyFile != "" {
		argv = append(argv, "-i", keyFile)
	}
	return append(argv, username+"@"+e.Host)
}

func buildVNCCommand(e domain.VNCEndpoint, passwdFile string) []string {
	argv := []string{"ssvncviewer"}
	argv = append(argv, strings.Fields(e.Option)...)
	return append(argv, "-scale", "autofit", "-passwd", passwdFile, e.Host)
}

// buildRDPCommand returns the xfreerdp invocation. A relative RDPfile is
// resolved against the registry root.
func buildRDPCommand(e domain.RDPEndpoint, cred domain.Credential, password, registryRoot, sharedFolder string) []string {
	argv := []string{"xfreerdp"}
	if e.RDPFile != "" {
		path := e.RDPFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(registryRoot, path)
		}
		argv = append(argv, path)
	}
	argv = append(argv, rdpSessionFlags...)
	argv = append(argv, "/drive:RDPshare,"+sharedFolder)
	argv = append(argv, rdpDisplayFlags...)
	argv = append(argv, "/u:"+rdpUser(e, cred), "/p:"+password)
	if e.RDPFile == "" {
		argv = append(argv, "/v:"+e.Host)
	}
	return argv
}

// rdpUser composes the login name. The vault item's field of the same name
// wins over the record value.
func rdpUser(e domain.RDPEndpoint, cred domain.Credential) string {
	if e.SNIDomain != "" {
		sni := e.SNIDomain
		if v, ok := cred.Field("SNIdomain"); ok && v != "" {
			sni = v
		}
		return cred.Username + "@" + sni
	}
	if e.Domain != "" {
		dom := e.Domain
		if v, ok := cred.Field("domain"); ok && v != "" {
			dom = v
		}
		return dom + `\` + cred.Username
	}
	return cred.Username
}

// buildWebCommand opens the URL in the record's browser, or the configured one.
func buildWebCommand(defaultBrowser string, e domain.WebEndpoint) []string {
	browser := e.Browser
	if strings.TrimSpace(browser) == "" {
		browser = defaultBrowser
	}
	return append(strings.Fields(browser), e.URL)
}
