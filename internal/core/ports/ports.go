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

package ports

import (
	"context"

	"github.com/Adembc/lazylaunch/internal/core/domain"
)

// HostRepository persists HostRecords, one document per host.
type HostRepository interface {
	// ListHosts returns every host name under the registry root, sorted.
	ListHosts() ([]string, error)
	Exists(name string) bool
	Load(name string) (domain.HostRecord, error)
	Save(host domain.HostRecord) error
	Delete(name string) error
}

// EntryLister enumerates launchable files for the thin launcher modes.
type EntryLister interface {
	ListEntries(root, suffix string) ([]string, error)
}

// Vault is the password vault CLI.
type Vault interface {
	Unlock(ctx context.Context, passphrase string) (domain.VaultSession, error)
	Sync(ctx context.Context, session domain.VaultSession) error
	ListItems(ctx context.Context, session domain.VaultSession) ([]domain.VaultItem, error)
	GetLogin(ctx context.Context, session domain.VaultSession, id string) (domain.Credential, error)
	// GetAttachment writes the attachment to a fresh 0600 temporary file and
	// returns its path. The caller owns and removes the file.
	GetAttachment(ctx context.Context, session domain.VaultSession, id, filename string) (string, error)
}

// SessionStore persists the unlocked vault session between invocations.
type SessionStore interface {
	Find() (domain.VaultSession, bool, error)
	Store(session domain.VaultSession) error
}

// SessionProvider hands out an unlocked vault session, prompting if needed.
type SessionProvider interface {
	Session(ctx context.Context) (domain.VaultSession, error)
}

// Menu is the picker. A cancelled picker returns "" and a nil error.
type Menu interface {
	Show(ctx context.Context, req domain.MenuRequest) (string, error)
}

// Process is a started external program.
type Process interface {
	Wait() error
}

// ProcessRunner starts external programs.
type ProcessRunner interface {
	// Spawn starts argv detached from the launcher and does not wait for it.
	Spawn(argv []string) error
	// Start starts argv attached to ctx; the caller must Wait.
	Start(ctx context.Context, argv []string) (Process, error)
	// Output runs argv to completion with stdin and returns its stdout.
	Output(ctx context.Context, stdin []byte, argv []string) ([]byte, error)
}

// AlgorithmScanner discovers ssh algorithm sets.
type AlgorithmScanner interface {
	// Scan returns the algorithms the server at host:port offers.
	Scan(ctx context.Context, host string, port int) (domain.AlgorithmOffer, error)
	// Supported returns what the local ssh client supports in a category.
	Supported(ctx context.Context, category domain.AlgorithmCategory) ([]string, error)
}

// HistoryStore records successful connections.
type HistoryStore interface {
	Record(ctx context.Context, event domain.ConnectionEvent) error
	Recent(ctx context.Context, limit int) ([]domain.ConnectionEvent, error)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}
