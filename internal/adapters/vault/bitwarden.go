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

package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

var _ ports.Vault = (*Bitwarden)(nil)

const (
	binary              = "bw"
	invalidPasswordHint = "Invalid master password"
	attachmentPattern   = "lazylaunch-key-*"
)

// Bitwarden drives the bw CLI.
type Bitwarden struct {
	logger     *zap.SugaredLogger
	newCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
	tempDir    string
}

func NewBitwarden(logger *zap.SugaredLogger) *Bitwarden {
	return &Bitwarden{
		logger:     logger,
		newCommand: exec.CommandContext,
	}
}

type listedItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login *struct {
		Username *string `json:"username"`
	} `json:"login"`
	Attachments []struct {
		FileName string `json:"fileName"`
	} `json:"attachments"`
}

type fetchedItem struct {
	Login  map[string]any `json:"login"`
	Fields []struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	} `json:"fields"`
}

// loginDoc is the decode target for the login merged with custom fields.
type loginDoc struct {
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Extra    map[string]any `mapstructure:",remain"`
}

// Unlock exchanges the master passphrase for a session token.
func (b *Bitwarden) Unlock(ctx context.Context, passphrase string) (domain.VaultSession, error) {
	out, err := b.run(ctx, []byte(passphrase), "unlock", "--raw")
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", fmt.Errorf("%w: vault returned no session", domain.ErrAuth)
	}
	return domain.VaultSession(token), nil
}

func (b *Bitwarden) Sync(ctx context.Context, session domain.VaultSession) error {
	_, err := b.run(ctx, nil, "sync", "--session", string(session))
	return err
}

// ListItems returns the items that carry a login, in vault order.
func (b *Bitwarden) ListItems(ctx context.Context, session domain.VaultSession) ([]domain.VaultItem, error) {
	out, err := b.run(ctx, nil, "list", "items", "--session", string(session))
	if err != nil {
		return nil, err
	}

	var raw []listedItem
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode item list: %v", domain.ErrVaultUnavailable, err)
	}

	items := make([]domain.VaultItem, 0, len(raw))
	for _, r := range raw {
		if r.Login == nil {
			continue
		}
		item := domain.VaultItem{ID: r.ID, Name: r.Name}
		if r.Login.Username != nil {
			item.Username = *r.Login.Username
		}
		for _, a := range r.Attachments {
			item.Attachments = append(item.Attachments, a.FileName)
		}
		items = append(items, item)
	}
	b.logger.Debugw("listed vault items", "count", len(items))
	return items, nil
}

// GetLogin returns the login of item id with its custom fields merged in.
// A custom field named like a login key overrides it.
func (b *Bitwarden) GetLogin(ctx context.Context, session domain.VaultSession, id string) (domain.Credential, error) {
	out, err := b.run(ctx, nil, "get", "item", id, "--session", string(session))
	if err != nil {
		return domain.Credential{}, err
	}

	var item fetchedItem
	if err := json.Unmarshal(out, &item); err != nil {
		return domain.Credential{}, fmt.Errorf("%w: decode item %s: %v", domain.ErrVaultUnavailable, id, err)
	}
	if item.Login == nil {
		return domain.Credential{}, fmt.Errorf("%w: vault item %s has no login", domain.ErrNotFound, id)
	}

	merged := make(map[string]any, len(item.Login)+len(item.Fields))
	for k, v := range item.Login {
		merged[k] = v
	}
	for _, f := range item.Fields {
		merged[f.Name] = f.Value
	}

	var doc loginDoc
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return domain.Credential{}, err
	}
	if err := decoder.Decode(merged); err != nil {
		return domain.Credential{}, fmt.Errorf("%w: decode login %s: %v", domain.ErrVaultUnavailable, id, err)
	}

	cred := domain.Credential{
		Username: doc.Username,
		Password: doc.Password,
		Fields:   make(map[string]string, len(item.Fields)),
	}
	for k, v := range doc.Extra {
		if s, ok := v.(string); ok {
			cred.Fields[k] = s
		}
	}
	return cred, nil
}

// GetAttachment stores the attachment in a new 0600 temporary file.
func (b *Bitwarden) GetAttachment(ctx context.Context, session domain.VaultSession, id, filename string) (string, error) {
	out, err := b.run(ctx, nil, "get", "attachment", filename, "--raw", "--itemid", id, "--session", string(session))
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%w: attachment %s of item %s is empty", domain.ErrVaultUnavailable, filename, id)
	}

	f, err := os.CreateTemp(b.tempDir, attachmentPattern)
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(out); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write attachment file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close attachment file: %w", err)
	}
	return path, nil
}

// run executes bw and classifies its failures. Arguments carrying the
// session are never logged.
func (b *Bitwarden) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := b.newCommand(ctx, binary, args...)
	if cmd == nil {
		return nil, fmt.Errorf("%w: bw command unavailable", domain.ErrVaultUnavailable)
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		b.logger.Warnw("bw command failed", "command", args[0], "error", err, "stderr", msg)
		switch {
		case errors.Is(err, exec.ErrNotFound):
			return nil, fmt.Errorf("%w: bw: %v", domain.ErrMissingDependency, err)
		case strings.Contains(msg, invalidPasswordHint):
			return nil, fmt.Errorf("%w: %s", domain.ErrAuth, invalidPasswordHint)
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case msg != "":
			return nil, fmt.Errorf("%w: bw %s: %s", domain.ErrVaultUnavailable, args[0], msg)
		default:
			return nil, fmt.Errorf("%w: bw %s: %v", domain.ErrVaultUnavailable, args[0], err)
		}
	}
	return stdout.Bytes(), nil
}
