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
	"fmt"
	"time"
)

// VaultSession is an unlocked vault session token.
type VaultSession string

// VaultItem is a login entry as listed by the vault.
type VaultItem struct {
	ID          string
	Name        string
	Username    string
	Attachments []string
}

// HasAttachments reports whether the item can serve key authentication.
func (i VaultItem) HasAttachments() bool { return len(i.Attachments) > 0 }

// Credential is the login of a vault item with its custom fields merged in.
type Credential struct {
	Username string
	Password string
	Fields   map[string]string
}

// Field returns a custom field of the item.
func (c Credential) Field(name string) (string, bool) {
	v, ok := c.Fields[name]
	return v, ok
}

// GoString keeps secrets out of %#v output.
func (c Credential) GoString() string {
	return fmt.Sprintf("domain.Credential{Username:%q, Password:\"********\", Fields:%d}", c.Username, len(c.Fields))
}

// MenuRequest is one round trip with the picker.
type MenuRequest struct {
	Prompt  string
	Options []string
	// Password asks the picker to mask input.
	Password bool
}

// ConnectionEvent is one successful dispatch recorded in the history.
type ConnectionEvent struct {
	ID          string
	Host        string
	Label       string
	Kind        ProtocolKind
	Target      string
	ConnectedAt time.Time
}

// AlgorithmCategory is an ssh algorithm family as understood by `ssh -Q`.
type AlgorithmCategory string

const (
	AlgorithmCipher AlgorithmCategory = "cipher"
	AlgorithmKex    AlgorithmCategory = "kex"
	AlgorithmMAC    AlgorithmCategory = "mac"
)

// AlgorithmCategories lists the categories in negotiation-flag order.
var AlgorithmCategories = []AlgorithmCategory{AlgorithmCipher, AlgorithmKex, AlgorithmMAC}

// AlgorithmOffer is the set of algorithms a server advertises, per category.
type AlgorithmOffer map[AlgorithmCategory][]string
