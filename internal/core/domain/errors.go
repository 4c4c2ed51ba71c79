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
	"errors"
	"fmt"
)

var (
	ErrMissingDependency = errors.New("missing dependency")
	ErrMissingDirectory  = errors.New("missing directory")
	// ErrMenuAborted means the user cancelled a picker where a match was required.
	ErrMenuAborted      = errors.New("menu aborted")
	ErrMenuFailed       = errors.New("menu failed")
	ErrNotFound         = errors.New("not found")
	ErrCorruptData      = errors.New("corrupt data")
	ErrVaultUnavailable = errors.New("vault unavailable")
	ErrAuth             = errors.New("authentication failed")
	ErrProbe            = errors.New("probe failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// Exit codes, one per error kind.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitInvalidInput      = 2
	ExitMissingDependency = 3
	ExitMissingDirectory  = 4
	ExitNotFound          = 5
	ExitCorruptData       = 6
	ExitVaultUnavailable  = 7
	ExitAuth              = 8
	ExitProbe             = 9
	ExitMenuFailed        = 10
)

var exitCodes = []struct {
	err  error
	code int
	msg  string
}{
	{ErrMenuAborted, ExitOK, "cancelled"},
	{ErrInvalidInput, ExitInvalidInput, "invalid input"},
	{ErrMissingDependency, ExitMissingDependency, "a required program is not installed"},
	{ErrMissingDirectory, ExitMissingDirectory, "a required directory is missing"},
	{ErrNotFound, ExitNotFound, "no such entry"},
	{ErrCorruptData, ExitCorruptData, "a registry file is corrupt"},
	{ErrAuth, ExitAuth, "vault authentication failed"},
	{ErrVaultUnavailable, ExitVaultUnavailable, "the vault is unavailable"},
	{ErrProbe, ExitProbe, "ssh compatibility probe failed"},
	{ErrMenuFailed, ExitMenuFailed, "the menu program failed"},
}

// ExitCode maps an error to the process exit code of its kind.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ExitFailure
}

// Describe returns a user-facing message naming the error kind.
func Describe(err error) string {
	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return fmt.Sprintf("%s: %v", e.msg, err)
		}
	}
	return err.Error()
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptData, fmt.Sprintf(format, args...))
}
