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

package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"go.uber.org/zap"
)

var _ ports.Menu = (*External)(nil)

// External drives a dmenu-compatible picker: options on stdin, the choice
// (or typed text) on stdout.
type External struct {
	logger     *zap.SugaredLogger
	launcher   string
	theme      Theme
	newCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewExternal(logger *zap.SugaredLogger, launcher string, theme Theme) *External {
	return &External{
		logger:     logger,
		launcher:   launcher,
		theme:      theme,
		newCommand: exec.CommandContext,
	}
}

// Args returns the picker arguments for req.
func (m *External) Args(req domain.MenuRequest) []string {
	if isRofi(m.launcher) {
		args := []string{"-dmenu", "-p", req.Prompt, "-l", m.theme.Lines}
		if req.Password {
			args = append(args, "-password")
		}
		return args
	}

	var args []string
	if req.Password {
		args = append(args, "-P")
	}
	return append(args,
		"-p", req.Prompt,
		"-fn", m.theme.Font,
		"-nb", m.theme.NormalBackground,
		"-nf", m.theme.NormalForeground,
		"-sb", m.theme.SelectedBackground,
		"-sf", m.theme.SelectedForeground,
		"-l", m.theme.Lines,
	)
}

// Show runs the picker once. Exit status 1 without diagnostics is a cancel.
func (m *External) Show(ctx context.Context, req domain.MenuRequest) (string, error) {
	fields := strings.Fields(m.launcher)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: no menu launcher configured", domain.ErrInvalidInput)
	}
	args := append(fields[1:], m.Args(req)...)

	cmd := m.newCommand(ctx, fields[0], args...)
	cmd.Stdin = strings.NewReader(strings.Join(req.Options, "\n"))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return clean(stdout.String(), req.Password), nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingDependency, fields[0])
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && stderr.Len() == 0 {
		m.logger.Debugw("picker cancelled", "prompt", req.Prompt)
		return "", nil
	}
	return "", fmt.Errorf("%w: %s exited with %v: %s",
		domain.ErrMenuFailed, fields[0], err, strings.TrimSpace(stderr.String()))
}

// clean trims the picker output. Typed passphrases only lose the line break.
func clean(out string, password bool) string {
	if password {
		return strings.TrimRight(out, "\r\n")
	}
	return strings.TrimSpace(out)
}

func isRofi(launcher string) bool {
	fields := strings.Fields(launcher)
	return len(fields) > 0 && filepath.Base(fields[0]) == "rofi"
}
