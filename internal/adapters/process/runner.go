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

package process

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"go.uber.org/zap"
)

var _ ports.ProcessRunner = (*Runner)(nil)

// Runner starts external tools on behalf of the services.
type Runner struct {
	logger         *zap.SugaredLogger
	command        func(name string, args ...string) *exec.Cmd
	commandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewRunner(logger *zap.SugaredLogger) *Runner {
	return &Runner{
		logger:         logger,
		command:        exec.Command,
		commandContext: exec.CommandContext,
	}
}

// Spawn starts argv in its own process group with no stdio and returns
// immediately. The child outlives the launcher.
func (r *Runner) Spawn(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("%w: empty command", domain.ErrInvalidInput)
	}
	cmd := r.command(argv[0], argv[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}
	r.logger.Debugw("spawned detached process", "program", argv[0], "pid", cmd.Process.Pid)

	// Reap in the background so a short-lived child never lingers as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Start starts argv attached to the launcher's terminal.
func (r *Runner) Start(ctx context.Context, argv []string) (ports.Process, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", domain.ErrInvalidInput)
	}
	cmd := r.commandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}
	r.logger.Debugw("started process", "program", argv[0], "pid", cmd.Process.Pid)
	return cmd, nil
}

// Output runs argv with stdin and returns its stdout. A failure carries the
// trimmed stderr of the tool.
func (r *Runner) Output(ctx context.Context, stdin []byte, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", domain.ErrInvalidInput)
	}
	cmd := r.commandContext(ctx, argv[0], argv[1:]...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", argv[0], err)
	}
	return out, nil
}
