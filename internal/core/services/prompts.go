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
)

// TerminalPicker is the menu_launcher value selecting the built-in picker.
const TerminalPicker = "tview"

// choose asks for one of options. Anything else, including a cancel, aborts.
func choose(ctx context.Context, menu ports.Menu, prompt string, options []string) (string, error) {
	answer, err := menu.Show(ctx, domain.MenuRequest{Prompt: prompt, Options: options})
	if err != nil {
		return "", err
	}
	for _, o := range options {
		if o == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrMenuAborted, prompt)
}

// ask accepts free text, offering options as suggestions. Empty text aborts.
func ask(ctx context.Context, menu ports.Menu, prompt string, options ...string) (string, error) {
	answer, err := askOptional(ctx, menu, prompt, options...)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrMenuAborted, prompt)
	}
	return answer, nil
}

// askOptional accepts free text; empty text is a valid answer.
func askOptional(ctx context.Context, menu ports.Menu, prompt string, options ...string) (string, error) {
	answer, err := menu.Show(ctx, domain.MenuRequest{Prompt: prompt, Options: options})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// checkTools fails with ErrMissingDependency naming every absent program.
func checkTools(lookPath func(string) (string, error), programs ...string) error {
	var missing []string
	seen := make(map[string]bool, len(programs))
	for _, p := range programs {
		if p == "" || p == TerminalPicker || seen[p] {
			continue
		}
		seen[p] = true
		if _, err := lookPath(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingDependency, strings.Join(missing, ", "))
	}
	return nil
}

// program returns the executable of a configured command line.
func program(commandLine string) string {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
