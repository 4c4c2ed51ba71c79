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

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const AppName = "lazylaunch"

var _ ports.Menu = (*Picker)(nil)

// Picker is the built-in terminal picker, used when no dmenu-style launcher
// is wanted.
type Picker struct {
	logger *zap.SugaredLogger
	newApp func() *tview.Application
}

func NewPicker(logger *zap.SugaredLogger) *Picker {
	return &Picker{logger: logger, newApp: tview.NewApplication}
}

// pickerView is one Show call: the widgets plus the filtering state.
type pickerView struct {
	app    *tview.Application
	input  *tview.InputField
	list   *tview.List
	state  *pickerState
	result string
	done   bool
}

func (p *Picker) Show(ctx context.Context, req domain.MenuRequest) (string, error) {
	v := &pickerView{
		app:   p.newApp(),
		state: newPickerState(req.Options),
	}
	v.build(req)

	stop := context.AfterFunc(ctx, v.app.Stop)
	defer stop()

	if err := v.app.Run(); err != nil {
		return "", fmt.Errorf("%w: terminal picker: %v", domain.ErrMenuFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !v.done {
		p.logger.Debugw("picker cancelled", "prompt", req.Prompt)
		return "", nil
	}
	return v.result, nil
}

func (v *pickerView) build(req domain.MenuRequest) {
	v.input = tview.NewInputField().
		SetLabel(req.Prompt + ": ").
		SetFieldBackgroundColor(tcell.Color236).
		SetLabelColor(tcell.Color250)
	v.input.SetBorder(true).SetBorderColor(tcell.Color238)
	v.input.SetInputCapture(v.handleKeys)

	if req.Password {
		v.input.SetMaskCharacter('*')
		v.app.SetRoot(v.input, true).SetFocus(v.input)
		return
	}

	v.list = tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.Color24)
	v.list.SetBorder(true).
		SetTitle(" " + AppName + " ").
		SetBorderColor(tcell.Color238).
		SetTitleColor(tcell.Color250)

	v.input.SetChangedFunc(func(text string) {
		v.state.filter(text)
		v.refreshList()
	})
	v.refreshList()

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.input, 3, 0, true).
		AddItem(v.list, 0, 1, false)
	v.app.SetRoot(layout, true).SetFocus(v.input)
}

func (v *pickerView) refreshList() {
	v.list.Clear()
	for _, option := range v.state.visible {
		v.list.AddItem(tview.Escape(option), "", 0, nil)
	}
}

// pickerState filters options the way dmenu does: every whitespace
// separated token of the input must appear, case-insensitively.
type pickerState struct {
	options []string
	visible []string
}

func newPickerState(options []string) *pickerState {
	return &pickerState{options: options, visible: options}
}

func (s *pickerState) filter(text string) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		s.visible = s.options
		return
	}
	visible := make([]string, 0, len(s.options))
	for _, option := range s.options {
		lower := strings.ToLower(option)
		match := true
		for _, tok := range tokens {
			if !strings.Contains(lower, tok) {
				match = false
				break
			}
		}
		if match {
			visible = append(visible, option)
		}
	}
	s.visible = visible
}

// choose returns the highlighted option, or the typed text when nothing
// matches the filter.
func (s *pickerState) choose(index int, typed string) string {
	if index >= 0 && index < len(s.visible) {
		return s.visible[index]
	}
	return strings.TrimSpace(typed)
}
