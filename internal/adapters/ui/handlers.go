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
	"github.com/gdamore/tcell/v2"
)

// =============================================================================
// Event Handlers (handle user input/events)
// =============================================================================

func (v *pickerView) handleKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.handleCancel()
		return nil
	case tcell.KeyEnter:
		// Alt+Enter takes the typed text even when an option matches.
		v.handleAccept(event.Modifiers()&tcell.ModAlt != 0)
		return nil
	case tcell.KeyDown, tcell.KeyTab, tcell.KeyCtrlN:
		v.handleMove(1)
		return nil
	case tcell.KeyUp, tcell.KeyBacktab, tcell.KeyCtrlP:
		v.handleMove(-1)
		return nil
	}
	return event
}

func (v *pickerView) handleCancel() {
	v.done = false
	v.app.Stop()
}

func (v *pickerView) handleAccept(typedOnly bool) {
	text := v.input.GetText()
	switch {
	case v.list == nil:
		// Password mode: the text is returned verbatim.
		v.result = text
	case typedOnly:
		v.result = v.state.choose(-1, text)
	default:
		v.result = v.state.choose(v.list.GetCurrentItem(), text)
	}
	v.done = true
	v.app.Stop()
}

func (v *pickerView) handleMove(delta int) {
	if v.list == nil || v.list.GetItemCount() == 0 {
		return
	}
	n := v.list.GetItemCount()
	v.list.SetCurrentItem((v.list.GetCurrentItem() + delta + n) % n)
}
