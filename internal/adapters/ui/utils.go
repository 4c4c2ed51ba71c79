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
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/mattn/go-runewidth"
)

// cellPad pads a string with spaces so its display width is at least `width` cells.
// Host names may carry wide runes, so byte or rune counts misalign columns.
func cellPad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func humanizeDuration(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		m := int(d.Minutes())
		return fmt.Sprintf("%dm ago", m)
	}
	if d < 48*time.Hour {
		h := int(d.Hours())
		return fmt.Sprintf("%dh ago", h)
	}
	if d < 60*24*time.Hour {
		days := int(d.Hours()) / 24
		return fmt.Sprintf("%dd ago", days)
	}
	if d < 365*24*time.Hour {
		months := int(d.Hours()) / (24 * 30)
		if months < 1 {
			months = 1
		}
		return fmt.Sprintf("%dmo ago", months)
	}
	years := int(d.Hours()) / (24 * 365)
	if years < 1 {
		years = 1
	}
	return fmt.Sprintf("%dy ago", years)
}

// FormatCommand joins argv into a copy-pasteable shell line.
func FormatCommand(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = quoteIfNeeded(a)
	}
	return strings.Join(parts, " ")
}

// quoteIfNeeded returns the value quoted if it contains spaces or shell-special characters.
func quoteIfNeeded(val string) string {
	if val == "" || strings.ContainsAny(val, " \t\\\"'$") {
		return fmt.Sprintf("%q", val)
	}
	return val
}

// RenderHosts writes one row per protocol of every host.
func RenderHosts(w io.Writer, hosts []domain.HostRecord, now time.Time) error {
	rows := [][]string{{"HOST", "LABEL", "KIND", "TARGET", "USES", "LAST USED"}}
	for _, h := range hosts {
		for _, p := range h.Protocols {
			rows = append(rows, []string{
				h.Name,
				p.Label(),
				string(p.Kind()),
				p.Endpoint.Target(),
				strconv.Itoa(p.ConnectionTimes),
				humanizeDuration(p.LastConnection, now),
			})
		}
	}
	return renderTable(w, rows)
}

// RenderHistory writes the recorded connections, newest first.
func RenderHistory(w io.Writer, events []domain.ConnectionEvent, now time.Time) error {
	rows := [][]string{{"WHEN", "HOST", "LABEL", "KIND", "TARGET"}}
	for _, e := range events {
		rows = append(rows, []string{
			humanizeDuration(e.ConnectedAt, now),
			e.Host,
			e.Label,
			string(e.Kind),
			e.Target,
		})
	}
	return renderTable(w, rows)
}

func renderTable(w io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(cellPad(cell, widths[i]+2))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
