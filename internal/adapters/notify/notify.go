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

package notify

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/term"
)

// Urgency levels understood by notify-send and dunstify.
const (
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

const timeoutMillis = "5000"

// Reporter shows messages on the terminal when there is one, and as a desktop
// notification when the launcher was started from a key binding.
type Reporter struct {
	stderr     io.Writer
	isTerminal func() bool
	lookPath   func(string) (string, error)
	command    func(name string, args ...string) *exec.Cmd
}

func NewReporter() *Reporter {
	return &Reporter{
		stderr:     os.Stderr,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stderr.Fd())) },
		lookPath:   exec.LookPath,
		command:    exec.Command,
	}
}

// Error reports a failure with critical urgency.
func (r *Reporter) Error(title, message string) {
	r.report(UrgencyCritical, title, message)
}

// Info reports a routine message.
func (r *Reporter) Info(title, message string) {
	r.report(UrgencyNormal, title, message)
}

func (r *Reporter) report(urgency, title, message string) {
	if r.isTerminal() {
		_, _ = fmt.Fprintf(r.stderr, "%s: %s\n", title, message)
		return
	}
	for _, notifier := range []string{"dunstify", "notify-send"} {
		if _, err := r.lookPath(notifier); err != nil {
			continue
		}
		cmd := r.command(notifier, "-u", urgency, "-t", timeoutMillis, title, message)
		cmd.Env = os.Environ()
		if err := cmd.Start(); err == nil {
			go func() { _ = cmd.Wait() }()
			return
		}
	}
	// No notifier: stderr is the last resort even without a terminal.
	_, _ = fmt.Fprintf(r.stderr, "%s: %s\n", title, message)
}
