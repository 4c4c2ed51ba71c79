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

package flags

import (
	"fmt"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/spf13/cobra"
)

// Mode is the launcher flow chosen on the command line.
type Mode string

const (
	ModeNone      Mode = ""
	ModeApps      Mode = "apps"
	ModeRemmina   Mode = "remmina"
	ModeWebSearch Mode = "websearch"
	ModeRemote    Mode = "remote"
)

var modeFlags = []struct {
	mode      Mode
	shorthand string
	usage     string
}{
	{ModeApps, "a", "Launch a desktop application"},
	{ModeRemmina, "", "Open a remmina connection profile"},
	{ModeWebSearch, "w", "Search the web with a template"},
	{ModeRemote, "r", "Connect to, add, delete or modify a remote host"},
}

type CobraFlags struct {
	rootCmd *cobra.Command
}

func NewCobraFlags(rootCmd *cobra.Command) *CobraFlags {
	g := &CobraFlags{rootCmd: rootCmd}
	g.globalFlags()
	g.modeFlags()
	return g
}

func (g *CobraFlags) globalFlags() {
	g.rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	g.rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.config/lazylaunch/config.yaml)")
}

func (g *CobraFlags) modeFlags() {
	names := make([]string, 0, len(modeFlags))
	for _, m := range modeFlags {
		g.rootCmd.Flags().BoolP(string(m.mode), m.shorthand, false, m.usage)
		names = append(names, string(m.mode))
	}
	g.rootCmd.MarkFlagsMutuallyExclusive(names...)

	// cobra checks flag groups after the pre-run hooks and returns that
	// error unclassified, so the same rule is enforced here first.
	g.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		var set []string
		for _, name := range names {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				set = append(set, name)
			}
		}
		if len(set) > 1 {
			return fmt.Errorf("%w: if any flags in the group [%s] are set none of the others can be; [%s] were all set",
				domain.ErrInvalidInput, strings.Join(names, " "), strings.Join(set, " "))
		}
		return nil
	}

	// Usage mistakes share the invalid-input exit code.
	g.rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	})
}

func (g *CobraFlags) IsDebug() bool {
	flag, _ := g.rootCmd.PersistentFlags().GetBool("debug")
	return flag
}

func (g *CobraFlags) ConfigFile() string {
	value, _ := g.rootCmd.PersistentFlags().GetString("config")
	return value
}

// Mode returns the selected mode, or ModeNone when no mode flag was given.
func (g *CobraFlags) Mode() Mode {
	for _, m := range modeFlags {
		if on, _ := g.rootCmd.Flags().GetBool(string(m.mode)); on {
			return m.mode
		}
	}
	return ModeNone
}
