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

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Adembc/lazylaunch/internal/adapters/clipboard"
	"github.com/Adembc/lazylaunch/internal/adapters/flags"
	"github.com/Adembc/lazylaunch/internal/adapters/notify"
	"github.com/Adembc/lazylaunch/internal/adapters/ui"
	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 20

func newHostsCmd(cliFlags *flags.CobraFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List registered hosts with their usage",
		Args:  argsWithin(0, 0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cliFlags)
			if err != nil {
				return err
			}
			defer a.close()

			hosts, err := a.registry.LoadAll()
			if err != nil {
				return err
			}
			return ui.RenderHosts(cmd.OutOrStdout(), hosts, time.Now())
		},
	}
}

func newHistoryCmd(cliFlags *flags.CobraFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent connections",
		Args:  argsWithin(0, 0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cliFlags)
			if err != nil {
				return err
			}
			defer a.close()

			if a.history == nil {
				return fmt.Errorf("%w: connection history is disabled", domain.ErrNotFound)
			}
			events, err := a.history.Recent(cmd.Context(), limit)
			if err != nil {
				a.logger.Errorw("failed to read history", "error", err)
				return err
			}
			return ui.RenderHistory(cmd.OutOrStdout(), events, time.Now())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Number of connections to show")
	return cmd
}

func newCopyCmd(cliFlags *flags.CobraFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <host> [label]",
		Short: "Copy the connection command of a host to the clipboard",
		Long: "Copy the connection command of a host to the clipboard. Passwords and key files\n" +
			"are replaced by placeholders.",
		Args: argsWithin(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cliFlags)
			if err != nil {
				return err
			}
			defer a.close()

			host, err := a.registry.Load(args[0])
			if err != nil {
				return err
			}
			label := ""
			if len(args) == 2 {
				label = args[1]
			}
			index, err := protocolIndex(host, label)
			if err != nil {
				return err
			}

			argv, err := a.connections.Preview(cmd.Context(), host, index)
			if err != nil {
				return err
			}
			command := ui.FormatCommand(argv)
			if err := (clipboard.System{}).WriteAll(command); err != nil {
				a.logger.Errorw("failed to copy command", "error", err, "host", host.Name)
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), command)
			notify.NewReporter().Info(ui.AppName, "Command copied to clipboard")
			return nil
		},
	}
}

// protocolIndex resolves the protocol a subcommand refers to. label may be
// empty for single-protocol hosts.
func protocolIndex(host domain.HostRecord, label string) (int, error) {
	if label == "" {
		if len(host.Protocols) == 1 {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %s has several protocols, pick one of: %s",
			domain.ErrInvalidInput, host.Name, strings.Join(host.Labels(), ", "))
	}
	index, ok := host.IndexOf(label)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no protocol %q", domain.ErrNotFound, host.Name, label)
	}
	return index, nil
}

func newProbeCmd(cliFlags *flags.CobraFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <host> [port]",
		Short: "Print the extra ssh options a legacy server needs",
		Args:  argsWithin(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			port := domain.DefaultSSHPort
			if len(args) == 2 {
				p, err := strconv.Atoi(args[1])
				if err != nil || p <= 0 || p > 65535 {
					return fmt.Errorf("%w: port %q", domain.ErrInvalidInput, args[1])
				}
				port = p
			}

			a, err := newApp(cliFlags)
			if err != nil {
				return err
			}
			defer a.close()

			options, err := a.prober.Probe(cmd.Context(), args[0], port)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), options)
			return err
		},
	}
}
