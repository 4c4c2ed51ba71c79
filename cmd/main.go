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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adembc/lazylaunch/internal/adapters/flags"
	"github.com/Adembc/lazylaunch/internal/adapters/notify"
	"github.com/Adembc/lazylaunch/internal/adapters/ui"
	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/spf13/cobra"
)

var (
	version   = "develop"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	os.Exit(report(err))
}

// report shows err to the user and returns the exit code of its kind.
func report(err error) int {
	code := domain.ExitCode(err)
	if code != domain.ExitOK {
		notify.NewReporter().Error(ui.AppName, domain.Describe(err))
	}
	return code
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           ui.AppName,
		Short:         "Menu launcher for applications, web searches and remote hosts",
		Version:       fmt.Sprintf("%s (%s)", version, gitCommit),
		Args:          argsWithin(0, 0),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cliFlags := flags.NewCobraFlags(rootCmd)

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		mode := cliFlags.Mode()
		if mode == flags.ModeNone {
			return cmd.Help()
		}

		a, err := newApp(cliFlags)
		if err != nil {
			return err
		}
		defer a.close()

		a.logger.Infow("starting", "mode", mode, "version", version)
		ctx := cmd.Context()
		switch mode {
		case flags.ModeApps:
			err = a.launcher.Apps(ctx)
		case flags.ModeRemmina:
			err = a.launcher.Remmina(ctx)
		case flags.ModeWebSearch:
			err = a.launcher.WebSearch(ctx)
		case flags.ModeRemote:
			err = a.remote.Run(ctx)
		}
		if err != nil && domain.ExitCode(err) != domain.ExitOK {
			a.logger.Errorw("run failed", "mode", mode, "error", err)
		}
		return err
	}

	rootCmd.AddCommand(
		newHostsCmd(cliFlags),
		newHistoryCmd(cliFlags),
		newCopyCmd(cliFlags),
		newProbeCmd(cliFlags),
	)
	return rootCmd
}

// argsWithin is cobra.RangeArgs with usage mistakes classified as invalid input.
func argsWithin(minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(minArgs, maxArgs)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return nil
	}
}
