package flags

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adembc/lazylaunch/internal/core/domain"
)

func newTestCommand() (*cobra.Command, *CobraFlags) {
	cmd := &cobra.Command{
		Use:           "lazylaunch",
		RunE:          func(*cobra.Command, []string) error { return nil },
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd, NewCobraFlags(cmd)
}

func TestMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Mode
	}{
		{"none", nil, ModeNone},
		{"apps short", []string{"-a"}, ModeApps},
		{"remmina", []string{"--remmina"}, ModeRemmina},
		{"websearch", []string{"--websearch"}, ModeWebSearch},
		{"remote short", []string{"-r"}, ModeRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := newTestCommand()
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, f.Mode())
		})
	}
}

func TestModesAreMutuallyExclusive(t *testing.T) {
	cmd, _ := newTestCommand()
	cmd.SetArgs([]string{"-a", "-r"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUnknownFlagIsInvalidInput(t *testing.T) {
	cmd, _ := newTestCommand()
	cmd.SetArgs([]string{"--bogus"})

	err := cmd.Execute()
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestGlobalFlags(t *testing.T) {
	cmd, f := newTestCommand()
	cmd.SetArgs([]string{"--debug", "--config", "/tmp/alt.yaml"})
	require.NoError(t, cmd.Execute())

	assert.True(t, f.IsDebug())
	assert.Equal(t, "/tmp/alt.yaml", f.ConfigFile())
}
