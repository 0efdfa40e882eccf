package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"serve"})
	require.NoError(t, err)
	require.Equal(t, "serve", cmd.Name())

	cmd, _, err = rootCmd.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	require.Equal(t, "down", cmd.Name())
	require.NotNil(t, cmd.Flags().Lookup("steps"))
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	require.Equal(t, "1.2.3", rootCmd.Version)
}
