package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsTableIsComplete(t *testing.T) {
	table := commands()
	for _, name := range []string{"status", "login", "logout", "plan", "gate"} {
		cmd, ok := table[name]
		require.True(t, ok, "missing command %q", name)
		assert.Equal(t, name, cmd.name)
		assert.NotEmpty(t, cmd.description)
		assert.NotNil(t, cmd.run)
	}
}

func TestRunLogin_RequiresEmail(t *testing.T) {
	err := runLogin(&commandContext{}, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-email")
}

func TestRunLogout_RejectsArguments(t *testing.T) {
	err := runLogout(&commandContext{}, []string{"now"})
	require.Error(t, err)
}
