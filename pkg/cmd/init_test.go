package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand(t *testing.T) {
	cmd := InitCommand(BuildInfo{
		AppName: "app",
	})

	assert.Equal(t, "app", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	require.Len(t, cmd.Commands(), 4)

	subCmds := cmd.Commands()
	names := make([]string, 0, len(subCmds))

	for _, sub := range subCmds {
		names = append(names, sub.Use)
	}

	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "index")
	assert.Contains(t, names, "health")
	assert.Contains(t, names, "stats")

	assert.Equal(t, "info", cmd.PersistentFlags().Lookup("log-level").DefValue)
	assert.Equal(t, "true", cmd.PersistentFlags().Lookup("log-text").DefValue)
	assert.Equal(t, "8080", cmd.PersistentFlags().Lookup("port").DefValue)
}

func TestNewIndexCmd(t *testing.T) {
	flags := &cmdFlags{}
	cmd := newIndexCmd(flags)

	assert.Equal(t, "index", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	rootFlag := cmd.Flags().Lookup("root")
	assert.NotNil(t, rootFlag)

	minPagesFlag := cmd.Flags().Lookup("min_pages")
	require.NotNil(t, minPagesFlag)
	assert.Equal(t, "4", minPagesFlag.DefValue)

	dryrunFlag := cmd.Flags().Lookup("dryrun")
	require.NotNil(t, dryrunFlag)
	assert.Equal(t, "false", dryrunFlag.DefValue)
}
