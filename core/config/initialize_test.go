package config

import (
	"io"
	"log"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := Initialize(tempDir, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, "quit", cfg.QuitCommand)

	// The written file must load back as a valid configuration.
	loaded, err := Load(tempDir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Prompt, loaded.Prompt)
	assert.Equal(t, cfg.QuitCommand, loaded.QuitCommand)
}

func TestInitializeKeepsExistingConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	contents := []byte("prompt: '> '\nquit_command: exit\n")
	require.NoError(t, afero.WriteFile(fs, ConfigurationName, contents, 0600))

	cfg, err := initializeFs(fs, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Prompt)
	assert.Equal(t, "exit", cfg.QuitCommand)
}
