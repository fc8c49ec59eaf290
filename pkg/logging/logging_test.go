package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestSetup_File(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	path := filepath.Join(t.TempDir(), "logs", "schemaforge.log")
	cfg := DefaultConfig()
	cfg.FilePath = path

	var stderr bytes.Buffer
	closeFn, err := Setup(cfg, &stderr)
	require.NoError(t, err)

	log.Info().Str("file", "a.json").Msg("Analyzed file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Analyzed file")
	assert.Contains(t, stderr.String(), "Analyzed file")
}
