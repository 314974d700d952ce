package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesTimestampLevelMessageAndCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel)

	logger.Error().Msg("boom")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["message"])
	assert.NotEmpty(t, entry["time"])
	assert.Contains(t, entry["caller"], "logger_test.go:")
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.WarnLevel)

	logger.Info().Msg("quiet")
	assert.Empty(t, buf.String())
}

func TestSetupWritesErrorLogOutsideDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")

	logger, closer, err := Setup(false, "info", path)
	require.NoError(t, err)
	logger.Error().Msg("persisted")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"message":"persisted"`))
}

func TestSetupDebugSkipsErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")

	logger, closer, err := Setup(true, "info", path)
	require.NoError(t, err)
	logger.Error().Msg("console only")
	require.NoError(t, closer.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
