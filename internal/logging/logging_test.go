package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hakobiya/internal/config"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewDebugOverridesLevel(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "error", Format: "text", Debug: true}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	// trace はdebugより詳細なのでそのまま
	logger, err = New(config.LogConfig{Level: "trace", Format: "text", Debug: true}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.TraceLevel, logger.GetLevel())
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.WithField("conn_id", "abc").Info("accepted")
	assert.Contains(t, buf.String(), `"conn_id":"abc"`)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{})
	assert.Error(t, err)
}
