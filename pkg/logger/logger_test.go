package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cooperativa-lactea-api/pkg/logger"
)

func TestNewWithWriter_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "warn"}, &buf)

	l.Info().Msg("descartado")
	zl := l.Component("sms")
	zl.Warn().Str("farmer_id", "f1").Msg("envío fallido")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "una sola línea JSON")
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "sms", entry["component"])
	assert.Equal(t, "f1", entry["farmer_id"])
}

func TestNewWithWriter_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "staging", Level: "ruidoso"}, &buf)

	l.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())
	l.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("nada") })
}
