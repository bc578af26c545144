package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitWritesRenamedKeys(t *testing.T) {
	var buf bytes.Buffer
	l := Init(&buf, "info")
	l.Info("search finished", zap.String("keyword", "วิศวกรรมคอมพิวเตอร์"))
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "search finished", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "timestamp")
	assert.Equal(t, "วิศวกรรมคอมพิวเตอร์", entry["keyword"])
}

func TestInitFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Init(&buf, "warn")
	l.Info("dropped")
	require.NoError(t, l.Sync())
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}
