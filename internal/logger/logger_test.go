package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.DebugLevel)
	t.Cleanup(func() { Close() })

	InfoCF("chat", "request finished", map[string]interface{}{
		"status": 200,
		"error":  errors.New("boom"),
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "chat", entry["component"])
	assert.Equal(t, "request finished", entry["message"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.WarnLevel)
	t.Cleanup(func() { Close() })

	DebugCF("reveal", "tick", nil)
	InfoCF("reveal", "started", nil)
	assert.Zero(t, buf.Len())

	WarnCF("dictation", "recognizer error", nil)
	assert.Contains(t, buf.String(), "recognizer error")
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "policychat.log")
	require.NoError(t, Init(path, "debug"))

	ErrorCF("api", "server error", map[string]interface{}{"url": "http://127.0.0.1:8000/chat"})
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"api"`)
}

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}
