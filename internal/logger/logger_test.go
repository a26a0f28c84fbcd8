package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWith(Options{Format: "json"}, &buf)
	Info("Curation complete", "top", 3)
	Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Curation complete", rec["msg"])
	assert.Equal(t, float64(3), rec["top"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestInitWithDebugText(t *testing.T) {
	var buf bytes.Buffer
	InitWith(Options{Debug: true}, &buf)
	Debug("visible", "k", "v")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "k=v")
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ainews.log")
	var buf bytes.Buffer
	InitWith(Options{File: path, MaxSizeMB: 1}, &buf)
	Warn("feed failed", "feed", "x")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "feed failed")
	assert.Contains(t, buf.String(), "feed failed")
}
