package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMissingFileKeepsDefaults(t *testing.T) {
	Keys = Config{
		MaxK:           8,
		MaxBatchSize:   10000,
		Addr:           ":8080",
		LogLevel:       "info",
		ReportInterval: "1m",
	}

	require.NoError(t, Init(filepath.Join(t.TempDir(), "does-not-exist.json")))
	assert.Equal(t, 8, Keys.MaxK)
	assert.Equal(t, 100000000, Keys.MaxLen)
}

func TestInitOverlaysFile(t *testing.T) {
	Keys = Config{MaxK: 8, MaxBatchSize: 10000, Addr: ":8080", LogLevel: "info", ReportInterval: "1m"}

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max-k": 3, "addr": ":9090"}`), 0o644))

	require.NoError(t, Init(path))
	assert.Equal(t, 3, Keys.MaxK)
	assert.Equal(t, 1000, Keys.MaxLen)
	assert.Equal(t, ":9090", Keys.Addr)
}

func TestInitRejectsUnknownField(t *testing.T) {
	Keys = Config{MaxK: 8, MaxBatchSize: 10000, Addr: ":8080", LogLevel: "info", ReportInterval: "1m"}

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bogus-field": true}`), 0o644))

	assert.Error(t, Init(path))
}

func TestInitRejectsSchemaViolation(t *testing.T) {
	Keys = Config{MaxK: 8, MaxBatchSize: 10000, Addr: ":8080", LogLevel: "info", ReportInterval: "1m"}

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max-k": 0}`), 0o644))

	assert.Error(t, Init(path))
}
