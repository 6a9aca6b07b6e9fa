package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofre-dev/cofre/internal/storage"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Raphael", "./data")
	cfg.Owner.Counterparty = "Alzi"
	cfg.Import.WriteCleanCSV = false

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Owner.Name, got.Owner.Name)
	assert.Equal(t, cfg.Owner.Counterparty, got.Owner.Counterparty)
	assert.Equal(t, cfg.Storage.Backend, got.Storage.Backend)
	assert.Equal(t, cfg.Storage.DataDir, got.Storage.DataDir)
	assert.False(t, got.Import.WriteCleanCSV)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Raphael", "/tmp/ledger")

	assert.Equal(t, "Raphael", cfg.Owner.Name)
	assert.Equal(t, "Alzi", cfg.Owner.Counterparty)
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/ledger", cfg.Storage.DataDir)
	assert.Equal(t, "cofre.db", cfg.Storage.Database)
	assert.Equal(t, "cofre.json", cfg.Storage.JSONFile)
	assert.True(t, cfg.Import.WriteCleanCSV)
}

func TestPaths(t *testing.T) {
	cfg := Default("Raphael", "/tmp/ledger")
	assert.Equal(t, filepath.Join("/tmp/ledger", "cofre.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/tmp/ledger", "cofre.json"), cfg.JSONFilePath())
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := Default("Raphael", ".")
	cfg.Storage.Backend = "postgres"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	cfg := Default("Raphael", ".")
	cfg.Storage.Backend = "mongo"
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg := Default("Raphael", "./data")
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	t.Setenv("COFRE_BACKEND", storage.BackendJSONFile)
	t.Setenv("COFRE_DATA_DIR", "/var/lib/cofre")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, storage.BackendJSONFile, got.Storage.Backend)
	assert.Equal(t, "/var/lib/cofre", got.Storage.DataDir)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Raphael", "./data")
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Raphael")
	assert.Contains(t, contents, "counterparty: Alzi")
	assert.Contains(t, contents, "backend: sqlite")
	assert.Contains(t, contents, "write_clean_csv: true")
}
