package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bahi.yaml")

	cfg := Default("Sharma Traders", "rk")
	cfg.Database.Path = "ledger/books.db"
	cfg.FirmKinds["commission"] = 1

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Default("Sharma Traders", "rk")

	assert.Equal(t, "Sharma Traders", cfg.Firm.Name)
	assert.Equal(t, "bahi.db", cfg.Database.Path)
	assert.Equal(t, "monthly", cfg.Interest.DefaultMode)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, -1, cfg.FirmKinds["adjustment"])
}

func TestConfigLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bahi.yaml")

	require.NoError(t, Save(path, Default("Sharma Traders", "rk")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "firm:")
	assert.Contains(t, content, "name: Sharma Traders")
	assert.Contains(t, content, "database:")
	assert.Contains(t, content, "firm_kinds:")
	assert.Contains(t, content, "adjustment: -1")
}
