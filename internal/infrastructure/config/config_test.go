package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/auditshield/internal/domain/entities"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, entities.DefaultFramework, cfg.Framework)
	assert.Equal(t, filepath.Join(".auditshield", "auditshield.db"), cfg.SQLite.Path)
	assert.Equal(t, 5, cfg.Dashboard.TrendWindow)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
}

func TestConfigDir(t *testing.T) {
	result := ConfigDir("/home/user/project")
	assert.Equal(t, "/home/user/project/.auditshield", result)
}

func TestConfigFilePath(t *testing.T) {
	result := ConfigFilePath("/home/user/project")
	assert.Equal(t, "/home/user/project/.auditshield/config.yaml", result)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auditshield init")
}

func TestLoad_DefaultFile(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")
	t.Setenv(EnvNoColor, "")

	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ISO/IEC 27001:2022", cfg.Framework)
	assert.Equal(t, filepath.Join(dir, ".auditshield", "auditshield.db"), cfg.SQLite.Path)
	assert.Equal(t, 5, cfg.Dashboard.TrendWindow)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")
	t.Setenv(EnvNoColor, "")

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	content := `framework: ISO/IEC 27001:2013
sqlite:
  path: /tmp/audits.db
dashboard:
  trend_window: 10
output:
  color: never
`
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ISO/IEC 27001:2013", cfg.Framework)
	assert.Equal(t, "/tmp/audits.db", cfg.SQLite.Path)
	assert.Equal(t, 10, cfg.Dashboard.TrendWindow)
	assert.Equal(t, ColorNever, cfg.Output.Color)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	t.Setenv(EnvDatabasePath, ":memory:")
	t.Setenv(EnvNoColor, "1")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.SQLite.Path)
	assert.Equal(t, ColorNever, cfg.Output.Color)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv(EnvNoColor, "")

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "negative trend window",
			content: "dashboard:\n  trend_window: -1\n",
		},
		{
			name:    "unknown color mode",
			content: "output:\n  color: sometimes\n",
		},
		{
			name:    "malformed yaml",
			content: "framework: [unclosed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
			require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(tt.content), 0644))

			_, err := Load(dir)
			require.Error(t, err)
		})
	}
}

func TestWriteDefault_AlreadyExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	err := WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")
	t.Setenv(EnvNoColor, "")

	dir := t.TempDir()
	cfg := Default()
	cfg.Framework = "Custom Framework"
	cfg.Dashboard.TrendWindow = 3

	require.NoError(t, Write(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Custom Framework", loaded.Framework)
	assert.Equal(t, 3, loaded.Dashboard.TrendWindow)
}

func TestResolveDatabasePath(t *testing.T) {
	assert.Equal(t, ":memory:", ResolveDatabasePath("/base", ":memory:"))
	assert.Equal(t, "/abs/db.sqlite", ResolveDatabasePath("/base", "/abs/db.sqlite"))
	assert.Equal(t, "/base/rel.db", ResolveDatabasePath("/base", "rel.db"))
	assert.Equal(t, "/base/.auditshield/auditshield.db", ResolveDatabasePath("/base", ""))
}
