package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/vgrep/internal/pattern"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vgrep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "re2", cfg.Engine)
	assert.Equal(t, "auto", cfg.Color)
	assert.True(t, cfg.Hidden)
	assert.False(t, cfg.FollowSymlinks)
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Equal(t, 15*time.Second, cfg.SSH.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `workers: 8
engine: regexp2
color: never
hidden: false
exclude: [node_modules, .git]
follow_symlinks: true
verbose: 1
ssh:
  port: 2222
  batch: true
  timeout: 20s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, string(pattern.EngineRegexp2), cfg.Engine)
	assert.Equal(t, "never", cfg.Color)
	assert.False(t, cfg.Hidden)
	assert.Equal(t, []string{"node_modules", ".git"}, cfg.Exclude)
	assert.True(t, cfg.FollowSymlinks)
	assert.Equal(t, 1, cfg.Verbose)
	assert.Equal(t, SSHConfig{Port: 2222, Batch: true, Timeout: 20 * time.Second}, cfg.SSH)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "engine: re2\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Hidden)
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Equal(t, "auto", cfg.Color)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "workers: [1, 2\n"},
		{"negative workers", "workers: -1\n"},
		{"unknown engine", "engine: pcre\n"},
		{"bad color", "color: rainbow\n"},
		{"bad timeout", "ssh:\n  timeout: soon\n"},
		{"port out of range", "ssh:\n  port: 70000\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}
