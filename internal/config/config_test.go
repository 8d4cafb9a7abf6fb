package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsvalidate/internal/source"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultReportPath, cfg.ReportPath)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: JSON\ncross_check: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.CrossCheck)
	assert.True(t, cfg.Console)
	assert.True(t, cfg.Suggestions)
	assert.Equal(t, DefaultReportPath, cfg.ReportPath)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalize_UnknownFormat(t *testing.T) {
	cfg := &Config{Format: "xml"}
	cfg.Normalize()
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, DefaultReportPath, cfg.ReportPath)
}

func TestNormalize_MatchesDefaults(t *testing.T) {
	cfg := &Config{Console: true, Suggestions: true}
	cfg.Normalize()
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, source.DefaultCacheDir, cfg.CacheDir)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ICSVALIDATE_REPORT_PATH":         "out/report.txt",
		"ICSVALIDATE_FORMAT":              "yaml",
		"ICSVALIDATE_CONSOLE":             "false",
		"ICSVALIDATE_CROSS_CHECK":         "not-a-bool",
		"ICSVALIDATE_BASIC_AUTH_USERNAME": "admin",
		"ICSVALIDATE_BASIC_AUTH_PASSWORD": "secret",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	cfg.ApplyEnv(lookup)

	assert.Equal(t, "out/report.txt", cfg.ReportPath)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.False(t, cfg.Console)
	assert.False(t, cfg.CrossCheck)
	require.NotNil(t, cfg.BasicAuth)
	assert.Equal(t, "admin", cfg.BasicAuth.Username)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
