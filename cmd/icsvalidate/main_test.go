package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsvalidate/internal/config"
	"icsvalidate/internal/pipeline"
)

func TestApplyTo(t *testing.T) {
	conf := config.DefaultConfig()
	flagConfig{out: "r.json", format: "JSON", crossCheck: true, listen: ":9090"}.applyTo(conf)

	assert.Equal(t, "r.json", conf.ReportPath)
	assert.Equal(t, config.FormatJSON, conf.Format)
	assert.True(t, conf.CrossCheck)
	assert.Equal(t, ":9090", conf.Listen)

	conf = config.DefaultConfig()
	conf.CrossCheck = true
	flagConfig{}.applyTo(conf)
	assert.True(t, conf.CrossCheck)
	assert.Equal(t, config.DefaultReportPath, conf.ReportPath)
}

func TestParseFlags_ServeAndListen(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want flagConfig
	}{
		{
			name: "serve with listen address",
			args: []string{"-serve", "-listen", ":9090"},
			want: flagConfig{serve: true, listen: ":9090"},
		},
		{
			name: "serve and watch a file",
			args: []string{"-serve", "-watch", "cal.ics"},
			want: flagConfig{serve: true, watch: true, location: "cal.ics"},
		},
		{
			name: "single run",
			args: []string{"-format", "yaml", "-cross-check", "https://example.com/cal.ics"},
			want: flagConfig{format: "yaml", crossCheck: true, location: "https://example.com/cal.ics"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("icsvalidate", flag.ContinueOnError)
			assert.Equal(t, tt.want, parseFlags(fs, tt.args))
		})
	}
}

func TestValidateOnce(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cal.ics")
	require.NoError(t, os.WriteFile(input, []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n"), 0o600))

	conf := config.DefaultConfig()
	conf.Console = false
	conf.ReportPath = filepath.Join(dir, config.DefaultReportPath)
	conf.CacheDir = filepath.Join(dir, "cache")

	require.NoError(t, validateOnce(context.Background(), pipeline.NewRunner(conf, nil), conf, input))

	data, err := os.ReadFile(conf.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "❌ no VEVENT blocks found")
	assert.Contains(t, string(data), "DETECTED 3 ERRORS")

	err = validateOnce(context.Background(), pipeline.NewRunner(conf, nil), conf, filepath.Join(dir, "missing.ics"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
