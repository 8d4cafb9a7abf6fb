package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"icsvalidate/internal/source"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Defaults applied by DefaultConfig and Normalize.
const (
	DefaultReportPath  = "program_result.txt"
	DefaultLogLevel    = "info"
	DefaultListen      = "127.0.0.1:8080"
	DefaultRefreshCron = "*/15 * * * *"
	DefaultCacheDir    = source.DefaultCacheDir
)

// envPrefix prefixes every environment override, e.g. ICSVALIDATE_FORMAT.
const envPrefix = "ICSVALIDATE_"

// BasicAuthConfig holds HTTP Basic Auth credentials for the HTTP API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// ReportPath is the file the rendered report is written to.
	ReportPath string `yaml:"report_path" json:"report_path"`

	// Format selects the report rendering: "text" (default), "json" or "yaml".
	Format string `yaml:"format" json:"format"`

	// Console mirrors the rendered report to stdout.
	Console bool `yaml:"console" json:"console"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// CrossCheck additionally parses documents with a full iCalendar
	// library and reports its findings as warnings.
	CrossCheck bool `yaml:"cross_check" json:"cross_check"`

	// Suggestions controls whether "did you mean" hints are rendered.
	Suggestions bool `yaml:"suggestions" json:"suggestions"`

	// Listen is the HTTP listen address used by -serve when no address is
	// given on the command line.
	Listen string `yaml:"listen" json:"listen"`

	// RefreshCron is the cron schedule used by -watch for remote sources.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// CacheDir holds cached copies of remote calendars.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		ReportPath:  DefaultReportPath,
		Format:      FormatText,
		Console:     true,
		LogLevel:    DefaultLogLevel,
		CrossCheck:  false,
		Suggestions: true,
		Listen:      DefaultListen,
		RefreshCron: DefaultRefreshCron,
		CacheDir:    DefaultCacheDir,
		BasicAuth:   nil,
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.ReportPath == "" {
		c.ReportPath = DefaultReportPath
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		c.Format = FormatText
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.RefreshCron == "" {
		c.RefreshCron = DefaultRefreshCron
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - empty path: defaults are returned and nothing is written
//   - file does not exist: a default config is written with 0600 perms and returned
//   - file exists: YAML is unmarshalled over the defaults and normalized
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := cfg.Save(path); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// ApplyEnv overrides fields from ICSVALIDATE_* environment variables, using
// lookup (typically os.LookupEnv). Invalid boolean values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(envPrefix + name); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	str("REPORT_PATH", &c.ReportPath)
	str("FORMAT", &c.Format)
	str("LOG_LEVEL", &c.LogLevel)
	str("LISTEN", &c.Listen)
	str("REFRESH", &c.RefreshCron)
	str("CACHE_DIR", &c.CacheDir)
	boolean("CONSOLE", &c.Console)
	boolean("CROSS_CHECK", &c.CrossCheck)
	boolean("SUGGESTIONS", &c.Suggestions)

	user, okUser := lookup(envPrefix + "BASIC_AUTH_USERNAME")
	pass, okPass := lookup(envPrefix + "BASIC_AUTH_PASSWORD")
	if okUser && okPass {
		c.BasicAuth = &BasicAuthConfig{Username: user, Password: pass}
	}

	c.Normalize()
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0o600)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// over path, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".icsvalidate-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
