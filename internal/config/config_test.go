package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/ps3temp/internal/config"
	"codeberg.org/mutker/ps3temp/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := config.Load([]string{
		"-n", "idle", "-d", "fan test", "-o", "/tmp/out", "-a", "192.168.1.20", "-t", "60", "-i", "5",
	})
	require.NoError(t, err)

	assert.Equal(t, "idle", cfg.Name)
	assert.Equal(t, "fan test", cfg.Description)
	assert.Equal(t, "/tmp/out", cfg.OutputPath)
	assert.Equal(t, "192.168.1.20", cfg.Address)
	assert.Equal(t, 60, cfg.Duration)
	assert.Equal(t, 5, cfg.Interval)
	assert.False(t, cfg.Archive)
	assert.Empty(t, cfg.ArchiveDB)
}

func TestLoadLongFlags(t *testing.T) {
	cfg, err := config.Load([]string{
		"--name", "load", "--output-path", "/tmp/x", "--ip-addr", "ps3.lan", "--time", "120", "--interval", "3",
	})
	require.NoError(t, err)

	assert.Equal(t, "load", cfg.Name)
	assert.Equal(t, "/tmp/x", cfg.OutputPath)
	assert.Equal(t, "ps3.lan", cfg.Address)
	assert.Equal(t, 120, cfg.Duration)
	assert.Equal(t, 3, cfg.Interval)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load([]string{"-n", "run", "-a", "10.0.0.2"})
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultOutputPath, cfg.OutputPath, "Expected default output path")
	assert.Equal(t, 1800, cfg.Duration, "Expected default duration 1800")
	assert.Equal(t, 10, cfg.Interval, "Expected default interval 10")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default log level info")
	assert.Empty(t, cfg.Description)
}

func TestLoadConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
name = "from-file"
ip-addr = "10.1.1.1"
output-path = "/srv/ps3"
time = 300
interval = 15
log-level = "debug"
archive = true
textfile = "/var/lib/node_exporter/ps3.prom"
`)
	configPath := filepath.Join(tempDir, "ps3temp.toml")
	require.NoError(t, os.WriteFile(configPath, configContent, 0o600))

	cfg, err := config.Load([]string{"--config", configPath, "-i", "20"})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, "10.1.1.1", cfg.Address)
	assert.Equal(t, "/srv/ps3", cfg.OutputPath)
	assert.Equal(t, 300, cfg.Duration)
	assert.Equal(t, 20, cfg.Interval, "flag should override config file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Archive)
	assert.Equal(t, filepath.Join("/srv/ps3", config.DefaultArchiveDB), cfg.ArchiveDB)
	assert.Equal(t, "/var/lib/node_exporter/ps3.prom", cfg.Textfile)
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ps3temp.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("name = \"env-file\"\nip-addr = \"h\"\n"), 0o600))

	t.Setenv("PS3TEMP_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "env-file", cfg.Name)
}

func TestLoadWithConfigFileOption(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "custom.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("name = \"opt\"\nip-addr = \"h\"\n"), 0o600))

	cfg, err := config.Load(nil, config.WithConfigFile(configPath))
	require.NoError(t, err)
	assert.Equal(t, "opt", cfg.Name)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PS3TEMP_NAME", "env-run")
	t.Setenv("PS3TEMP_IP_ADDR", "172.16.0.9")
	t.Setenv("PS3TEMP_TIME", "90")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "env-run", cfg.Name)
	assert.Equal(t, "172.16.0.9", cfg.Address)
	assert.Equal(t, 90, cfg.Duration)
}

func TestLoadEnvPrefixOption(t *testing.T) {
	t.Setenv("WEBMAN_NAME", "prefixed")
	t.Setenv("WEBMAN_IP_ADDR", "h")

	cfg, err := config.Load(nil, config.WithEnvPrefix("WEBMAN"))
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Name)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "ps3temp.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("This is not a valid TOML file\n"), 0o600))

	_, err := config.Load([]string{"--config", configPath, "-n", "x", "-a", "h"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestLoadHelp(t *testing.T) {
	_, err := config.Load([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestLoadUnknownFlag(t *testing.T) {
	_, err := config.Load([]string{"--bogus"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrParseFlags))
}

func TestLoadRejectsNonIntegerDuration(t *testing.T) {
	_, err := config.Load([]string{"-n", "x", "-a", "h", "-t", "soon"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrParseFlags))
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Name:       "run",
			Address:    "10.0.0.2",
			OutputPath: "./data/",
			Duration:   60,
			Interval:   10,
			LogLevel:   "info",
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		code   errors.ErrorCode
		field  string
	}{
		{"missing name", func(c *config.Config) { c.Name = "" }, errors.ErrMissingConfig, "name"},
		{"name with separator", func(c *config.Config) { c.Name = "a/b" }, errors.ErrInvalidConfig, "name"},
		{"missing address", func(c *config.Config) { c.Address = " " }, errors.ErrMissingConfig, "ip-addr"},
		{"empty output path", func(c *config.Config) { c.OutputPath = "" }, errors.ErrMissingConfig, "output-path"},
		{"zero duration", func(c *config.Config) { c.Duration = 0 }, errors.ErrInvalidDuration, "time"},
		{"negative duration", func(c *config.Config) { c.Duration = -5 }, errors.ErrInvalidDuration, "time"},
		{"huge duration", func(c *config.Config) { c.Duration = config.MaxDuration + 1 }, errors.ErrInvalidDuration, "time"},
		{"zero interval", func(c *config.Config) { c.Interval = 0 }, errors.ErrInvalidInterval, "interval"},
		{"huge interval", func(c *config.Config) { c.Interval = config.MaxInterval + 1 }, errors.ErrInvalidInterval, "interval"},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }, errors.ErrInvalidLogLevel, "log-level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)

			var appErr errors.Error
			require.True(t, errors.As(err, &appErr))
			verr, ok := appErr.GetData().(config.ValidationError)
			require.True(t, ok)
			assert.Equal(t, tt.field, verr.Field())
		})
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())
}

func TestCheckOutputPath(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Config{OutputPath: dir}
	assert.NoError(t, cfg.CheckOutputPath())

	cfg.OutputPath = filepath.Join(dir, "missing")
	err := cfg.CheckOutputPath()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrOutputPathNotFound))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	cfg.OutputPath = file
	assert.True(t, errors.HasCode(cfg.CheckOutputPath(), errors.ErrOutputPathNotFound))
}

func TestPaths(t *testing.T) {
	cfg := config.Config{Name: "idle", OutputPath: "./data/"}
	assert.Equal(t, filepath.Join("data", "idle.csv"), cfg.LogPath())
	assert.Equal(t, filepath.Join("data", "idle.svg"), cfg.ChartPath())
	assert.Equal(t, filepath.Join("data", "idle.pid"), cfg.PIDPath())
}
