package config

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultOutputPath = "./data/"
	DefaultDuration   = 1800
	DefaultInterval   = 10
	DefaultLogLevel   = string(LogLevelInfo)
	DefaultEnvPrefix  = "PS3TEMP"
	DefaultArchiveDB  = "ps3temp.db"

	MaxDuration = 7 * 24 * 60 * 60
	MaxInterval = 24 * 60 * 60

	configType = "toml"
)

type Config struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	OutputPath  string `mapstructure:"output-path"`
	Address     string `mapstructure:"ip-addr"`
	Duration    int    `mapstructure:"time"`
	Interval    int    `mapstructure:"interval"`
	LogLevel    string `mapstructure:"log-level"`
	Archive     bool   `mapstructure:"archive"`
	ArchiveDB   string `mapstructure:"archive-db"`
	Textfile    string `mapstructure:"textfile"`
}

// NewFlagSet returns the command line flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringP("name", "n", "", "Measurement title, used as the file name for the log and chart")
	fs.StringP("description", "d", "", "Description of the measurement (informational only)")
	fs.StringP("output-path", "o", DefaultOutputPath, "Output directory; must already exist")
	fs.StringP("ip-addr", "a", "", "Address of the console's webMAN interface")
	fs.IntP("time", "t", DefaultDuration, "Collection duration in seconds")
	fs.IntP("interval", "i", DefaultInterval, "Collection interval in seconds")
	fs.String("config", "", "Path to a TOML configuration file")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("archive", false, "Mirror samples into a SQLite database")
	fs.String("archive-db", "", "SQLite database path (default <output-path>/"+DefaultArchiveDB+")")
	fs.String("textfile", "", "Write the latest sample to this Prometheus textfile")

	return fs
}

// Load parses args, reads the optional config file and environment and
// returns a validated Config.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	fs := NewFlagSet("ps3temp")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, errFactory.Wrap(errors.ErrParseFlags, err)
	}

	v := viper.New()
	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	// --config and <PREFIX>_CONFIG resolve through viper; WithConfigFile wins
	configPath := o.configPath
	if configPath == "" {
		configPath = v.GetString("config")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if config.Archive && config.ArchiveDB == "" {
		config.ArchiveDB = filepath.Join(config.OutputPath, DefaultArchiveDB)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded values. It does not touch the filesystem.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if strings.TrimSpace(c.Name) == "" {
		return errFactory.WithData(errors.ErrMissingConfig, &fieldError{"name", c.Name, "required"})
	}
	if strings.ContainsAny(c.Name, `/\`) {
		return errFactory.WithData(errors.ErrInvalidConfig, &fieldError{"name", c.Name, "must not contain path separators"})
	}
	if strings.TrimSpace(c.Address) == "" {
		return errFactory.WithData(errors.ErrMissingConfig, &fieldError{"ip-addr", c.Address, "required"})
	}
	if c.OutputPath == "" {
		return errFactory.WithData(errors.ErrMissingConfig, &fieldError{"output-path", c.OutputPath, "required"})
	}
	if c.Duration <= 0 || c.Duration > MaxDuration {
		return errFactory.WithData(errors.ErrInvalidDuration, &fieldError{"time", c.Duration, "must be between 1 and 604800 seconds"})
	}
	if c.Interval <= 0 || c.Interval > MaxInterval {
		return errFactory.WithData(errors.ErrInvalidInterval, &fieldError{"interval", c.Interval, "must be between 1 and 86400 seconds"})
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, &fieldError{"log-level", c.LogLevel, "must be debug, info, warning or error"})
	}

	return nil
}

// CheckOutputPath verifies that the output directory exists.
func (c *Config) CheckOutputPath() error {
	errFactory := errors.New()

	info, err := os.Stat(c.OutputPath)
	if err != nil || !info.IsDir() {
		return errFactory.WithData(errors.ErrOutputPathNotFound, c.OutputPath)
	}

	return nil
}

// LogPath returns the path of the run's CSV log.
func (c *Config) LogPath() string {
	return filepath.Join(c.OutputPath, c.Name+".csv")
}

// ChartPath returns the path of the run's SVG chart.
func (c *Config) ChartPath() string {
	return filepath.Join(c.OutputPath, c.Name+".svg")
}

// PIDPath returns the path of the run's lock file.
func (c *Config) PIDPath() string {
	return filepath.Join(c.OutputPath, c.Name+".pid")
}
