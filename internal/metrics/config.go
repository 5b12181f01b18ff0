package metrics

import (
	"path/filepath"

	"codeberg.org/mutker/ps3temp/internal/errors"
)

const (
	defaultDirPerm = 0o755
	backupDirName  = "backups"
)

type Config struct {
	// Run labels every stored sample.
	Run string

	// Archive enables the SQLite mirror at DBPath.
	Archive bool
	DBPath  string

	// Textfile, when set, receives the latest sample in Prometheus
	// text exposition format.
	Textfile string
}

func DefaultConfig() Config {
	return Config{
		Archive: false, // Disabled by default
	}
}

// Enabled reports whether any sink is configured.
func (c Config) Enabled() bool {
	return c.Archive || c.Textfile != ""
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Enabled() && c.Run == "" {
		return errFactory.New(ErrMissingRun)
	}

	// Only validate DBPath if the archive is enabled
	if c.Archive && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	return nil
}

func (c Config) backupDir() string {
	return filepath.Join(filepath.Dir(c.DBPath), backupDirName)
}
