package metrics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/logger"
)

var archiveTables = []string{"samples", "schema_versions"}

// backupDatabase copies the whole database into dir and returns the copy's path.
func backupDatabase(db *sql.DB, dir string, version int, log logger.Logger) (string, error) {
	errFactory := errors.New()

	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return "", errFactory.WithData(ErrSchemaMigrationFailed, failure("create_backup_dir", dir, err))
	}

	name := fmt.Sprintf("samples_v%d_%s.db", version, time.Now().UTC().Format("20060102T150405Z"))
	backupPath := filepath.Join(dir, name)

	// VACUUM INTO takes a literal, not a bound parameter
	stmt := "VACUUM INTO '" + strings.ReplaceAll(backupPath, "'", "''") + "'"
	if _, err := db.Exec(stmt); err != nil {
		return "", errFactory.WithData(ErrSchemaMigrationFailed, failure("create_backup", backupPath, err))
	}

	log.Info().
		Str("path", backupPath).
		Int("version", version).
		Msg("Database backup created")

	return backupPath, nil
}

// ValidateAndUpdateSchema makes sure db carries SchemaVersion. An archive
// written by another version is copied into backupDir and then recreated
// empty.
func ValidateAndUpdateSchema(db *sql.DB, backupDir string, log logger.Logger) error {
	errFactory := errors.New()

	version, err := GetSchemaVersion(db)
	if err != nil {
		return errFactory.Wrap(ErrSchemaValidationFailed, err)
	}

	log.Debug().
		Int("version", version).
		Bool("init_db", version == 0).
		Msg("Current schema version")

	switch version {
	case SchemaVersion:
		return nil
	case 0:
	default:
		if _, err := backupDatabase(db, backupDir, version, log); err != nil {
			return err
		}
		log.Warn().
			Int("found", version).
			Int("want", SchemaVersion).
			Msg("Archive schema changed, starting a new archive")
	}

	if err := dropTables(db, log); err != nil {
		return err
	}

	return InitSchema(db, log)
}

func dropTables(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	return inTx(db, log, ErrSchemaMigrationFailed, func(tx *sql.Tx) error {
		for _, table := range archiveTables {
			if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errFactory.WithData(ErrSchemaMigrationFailed, failure("drop_table", table, err))
			}
		}
		return nil
	})
}
