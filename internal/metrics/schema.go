package metrics

import (
	"database/sql"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS samples (
	       id           INTEGER PRIMARY KEY AUTOINCREMENT,
	       run          TEXT    NOT NULL,
	       recorded_at  INTEGER NOT NULL,
	       elapsed      INTEGER NOT NULL CHECK (typeof(elapsed) = 'integer' AND elapsed >= 0),
	       cpu          INTEGER NOT NULL CHECK (typeof(cpu) = 'integer'),
	       rsx          INTEGER NOT NULL CHECK (typeof(rsx) = 'integer'),
	       fan          INTEGER NOT NULL CHECK (typeof(fan) = 'integer')
	   );
	   CREATE INDEX IF NOT EXISTS samples_run_elapsed ON samples (run, elapsed);`

	recordVersionSQL = `INSERT INTO schema_versions (version, applied_at) VALUES (?, datetime('now'))`

	latestVersionSQL = `SELECT version FROM schema_versions ORDER BY version DESC LIMIT 1`

	tableExistsSQL = `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`

	insertSampleSQL = `
    INSERT INTO samples (
        run, recorded_at, elapsed, cpu, rsx, fan
    ) VALUES (?, ?, ?, ?, ?, ?)`

	selectRunSQL = `
    SELECT elapsed, cpu, rsx, fan
    FROM samples
    WHERE run = ?
    ORDER BY id`
)

// dbFailure is attached to schema errors to say which step broke.
type dbFailure struct {
	Phase  string
	Target string
	Err    string
}

func failure(phase, target string, err error) dbFailure {
	return dbFailure{Phase: phase, Target: target, Err: err.Error()}
}

// inTx runs fn in a transaction, rolling back unless fn succeeds and the
// commit goes through. Errors are reported under code.
func inTx(db *sql.DB, log logger.Logger, code errors.ErrorCode, fn func(*sql.Tx) error) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(code, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Debug().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(code, err)
	}

	return nil
}

// InitSchema creates the tables and records SchemaVersion.
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	log.Debug().Msg("Creating database...")

	err := inTx(db, log, ErrSchemaInitFailed, func(tx *sql.Tx) error {
		if _, err := tx.Exec(createTablesSQL); err != nil {
			return errFactory.WithData(ErrSchemaInitFailed, failure("create_tables", "", err))
		}
		if _, err := tx.Exec(recordVersionSQL, SchemaVersion); err != nil {
			return errFactory.WithData(ErrSchemaInitFailed, failure("record_version", "", err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("version", SchemaVersion).
		Msg("Schema initialized successfully")

	return nil
}

// GetSchemaVersion returns the recorded schema version, or 0 for a fresh
// database.
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil || !exists {
		return 0, err
	}

	var version int
	err = db.QueryRow(latestVersionSQL).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, errFactory.WithData(ErrSchemaValidationFailed, failure("get_version", "schema_versions", err))
	}

	return version, nil
}

func TableExists(db *sql.DB, table string) (bool, error) {
	var exists bool
	if err := db.QueryRow(tableExistsSQL, table).Scan(&exists); err != nil {
		return false, errors.New().WithData(ErrSchemaValidationFailed, failure("check_table_exists", table, err))
	}

	return exists, nil
}
