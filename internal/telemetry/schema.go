package telemetry

import (
	"database/sql"

	"codeberg.org/halvor/revstrip/internal/errors"
)

// initSchema creates the session-log table on first open.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS telemetry (
            timestamp INTEGER PRIMARY KEY,
            rpm INTEGER,
            speed INTEGER,
            speed_known INTEGER,
            state TEXT,
            link_degraded INTEGER,
            frames_seen INTEGER,
            frames_bad INTEGER
        )
    `)
	if err != nil {
		errFactory := errors.New()
		return errFactory.Wrap(ErrStorageInit, err)
	}

	return nil
}
