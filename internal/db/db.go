package db

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const defaultDBName = "stride.db"

type Config struct {
	DataDir string
}

// Path returns the activity database path under the data directory.
func Path(dataDir string) string {
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, defaultDBName)
}

// Open opens the SQLite activity database with foreign keys on. The data
// directory must already exist.
func Open(cfg Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", Path(cfg.DataDir))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
