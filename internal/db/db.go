package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// A sync and an interactive command may hold the file at the same time;
// busy_timeout makes the second writer wait instead of failing.
var pragmas = []struct{ set, what string }{
	{"journal_mode = WAL", "setting WAL mode"},
	{"foreign_keys = ON", "enabling foreign keys"},
	{"busy_timeout = 5000", "setting busy timeout"},
}

// OpenDB opens the local mirror at path (":memory:" for tests), switches it
// to WAL and applies migrations.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating mirror directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening mirror: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if _, err := db.Exec("PRAGMA " + p.set); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
