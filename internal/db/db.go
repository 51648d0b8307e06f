package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// connPragmas are applied to the library connection right after opening.
var connPragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// Open opens the library database at path, creating the file if needed.
// The pool is capped at one connection so the pragmas hold for every
// statement.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening library %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)

	for _, p := range connPragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying %q to %s: %w", p, path, err)
		}
	}
	return conn, nil
}
