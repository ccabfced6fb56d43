// Package db implements the word store on SQLite. It is the local/dev
// counterpart of the hosted store and shares its contract, including the
// atomic insert-or-increment upsert.
package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS words (
	id TEXT PRIMARY KEY,
	word TEXT NOT NULL UNIQUE,
	frequency INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	pronunciation TEXT,
	pronunciations TEXT,
	definitions TEXT,
	examples TEXT,
	details_fetched_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_words_frequency ON words(frequency DESC)
`

// Open opens (creating if needed) the SQLite database at path and runs the
// embedded migrations.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(conn *sql.DB) error {
	for _, stmt := range strings.Split(migrationsSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
