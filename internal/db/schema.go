package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. All wardrobe data lives in the storage
// table as one JSON document per key.
const schema = `
CREATE TABLE IF NOT EXISTS storage (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
