package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Monetary columns are
// TEXT holding decimal strings; REAL would reintroduce float drift.
const schema = `
CREATE TABLE IF NOT EXISTS budget (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    monthly_limit TEXT NOT NULL,
    spent TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    date TEXT NOT NULL,
    full_amount TEXT NOT NULL,
    my_share TEXT NOT NULL,
    note TEXT NOT NULL,
    is_split INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_position ON transactions(position);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
