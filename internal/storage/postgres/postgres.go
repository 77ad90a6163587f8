// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface, for deployments where the tracker state
// should live next to other household data instead of a local file.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/shopspring/decimal"

	"github.com/arjunr/upitrack/internal/models"
	"github.com/arjunr/upitrack/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS budget (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    monthly_limit TEXT NOT NULL,
    spent TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    date TIMESTAMPTZ NOT NULL,
    full_amount TEXT NOT NULL,
    my_share TEXT NOT NULL,
    note TEXT NOT NULL,
    is_split BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_position ON transactions(position);
`

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// New connects to the database at connStr and runs migrations.
func New(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Load reads the snapshot; a missing budget row or unreadable stored
// value comes back as storage.ErrNoState.
func (s *PostgresStore) Load(ctx context.Context) (*models.State, error) {
	state := &models.State{}

	var limitStr, spentStr string
	err := s.db.QueryRowContext(ctx,
		"SELECT monthly_limit, spent FROM budget WHERE id = 1",
	).Scan(&limitStr, &spentStr)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	if state.Budget, err = decimal.NewFromString(limitStr); err != nil {
		slog.Warn("stored budget is unreadable, starting fresh", "value", limitStr)
		return nil, storage.ErrNoState
	}
	if state.Spent, err = decimal.NewFromString(spentStr); err != nil {
		slog.Warn("stored spent total is unreadable, starting fresh", "value", spentStr)
		return nil, storage.ErrNoState
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, full_amount, my_share, note, is_split
		 FROM transactions ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tx                models.Transaction
			date              time.Time
			fullStr, shareStr string
		)
		if err := rows.Scan(&tx.ID, &date, &fullStr, &shareStr, &tx.Note, &tx.IsSplit); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Date = date.UTC()
		if tx.FullAmount, err = decimal.NewFromString(fullStr); err != nil {
			slog.Warn("stored transaction is unreadable, starting fresh", "id", tx.ID)
			return nil, storage.ErrNoState
		}
		if tx.MyShare, err = decimal.NewFromString(shareStr); err != nil {
			slog.Warn("stored transaction is unreadable, starting fresh", "id", tx.ID)
			return nil, storage.ErrNoState
		}
		state.Transactions = append(state.Transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return state, nil
}

// Save replaces the whole snapshot in one transaction.
func (s *PostgresStore) Save(ctx context.Context, state *models.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM budget"); err != nil {
		return fmt.Errorf("failed to clear budget: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO budget (id, monthly_limit, spent) VALUES (1, $1, $2)",
		state.Budget.String(), state.Spent.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}

	for i, t := range state.Transactions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (id, position, date, full_amount, my_share, note, is_split)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, i, t.Date, t.FullAmount.String(), t.MyShare.String(), t.Note, t.IsSplit,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
