// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/arjunr/upitrack/internal/models"
	"github.com/arjunr/upitrack/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the snapshot. A missing budget row or an unparseable
// stored value both come back as storage.ErrNoState so the caller
// starts fresh instead of crashing on a corrupt file.
func (s *SQLiteStore) Load(ctx context.Context) (*models.State, error) {
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
			tx                      models.Transaction
			date, fullStr, shareStr string
		)
		if err := rows.Scan(&tx.ID, &date, &fullStr, &shareStr, &tx.Note, &tx.IsSplit); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if tx.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			slog.Warn("stored transaction is unreadable, starting fresh", "id", tx.ID)
			return nil, storage.ErrNoState
		}
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
func (s *SQLiteStore) Save(ctx context.Context, state *models.State) error {
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
		"INSERT INTO budget (id, monthly_limit, spent) VALUES (1, ?, ?)",
		state.Budget.String(), state.Spent.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}

	for i, t := range state.Transactions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (id, position, date, full_amount, my_share, note, is_split)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Date.Format(time.RFC3339Nano),
			t.FullAmount.String(), t.MyShare.String(), t.Note, t.IsSplit,
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
