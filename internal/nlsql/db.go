package nlsql

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the demo transactions database. Parent directories
// are created if missing.
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY,
	ts TEXT,
	amount REAL,
	ccy TEXT,
	counterparty TEXT,
	book TEXT
);
`

var (
	seedCounterparties = []string{"Acme Corp", "Beta Bank", "Gamma LLC", "Delta Ltd", "Omega Partners"}
	seedCurrencies     = []string{"USD", "EUR", "GBP", "JPY"}
	seedBooks          = []string{"Loans", "FX Desk", "Derivatives", "Equities"}
)

// Seed creates the transactions table and fills it with ten days of demo
// trades, five per day. Existing rows are cleared first so re-seeding is
// idempotent in shape.
func Seed(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return 0, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return 0, fmt.Errorf("reset table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO transactions (id, ts, amount, ccy, counterparty, book) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	rng := rand.New(rand.NewSource(1))
	base := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	id := 1
	for day := 0; day < 10; day++ {
		for trade := 0; trade < 5; trade++ {
			ts := base.AddDate(0, 0, day).
				Add(time.Duration(rng.Intn(9)) * time.Hour).
				Add(time.Duration(rng.Intn(60)) * time.Minute)
			amount := float64(50_000 + rng.Intn(9_950_001))
			if _, err := stmt.ExecContext(ctx,
				id,
				ts.Format("2006-01-02 15:04:05"),
				amount,
				seedCurrencies[rng.Intn(len(seedCurrencies))],
				seedCounterparties[rng.Intn(len(seedCounterparties))],
				seedBooks[rng.Intn(len(seedBooks))],
			); err != nil {
				return 0, fmt.Errorf("insert row %d: %w", id, err)
			}
			id++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return id - 1, nil
}

// execute runs sanitized SQL and returns columns plus stringified rows,
// capped at rowCap as a second guard behind the default LIMIT.
func execute(ctx context.Context, db *sql.DB, query string, rowCap int) ([]string, [][]any, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		if rowCap > 0 && len(out) >= rowCap {
			break
		}
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	return columns, out, nil
}
