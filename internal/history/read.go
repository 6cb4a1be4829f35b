package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/etk/internal/calc"
)

const selectEntry = `SELECT id, seq, formula, result, mode FROM entries`

// List returns all entries, newest first.
// Returns an empty slice (not nil) if the history is empty.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+`
		ORDER BY seq DESC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Recall returns the n-th most recent entry; Recall(ctx, 1) is the newest.
func (s *Store) Recall(ctx context.Context, n int) (Entry, error) {
	if n < 1 {
		return Entry{}, fmt.Errorf("recall %d: %w", n, ErrNotFound)
	}

	row := s.db.QueryRowContext(ctx, selectEntry+`
		ORDER BY seq DESC
		LIMIT 1 OFFSET ?
	`, n-1)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("recall %d: %w", n, ErrNotFound)
	}
	return entry, err
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return entry, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry Entry
		mode  string
	)
	if err := row.Scan(&entry.ID, &entry.Seq, &entry.Formula, &entry.Result, &mode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	m, err := calc.ParseAngleMode(mode)
	if err != nil {
		return Entry{}, fmt.Errorf("scan entry %s: %w", entry.ID, err)
	}
	entry.Mode = m
	return entry, nil
}
