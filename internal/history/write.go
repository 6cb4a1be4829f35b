package history

import (
	"context"
	"fmt"

	"github.com/roach88/etk/internal/calc"
)

// Record appends a successful evaluation and prunes entries beyond the
// limit. Sentinel results are rejected with ErrNotRecordable.
func (s *Store) Record(ctx context.Context, formula, result string, mode calc.AngleMode) (Entry, error) {
	if formula == "" {
		return Entry{}, fmt.Errorf("record: %w", ErrEmptyFormula)
	}
	if result == "" || calc.IsSentinel(result) {
		return Entry{}, fmt.Errorf("record %q: %w", result, ErrNotRecordable)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("record: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM entries`).Scan(&seq); err != nil {
		return Entry{}, fmt.Errorf("record: next seq: %w", err)
	}

	entry := Entry{
		ID:      s.ids.Generate(),
		Seq:     seq,
		Formula: formula,
		Result:  result,
		Mode:    mode,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (id, seq, formula, result, mode)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Seq, entry.Formula, entry.Result, entry.Mode.String())
	if err != nil {
		return Entry{}, fmt.Errorf("record: insert: %w", err)
	}

	// seq values are contiguous, so everything at or below seq-limit is
	// older than the newest limit entries.
	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE seq <= ?`, seq-int64(s.limit))
	if err != nil {
		return Entry{}, fmt.Errorf("record: prune: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("record: commit: %w", err)
	}

	pruned, _ := res.RowsAffected()
	s.logger.Debug("history entry recorded",
		"id", entry.ID,
		"seq", entry.Seq,
		"pruned", pruned,
	)
	return entry, nil
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.logger.Debug("history cleared")
	return nil
}
