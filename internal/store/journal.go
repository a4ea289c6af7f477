package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// #region create-entry
// CreateJournalEntry inserts a journal entry for a field.
func (s *Store) CreateJournalEntry(ctx context.Context, e JournalEntry) (JournalEntry, error) {
	now := s.now()
	e.ID = uuid.New().String()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO insight_journal (id, decision_field_id, user_id, actual_outcome, accuracy_score, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.FieldID, e.UserID, nullIfEmpty(e.ActualOutcome), nullFloat(e.AccuracyScore),
		nullIfEmpty(e.Notes), formatTime(now), formatTime(now),
	)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("insert journal entry: %w", err)
	}
	return e, nil
}

// #endregion create-entry

// #region update-entry
// UpdateJournalEntry overwrites the mutable columns of an entry owned by e.UserID.
func (s *Store) UpdateJournalEntry(ctx context.Context, e JournalEntry) (JournalEntry, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE insight_journal SET actual_outcome = ?, accuracy_score = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		nullIfEmpty(e.ActualOutcome), nullFloat(e.AccuracyScore), nullIfEmpty(e.Notes),
		formatTime(s.now()), e.ID, e.UserID,
	)
	if err != nil {
		return JournalEntry{}, fmt.Errorf("update journal entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return JournalEntry{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return JournalEntry{}, fmt.Errorf("update journal entry: %w", ErrNotFound)
	}
	return s.GetJournalEntry(ctx, e.UserID, e.ID)
}

// #endregion update-entry

// #region query-entries
const journalSelect = `SELECT j.id, j.decision_field_id, j.user_id, j.actual_outcome, j.accuracy_score,
	j.notes, f.title, j.created_at, j.updated_at
	FROM insight_journal j JOIN decision_fields f ON f.id = j.decision_field_id`

// GetJournalEntry returns one entry owned by userID.
func (s *Store) GetJournalEntry(ctx context.Context, userID, id string) (JournalEntry, error) {
	row := s.db.QueryRowContext(ctx, journalSelect+` WHERE j.id = ? AND j.user_id = ?`, id, userID)
	e, err := scanJournal(row)
	if err != nil {
		return JournalEntry{}, notFound(err, "get journal entry")
	}
	return e, nil
}

// ListJournal returns userID's entries joined with field titles, newest first.
func (s *Store) ListJournal(ctx context.Context, userID string) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, journalSelect+` WHERE j.user_id = ? ORDER BY j.created_at DESC, j.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		e, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanJournal(row rowScanner) (JournalEntry, error) {
	var e JournalEntry
	var actual, notes sql.NullString
	var accuracy sql.NullFloat64
	var created, updated string
	if err := row.Scan(&e.ID, &e.FieldID, &e.UserID, &actual, &accuracy, &notes,
		&e.FieldTitle, &created, &updated); err != nil {
		return JournalEntry{}, err
	}
	e.ActualOutcome = actual.String
	e.Notes = notes.String
	if accuracy.Valid {
		v := accuracy.Float64
		e.AccuracyScore = &v
	}
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// #endregion query-entries
