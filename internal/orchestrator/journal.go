package orchestrator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/danielpatrickdp/decision-field/internal/logging"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region record
// RecordJournal adds a hindsight entry to one of the user's fields.
func (o *Orchestrator) RecordJournal(ctx context.Context, userID string, in JournalInput) (store.JournalEntry, error) {
	if err := validateJournal(in); err != nil {
		return store.JournalEntry{}, err
	}
	f, err := o.store.GetField(ctx, userID, in.FieldID)
	if err != nil {
		return store.JournalEntry{}, err
	}

	e, err := o.store.CreateJournalEntry(ctx, store.JournalEntry{
		FieldID:       f.ID,
		UserID:        userID,
		ActualOutcome: strings.TrimSpace(in.ActualOutcome),
		AccuracyScore: in.AccuracyScore,
		Notes:         strings.TrimSpace(in.Notes),
	})
	if err != nil {
		return store.JournalEntry{}, err
	}
	e.FieldTitle = f.Title
	o.event(ctx, f.ID, userID, logging.EventJournalRecorded, "", "")
	return e, nil
}

// #endregion record

// #region update
// UpdateJournal rewrites an existing entry's outcome, accuracy, and notes.
func (o *Orchestrator) UpdateJournal(ctx context.Context, userID, entryID string, in JournalInput) (store.JournalEntry, error) {
	if err := validateJournal(in); err != nil {
		return store.JournalEntry{}, err
	}
	existing, err := o.store.GetJournalEntry(ctx, userID, entryID)
	if err != nil {
		return store.JournalEntry{}, err
	}

	existing.ActualOutcome = strings.TrimSpace(in.ActualOutcome)
	existing.AccuracyScore = in.AccuracyScore
	existing.Notes = strings.TrimSpace(in.Notes)
	e, err := o.store.UpdateJournalEntry(ctx, existing)
	if err != nil {
		return store.JournalEntry{}, err
	}
	o.event(ctx, e.FieldID, userID, logging.EventJournalUpdated, "", "")
	return e, nil
}

// #endregion update

// #region list
// ListJournal returns the user's entries joined with field titles, newest first.
func (o *Orchestrator) ListJournal(ctx context.Context, userID string) ([]store.JournalEntry, error) {
	return o.store.ListJournal(ctx, userID)
}

// #endregion list

// #region validate
func validateJournal(in JournalInput) error {
	if s := in.AccuracyScore; s != nil && (math.IsNaN(*s) || *s < 0 || *s > 100) {
		return fmt.Errorf("%w: accuracy_score must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

// #endregion validate
