package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/decision-field/internal/engine"
)

// #region insert-outcomes
// InsertOutcomes persists one generation's outcome set atomically.
func (s *Store) InsertOutcomes(ctx context.Context, fieldID string, outcomes []engine.Outcome) ([]OutcomeRecord, error) {
	now := s.now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	records := make([]OutcomeRecord, len(outcomes))
	for i, o := range outcomes {
		rec := OutcomeRecord{
			ID:        uuid.New().String(),
			FieldID:   fieldID,
			Outcome:   o,
			CreatedAt: now,
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO decision_outcomes (id, decision_field_id, label, probability, impact_score,
				confidence_lower, confidence_upper, surprise_score,
				logic_reasoning, intuitive_reasoning, quantum_reasoning, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, fieldID, o.Label, o.Probability, o.ImpactScore,
			o.ConfidenceLower, o.ConfidenceUpper, o.SurpriseScore,
			nullIfEmpty(o.LogicReasoning), nullIfEmpty(o.IntuitiveReasoning), nullIfEmpty(o.QuantumReasoning),
			formatTime(now),
		)
		if err != nil {
			return nil, fmt.Errorf("insert outcome %q: %w", o.Label, err)
		}
		records[i] = rec
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return records, nil
}

// #endregion insert-outcomes

// #region list-outcomes
// ListOutcomes returns a field's outcomes ordered by descending probability.
// Missing reasoning columns come back as empty strings.
func (s *Store) ListOutcomes(ctx context.Context, fieldID string) ([]OutcomeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, decision_field_id, label, probability, impact_score,
			confidence_lower, confidence_upper, surprise_score,
			logic_reasoning, intuitive_reasoning, quantum_reasoning, created_at
		 FROM decision_outcomes WHERE decision_field_id = ?
		 ORDER BY probability DESC, rowid`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var records []OutcomeRecord
	for rows.Next() {
		var rec OutcomeRecord
		var logic, intuitive, quantum sql.NullString
		var created string
		if err := rows.Scan(&rec.ID, &rec.FieldID, &rec.Label, &rec.Probability, &rec.ImpactScore,
			&rec.ConfidenceLower, &rec.ConfidenceUpper, &rec.SurpriseScore,
			&logic, &intuitive, &quantum, &created); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		rec.LogicReasoning = logic.String
		rec.IntuitiveReasoning = intuitive.String
		rec.QuantumReasoning = quantum.String
		rec.CreatedAt = parseTime(created)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Outcomes strips persistence metadata for the engine.
func Outcomes(records []OutcomeRecord) []engine.Outcome {
	out := make([]engine.Outcome, len(records))
	for i, r := range records {
		out[i] = r.Outcome
	}
	return out
}

// #endregion list-outcomes
