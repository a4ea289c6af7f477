package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// #region create-collapse
// CreateCollapse records a field's selection. A second collapse for the
// same field fails with ErrAlreadyCollapsed.
func (s *Store) CreateCollapse(ctx context.Context, c Collapse) (Collapse, error) {
	c.ID = uuid.New().String()
	c.CollapsedAt = s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collapsed_decisions (id, decision_field_id, selected_outcome_id, synthesis,
			data_weight, intuition_weight, collapsed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FieldID, nullIfEmpty(c.SelectedOutcomeID), c.Synthesis,
		c.DataWeight, c.IntuitionWeight, formatTime(c.CollapsedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Collapse{}, ErrAlreadyCollapsed
		}
		return Collapse{}, fmt.Errorf("insert collapse: %w", err)
	}
	return c, nil
}

// #endregion create-collapse

// #region get-collapse
// GetCollapse returns the field's collapse, or nil if it has not been collapsed.
func (s *Store) GetCollapse(ctx context.Context, fieldID string) (*Collapse, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, decision_field_id, selected_outcome_id, synthesis, data_weight, intuition_weight, collapsed_at
		 FROM collapsed_decisions WHERE decision_field_id = ?`, fieldID)

	var c Collapse
	var selected sql.NullString
	var collapsedAt string
	err := row.Scan(&c.ID, &c.FieldID, &selected, &c.Synthesis, &c.DataWeight, &c.IntuitionWeight, &collapsedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get collapse: %w", err)
	}
	c.SelectedOutcomeID = selected.String
	c.CollapsedAt = parseTime(collapsedAt)
	return &c, nil
}

// #endregion get-collapse
