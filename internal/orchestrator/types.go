package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/danielpatrickdp/decision-field/internal/engine"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region errors
var (
	// ErrInvalidInput is returned for blank titles/descriptions and out-of-range scores.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState is returned when a field's status does not allow the operation.
	ErrInvalidState = errors.New("invalid field state")
)

// #endregion errors

// #region engine
// Engine generates and collapses outcome sets, locally or over the wire.
type Engine interface {
	Generate(ctx context.Context, description string, intuitionWeight float64) ([]engine.Outcome, error)
	Collapse(ctx context.Context, outcomes []engine.Outcome, dataWeight float64) (engine.Result, error)
	Name() string
}

// #endregion engine

// #region config
// Config holds the simulated processing latencies.
type Config struct {
	AnalyzeDelay  time.Duration
	CollapseDelay time.Duration
}

// DefaultConfig returns the 1.5s analyze and 2s collapse delays.
func DefaultConfig() Config {
	return Config{
		AnalyzeDelay:  1500 * time.Millisecond,
		CollapseDelay: 2 * time.Second,
	}
}

// #endregion config

// #region inputs
// CreateFieldInput is what a user submits to open a decision field.
type CreateFieldInput struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	IntuitionWeight *float64       `json:"intuition_weight,omitempty"`
	Variables       map[string]any `json:"variables,omitempty"`
}

// JournalInput is the mutable part of a journal entry.
type JournalInput struct {
	FieldID       string   `json:"field_id"`
	ActualOutcome string   `json:"actual_outcome"`
	AccuracyScore *float64 `json:"accuracy_score,omitempty"`
	Notes         string   `json:"notes"`
}

// #endregion inputs

// #region views
// FieldView is a field with its outcomes and, once collapsed, its selection.
type FieldView struct {
	Field    store.Field           `json:"field"`
	Outcomes []store.OutcomeRecord `json:"outcomes"`
	Collapse *store.Collapse       `json:"collapse,omitempty"`
	Selected *store.OutcomeRecord  `json:"selected,omitempty"`
}

// #endregion views
