package store

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/decision-field/internal/engine"
)

// #region errors
var (
	// ErrNotFound is returned when a record is missing or owned by another user.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyCollapsed is returned when a field already has a collapse record.
	ErrAlreadyCollapsed = errors.New("field already collapsed")
	// ErrEmailTaken is returned when a profile with the same email exists.
	ErrEmailTaken = errors.New("email already registered")
)

// #endregion errors

// #region status
// FieldStatus is the lifecycle stage of a decision field.
type FieldStatus string

const (
	StatusDraft     FieldStatus = "draft"
	StatusAnalyzing FieldStatus = "analyzing"
	StatusCompleted FieldStatus = "completed"
	StatusArchived  FieldStatus = "archived"
)

// Valid reports whether s is one of the four known statuses.
func (s FieldStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusAnalyzing, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// #endregion status

// #region records
// Profile is a registered user.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Field is a persisted scenario description.
type Field struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Variables       map[string]any `json:"variables"`
	Status          FieldStatus    `json:"status"`
	IntuitionWeight float64        `json:"intuition_weight"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OutcomeRecord is a generated outcome bound to its field.
type OutcomeRecord struct {
	ID      string `json:"id"`
	FieldID string `json:"decision_field_id"`
	engine.Outcome
	CreatedAt time.Time `json:"created_at"`
}

// Collapse records the single selection made for a field.
type Collapse struct {
	ID                string    `json:"id"`
	FieldID           string    `json:"decision_field_id"`
	SelectedOutcomeID string    `json:"selected_outcome_id,omitempty"`
	Synthesis         string    `json:"synthesis"`
	DataWeight        float64   `json:"data_weight"`
	IntuitionWeight   float64   `json:"intuition_weight"`
	CollapsedAt       time.Time `json:"collapsed_at"`
}

// JournalEntry records what actually happened after a decision.
type JournalEntry struct {
	ID            string    `json:"id"`
	FieldID       string    `json:"decision_field_id"`
	UserID        string    `json:"user_id"`
	ActualOutcome string    `json:"actual_outcome,omitempty"`
	AccuracyScore *float64  `json:"accuracy_score,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	FieldTitle    string    `json:"field_title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// #endregion records
