package logging

import "time"

// #region event-types
// EventType names a field lifecycle transition.
type EventType string

const (
	EventFieldCreated    EventType = "field_created"
	EventFieldAnalyzed   EventType = "field_analyzed"
	EventAnalysisFailed  EventType = "analysis_failed"
	EventFieldCollapsed  EventType = "field_collapsed"
	EventFieldArchived   EventType = "field_archived"
	EventJournalRecorded EventType = "journal_recorded"
	EventJournalUpdated  EventType = "journal_updated"
)

// #endregion event-types

// #region field-event
// FieldEvent is a single row in the field_events table.
type FieldEvent struct {
	FieldID     string
	UserID      string
	EventType   EventType
	PayloadJSON string
	Reason      string
	CreatedAt   time.Time
}

// #endregion field-event

// #region payloads
// AnalysisRecord captures what a generation produced, for later replay.
type AnalysisRecord struct {
	IntuitionWeight float64  `json:"intuition_weight"`
	WordCount       int      `json:"word_count"`
	OutcomeCount    int      `json:"outcome_count"`
	Labels          []string `json:"labels"`
	Engine          string   `json:"engine"`
}

// CollapseRecord captures the inputs and choice of a collapse.
type CollapseRecord struct {
	DataWeight      float64 `json:"data_weight"`
	IntuitionWeight float64 `json:"intuition_weight"`
	SelectedLabel   string  `json:"selected_label"`
	SelectedIndex   int     `json:"selected_index"`
	Engine          string  `json:"engine"`
}

// #endregion payloads
