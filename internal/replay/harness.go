// Package replay re-runs recorded collapses against the current engine and
// reports where the stored selection or synthesis no longer matches.
package replay

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/decision-field/internal/engine"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region types
// Status is the verdict for one replayed collapse.
type Status string

const (
	StatusMatch          Status = "match"
	StatusSelectionDrift Status = "selection_drift"
	StatusSynthesisDrift Status = "synthesis_drift"
	StatusMissingOutcome Status = "missing_outcome"
)

// Case is one recorded collapse: the outcome set, the weight used, and what was stored.
type Case struct {
	FieldID           string
	Outcomes          []engine.Outcome
	DataWeight        float64
	RecordedLabel     string
	RecordedSynthesis string
}

// AuditResult captures the outcome of replaying one case.
type AuditResult struct {
	FieldID       string `json:"field_id"`
	Status        Status `json:"status"`
	RecordedLabel string `json:"recorded_label"`
	ReplayedLabel string `json:"replayed_label,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Summary provides aggregate stats from an audit run.
type Summary struct {
	Total          int `json:"total"`
	Matches        int `json:"matches"`
	SelectionDrift int `json:"selection_drift"`
	SynthesisDrift int `json:"synthesis_drift"`
	MissingOutcome int `json:"missing_outcome"`
}

// #endregion types

// #region audit
// Audit recomputes c's collapse with col. An empty RecordedSynthesis skips the
// synthesis comparison.
func Audit(c Case, col *engine.Collapser) AuditResult {
	r := AuditResult{FieldID: c.FieldID, RecordedLabel: c.RecordedLabel}

	if !hasLabel(c.Outcomes, c.RecordedLabel) {
		r.Status = StatusMissingOutcome
		r.Reason = "recorded selection is not among the stored outcomes"
		return r
	}

	res, err := col.Collapse(c.Outcomes, c.DataWeight)
	if err != nil {
		r.Status = StatusMissingOutcome
		r.Reason = err.Error()
		return r
	}
	r.ReplayedLabel = res.Selected.Label

	switch {
	case res.Selected.Label != c.RecordedLabel:
		r.Status = StatusSelectionDrift
		r.Reason = fmt.Sprintf("data_weight=%.4f selects %q", c.DataWeight, res.Selected.Label)
	case c.RecordedSynthesis != "" && res.Synthesis != c.RecordedSynthesis:
		r.Status = StatusSynthesisDrift
		r.Reason = "synthesis text differs from the stored narrative"
	default:
		r.Status = StatusMatch
	}
	return r
}

// AuditAll audits every case in order.
func AuditAll(cases []Case, col *engine.Collapser) []AuditResult {
	results := make([]AuditResult, 0, len(cases))
	for _, c := range cases {
		results = append(results, Audit(c, col))
	}
	return results
}

// Summarize computes aggregate stats from audit results.
func Summarize(results []AuditResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusMatch:
			s.Matches++
		case StatusSelectionDrift:
			s.SelectionDrift++
		case StatusSynthesisDrift:
			s.SynthesisDrift++
		case StatusMissingOutcome:
			s.MissingOutcome++
		}
	}
	return s
}

func hasLabel(outcomes []engine.Outcome, label string) bool {
	if label == "" {
		return false
	}
	for _, o := range outcomes {
		if o.Label == label {
			return true
		}
	}
	return false
}

// #endregion audit

// #region db-extract
// LoadCases builds a case for every collapsed field among the most recent limit fields.
func LoadCases(ctx context.Context, st *store.Store, limit int) ([]Case, error) {
	fields, err := st.ListAllFields(ctx, limit)
	if err != nil {
		return nil, err
	}

	var cases []Case
	for _, f := range fields {
		c, err := st.GetCollapse(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.ID, err)
		}
		if c == nil {
			continue
		}
		recs, err := st.ListOutcomes(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.ID, err)
		}

		var label string
		for _, rec := range recs {
			if rec.ID == c.SelectedOutcomeID {
				label = rec.Label
				break
			}
		}
		cases = append(cases, Case{
			FieldID:           f.ID,
			Outcomes:          store.Outcomes(recs),
			DataWeight:        c.DataWeight,
			RecordedLabel:     label,
			RecordedSynthesis: c.Synthesis,
		})
	}
	return cases, nil
}

// #endregion db-extract
