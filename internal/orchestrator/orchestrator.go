package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielpatrickdp/decision-field/internal/engine"
	"github.com/danielpatrickdp/decision-field/internal/logging"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region orchestrator-struct
// Orchestrator drives a decision field from creation through analysis,
// collapse, archive, and journaling. Each call is scoped to one user.
type Orchestrator struct {
	store  *store.Store
	engine Engine
	cfg    Config
	logger *slog.Logger
	tracer trace.Tracer
}

// #endregion orchestrator-struct

// #region constructor
// New wires an orchestrator. A nil logger falls back to slog.Default().
func New(st *store.Store, eng Engine, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:  st,
		engine: eng,
		cfg:    cfg,
		logger: logger.With("component", "orchestrator"),
		tracer: otel.Tracer("github.com/danielpatrickdp/decision-field/internal/orchestrator"),
	}
}

// #endregion constructor

// #region create-field
// CreateField stores a new field and immediately analyzes it.
func (o *Orchestrator) CreateField(ctx context.Context, userID string, in CreateFieldInput) (FieldView, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.CreateField")
	defer span.End()

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return FieldView{}, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}
	iw := 0.5
	if in.IntuitionWeight != nil {
		iw = clampWeight(*in.IntuitionWeight)
	}

	f, err := o.store.CreateField(ctx, store.Field{
		UserID:          userID,
		Title:           title,
		Description:     description,
		Variables:       in.Variables,
		Status:          store.StatusAnalyzing,
		IntuitionWeight: iw,
	})
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}
	span.SetAttributes(attribute.String("field.id", f.ID))
	o.event(ctx, f.ID, userID, logging.EventFieldCreated, "", "")

	view, err := o.analyze(ctx, f)
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}
	return view, nil
}

// AnalyzeField re-runs analysis for a draft field, e.g. after a failed or
// abandoned generation.
func (o *Orchestrator) AnalyzeField(ctx context.Context, userID, fieldID string) (FieldView, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.AnalyzeField",
		trace.WithAttributes(attribute.String("field.id", fieldID)))
	defer span.End()

	f, err := o.store.GetField(ctx, userID, fieldID)
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}
	if f.Status != store.StatusDraft {
		return FieldView{}, fmt.Errorf("%w: field is %s, only draft fields can be analyzed", ErrInvalidState, f.Status)
	}
	if f, err = o.store.UpdateFieldStatus(ctx, userID, f.ID, store.StatusAnalyzing); err != nil {
		return FieldView{}, recordErr(span, err)
	}
	view, err := o.analyze(ctx, f)
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}
	return view, nil
}

// analyze waits out the simulated latency, generates, and persists the outcome set.
// Any failure returns the field to draft so it can be analyzed again.
func (o *Orchestrator) analyze(ctx context.Context, f store.Field) (FieldView, error) {
	fail := func(err error) (FieldView, error) {
		// The request context may already be cancelled; the reset must still land.
		bg := context.WithoutCancel(ctx)
		if _, uerr := o.store.UpdateFieldStatus(bg, f.UserID, f.ID, store.StatusDraft); uerr != nil {
			o.logger.ErrorContext(bg, "reset field to draft", "field_id", f.ID, "error", uerr)
		}
		o.event(bg, f.ID, f.UserID, logging.EventAnalysisFailed, "", err.Error())
		return FieldView{}, err
	}

	if err := sleep(ctx, o.cfg.AnalyzeDelay); err != nil {
		return fail(fmt.Errorf("analyze field: %w", err))
	}
	outcomes, err := o.engine.Generate(ctx, f.Description, f.IntuitionWeight)
	if err != nil {
		return fail(fmt.Errorf("generate outcomes: %w", err))
	}
	recs, err := o.store.InsertOutcomes(ctx, f.ID, outcomes)
	if err != nil {
		return fail(err)
	}
	f, err = o.store.UpdateFieldStatus(ctx, f.UserID, f.ID, store.StatusCompleted)
	if err != nil {
		return fail(err)
	}

	labels := make([]string, len(outcomes))
	for i, oc := range outcomes {
		labels[i] = oc.Label
	}
	o.event(ctx, f.ID, f.UserID, logging.EventFieldAnalyzed, logging.Payload(logging.AnalysisRecord{
		IntuitionWeight: f.IntuitionWeight,
		WordCount:       len(strings.Fields(f.Description)),
		OutcomeCount:    len(outcomes),
		Labels:          labels,
		Engine:          o.engine.Name(),
	}), "")
	o.logger.InfoContext(ctx, "field analyzed",
		"field_id", f.ID, "outcomes", len(outcomes), "engine", o.engine.Name())

	return FieldView{Field: f, Outcomes: recs}, nil
}

// #endregion create-field

// #region read
// GetField returns a field with its outcomes and collapse, if any.
func (o *Orchestrator) GetField(ctx context.Context, userID, fieldID string) (FieldView, error) {
	f, err := o.store.GetField(ctx, userID, fieldID)
	if err != nil {
		return FieldView{}, err
	}
	recs, err := o.store.ListOutcomes(ctx, f.ID)
	if err != nil {
		return FieldView{}, err
	}
	c, err := o.store.GetCollapse(ctx, f.ID)
	if err != nil {
		return FieldView{}, err
	}
	view := FieldView{Field: f, Outcomes: recs, Collapse: c}
	if c != nil {
		for i := range recs {
			if recs[i].ID == c.SelectedOutcomeID {
				view.Selected = &recs[i]
				break
			}
		}
	}
	return view, nil
}

// ListFields returns the user's fields, newest first.
func (o *Orchestrator) ListFields(ctx context.Context, userID string) ([]store.Field, error) {
	return o.store.ListFields(ctx, userID)
}

// #endregion read

// #region collapse
// CollapseField selects one outcome for a completed field and records the
// synthesis. A field can be collapsed only once.
func (o *Orchestrator) CollapseField(ctx context.Context, userID, fieldID string, dataWeight float64) (FieldView, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.CollapseField",
		trace.WithAttributes(attribute.String("field.id", fieldID)))
	defer span.End()

	f, err := o.store.GetField(ctx, userID, fieldID)
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}
	if f.Status != store.StatusCompleted {
		return FieldView{}, fmt.Errorf("%w: field is %s, only completed fields can be collapsed", ErrInvalidState, f.Status)
	}
	existing, err := o.store.GetCollapse(ctx, f.ID)
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}
	if existing != nil {
		return FieldView{}, store.ErrAlreadyCollapsed
	}
	recs, err := o.store.ListOutcomes(ctx, f.ID)
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}

	if err := sleep(ctx, o.cfg.CollapseDelay); err != nil {
		return FieldView{}, fmt.Errorf("collapse field: %w", err)
	}
	res, err := o.engine.Collapse(ctx, store.Outcomes(recs), clampWeight(dataWeight))
	if err != nil {
		return FieldView{}, recordErr(span, fmt.Errorf("collapse outcomes: %w", err))
	}
	selected, err := matchSelected(recs, res)
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}

	c, err := o.store.CreateCollapse(ctx, store.Collapse{
		FieldID:           f.ID,
		SelectedOutcomeID: selected.ID,
		Synthesis:         res.Synthesis,
		DataWeight:        res.DataWeight,
		IntuitionWeight:   res.IntuitionWeight,
	})
	if err != nil {
		return FieldView{}, recordErr(span, err)
	}

	o.event(ctx, f.ID, userID, logging.EventFieldCollapsed, logging.Payload(logging.CollapseRecord{
		DataWeight:      res.DataWeight,
		IntuitionWeight: res.IntuitionWeight,
		SelectedLabel:   selected.Label,
		SelectedIndex:   res.SelectedIndex,
		Engine:          o.engine.Name(),
	}), "")
	o.logger.InfoContext(ctx, "field collapsed",
		"field_id", f.ID, "selected", selected.Label, "data_weight", res.DataWeight)

	return FieldView{Field: f, Outcomes: recs, Collapse: &c, Selected: selected}, nil
}

// matchSelected maps the engine's choice back to the persisted outcome. The
// index is trusted only when its label agrees; otherwise the label decides.
func matchSelected(recs []store.OutcomeRecord, res engine.Result) (*store.OutcomeRecord, error) {
	if i := res.SelectedIndex; i >= 0 && i < len(recs) && recs[i].Label == res.Selected.Label {
		return &recs[i], nil
	}
	for i := range recs {
		if recs[i].Label == res.Selected.Label {
			return &recs[i], nil
		}
	}
	return nil, fmt.Errorf("selected outcome %q not among stored outcomes", res.Selected.Label)
}

// #endregion collapse

// #region archive
// ArchiveField marks a field archived. Archiving twice is a no-op.
func (o *Orchestrator) ArchiveField(ctx context.Context, userID, fieldID string) (store.Field, error) {
	f, err := o.store.GetField(ctx, userID, fieldID)
	if err != nil {
		return store.Field{}, err
	}
	if f.Status == store.StatusArchived {
		return f, nil
	}
	if f.Status == store.StatusAnalyzing {
		return store.Field{}, fmt.Errorf("%w: field is still analyzing", ErrInvalidState)
	}
	f, err = o.store.UpdateFieldStatus(ctx, userID, fieldID, store.StatusArchived)
	if err != nil {
		return store.Field{}, err
	}
	o.event(ctx, f.ID, userID, logging.EventFieldArchived, "", "")
	return f, nil
}

// #endregion archive

// #region helpers
func (o *Orchestrator) event(ctx context.Context, fieldID, userID string, et logging.EventType, payload, reason string) {
	err := logging.LogEvent(ctx, o.store.DB(), logging.FieldEvent{
		FieldID:     fieldID,
		UserID:      userID,
		EventType:   et,
		PayloadJSON: payload,
		Reason:      reason,
	})
	if err != nil {
		o.logger.WarnContext(ctx, "event not recorded", "field_id", fieldID, "event", et, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func clampWeight(w float64) float64 {
	if math.IsNaN(w) {
		return 0.5
	}
	return math.Min(1, math.Max(0, w))
}

func recordErr(span trace.Span, err error) error {
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// #endregion helpers
