package orchestrator

import (
	"context"

	"github.com/danielpatrickdp/decision-field/internal/engine"
)

// LocalEngine runs the generator and collapser in-process.
type LocalEngine struct {
	gen *engine.Generator
	col *engine.Collapser
}

// NewLocalEngine builds an in-process engine over vocab.
func NewLocalEngine(vocab engine.Vocabulary, opts ...engine.GeneratorOption) (*LocalEngine, error) {
	gen, err := engine.NewGenerator(vocab, opts...)
	if err != nil {
		return nil, err
	}
	return &LocalEngine{gen: gen, col: engine.NewCollapser(vocab)}, nil
}

// Generate implements Engine.
func (e *LocalEngine) Generate(ctx context.Context, description string, intuitionWeight float64) ([]engine.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.gen.Generate(description, intuitionWeight), nil
}

// Collapse implements Engine.
func (e *LocalEngine) Collapse(ctx context.Context, outcomes []engine.Outcome, dataWeight float64) (engine.Result, error) {
	if err := ctx.Err(); err != nil {
		return engine.Result{}, err
	}
	return e.col.Collapse(outcomes, dataWeight)
}

// Name implements Engine.
func (e *LocalEngine) Name() string { return "local" }
