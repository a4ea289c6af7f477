package engine

import "strings"

// #region collapser
// Collapser selects one outcome by blended score and narrates the choice.
type Collapser struct {
	vocab Vocabulary
}

// NewCollapser builds a collapser that renders synthesis text from vocab.
func NewCollapser(vocab Vocabulary) *Collapser {
	return &Collapser{vocab: vocab}
}

var defaultCollapser = NewCollapser(DefaultVocabulary())

// Collapse runs the default-vocabulary collapser.
func Collapse(outcomes []Outcome, dataWeight float64) (Result, error) {
	return defaultCollapser.Collapse(outcomes, dataWeight)
}

// #endregion collapser

// #region score
// Score blends expected impact (data) with surprising impact (intuition).
// dataWeight is clamped to [0,1].
func Score(o Outcome, dataWeight float64) float64 {
	dw := clamp01(dataWeight)
	impact := float64(o.ImpactScore) / 100
	return (o.Probability*impact)*dw + (o.SurpriseScore*impact)*(1-dw)
}

// #endregion score

// #region collapse
// Collapse picks the highest-scoring outcome; ties go to the earliest in input order.
// The result is a pure function of its inputs.
func (c *Collapser) Collapse(outcomes []Outcome, dataWeight float64) (Result, error) {
	if len(outcomes) == 0 {
		return Result{}, ErrNoOutcomes
	}
	dw := clamp01(dataWeight)

	best := 0
	bestScore := Score(outcomes[0], dw)
	for i := 1; i < len(outcomes); i++ {
		if s := Score(outcomes[i], dw); s > bestScore {
			best, bestScore = i, s
		}
	}

	sel := outcomes[best]
	return Result{
		Selected:        sel,
		SelectedIndex:   best,
		Synthesis:       c.Synthesize(sel, dw),
		DataWeight:      dw,
		IntuitionWeight: 1 - dw,
	}, nil
}

// #endregion collapse

// #region synthesis
// Synthesize renders the narrative for a selected outcome at the given data weight.
func (c *Collapser) Synthesize(sel Outcome, dataWeight float64) string {
	dw := clamp01(dataWeight)
	lead := render(c.vocab.Synthesis.Lead, sel.Label, map[string]string{
		"data_percent":      percent(dw),
		"intuition_percent": percent(1 - dw),
	})
	return strings.Join([]string{
		lead,
		sel.LogicReasoning,
		sel.IntuitiveReasoning,
		sel.QuantumReasoning,
		c.vocab.Synthesis.Closing,
	}, "\n\n")
}

// #endregion synthesis
