package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
)

// #region generator
// Generator fabricates a weighted outcome set from a scenario description.
// It holds no mutable state; each Generate call draws from its own random source.
type Generator struct {
	vocab   Vocabulary
	cfg     GeneratorConfig
	newRand func() *rand.Rand
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithSeed makes every Generate call draw the same random sequence.
func WithSeed(seed uint64) GeneratorOption {
	return func(g *Generator) {
		g.newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}

// WithConfig overrides the outcome count bounds.
func WithConfig(cfg GeneratorConfig) GeneratorOption {
	return func(g *Generator) { g.cfg = cfg }
}

// NewGenerator validates the vocabulary against the configured outcome ceiling.
func NewGenerator(vocab Vocabulary, opts ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		vocab: vocab,
		cfg:   DefaultGeneratorConfig(),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := vocab.Validate(); err != nil {
		return nil, err
	}
	if g.cfg.MinOutcomes < 1 || g.cfg.MaxOutcomes < g.cfg.MinOutcomes || g.cfg.WordsPerOutcome < 1 {
		return nil, fmt.Errorf("invalid generator config: %+v", g.cfg)
	}
	if len(vocab.Labels) < g.cfg.MaxOutcomes {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrVocabularyTooSmall, len(vocab.Labels), g.cfg.MaxOutcomes)
	}
	return g, nil
}

// #endregion generator

// #region outcome-count
// OutcomeCount maps a description's word count onto [MinOutcomes, MaxOutcomes].
func (g *Generator) OutcomeCount(description string) int {
	n := len(strings.Fields(description)) / g.cfg.WordsPerOutcome
	return min(max(n, g.cfg.MinOutcomes), g.cfg.MaxOutcomes)
}

// #endregion outcome-count

// #region generate
// Generate returns outcomes sorted by descending probability.
// intuitionWeight is clamped to [0,1]; above 0.5 one random weight is doubled.
func (g *Generator) Generate(description string, intuitionWeight float64) []Outcome {
	rng := g.newRand()
	n := g.OutcomeCount(description)
	iw := clamp01(intuitionWeight)

	labels := make([]string, len(g.vocab.Labels))
	copy(labels, g.vocab.Labels)
	rng.Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })
	labels = labels[:n]

	raw := make([]float64, n)
	for i := range raw {
		raw[i] = rng.Float64()
	}
	if iw > 0.5 {
		raw[rng.IntN(n)] *= 2
	}
	var total float64
	for _, w := range raw {
		total += w
	}
	probs := make([]float64, n)
	for i, w := range raw {
		if total > 0 {
			probs[i] = w / total
		} else {
			probs[i] = 1 / float64(n)
		}
	}

	baseline := 1 / float64(n)
	outcomes := make([]Outcome, n)
	for i, label := range labels {
		p := probs[i]
		impact := min(int(math.Floor(40+p*60+rng.Float64()*20)), 100)
		spread := 0.05 + rng.Float64()*0.1

		surprise := math.Abs(p-baseline) / baseline
		if i > 2 {
			surprise += 0.2
		}

		outcomes[i] = Outcome{
			Label:              label,
			Probability:        roundTo(p, 4),
			ImpactScore:        impact,
			ConfidenceLower:    math.Max(0, roundTo(p-spread, 4)),
			ConfidenceUpper:    math.Min(1, roundTo(p+spread, 4)),
			SurpriseScore:      roundTo(surprise, 4),
			LogicReasoning:     render(g.vocab.Reasoning.Logic, label, nil),
			IntuitiveReasoning: render(g.vocab.Reasoning.Intuitive, label, nil),
			QuantumReasoning:   render(g.vocab.Reasoning.Quantum, label, map[string]string{"percent": percent(p)}),
		}
	}
	absorbRoundingResidual(outcomes)

	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Probability > outcomes[j].Probability
	})
	return outcomes
}

// #endregion generate

// #region helpers
// absorbRoundingResidual folds the 4-decimal rounding error into the largest
// probability so the persisted set sums to 1.
func absorbRoundingResidual(outcomes []Outcome) {
	if len(outcomes) == 0 {
		return
	}
	var sum float64
	top := 0
	for i, o := range outcomes {
		sum += o.Probability
		if o.Probability > outcomes[top].Probability {
			top = i
		}
	}
	outcomes[top].Probability = roundTo(outcomes[top].Probability+(1-sum), 4)
}

func roundTo(f float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(f*scale) / scale
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0.5
	}
	return math.Min(1, math.Max(0, f))
}

// #endregion helpers
