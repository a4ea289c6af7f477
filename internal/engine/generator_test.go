package engine

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

// #region helpers
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func newTestGenerator(t *testing.T, opts ...GeneratorOption) *Generator {
	t.Helper()
	g, err := NewGenerator(DefaultVocabulary(), opts...)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func checkOutcomeSet(t *testing.T, outcomes []Outcome, vocab Vocabulary) {
	t.Helper()
	allowed := make(map[string]bool, len(vocab.Labels))
	for _, l := range vocab.Labels {
		allowed[l] = true
	}
	seen := make(map[string]bool, len(outcomes))
	var sum float64
	for i, o := range outcomes {
		if !allowed[o.Label] {
			t.Errorf("outcome %d: label %q not in vocabulary", i, o.Label)
		}
		if seen[o.Label] {
			t.Errorf("outcome %d: duplicate label %q", i, o.Label)
		}
		seen[o.Label] = true
		sum += o.Probability

		if o.Probability < 0 || o.Probability > 1 {
			t.Errorf("outcome %d: probability %f out of range", i, o.Probability)
		}
		if o.ConfidenceLower < 0 || o.ConfidenceUpper > 1 {
			t.Errorf("outcome %d: confidence band [%f, %f] out of range", i, o.ConfidenceLower, o.ConfidenceUpper)
		}
		if o.ConfidenceLower > o.Probability || o.Probability > o.ConfidenceUpper {
			t.Errorf("outcome %d: %f not within [%f, %f]", i, o.Probability, o.ConfidenceLower, o.ConfidenceUpper)
		}
		if o.ImpactScore < 40 || o.ImpactScore > 100 {
			t.Errorf("outcome %d: impact %d out of range", i, o.ImpactScore)
		}
		if o.SurpriseScore < 0 {
			t.Errorf("outcome %d: negative surprise %f", i, o.SurpriseScore)
		}
		if o.LogicReasoning == "" || o.IntuitiveReasoning == "" || o.QuantumReasoning == "" {
			t.Errorf("outcome %d: empty reasoning", i)
		}
		if i > 0 && outcomes[i-1].Probability < o.Probability {
			t.Errorf("outcome %d: not sorted descending (%f < %f)", i, outcomes[i-1].Probability, o.Probability)
		}
	}
	if math.Abs(sum-1) > 1e-4 {
		t.Errorf("probabilities sum to %f, want 1", sum)
	}
}

// #endregion helpers

// #region count-tests
func TestOutcomeCount_Scenarios(t *testing.T) {
	g := newTestGenerator(t)

	cases := map[int]int{
		0:   4,
		1:   4,
		60:  4,
		75:  5,
		119: 7,
		120: 8,
		200: 8,
	}
	for n, want := range cases {
		if got := g.OutcomeCount(words(n)); got != want {
			t.Errorf("OutcomeCount(%d words) = %d, want %d", n, got, want)
		}
	}
}

func TestGenerate_SixtyWordsYieldsFour(t *testing.T) {
	g := newTestGenerator(t)
	out := g.Generate(words(60), 0.5)
	if len(out) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(out))
	}
	checkOutcomeSet(t, out, DefaultVocabulary())
}

func TestGenerate_TwoHundredWordsYieldsEight(t *testing.T) {
	g := newTestGenerator(t)
	out := g.Generate(words(200), 0.5)
	if len(out) != 8 {
		t.Fatalf("expected 8 outcomes, got %d", len(out))
	}
	checkOutcomeSet(t, out, DefaultVocabulary())
}

func TestGenerate_EmptyDescription(t *testing.T) {
	g := newTestGenerator(t)
	out := g.Generate("", 0.5)
	if len(out) != 4 {
		t.Fatalf("expected 4 outcomes for empty description, got %d", len(out))
	}
}

func TestGenerate_WhitespaceRunsCountOnce(t *testing.T) {
	g := newTestGenerator(t)
	desc := strings.Repeat("word   \n\t", 75)
	if got := g.OutcomeCount(desc); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

// #endregion count-tests

// #region invariant-tests
func TestGenerate_InvariantsAcrossWeights(t *testing.T) {
	g := newTestGenerator(t)
	for _, iw := range []float64{-1, 0, 0.3, 0.5, 0.51, 0.9, 1, 2, math.NaN()} {
		for i := 0; i < 50; i++ {
			checkOutcomeSet(t, g.Generate(words(i*5), iw), DefaultVocabulary())
		}
	}
}

func TestGenerate_SeededIsReproducible(t *testing.T) {
	g := newTestGenerator(t, WithSeed(42))
	a := g.Generate(words(90), 0.7)
	b := g.Generate(words(90), 0.7)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("outcome %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	a := newTestGenerator(t, WithSeed(1)).Generate(words(120), 0.5)
	b := newTestGenerator(t, WithSeed(2)).Generate(words(120), 0.5)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to produce different outcome sets")
	}
}

// At or below 0.5 the weight has no effect on the draw sequence.
func TestGenerate_NoBiasAtOrBelowHalf(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		g := newTestGenerator(t, WithSeed(seed))
		a := g.Generate(words(120), 0.5)
		b := g.Generate(words(120), 0.2)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("seed %d: outcome %d differs between 0.5 and 0.2: %+v vs %+v", seed, i, a[i], b[i])
			}
		}
	}
}

// maxSource makes every draw identical, so all raw weights start equal and
// IntN always picks the last index.
type maxSource struct{}

func (maxSource) Uint64() uint64 { return math.MaxUint64 }

func TestGenerate_BiasDoublesOneWeight(t *testing.T) {
	g := newTestGenerator(t)
	g.newRand = func() *rand.Rand { return rand.New(maxSource{}) }
	n := g.OutcomeCount(words(120))

	for _, o := range g.Generate(words(120), 0.5) {
		if math.Abs(o.Probability-1/float64(n)) > 0.001 {
			t.Errorf("iw=0.5: expected uniform %.4f, got %s=%.4f", 1/float64(n), o.Label, o.Probability)
		}
	}

	biased := g.Generate(words(120), 0.9)
	if len(biased) != n {
		t.Fatalf("expected %d outcomes, got %d", n, len(biased))
	}
	if want := 2 / float64(n+1); math.Abs(biased[0].Probability-want) > 0.001 {
		t.Errorf("iw=0.9: expected doubled weight %.4f on top, got %.4f", want, biased[0].Probability)
	}
	for _, o := range biased[1:] {
		if want := 1 / float64(n+1); math.Abs(o.Probability-want) > 0.001 {
			t.Errorf("iw=0.9: expected %.4f for %s, got %.4f", want, o.Label, o.Probability)
		}
	}
}

func TestGenerate_ReasoningInterpolation(t *testing.T) {
	g := newTestGenerator(t, WithSeed(7))
	for _, o := range g.Generate(words(60), 0.5) {
		if !strings.Contains(o.LogicReasoning, strings.ToLower(o.Label)) {
			t.Errorf("logic reasoning %q missing lower-cased label", o.LogicReasoning)
		}
		if !strings.HasPrefix(o.IntuitiveReasoning, o.Label) {
			t.Errorf("intuitive reasoning %q should start with label", o.IntuitiveReasoning)
		}
		if !strings.Contains(o.QuantumReasoning, "% of state superpositions") {
			t.Errorf("quantum reasoning %q missing percentage", o.QuantumReasoning)
		}
		if strings.Contains(o.QuantumReasoning, "{") {
			t.Errorf("quantum reasoning %q has unrendered placeholder", o.QuantumReasoning)
		}
	}
}

func TestGenerate_FourDecimalRounding(t *testing.T) {
	g := newTestGenerator(t)
	for _, o := range g.Generate(words(100), 0.5) {
		for _, f := range []float64{o.Probability, o.ConfidenceLower, o.ConfidenceUpper, o.SurpriseScore} {
			if math.Abs(f*1e4-math.Round(f*1e4)) > 1e-6 {
				t.Errorf("value %v has more than 4 decimals", f)
			}
		}
	}
}

// #endregion invariant-tests

// #region constructor-tests
func TestNewGenerator_VocabularyTooSmall(t *testing.T) {
	v := DefaultVocabulary()
	v.Labels = v.Labels[:3]
	_, err := NewGenerator(v)
	if !errors.Is(err, ErrVocabularyTooSmall) {
		t.Fatalf("expected ErrVocabularyTooSmall, got %v", err)
	}
}

func TestNewGenerator_DuplicateLabel(t *testing.T) {
	v := DefaultVocabulary()
	v.Labels = append([]string{}, v.Labels...)
	v.Labels[1] = v.Labels[0]
	_, err := NewGenerator(v)
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestNewGenerator_RaisedCeilingNeedsWiderVocabulary(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.MaxOutcomes = 10
	_, err := NewGenerator(DefaultVocabulary(), WithConfig(cfg))
	if !errors.Is(err, ErrVocabularyTooSmall) {
		t.Fatalf("expected ErrVocabularyTooSmall, got %v", err)
	}

	v := DefaultVocabulary()
	v.Labels = append(append([]string{}, v.Labels...), "Hedge both ways", "Walk away")
	g, err := NewGenerator(v, WithConfig(cfg))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if out := g.Generate(words(300), 0.5); len(out) != 10 {
		t.Errorf("expected 10 outcomes, got %d", len(out))
	}
}

func TestNewGenerator_InvalidConfig(t *testing.T) {
	_, err := NewGenerator(DefaultVocabulary(), WithConfig(GeneratorConfig{MinOutcomes: 5, MaxOutcomes: 4, WordsPerOutcome: 15}))
	if err == nil {
		t.Fatal("expected error for min > max")
	}
}

// #endregion constructor-tests

// #region helper-tests
func TestAbsorbRoundingResidual(t *testing.T) {
	out := []Outcome{
		{Probability: 0.3333},
		{Probability: 0.3333},
		{Probability: 0.3335},
	}
	out[2].Probability = 0.3333
	absorbRoundingResidual(out)
	sum := out[0].Probability + out[1].Probability + out[2].Probability
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("expected exact sum, got %.10f", sum)
	}
}

func TestClamp01(t *testing.T) {
	if clamp01(-0.5) != 0 || clamp01(1.5) != 1 || clamp01(0.25) != 0.25 {
		t.Error("clamp01 did not clamp to [0,1]")
	}
	if clamp01(math.NaN()) != 0.5 {
		t.Error("expected NaN to fall back to 0.5")
	}
}

// #endregion helper-tests
