package engine

import "errors"

// #region errors
var (
	// ErrNoOutcomes is returned when Collapse is given an empty outcome list.
	ErrNoOutcomes = errors.New("collapse: no outcomes supplied")
	// ErrVocabularyTooSmall is returned when the label vocabulary cannot cover MaxOutcomes.
	ErrVocabularyTooSmall = errors.New("vocabulary has fewer labels than max outcomes")
	// ErrDuplicateLabel is returned when the label vocabulary repeats a label.
	ErrDuplicateLabel = errors.New("vocabulary contains duplicate label")
)

// #endregion errors

// #region outcome
// Outcome is one candidate course of action with synthetic scored attributes.
type Outcome struct {
	Label              string  `json:"label"`
	Probability        float64 `json:"probability"`
	ImpactScore        int     `json:"impact_score"`
	ConfidenceLower    float64 `json:"confidence_lower"`
	ConfidenceUpper    float64 `json:"confidence_upper"`
	SurpriseScore      float64 `json:"surprise_score"`
	LogicReasoning     string  `json:"logic_reasoning"`
	IntuitiveReasoning string  `json:"intuitive_reasoning"`
	QuantumReasoning   string  `json:"quantum_reasoning"`
}

// #endregion outcome

// #region result
// Result is the output of a single collapse: the chosen outcome plus its narrative.
type Result struct {
	Selected        Outcome `json:"selected"`
	SelectedIndex   int     `json:"selected_index"`
	Synthesis       string  `json:"synthesis"`
	DataWeight      float64 `json:"data_weight"`
	IntuitionWeight float64 `json:"intuition_weight"`
}

// #endregion result

// #region config
// GeneratorConfig controls how many outcomes a description yields.
type GeneratorConfig struct {
	MinOutcomes     int
	MaxOutcomes     int
	WordsPerOutcome int
}

// DefaultGeneratorConfig returns the 4..8 outcomes, 15 words per outcome layout.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MinOutcomes:     4,
		MaxOutcomes:     8,
		WordsPerOutcome: 15,
	}
}

// #endregion config
