package engine

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// #region types
// Vocabulary holds the label pool and the narrative templates.
type Vocabulary struct {
	Labels    []string           `yaml:"labels"`
	Reasoning ReasoningTemplates `yaml:"reasoning"`
	Synthesis SynthesisTemplates `yaml:"synthesis"`
}

// ReasoningTemplates are interpolated once per generated outcome.
type ReasoningTemplates struct {
	Logic     string `yaml:"logic"`
	Intuitive string `yaml:"intuitive"`
	Quantum   string `yaml:"quantum"`
}

// SynthesisTemplates frame the selected outcome's reasoning in a collapse narrative.
type SynthesisTemplates struct {
	Lead    string `yaml:"lead"`
	Closing string `yaml:"closing"`
}

// #endregion types

// #region load
// DefaultVocabulary returns the embedded eight-label vocabulary.
func DefaultVocabulary() Vocabulary {
	v, err := ParseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary: %v", err))
	}
	return v
}

// LoadVocabulary reads a YAML vocabulary file. An empty path yields the default.
func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes and validates a YAML vocabulary document.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("decode vocabulary: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Vocabulary{}, err
	}
	return v, nil
}

// #endregion load

// #region validate
// Validate checks that labels are non-empty and distinct and every template is set.
func (v Vocabulary) Validate() error {
	seen := make(map[string]bool, len(v.Labels))
	for i, l := range v.Labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("vocabulary label %d is empty", i)
		}
		if seen[l] {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		seen[l] = true
	}
	templates := map[string]string{
		"reasoning.logic":     v.Reasoning.Logic,
		"reasoning.intuitive": v.Reasoning.Intuitive,
		"reasoning.quantum":   v.Reasoning.Quantum,
		"synthesis.lead":      v.Synthesis.Lead,
		"synthesis.closing":   v.Synthesis.Closing,
	}
	for name, tmpl := range templates {
		if strings.TrimSpace(tmpl) == "" {
			return fmt.Errorf("vocabulary template %s is empty", name)
		}
	}
	return nil
}

// #endregion validate

// #region render
func render(tmpl, label string, vars map[string]string) string {
	pairs := []string{
		"{label}", label,
		"{label_lower}", lower(label),
	}
	for k, val := range vars {
		pairs = append(pairs, "{"+k+"}", val)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// lower builds a fresh Caser per call; a Caser is stateful and must not be shared.
func lower(s string) string {
	return cases.Lower(language.English).String(s)
}

func percent(f float64) string {
	return strconv.FormatFloat(roundTo(f*100, 0), 'f', 0, 64)
}

// #endregion render
