package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/decision-field/internal/engine"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a collapse fixture.
type Fixture struct {
	Description string        `json:"description"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one outcome set with the selection it must produce.
type FixtureCase struct {
	Name              string           `json:"name"`
	DataWeight        float64          `json:"data_weight"`
	Outcomes          []engine.Outcome `json:"outcomes"`
	ExpectedLabel     string           `json:"expected_label"`
	ExpectedSynthesis string           `json:"expected_synthesis,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToCase converts a fixture case to an audit case keyed by its name.
func (fc *FixtureCase) ToCase() Case {
	return Case{
		FieldID:           fc.Name,
		Outcomes:          fc.Outcomes,
		DataWeight:        fc.DataWeight,
		RecordedLabel:     fc.ExpectedLabel,
		RecordedSynthesis: fc.ExpectedSynthesis,
	}
}

// ToCases converts every fixture case.
func (f *Fixture) ToCases() []Case {
	cases := make([]Case, len(f.Cases))
	for i := range f.Cases {
		cases[i] = f.Cases[i].ToCase()
	}
	return cases
}

// #endregion fixture-loader

// #region fixture-export

// NewFixture captures cases as a fixture, the inverse of ToCases.
func NewFixture(description string, cases []Case) *Fixture {
	f := &Fixture{Description: description, Cases: make([]FixtureCase, len(cases))}
	for i, c := range cases {
		f.Cases[i] = FixtureCase{
			Name:              c.FieldID,
			DataWeight:        c.DataWeight,
			Outcomes:          c.Outcomes,
			ExpectedLabel:     c.RecordedLabel,
			ExpectedSynthesis: c.RecordedSynthesis,
		}
	}
	return f
}

// WriteFixture writes f as indented JSON to path.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-export
