package codec

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/decision-field/internal/engine"
)

// #region outcome
func outcomeValue(o engine.Outcome) map[string]any {
	return map[string]any{
		"label":               o.Label,
		"probability":         o.Probability,
		"impact_score":        float64(o.ImpactScore),
		"confidence_lower":    o.ConfidenceLower,
		"confidence_upper":    o.ConfidenceUpper,
		"surprise_score":      o.SurpriseScore,
		"logic_reasoning":     o.LogicReasoning,
		"intuitive_reasoning": o.IntuitiveReasoning,
		"quantum_reasoning":   o.QuantumReasoning,
	}
}

func outcomeFromStruct(s *structpb.Struct) (engine.Outcome, error) {
	f := s.GetFields()
	label := f["label"].GetStringValue()
	if label == "" {
		return engine.Outcome{}, fmt.Errorf("outcome missing label")
	}
	return engine.Outcome{
		Label:              label,
		Probability:        f["probability"].GetNumberValue(),
		ImpactScore:        int(f["impact_score"].GetNumberValue()),
		ConfidenceLower:    f["confidence_lower"].GetNumberValue(),
		ConfidenceUpper:    f["confidence_upper"].GetNumberValue(),
		SurpriseScore:      f["surprise_score"].GetNumberValue(),
		LogicReasoning:     f["logic_reasoning"].GetStringValue(),
		IntuitiveReasoning: f["intuitive_reasoning"].GetStringValue(),
		QuantumReasoning:   f["quantum_reasoning"].GetStringValue(),
	}, nil
}

func outcomesValue(outcomes []engine.Outcome) []any {
	list := make([]any, len(outcomes))
	for i, o := range outcomes {
		list[i] = outcomeValue(o)
	}
	return list
}

func outcomesFromList(l *structpb.ListValue) ([]engine.Outcome, error) {
	values := l.GetValues()
	out := make([]engine.Outcome, 0, len(values))
	for i, v := range values {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("outcome %d is not an object", i)
		}
		o, err := outcomeFromStruct(s)
		if err != nil {
			return nil, fmt.Errorf("outcome %d: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// #endregion outcome

// #region generate
func generateRequest(description string, intuitionWeight float64) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"description":      description,
		"intuition_weight": intuitionWeight,
	})
}

func generateResponse(outcomes []engine.Outcome) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"outcomes": outcomesValue(outcomes)})
}

// #endregion generate

// #region collapse
func collapseRequest(outcomes []engine.Outcome, dataWeight float64) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"outcomes":    outcomesValue(outcomes),
		"data_weight": dataWeight,
	})
}

func collapseResponse(r engine.Result) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"selected":         outcomeValue(r.Selected),
		"selected_index":   float64(r.SelectedIndex),
		"synthesis":        r.Synthesis,
		"data_weight":      r.DataWeight,
		"intuition_weight": r.IntuitionWeight,
	})
}

func resultFromStruct(s *structpb.Struct) (engine.Result, error) {
	f := s.GetFields()
	sel := f["selected"].GetStructValue()
	if sel == nil {
		return engine.Result{}, fmt.Errorf("collapse response missing selected outcome")
	}
	o, err := outcomeFromStruct(sel)
	if err != nil {
		return engine.Result{}, err
	}
	return engine.Result{
		Selected:        o,
		SelectedIndex:   int(f["selected_index"].GetNumberValue()),
		Synthesis:       f["synthesis"].GetStringValue(),
		DataWeight:      f["data_weight"].GetNumberValue(),
		IntuitionWeight: f["intuition_weight"].GetNumberValue(),
	}, nil
}

// #endregion collapse
