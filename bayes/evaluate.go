package bayes

// Evaluation is the outcome of scoring a model against labeled examples.
type Evaluation struct {
	Correct int
	Total   int
}

// Accuracy returns Correct/Total, or 0 for an empty evaluation.
func (e Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}

// Evaluate counts the examples on which the model agrees with the label
// about membership in target.
func (m *Model) Evaluate(examples []Example, target string) Evaluation {
	var ev Evaluation
	for _, ex := range examples {
		if m.MatchesTarget(target, ex) {
			ev.Correct++
		}
		ev.Total++
	}
	return ev
}
