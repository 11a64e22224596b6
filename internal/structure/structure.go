// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import "github.com/pdiddy/equalearn/pkg/types"

// Structure decomposes a raw backend solution into a final answer and
// ordered steps. The answer is located on the untouched text, and the
// remaining explanation is segmented with its markup intact. Structure
// never fails and is safe for concurrent use.
func Structure(raw string) types.StructuredSolution {
	sol, _ := Explain(raw)
	return sol
}

// Explain is Structure that also reports which answer rule fired.
func Explain(raw string) (types.StructuredSolution, string) {
	ex := ExtractFinalAnswer(raw)

	steps := Segment(ex.Residual)
	for i := range steps {
		steps[i].Title = Strip(steps[i].Title)
	}

	return types.StructuredSolution{
		FinalAnswer: ex.Answer,
		Steps:       steps,
	}, ex.Rule
}
