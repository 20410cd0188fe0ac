package tools

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Viability buckets for a proposal's utility score.
const (
	ViabilityHigh = "High"
	ViabilityLow  = "Low"
)

// UtilityScorer evaluates the compromise utility formula. The formula is a
// configuration-supplied expression compiled once; scoring is pure and
// deterministic, with no store access. Scores are not clamped; a deeply
// unfavorable proposal may go negative.
type UtilityScorer struct {
	program   *vm.Program
	threshold int
}

// scorerEnv declares the variables the expression may reference.
func scorerEnv(groomLoc, brideLoc, proposalLoc, brideCareer string) map[string]any {
	return map[string]any{
		"groom_loc":    groomLoc,
		"bride_loc":    brideLoc,
		"proposal_loc": proposalLoc,
		"bride_career": brideCareer,
	}
}

// NewUtilityScorer compiles the formula. Viability is High only for scores
// strictly greater than threshold; a score equal to it is Low.
func NewUtilityScorer(expression string, threshold int) (*UtilityScorer, error) {
	program, err := expr.Compile(expression,
		expr.Env(scorerEnv("", "", "", "")),
		expr.AsInt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile utility expression: %w", err)
	}
	return &UtilityScorer{program: program, threshold: threshold}, nil
}

// Score evaluates the formula and buckets the result.
func (s *UtilityScorer) Score(groomLoc, brideLoc, proposalLoc, brideCareer string) (int, string, error) {
	out, err := expr.Run(s.program, scorerEnv(groomLoc, brideLoc, proposalLoc, brideCareer))
	if err != nil {
		return 0, "", fmt.Errorf("failed to evaluate utility expression: %w", err)
	}
	score, ok := out.(int)
	if !ok {
		return 0, "", fmt.Errorf("utility expression must yield an int (got %T)", out)
	}
	viability := ViabilityLow
	if score > s.threshold {
		viability = ViabilityHigh
	}
	return score, viability, nil
}
