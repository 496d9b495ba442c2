// Package validation scores batches of campaign steps and routes the ones
// that fall below the threshold through a single model-driven repair pass.
package validation

import (
	"context"
	"fmt"

	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
)

// DefaultThreshold is the minimum passing score.
const DefaultThreshold = 70

// Checker produces a verdict for one step at an absolute index.
type Checker interface {
	Check(ctx context.Context, step types.Step, index int, teamID string) (types.Verdict, error)
}

// Validator is the batch validation orchestrator.
type Validator struct {
	checker   Checker
	repairer  *Repairer
	threshold int
	logger    *utils.Logger
}

// NewValidator creates a validator. A nil repairer disables repair and
// failing steps are returned as-is.
func NewValidator(checker Checker, repairer *Repairer, threshold int, logger *utils.Logger) *Validator {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Validator{checker: checker, repairer: repairer, threshold: threshold, logger: logger}
}

// Threshold returns the passing score.
func (v *Validator) Threshold() int {
	return v.threshold
}

// ValidateSteps scores every step with absolute index offset+position and
// repairs the failing ones in one pass. The result has the same length and
// order as steps; passing steps are returned untouched and steps is never
// modified.
func (v *Validator) ValidateSteps(ctx context.Context, steps []types.Step, teamID string, offset int) ([]types.Step, error) {
	out := make([]types.Step, len(steps))
	copy(out, steps)

	var failed []FailedStep
	for i, step := range steps {
		verdict, err := v.checker.Check(ctx, step, offset+i, teamID)
		if err != nil {
			return nil, fmt.Errorf("validate step %d: %w", offset+i, err)
		}
		if !verdict.Passed(v.threshold) {
			failed = append(failed, FailedStep{Step: step, Verdict: verdict, Position: i})
		}
	}

	if len(failed) == 0 {
		return out, nil
	}
	v.logger.Logf("%d of %d steps scored below %d", len(failed), len(steps), v.threshold)
	if v.repairer == nil {
		return out, nil
	}

	repaired := v.repairer.Repair(ctx, failed)
	for i, f := range failed {
		out[f.Position] = repaired[i]
	}
	return out, nil
}

// ValidateStep validates a single step at absolute index offset.
func (v *Validator) ValidateStep(ctx context.Context, step types.Step, teamID string, offset int) (types.Step, error) {
	out, err := v.ValidateSteps(ctx, []types.Step{step}, teamID, offset)
	if err != nil {
		return types.Step{}, err
	}
	return out[0], nil
}
