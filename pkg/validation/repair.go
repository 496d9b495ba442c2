package validation

import (
	"context"
	"fmt"

	"github.com/alantheprice/outreach/pkg/llm"
	"github.com/alantheprice/outreach/pkg/prompts"
	"github.com/alantheprice/outreach/pkg/retry"
	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
)

// FailedStep is a step whose verdict fell below the threshold, together with
// its position in the batch being validated.
type FailedStep struct {
	Step     types.Step
	Verdict  types.Verdict
	Position int
}

type rewrite struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type repairOutput struct {
	Templates []rewrite `json:"templates"`
}

// Repairer asks the model to rewrite failed steps.
type Repairer struct {
	gen         llm.Generator
	opts        llm.Options
	maxAttempts int
	logger      *utils.Logger
}

// NewRepairer creates a repairer making at most maxAttempts model calls per
// Repair.
func NewRepairer(gen llm.Generator, opts llm.Options, maxAttempts int, logger *utils.Logger) *Repairer {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	opts.JSONMode = true
	return &Repairer{gen: gen, opts: opts, maxAttempts: maxAttempts, logger: logger}
}

// Repair returns one step per failed record, in the same order. A response is
// only used when it holds exactly one template per failed step; when no
// attempt produces that, the original steps come back unchanged. Repair never
// fails.
func (r *Repairer) Repair(ctx context.Context, failed []FailedStep) []types.Step {
	if len(failed) == 0 {
		return nil
	}

	items := make([]prompts.RepairItem, len(failed))
	originals := make([]rewrite, len(failed))
	for i, f := range failed {
		items[i] = prompts.RepairItem{
			Subject:          f.Step.Subject,
			Body:             f.Step.Body,
			SpamWords:        f.Verdict.SpamWords,
			InvalidVariables: f.Verdict.InvalidVariables,
		}
		originals[i] = rewrite{Subject: f.Step.Subject, Body: f.Step.Body}
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompts.RepairSystem},
		{Role: llm.RoleUser, Content: prompts.RepairSample.User},
		{Role: llm.RoleAssistant, Content: prompts.RepairSample.Assistant},
		{Role: llm.RoleUser, Content: prompts.RepairUserPrompt(items)},
	}

	policy := retry.Policy[[]rewrite]{
		MaxAttempts: r.maxAttempts,
		Accept:      func(out []rewrite) bool { return len(out) == len(failed) },
		Fallback:    retry.FallbackOriginal,
		OnReject: func(attempt int, out []rewrite, err error) {
			if err != nil {
				r.logger.Logf("Repair attempt %d failed: %v", attempt, err)
				return
			}
			r.logger.Logf("Repair attempt %d: got %d templates, expected %d. Retrying...", attempt, len(out), len(failed))
		},
	}

	res, _ := retry.Do(ctx, policy, originals, func(ctx context.Context, _ int) ([]rewrite, error) {
		raw, err := r.gen.Generate(ctx, messages, r.opts)
		if err != nil {
			return nil, err
		}
		var out repairOutput
		if err := llm.DecodeJSON(raw, &out); err != nil {
			return nil, fmt.Errorf("repair output: %w", err)
		}
		return out.Templates, nil
	})

	if !res.Accepted {
		r.logger.Logf("Repair gave up after %d attempts; keeping %d original steps", res.Attempts, len(failed))
	}

	repaired := make([]types.Step, len(failed))
	for i, f := range failed {
		step := f.Step
		step.Subject = res.Value[i].Subject
		step.Body = res.Value[i].Body
		repaired[i] = step
	}
	return repaired
}
