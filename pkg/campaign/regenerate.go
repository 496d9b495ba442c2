package campaign

import (
	"context"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/alantheprice/outreach/pkg/llm"
	"github.com/alantheprice/outreach/pkg/prompts"
	"github.com/alantheprice/outreach/pkg/retry"
	"github.com/alantheprice/outreach/pkg/types"
)

// RegeneratedContent wraps the rewritten step.
type RegeneratedContent struct {
	Templates types.Step `json:"templates"`
}

// RegenerateResponse is the payload of EventRegenerateResponse.
type RegenerateResponse struct {
	Content RegeneratedContent `json:"content"`
	ID      string             `json:"id"`
}

type rewrite struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type regenerateOutput struct {
	Templates rewrite `json:"templates"`
}

// Regenerator rewords a single step of an existing campaign.
type Regenerator struct {
	deps Deps
}

// NewRegenerator creates a single-step regenerator.
func NewRegenerator(deps Deps) *Regenerator {
	return &Regenerator{deps: deps.withDefaults()}
}

// Regenerate asks the model for a new wording of the step until the body
// changes or attempts run out, in which case the last wording is kept.
// The result is validated at the step's absolute index and delivered.
func (r *Regenerator) Regenerate(ctx context.Context, userID, teamID string, req *RegenerateRequest) (*types.Step, error) {
	logger := r.deps.Logger
	if err := req.Validate(); err != nil {
		return nil, err
	}
	offset, err := StepOffset(req.MessageID)
	if err != nil {
		return nil, err
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompts.RegenerateSystem},
		{Role: llm.RoleUser, Content: prompts.RegenerateSample.User},
		{Role: llm.RoleAssistant, Content: prompts.RegenerateSample.Assistant},
		{Role: llm.RoleUser, Content: prompts.RegenerateUserPrompt(req.Subject, req.Body)},
	}

	policy := retry.Policy[rewrite]{
		MaxAttempts: r.deps.RegenerateAttempts,
		Accept:      func(out rewrite) bool { return out.Body != req.Body },
		Fallback:    retry.FallbackLastAttempt,
		StopOnError: true,
		OnReject: func(attempt int, _ rewrite, _ error) {
			logger.Logf("Regeneration attempt %d returned the original body. Retrying...", attempt)
		},
	}
	original := rewrite{Subject: req.Subject, Body: req.Body}
	res, err := retry.Do(ctx, policy, original, func(ctx context.Context, _ int) (rewrite, error) {
		raw, err := r.deps.Model.Generate(ctx, messages, r.deps.Options)
		if err != nil {
			return rewrite{}, fmt.Errorf("regenerate step: %w", err)
		}
		var out regenerateOutput
		if err := llm.DecodeJSON(raw, &out); err != nil {
			return rewrite{}, err
		}
		return out.Templates, nil
	})
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	distance := dmp.DiffLevenshtein(dmp.DiffMain(req.Body, res.Value.Body, false))
	logger.Logf("Regenerated %s after %d attempts (accepted=%t, edit distance %d)", req.MessageID, res.Attempts, res.Accepted, distance)

	step := types.Step{Type: req.MailType, Subject: res.Value.Subject, Body: res.Value.Body, Index: offset}
	step, err = r.deps.Validator.ValidateStep(ctx, step, teamID, offset)
	if err != nil {
		return nil, err
	}

	if r.deps.Deliverer != nil {
		payload := RegenerateResponse{Content: RegeneratedContent{Templates: step}, ID: req.MessageID}
		if err := r.deps.Deliverer.Deliver(userID, EventRegenerateResponse, payload, []string{CampaignsView}); err != nil {
			return &step, fmt.Errorf("deliver regenerated step: %w", err)
		}
	}
	return &step, nil
}
