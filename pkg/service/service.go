// Package service routes pipeline jobs to campaign generation, single-step
// regeneration or asynchronous re-dispatch.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alantheprice/outreach/pkg/campaign"
	"github.com/alantheprice/outreach/pkg/dispatch"
	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
)

// Job is the unit of work accepted by Handle.
type Job = dispatch.Job

// Ack is returned to synchronous callers once their job is queued.
type Ack struct {
	Message string `json:"message"`
}

// SuccessAck is the only acknowledgement sent.
var SuccessAck = Ack{Message: "success"}

// CampaignGenerator builds and delivers a campaign.
type CampaignGenerator interface {
	Generate(ctx context.Context, userID, teamID string, req *campaign.Request) (*types.Campaign, error)
}

// StepRegenerator rewords and delivers one step.
type StepRegenerator interface {
	Regenerate(ctx context.Context, userID, teamID string, req *campaign.RegenerateRequest) (*types.Step, error)
}

// Handler is the pipeline entry point.
type Handler struct {
	generator   CampaignGenerator
	regenerator StepRegenerator
	dispatcher  dispatch.Dispatcher
	logger      *utils.Logger
}

// New creates a handler. dispatcher may be nil when jobs always arrive
// already marked async, as on a queue worker.
func New(gen CampaignGenerator, regen StepRegenerator, dispatcher dispatch.Dispatcher, logger *utils.Logger) *Handler {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Handler{generator: gen, regenerator: regen, dispatcher: dispatcher, logger: logger}
}

// Handle runs job. Regeneration jobs are handled first, async jobs run the
// campaign pipeline and anything else is queued through Submit.
func (h *Handler) Handle(ctx context.Context, job Job) error {
	switch {
	case job.RegenerateSingle:
		var req campaign.RegenerateRequest
		if err := decodeBody(job.Body, &req); err != nil {
			return err
		}
		_, err := h.regenerator.Regenerate(ctx, job.UserID, job.TeamID, &req)
		return err
	case job.Async:
		var req campaign.Request
		if err := decodeBody(job.Body, &req); err != nil {
			return err
		}
		_, err := h.generator.Generate(ctx, job.UserID, job.TeamID, &req)
		return err
	default:
		_, err := h.Submit(ctx, job)
		return err
	}
}

// Submit marks job async and hands it to the dispatcher.
func (h *Handler) Submit(ctx context.Context, job Job) (Ack, error) {
	if h.dispatcher == nil {
		return Ack{}, utils.NewConfigError("dispatch", fmt.Errorf("no dispatcher configured"))
	}
	if job.UserID == "" {
		return Ack{}, utils.NewAuthorizationError("job has no user")
	}
	job.Async = true
	if err := h.dispatcher.Dispatch(ctx, job); err != nil {
		return Ack{}, fmt.Errorf("dispatch job: %w", err)
	}
	h.logger.Logf("Queued job for user %s (regenerate=%t)", job.UserID, job.RegenerateSingle)
	return SuccessAck, nil
}

func decodeBody(body json.RawMessage, v any) error {
	if len(body) == 0 {
		return utils.NewValidationError("body", "request body is empty")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return utils.NewValidationError("body", err.Error())
	}
	return nil
}
