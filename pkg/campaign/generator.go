package campaign

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/alantheprice/outreach/pkg/events"
	"github.com/alantheprice/outreach/pkg/llm"
	"github.com/alantheprice/outreach/pkg/prompts"
	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
)

// Event names and the client view they target.
const (
	EventCampaignResponse   = "aiCampaignResponse"
	EventRegenerateResponse = "aiRegenerateCampaignResponse"
	CampaignsView           = "/campaigns"
)

// DefaultTitle is used when the model returns no title.
const DefaultTitle = "AI Generated Campaign"

// StepValidator scores steps and repairs the ones that fail.
type StepValidator interface {
	ValidateSteps(ctx context.Context, steps []types.Step, teamID string, offset int) ([]types.Step, error)
	ValidateStep(ctx context.Context, step types.Step, teamID string, offset int) (types.Step, error)
}

// Deps are the collaborators shared by Generator and Regenerator.
type Deps struct {
	Model     llm.Generator
	Options   llm.Options
	Validator StepValidator
	Directory Directory
	// Deliverer may be nil, in which case results are only returned.
	Deliverer events.Deliverer
	// Rand seeds the step-sequence randomizer; time-seeded when nil.
	Rand               *rand.Rand
	RegenerateAttempts int
	Logger             *utils.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = utils.DiscardLogger()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.RegenerateAttempts < 1 {
		d.RegenerateAttempts = 3
	}
	d.Options.JSONMode = true
	return d
}

// CampaignResponse is the payload of EventCampaignResponse.
type CampaignResponse struct {
	Title   string       `json:"title"`
	Content []types.Step `json:"content"`
	ID      string       `json:"id"`
}

type generatedStep struct {
	Subject  string         `json:"subject"`
	Body     string         `json:"body"`
	MailType types.StepType `json:"mailType"`
}

type generatedCampaign struct {
	Title     string          `json:"title"`
	Templates []generatedStep `json:"templates"`
}

// Generator builds whole campaigns.
type Generator struct {
	deps    Deps
	builder *PromptBuilder
	rngMu   sync.Mutex
}

// NewGenerator creates a campaign generator.
func NewGenerator(deps Deps) *Generator {
	deps = deps.withDefaults()
	return &Generator{deps: deps, builder: NewPromptBuilder(deps.Directory, deps.Logger)}
}

// Generate runs the full pipeline for req and delivers the result to userID.
// A generation timeout yields (nil, nil) and nothing is delivered.
func (g *Generator) Generate(ctx context.Context, userID, teamID string, req *Request) (*types.Campaign, error) {
	logger := g.deps.Logger
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sc, err := req.Scenario()
	if err != nil {
		return nil, err
	}

	sequence, err := g.sequence(req.Channels, req.OutreachType, int(req.SelectedNumOfSteps))
	if err != nil {
		return nil, err
	}
	logger.LogProcessStep(fmt.Sprintf("generating %s campaign %s with %d steps", req.OutreachType, req.MessageID, len(sequence)))

	messages, err := g.builder.Messages(ctx, userID, req, sc, sequence)
	if err != nil {
		return nil, err
	}

	raw, err := g.deps.Model.Generate(ctx, messages, g.deps.Options)
	if err != nil {
		if llm.IsTimeout(err) {
			logger.Logf("Campaign %s generation timed out, nothing delivered", req.MessageID)
			return nil, nil
		}
		return nil, fmt.Errorf("generate campaign: %w", err)
	}

	var out generatedCampaign
	if err := llm.DecodeJSON(raw, &out); err != nil {
		return nil, err
	}
	if len(out.Templates) == 0 {
		return nil, utils.NewGenerationOutputError("generate campaign", errors.New("model returned no templates"))
	}

	steps := normalize(out.Templates, sequence, logger)
	steps, err = g.deps.Validator.ValidateSteps(ctx, steps, teamID, 0)
	if err != nil {
		return nil, err
	}

	result := &types.Campaign{Title: out.Title, Steps: steps}
	if strings.TrimSpace(result.Title) == "" {
		result.Title = DefaultTitle
	}
	if src, ok := sc.(CandidateSourcingScenario); ok && src.CompanyName() != "" {
		replaceCompany(result, src.CompanyName())
	}

	if g.deps.Deliverer != nil {
		payload := CampaignResponse{Title: result.Title, Content: result.Steps, ID: req.MessageID}
		if err := g.deps.Deliverer.Deliver(userID, EventCampaignResponse, payload, []string{CampaignsView}); err != nil {
			return result, fmt.Errorf("deliver campaign: %w", err)
		}
	}
	logger.LogProcessStep(fmt.Sprintf("campaign %s delivered with %d steps", req.MessageID, len(result.Steps)))
	return result, nil
}

func (g *Generator) sequence(channels []types.StepType, ot types.OutreachType, n int) ([]types.StepType, error) {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return Sequence(channels, ot, n, g.deps.Rand)
}

// normalize converts model output to steps in sequence order: extra templates
// are dropped, indexes are assigned and missing channels are taken from the
// requested sequence.
func normalize(templates []generatedStep, sequence []types.StepType, logger *utils.Logger) []types.Step {
	if len(templates) > len(sequence) {
		logger.Logf("Model returned %d templates for %d steps, dropping the extra", len(templates), len(sequence))
		templates = templates[:len(sequence)]
	} else if len(templates) < len(sequence) {
		logger.Logf("Model returned %d templates for %d steps", len(templates), len(sequence))
	}

	steps := make([]types.Step, len(templates))
	for i, t := range templates {
		mailType := t.MailType
		if !mailType.Valid() {
			mailType = sequence[i]
		}
		steps[i] = types.Step{Type: mailType, Subject: t.Subject, Body: t.Body, Index: i}
	}
	return steps
}

func replaceCompany(c *types.Campaign, name string) {
	c.Title = strings.ReplaceAll(c.Title, prompts.CompanySentinel, name)
	for i := range c.Steps {
		c.Steps[i].Subject = strings.ReplaceAll(c.Steps[i].Subject, prompts.CompanySentinel, name)
		c.Steps[i].Body = strings.ReplaceAll(c.Steps[i].Body, prompts.CompanySentinel, name)
	}
}
