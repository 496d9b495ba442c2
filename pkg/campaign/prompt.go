package campaign

import (
	"context"
	"fmt"

	"github.com/alantheprice/outreach/pkg/directory"
	"github.com/alantheprice/outreach/pkg/llm"
	"github.com/alantheprice/outreach/pkg/prompts"
	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
	"github.com/alantheprice/outreach/pkg/variables"
)

// Directory looks up users and saved campaigns.
type Directory interface {
	User(ctx context.Context, userID string) (*directory.User, error)
	FetchCampaign(ctx context.Context, campaignID string) (*directory.Campaign, error)
}

// PromptBuilder assembles the message list for a generation request.
type PromptBuilder struct {
	dir    Directory
	logger *utils.Logger
}

// NewPromptBuilder creates a builder. With a nil directory every user is
// written for in American English and replicateTone requests fail.
func NewPromptBuilder(dir Directory, logger *utils.Logger) *PromptBuilder {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &PromptBuilder{dir: dir, logger: logger}
}

// Messages returns system prompt, few-shot pair and user prompt.
func (b *PromptBuilder) Messages(ctx context.Context, userID string, req *Request, sc Scenario, sequence []types.StepType) ([]llm.Message, error) {
	system, err := SystemPrompt(sc.OutreachType(), prompts.Locale(b.timezone(ctx, userID)))
	if err != nil {
		return nil, err
	}
	user, err := b.UserPrompt(ctx, req, sc, sequence)
	if err != nil {
		return nil, err
	}

	sample := prompts.CampaignSample(sc.Sample())
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: sample.User},
		{Role: llm.RoleAssistant, Content: sample.Assistant},
		{Role: llm.RoleUser, Content: user},
	}, nil
}

// timezone returns the user's timezone, or "" when it cannot be looked up.
func (b *PromptBuilder) timezone(ctx context.Context, userID string) string {
	if b.dir == nil || userID == "" {
		return ""
	}
	user, err := b.dir.User(ctx, userID)
	if err != nil {
		b.logger.Logf("User lookup for %s failed, defaulting locale: %v", userID, err)
		return ""
	}
	return user.Timezone
}

// SystemPrompt joins the outreach-type intro, the shared guidance and the
// placeholder catalogue for locale.
func SystemPrompt(ot types.OutreachType, locale string) (string, error) {
	intro, ok := prompts.CampaignIntro(ot)
	if !ok {
		return "", utils.NewValidationError("outreachType", fmt.Sprintf("unknown outreach type %q", ot))
	}
	return intro + prompts.CampaignGuidance + prompts.PlaceholderGuidance(variables.AllowList(), locale), nil
}

// UserPrompt renders the scenario fields, tone, optional call to action and
// context, and the step sequence.
func (b *PromptBuilder) UserPrompt(ctx context.Context, req *Request, sc Scenario, sequence []types.StepType) (string, error) {
	fields := sc.Fields()

	tone, err := b.toneDirective(ctx, req)
	if err != nil {
		return "", err
	}
	fields = append(fields, prompts.Field{Label: "Tone", Value: tone})

	if req.CallToAction != "" {
		fields = append(fields, prompts.Field{Label: "Call to action", Value: req.CallToAction})
	}
	if req.AdditionalContext != "" {
		fields = append(fields, prompts.Field{Label: "Additional context", Value: req.AdditionalContext})
	}
	return prompts.CampaignUserPrompt(fields, sequence), nil
}

func (b *PromptBuilder) toneDirective(ctx context.Context, req *Request) (string, error) {
	switch req.CampaignTone {
	case types.ToneCasual:
		return prompts.ToneCasualDirective, nil
	case types.ToneProfessional:
		return prompts.ToneProfessionalDirective, nil
	case types.ToneReplicateTone:
		if b.dir == nil {
			return "", utils.NewConfigError("directory_url", fmt.Errorf("replicateTone needs the campaign directory"))
		}
		saved, err := b.dir.FetchCampaign(ctx, req.SelectedCampaign)
		if err != nil {
			return "", fmt.Errorf("fetch tone sample: %w", err)
		}
		return prompts.ReplicateToneDirective(saved.PlainText()), nil
	default:
		return "", utils.NewValidationError("campaignTone", fmt.Sprintf("unknown tone %q", req.CampaignTone))
	}
}
