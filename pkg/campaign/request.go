// Package campaign turns a campaign request into a validated, delivered
// multi-step outreach campaign, and rewrites single steps on demand.
package campaign

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alantheprice/outreach/pkg/prompts"
	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Request is the campaign generation request as sent by the client.
type Request struct {
	MessageID          string             `json:"messageId" validate:"required"`
	OutreachType       types.OutreachType `json:"outreachType" validate:"required,oneof=businessDevelopment candidateSourcing candidateSpec"`
	Channels           []types.StepType   `json:"channels" validate:"required,min=1,dive,oneof=email phoneCall linkedinConnectionRequest inmail sms"`
	SelectedNumOfSteps types.FlexInt      `json:"selectedNumOfSteps" validate:"min=1"`
	CampaignTone       types.Tone         `json:"campaignTone" validate:"required,oneof=casual professional replicateTone"`
	SelectedCampaign   string             `json:"selectedCampaign,omitempty" validate:"required_if=CampaignTone replicateTone"`
	CallToAction       string             `json:"callToAction,omitempty"`
	AdditionalContext  string             `json:"additionalContext,omitempty"`

	IncludeHiringCompanyName string `json:"includeHiringCompanyName,omitempty" validate:"omitempty,oneof=yes no"`
	HiringCompanyName        string `json:"hiringCompanyName,omitempty"`
	IsInHouse                bool   `json:"isInHouse,omitempty"`
	PositionDetails          string `json:"positionDetails,omitempty" validate:"required_if=OutreachType candidateSourcing"`
	JobLocation              string `json:"jobLocation,omitempty" validate:"required_if=OutreachType candidateSourcing"`

	WhatWeOffer      string `json:"whatWeOffer,omitempty" validate:"required_if=OutreachType businessDevelopment"`
	BuyerPainPoint   string `json:"buyerPainPoint,omitempty" validate:"required_if=OutreachType businessDevelopment"`
	ValueProposition string `json:"valueProposition,omitempty" validate:"required_if=OutreachType businessDevelopment"`

	Experience string `json:"experience,omitempty" validate:"required_if=OutreachType candidateSpec"`
	Skills     string `json:"skills,omitempty" validate:"required_if=OutreachType candidateSpec"`
}

// Validate checks the request shape and cross-field requirements.
func (r *Request) Validate() error {
	return validationError(validate.Struct(r))
}

// Scenario returns the outreach-type specific view of the request.
func (r *Request) Scenario() (Scenario, error) {
	switch r.OutreachType {
	case types.BusinessDevelopment:
		return BusinessDevelopmentScenario{
			WhatWeOffer:      r.WhatWeOffer,
			BuyerPainPoint:   r.BuyerPainPoint,
			ValueProposition: r.ValueProposition,
		}, nil
	case types.CandidateSourcing:
		return CandidateSourcingScenario{
			DiscloseCompany:   r.IncludeHiringCompanyName == "yes",
			HiringCompanyName: r.HiringCompanyName,
			InHouse:           r.IsInHouse,
			PositionDetails:   r.PositionDetails,
			JobLocation:       r.JobLocation,
		}, nil
	case types.CandidateSpec:
		return CandidateSpecScenario{Experience: r.Experience, Skills: r.Skills}, nil
	default:
		return nil, utils.NewValidationError("outreachType", fmt.Sprintf("unknown outreach type %q", r.OutreachType))
	}
}

// Scenario is the outreach-type specific part of a request.
type Scenario interface {
	OutreachType() types.OutreachType
	Fields() []prompts.Field
	Sample() prompts.SampleKind
}

type BusinessDevelopmentScenario struct {
	WhatWeOffer      string
	BuyerPainPoint   string
	ValueProposition string
}

func (BusinessDevelopmentScenario) OutreachType() types.OutreachType { return types.BusinessDevelopment }

func (s BusinessDevelopmentScenario) Fields() []prompts.Field {
	return []prompts.Field{
		{Label: "What we offer", Value: s.WhatWeOffer},
		{Label: "Pain point", Value: s.BuyerPainPoint},
		{Label: "Value proposition", Value: s.ValueProposition},
	}
}

func (BusinessDevelopmentScenario) Sample() prompts.SampleKind { return prompts.SampleBusinessDevelopment }

type CandidateSourcingScenario struct {
	DiscloseCompany   bool
	HiringCompanyName string
	InHouse           bool
	PositionDetails   string
	JobLocation       string
}

func (CandidateSourcingScenario) OutreachType() types.OutreachType { return types.CandidateSourcing }

func (s CandidateSourcingScenario) Fields() []prompts.Field {
	disclose := "no"
	if s.DiscloseCompany {
		disclose = "yes"
	}
	fields := []prompts.Field{{Label: "Include Hiring Company Name", Value: disclose}}
	if s.HiringCompanyName != "" {
		fields = append(fields, prompts.Field{Label: "Hiring Company Name", Value: s.HiringCompanyName})
	}
	return append(fields,
		prompts.Field{Label: "Position title & description", Value: s.PositionDetails},
		prompts.Field{Label: "Job Location", Value: s.JobLocation},
	)
}

func (s CandidateSourcingScenario) Sample() prompts.SampleKind {
	switch {
	case s.DiscloseCompany:
		return prompts.SampleSourcingHiringName
	case s.InHouse:
		return prompts.SampleSourcingInHouse
	default:
		return prompts.SampleSourcingNonHiringName
	}
}

// CompanyName returns the name that replaces the sample company in generated
// text, or "" when the company is not disclosed.
func (s CandidateSourcingScenario) CompanyName() string {
	if !s.DiscloseCompany {
		return ""
	}
	return s.HiringCompanyName
}

type CandidateSpecScenario struct {
	Experience string
	Skills     string
}

func (CandidateSpecScenario) OutreachType() types.OutreachType { return types.CandidateSpec }

func (s CandidateSpecScenario) Fields() []prompts.Field {
	return []prompts.Field{
		{Label: "Candidate experience and qualifications", Value: s.Experience},
		{Label: "Candidate key skills", Value: s.Skills},
	}
}

func (CandidateSpecScenario) Sample() prompts.SampleKind { return prompts.SampleCandidateSpec }

// RegenerateRequest asks for one step to be reworded.
type RegenerateRequest struct {
	MessageID string         `json:"messageId" validate:"required"`
	Subject   string         `json:"subject"`
	Body      string         `json:"body" validate:"required"`
	MailType  types.StepType `json:"mailType,omitempty" validate:"omitempty,oneof=email phoneCall linkedinConnectionRequest inmail sms"`
}

// Validate checks the request shape and that the message id carries a step.
func (r *RegenerateRequest) Validate() error {
	if err := validationError(validate.Struct(r)); err != nil {
		return err
	}
	_, err := StepOffset(r.MessageID)
	return err
}

// StepOffset parses the zero-based step index from a message id of the form
// "<id>-step<N>" where N is one-based.
func StepOffset(messageID string) (int, error) {
	i := strings.LastIndex(messageID, "-step")
	if i < 0 {
		return 0, utils.NewValidationError("messageId", fmt.Sprintf("%q has no step suffix", messageID))
	}
	n, err := strconv.Atoi(messageID[i+len("-step"):])
	if err != nil || n < 1 {
		return 0, utils.NewValidationError("messageId", fmt.Sprintf("%q has an invalid step number", messageID))
	}
	return n - 1, nil
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return utils.NewValidationError("request", err.Error())
	}
	fe := verrs[0]
	reason := fmt.Sprintf("failed rule '%s'", fe.Tag())
	if fe.Param() != "" {
		reason += fmt.Sprintf(" (%s)", fe.Param())
	}
	return utils.NewValidationError(fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:], reason)
}
