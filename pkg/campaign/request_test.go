package campaign

import (
	"encoding/json"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/outreach/pkg/prompts"
	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
)

func bdRequest() *Request {
	return &Request{
		MessageID:          "m-1",
		OutreachType:       types.BusinessDevelopment,
		Channels:           []types.StepType{types.StepEmail, types.StepPhoneCall},
		SelectedNumOfSteps: 2,
		CampaignTone:       types.ToneProfessional,
		WhatWeOffer:        "Managed data pipelines",
		BuyerPainPoint:     "Nightly jobs keep failing",
		ValueProposition:   "Fewer pages, faster reports",
	}
}

func TestRequest_DecodeAcceptsStringStepCount(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{
		"messageId": "m-9",
		"outreachType": "candidateSpec",
		"channels": ["email", "sms"],
		"selectedNumOfSteps": "3",
		"campaignTone": "casual",
		"experience": "10 years of firmware",
		"skills": "C, RTOS"
	}`), &req))
	assert.Equal(t, types.FlexInt(3), req.SelectedNumOfSteps)
	assert.NoError(t, req.Validate())
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		field  string
	}{
		{"missing message id", func(r *Request) { r.MessageID = "" }, "messageId"},
		{"unknown outreach type", func(r *Request) { r.OutreachType = "cold" }, "outreachType"},
		{"no channels", func(r *Request) { r.Channels = nil }, "channels"},
		{"unknown channel", func(r *Request) { r.Channels = []types.StepType{"fax"} }, "channels[0]"},
		{"zero steps", func(r *Request) { r.SelectedNumOfSteps = 0 }, "selectedNumOfSteps"},
		{"unknown tone", func(r *Request) { r.CampaignTone = "angry" }, "campaignTone"},
		{"replicate without campaign", func(r *Request) { r.CampaignTone = types.ToneReplicateTone }, "selectedCampaign"},
		{"missing offer", func(r *Request) { r.WhatWeOffer = "" }, "whatWeOffer"},
		{"bad disclosure", func(r *Request) { r.IncludeHiringCompanyName = "maybe" }, "includeHiringCompanyName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bdRequest()
			tt.mutate(req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, utils.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	assert.NoError(t, bdRequest().Validate())
}

func TestRequest_SourcingFieldsRequiredOnlyForSourcing(t *testing.T) {
	req := bdRequest()
	req.OutreachType = types.CandidateSourcing
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positionDetails")

	req.PositionDetails = "Staff engineer"
	req.JobLocation = "Remote"
	assert.NoError(t, req.Validate())
}

func TestScenario_SampleSelection(t *testing.T) {
	tests := []struct {
		name     string
		disclose string
		inHouse  bool
		want     prompts.SampleKind
	}{
		{"disclosed", "yes", false, prompts.SampleSourcingHiringName},
		{"disclosed wins over in-house", "yes", true, prompts.SampleSourcingHiringName},
		{"in-house", "no", true, prompts.SampleSourcingInHouse},
		{"agency", "no", false, prompts.SampleSourcingNonHiringName},
		{"empty disclosure is no", "", false, prompts.SampleSourcingNonHiringName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{OutreachType: types.CandidateSourcing, IncludeHiringCompanyName: tt.disclose, IsInHouse: tt.inHouse}
			sc, err := req.Scenario()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sc.Sample())
		})
	}

	sc, err := bdRequest().Scenario()
	require.NoError(t, err)
	assert.Equal(t, prompts.SampleBusinessDevelopment, sc.Sample())
	assert.Equal(t, types.BusinessDevelopment, sc.OutreachType())

	_, err = (&Request{OutreachType: "other"}).Scenario()
	assert.True(t, utils.IsValidationError(err))
}

func TestCandidateSourcingScenario_CompanyName(t *testing.T) {
	assert.Equal(t, "Acme", CandidateSourcingScenario{DiscloseCompany: true, HiringCompanyName: "Acme"}.CompanyName())
	assert.Empty(t, CandidateSourcingScenario{HiringCompanyName: "Acme"}.CompanyName())

	fields := CandidateSourcingScenario{PositionDetails: "SRE", JobLocation: "Berlin"}.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, prompts.Field{Label: "Include Hiring Company Name", Value: "no"}, fields[0])
}

func TestStepOffset(t *testing.T) {
	tests := []struct {
		id      string
		want    int
		wantErr bool
	}{
		{"abc-step1", 0, false},
		{"abc-step-x-step4", 3, false},
		{"9f1e-step12", 11, false},
		{"abc", 0, true},
		{"abc-step", 0, true},
		{"abc-step0", 0, true},
		{"abc-stepx", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := StepOffset(tt.id)
			if tt.wantErr {
				assert.True(t, utils.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegenerateRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RegenerateRequest{MessageID: "m-step2", Body: "hello"}).Validate())
	assert.Error(t, (&RegenerateRequest{MessageID: "m-step2"}).Validate())
	assert.Error(t, (&RegenerateRequest{MessageID: "m", Body: "x"}).Validate())
	assert.Error(t, (&RegenerateRequest{MessageID: "m-step1", Body: "x", MailType: "fax"}).Validate())
}

func count(steps []types.StepType, want types.StepType) int {
	n := 0
	for _, s := range steps {
		if s == want {
			n++
		}
	}
	return n
}

func TestSequence_ThreeChannelsFourSteps(t *testing.T) {
	channels := []types.StepType{types.StepEmail, types.StepPhoneCall, types.StepLinkedinConnectionRequest}
	for seed := int64(0); seed < 200; seed++ {
		for _, ot := range []types.OutreachType{types.BusinessDevelopment, types.CandidateSourcing, types.CandidateSpec} {
			steps, err := Sequence(channels, ot, 4, rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			require.Len(t, steps, 4)
			assert.LessOrEqual(t, count(steps, types.StepLinkedinConnectionRequest), 1, "seed %d", seed)
			for _, ch := range channels {
				assert.Contains(t, steps, ch, "seed %d", seed)
			}
			assert.NotEqual(t, types.StepPhoneCall, steps[0])
			assert.Equal(t, types.StepEmail, steps[0])
		}
	}
}

func TestSequence_FirstStepRules(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	steps, err := Sequence([]types.StepType{types.StepPhoneCall, types.StepSMS}, types.BusinessDevelopment, 3, rng)
	require.NoError(t, err)
	assert.Equal(t, types.StepSMS, steps[0])

	steps, err = Sequence([]types.StepType{types.StepPhoneCall}, types.CandidateSpec, 3, rng)
	require.NoError(t, err)
	assert.Equal(t, []types.StepType{types.StepPhoneCall, types.StepPhoneCall, types.StepPhoneCall}, steps)

	firsts := map[types.StepType]bool{}
	for seed := int64(0); seed < 100; seed++ {
		steps, err := Sequence([]types.StepType{types.StepPhoneCall, types.StepInmail, types.StepEmail}, types.CandidateSourcing, 3, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		firsts[steps[0]] = true
	}
	assert.Equal(t, map[types.StepType]bool{types.StepEmail: true, types.StepInmail: true}, firsts)
}

func TestSequence_FewerStepsThanChannels(t *testing.T) {
	channels := []types.StepType{types.StepEmail, types.StepPhoneCall, types.StepSMS, types.StepInmail}
	steps, err := Sequence(channels, types.BusinessDevelopment, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, types.StepEmail, steps[0])
	assert.NotEqual(t, types.StepEmail, steps[1])
}

func TestSequence_LongCampaignKeepsOneLinkedin(t *testing.T) {
	channels := []types.StepType{types.StepLinkedinConnectionRequest, types.StepSMS}
	for seed := int64(0); seed < 50; seed++ {
		steps, err := Sequence(channels, types.BusinessDevelopment, 8, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		assert.Equal(t, 1, count(steps, types.StepLinkedinConnectionRequest))
		assert.Equal(t, types.StepLinkedinConnectionRequest, steps[0])
	}
}

func TestSequence_IsDeterministicForSeed(t *testing.T) {
	channels := []types.StepType{types.StepEmail, types.StepPhoneCall, types.StepSMS, types.StepInmail}
	a, err := Sequence(channels, types.CandidateSourcing, 7, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := Sequence(channels, types.CandidateSourcing, 7, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, slices.Equal(a, b))
}

func TestSequence_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := Sequence(nil, types.BusinessDevelopment, 3, rng)
	assert.True(t, utils.IsValidationError(err))

	_, err = Sequence([]types.StepType{types.StepEmail}, types.BusinessDevelopment, 0, rng)
	assert.True(t, utils.IsValidationError(err))

	_, err = Sequence([]types.StepType{types.StepLinkedinConnectionRequest}, types.BusinessDevelopment, 2, rng)
	assert.True(t, utils.IsValidationError(err))

	steps, err := Sequence([]types.StepType{types.StepLinkedinConnectionRequest}, types.BusinessDevelopment, 1, rng)
	require.NoError(t, err)
	assert.Equal(t, []types.StepType{types.StepLinkedinConnectionRequest}, steps)
}
