// Package types holds the campaign data model shared by every pipeline stage.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StepType is the channel a campaign step is sent through.
type StepType string

const (
	StepEmail                     StepType = "email"
	StepPhoneCall                 StepType = "phoneCall"
	StepLinkedinConnectionRequest StepType = "linkedinConnectionRequest"
	StepInmail                    StepType = "inmail"
	StepSMS                       StepType = "sms"
)

// StepTypes lists every supported channel in catalogue order.
var StepTypes = []StepType{StepEmail, StepPhoneCall, StepLinkedinConnectionRequest, StepInmail, StepSMS}

// Valid reports whether t is a known channel.
func (t StepType) Valid() bool {
	for _, known := range StepTypes {
		if t == known {
			return true
		}
	}
	return false
}

// OutreachType is the campaign scenario category.
type OutreachType string

const (
	BusinessDevelopment OutreachType = "businessDevelopment"
	CandidateSourcing   OutreachType = "candidateSourcing"
	CandidateSpec       OutreachType = "candidateSpec"
)

// Tone selects the tone directive added to the campaign prompt.
type Tone string

const (
	ToneCasual        Tone = "casual"
	ToneProfessional  Tone = "professional"
	ToneReplicateTone Tone = "replicateTone"
)

// Step is one unit of outreach content.
type Step struct {
	Type    StepType `json:"mailType"`
	Subject string   `json:"subject,omitempty"`
	Body    string   `json:"body"`
	Index   int      `json:"stepIndex"`
}

// Campaign is the ordered set of steps delivered to the client.
type Campaign struct {
	Title string `json:"title"`
	Steps []Step `json:"content"`
}

// Verdict is the validation result for one step.
type Verdict struct {
	Score            float64  `json:"score"`
	SpamWords        []string `json:"spamWords,omitempty"`
	InvalidVariables []string `json:"invalidCustomVars,omitempty"`
	ContainsSpam     bool     `json:"containsSpam"`
}

// Passed reports whether the verdict meets threshold. The score is compared
// unrounded, so 69.6 fails a threshold of 70.
func (v Verdict) Passed(threshold int) bool {
	return v.Score >= float64(threshold)
}

// FlexInt accepts both JSON numbers and numeric strings ("6").
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", raw, err)
	}
	*f = FlexInt(n)
	return nil
}
