package campaign

import (
	"math/rand"
	"slices"

	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
)

// Sequence picks the channel of each of n steps. The first step is chosen by
// outreach type, every requested channel appears at least once when n allows,
// at most one linkedinConnectionRequest is kept and the steps after the first
// are shuffled. Duplicate channels are ignored.
func Sequence(channels []types.StepType, ot types.OutreachType, n int, rng *rand.Rand) ([]types.StepType, error) {
	channels = dedupe(channels)
	if len(channels) == 0 {
		return nil, utils.NewValidationError("channels", "at least one channel is required")
	}
	if n < 1 {
		return nil, utils.NewValidationError("selectedNumOfSteps", "at least one step is required")
	}
	others := without(channels, types.StepLinkedinConnectionRequest)
	if n > 1 && len(others) == 0 {
		return nil, utils.NewValidationError("channels", "linkedinConnectionRequest alone cannot fill more than one step")
	}

	first := firstStep(channels, ot, rng)
	steps := make([]types.StepType, 0, n)
	steps = append(steps, first)

	remaining := without(channels, first)
	rng.Shuffle(len(remaining), func(i, j int) { remaining[i], remaining[j] = remaining[j], remaining[i] })
	steps = append(steps, remaining[:min(len(remaining), n-1)]...)

	for len(steps) < n {
		steps = append(steps, channels[rng.Intn(len(channels))])
	}

	seen := false
	for i, step := range steps {
		if step != types.StepLinkedinConnectionRequest {
			continue
		}
		if seen {
			steps[i] = others[rng.Intn(len(others))]
		}
		seen = true
	}

	tail := steps[1:]
	rng.Shuffle(len(tail), func(i, j int) { tail[i], tail[j] = tail[j], tail[i] })
	return steps, nil
}

func firstStep(channels []types.StepType, ot types.OutreachType, rng *rand.Rand) types.StepType {
	switch ot {
	case types.BusinessDevelopment, types.CandidateSpec:
		if slices.Contains(channels, types.StepEmail) {
			return types.StepEmail
		}
	case types.CandidateSourcing:
		var written []types.StepType
		for _, ch := range []types.StepType{types.StepEmail, types.StepInmail} {
			if slices.Contains(channels, ch) {
				written = append(written, ch)
			}
		}
		if len(written) > 0 {
			return written[rng.Intn(len(written))]
		}
	}
	for _, ch := range channels {
		if ch != types.StepPhoneCall {
			return ch
		}
	}
	return channels[0]
}

func dedupe(channels []types.StepType) []types.StepType {
	out := make([]types.StepType, 0, len(channels))
	for _, ch := range channels {
		if !slices.Contains(out, ch) {
			out = append(out, ch)
		}
	}
	return out
}

func without(channels []types.StepType, drop types.StepType) []types.StepType {
	out := make([]types.StepType, 0, len(channels))
	for _, ch := range channels {
		if ch != drop {
			out = append(out, ch)
		}
	}
	return out
}
