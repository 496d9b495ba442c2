package scoring

import (
	"context"
	"regexp"
	"strings"

	"github.com/alantheprice/outreach/pkg/types"
	"github.com/alantheprice/outreach/pkg/utils"
	"github.com/alantheprice/outreach/pkg/variables"
)

// SpamPhrases force a zero score when found anywhere in a step body.
var SpamPhrases = []string{"hope", "trust", "well"}

// bracketSlot matches an unfilled "[...]" slot such as "[link]".
var bracketSlot = regexp.MustCompile(`\[.*?\]`)

// Adapter produces verdicts for single steps.
type Adapter struct {
	scorer Scorer
	logger *utils.Logger
}

// NewAdapter wraps scorer.
func NewAdapter(scorer Scorer, logger *utils.Logger) *Adapter {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Adapter{scorer: scorer, logger: logger}
}

// Check scores step at absolute position index. Invalid placeholders and
// spam phrases or bracket slots each force the score to zero regardless of
// what the scoring service returned. Scorer errors are returned as-is.
func (a *Adapter) Check(ctx context.Context, step types.Step, index int, teamID string) (types.Verdict, error) {
	req := Request{
		Content:       Render(step.Body),
		Subject:       Render(step.Subject),
		IsFollowUp:    index > 0,
		IsSendAsReply: false,
		OutreachType:  string(step.Type),
	}

	result, err := a.scorer.Score(ctx, req, teamID)
	if err != nil {
		return types.Verdict{}, err
	}

	verdict := types.Verdict{
		Score:            result.TotalScore.Num,
		SpamWords:        append([]string(nil), result.Highlights.SpamWords...),
		InvalidVariables: append([]string(nil), result.Highlights.InvalidCustomVars...),
	}

	if invalid := variables.FindInvalid(step.Subject, step.Body); len(invalid) > 0 {
		verdict.Score = 0
		verdict.InvalidVariables = invalid
	}

	if found := spamFindings(step.Body); len(found) > 0 {
		verdict.Score = 0
		verdict.ContainsSpam = true
		verdict.SpamWords = appendUnique(verdict.SpamWords, found...)
	}

	a.logger.Logf("step %d (%s) scored %g (spam=%v, invalid vars=%d)",
		index, step.Type, verdict.Score, verdict.ContainsSpam, len(verdict.InvalidVariables))
	return verdict, nil
}

// spamFindings returns the spam phrases and bracket slots found in body.
// The bracket search runs on the raw body, so "{[token]}" placeholders count
// as slots too.
func spamFindings(body string) []string {
	var found []string
	lower := strings.ToLower(strings.TrimSpace(body))
	for _, phrase := range SpamPhrases {
		if strings.Contains(lower, phrase) {
			found = append(found, phrase)
		}
	}
	found = append(found, bracketSlot.FindAllString(body, -1)...)
	return found
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]bool, len(dst)+len(values))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}
