package prompts

import (
	"fmt"
	"strings"
)

// RepairSystem instructs the model to fix steps that failed validation.
const RepairSystem = `As a chatbot that helps users update content, your job is to remove the listed spam words, make the content more concise, remove any "hope", "trust" or "well" phrases, remove any invalid custom variables, and replace any text wrapped in [] with {[]} so the result contains both [] and {}, while keeping the content readable.

# **Subject:** text that needs to be updated.

# **Body:** text that needs to be updated, with \n for line breaks.

# **Spam words:** words that must be removed from the text.

# **Invalid Custom Variables:** custom variables that must be removed from the text.

Return one template per submitted step, in the same order, as JSON shaped like this example:

{"templates": [{"subject": "The updated subject", "body": "The updated body"}]}`

// RepairSample is the few-shot exchange for RepairSystem.
var RepairSample = Sample{
	User: RepairUserPrompt([]RepairItem{
		{
			Subject:          "Opportunity for Senior Software Architect with 15+ Years Experience",
			Body:             "Dear {{firstName}},\n\nThis will {{wrong}} be my final follow-up regarding the Senior Software Architect I introduced. They bring 15+ years in microservices, cloud and DevOps to the {[role]}.\n\nPlease call me if you are open to it.\n\nBest regards,\n{[senderFirstName]}",
			SpamWords:        []string{"call", "open", "please", "regarding", "opportunity"},
			InvalidVariables: []string{"{{wrong}}", "{[role]}"},
		},
		{
			Subject:          "Exciting Opportunity at Innovatech Solutions!",
			Body:             "Hi {{firstName}},\n\nFollowing up on my {{invalidVar}} email regarding the Full Stack Developer position. Book here: [calendar link].\n\n{[senderFirstName]}",
			SpamWords:        []string{"regarding", "opportunity"},
			InvalidVariables: []string{"{{invalidVar}}"},
		},
	}),
	Assistant: `{"templates": [` +
		`{"subject": "Senior Software Architect with 15+ years experience", "body": "Dear {{firstName}},\n\nA last note about the Senior Software Architect I introduced. They bring 15+ years in microservices, cloud and DevOps and would suit a {{role}} opening at {{company}}.\n\nShall we set up a short chat?\n\nBest regards,\n{[senderFirstName]}"}, ` +
		`{"subject": "Full Stack Developer role at Innovatech Solutions", "body": "Hi {{firstName}},\n\nFollowing up on my last email about the Full Stack Developer position. You can pick a time here: [{[senderCalendarLink]}].\n\n{[senderFirstName]}"}]}`,
}

// RepairItem is one failed step as presented to the model.
type RepairItem struct {
	Subject          string
	Body             string
	SpamWords        []string
	InvalidVariables []string
}

// RepairUserPrompt lists every failed step with the problems found in it.
func RepairUserPrompt(items []RepairItem) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- **Subject:**\n%s\n\n", item.Subject)
		fmt.Fprintf(&sb, "- **Content:**\n%s\n\n", item.Body)
		fmt.Fprintf(&sb, "- **Spam words:**\n%s\n\n", strings.Join(item.SpamWords, ", "))
		fmt.Fprintf(&sb, "- **Invalid Custom Variables:**\n%s\n", strings.Join(item.InvalidVariables, ", "))
	}
	return sb.String()
}

// RegenerateSystem instructs the model to reword a single step.
const RegenerateSystem = `As a chatbot that helps users update content, your job is to reword the content while keeping it concise. Update both the Subject and the Body. Never use the phrase "I hope this email/message finds you well". Never use emojis.

# **Subject:** text that needs to be updated.

# **Body:** text that needs to be updated, with \n for line breaks.

Return JSON shaped like this example:

{"templates": {"subject": "The updated subject", "body": "The updated body"}}`

// RegenerateSample is the few-shot exchange for RegenerateSystem.
var RegenerateSample = Sample{
	User: RegenerateUserPrompt(
		"{{firstName}}, A Creative Opportunity Awaits",
		"Hey {{firstName}},\n\nIt's {[senderFirstName]} from DesignSphere.\n\nGot a minute to chat? We have a Graphic Designer role in London.\n\nBest,\n{[senderFirstName]}",
	),
	Assistant: `{"templates": {"subject": "{{firstName}}, a design role in London", "body": "Hi {{firstName}},\n\n{[senderFirstName]} here from DesignSphere. We're hiring a Graphic Designer in London and your portfolio stood out.\n\nFree for a quick chat {[tomorrow]}?\n\n{[senderFirstName]}"}}`,
}

// RegenerateUserPrompt presents the step to reword.
func RegenerateUserPrompt(subject, body string) string {
	return fmt.Sprintf("**Subject:**\n%s\n\n**Body:**\n%s", subject, body)
}
