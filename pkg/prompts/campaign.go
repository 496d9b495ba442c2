// Package prompts holds the instruction texts and few-shot samples sent to
// the generation model. Nothing here talks to a model.
package prompts

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/alantheprice/outreach/pkg/types"
)

var campaignIntros = map[types.OutreachType]string{
	types.BusinessDevelopment: "As a chatbot that helps users write targeted business development outreach campaigns, " +
		"your task is to create a campaign from the user-provided details, including the step types and their order. " +
		"Every step should use the details supplied to connect with potential clients and show the benefit of the user's services.",
	types.CandidateSourcing: "As a chatbot that helps users write outreach campaigns to source candidates for a specific job, " +
		"your task is to create a campaign from the user-provided details about the position and the ideal candidate. " +
		"Every step should attract and engage potential candidates and make the key points of the role and company clear.",
	types.CandidateSpec: "As a chatbot that helps users present strong candidates to potential employers, " +
		"your task is to create a campaign that shows the candidate's skills, experience and fit for the target roles. " +
		"Every step should lead with the candidate's strengths and aim to secure the next step in the hiring process.",
}

// CampaignIntro returns the opening instruction for an outreach type.
func CampaignIntro(t types.OutreachType) (string, bool) {
	intro, ok := campaignIntros[t]
	return intro, ok
}

// CampaignGuidance describes the step formats, output shape and writing rules
// shared by every outreach type.
const CampaignGuidance = `

Each step should follow on from the content of the previous one so the sequence reads as a whole. Where it makes sense, use at least three custom variables per step, chosen from the list provided and used correctly. You will see a sample user input with the expected assistant response; only use data from the latest user input and never copy data from the sample response.

## Outreach Campaign Step Types

A campaign is made of outreach steps, each with its own format. The order of steps is given by the user.

### **Email**
- **Subject**: A relevant subject line that earns attention.
- **Body**: A short introduction of the sender and why they are writing, focused on the value for the recipient. Aim for 2-4 sentences.
- **mailType**: email

### **Phone Call**
- **Body**: A short note for the caller, usually to discuss an earlier step.
- **mailType**: phoneCall

### **LinkedIn Connection Request**
- **Body**: Opens with a personal greeting using '{{firstName}}'. It may mention an earlier email and acknowledge that the recipient is busy.
- **mailType**: linkedinConnectionRequest

### **LinkedIn inmail**
- **Subject**: A subject line that makes the value obvious.
- **Body**: A personal note to {{firstName}} that recognises earlier attempts to connect, offers a brief insight and ties it to the recipient's challenges. Aim for 1-2 sentences.
- **mailType**: inmail

### **SMS**
- **Body**: A brief, direct nudge or reminder. Never longer than 300 characters.
- **mailType**: sms

## Example JSON Structure

Return the campaign as JSON shaped like this example:

{"title": "Campaign Title", "templates": [{"subject": "Subject line for the first email", "body": "Body of the first email with \n for line breaks", "mailType": "email"}, {"mailType": "phoneCall", "body": "Call to discuss email"}, {"body": "Connection request text with \n for line breaks", "mailType": "linkedinConnectionRequest"}, {"subject": "Subject line for the inmail", "body": "Inmail text with \n for line breaks", "mailType": "inmail"}, {"subject": "", "body": "Follow-up email with \n for line breaks", "mailType": "email"}]}

## Campaign Guidelines

Write approachable, professional messages. Keep a balance between casual language and professionalism and stay away from sales cliches.

- **Calls to Action**: Phrase them as invitations that respect the recipient's time and preference.
- **Empathy**: Open with a genuine greeting and offer flexibility.
- **Past Interactions**: Refer to earlier messages lightly without assuming they were read.
- **Sales Language**: Prefer plain, value-led wording over stock sales phrases.

Never use the phrase "I hope this email/message finds you well". Never use emojis.`

// PlaceholderGuidance lists the permitted custom variables and the language
// variant to write in.
func PlaceholderGuidance(allowList []string, locale string) string {
	return fmt.Sprintf(`

### Personalization
- **Custom Variables**: Only use these custom variables: %s. Use at least three in each step, correctly.

### Content Requirements
- **Language**: Write in %s, avoiding spam terms and cliches. Keep messages short and clear.
- **Relevance**: Keep the content specific to the recipient and free of unnecessary detail.`,
		strings.Join(allowList, ", "), locale)
}

// Locale names the English variant to write in. Timezones in Europe get
// British English, everything else American English.
func Locale(timezone string) string {
	tag := language.AmericanEnglish
	if strings.HasPrefix(timezone, "Europe") {
		tag = language.BritishEnglish
	}
	return display.English.Tags().Name(tag)
}

// Tone directives for the user prompt.
const (
	ToneCasualDirective       = "Keep it clear, engaging, and personable. Use conversational language and contractions so messages read like a friendly chat."
	ToneProfessionalDirective = "Keep a professional, formal tone. Use clear and concise language, avoid contractions, and convey expertise and credibility."
)

// ReplicateToneDirective asks the model to copy the tone of sample text.
func ReplicateToneDirective(sample string) string {
	return fmt.Sprintf("Mimic the tone from the following text: %q", sample)
}

// Field is one labelled entry in the user-provided details list.
type Field struct {
	Label string
	Value string
}

// CampaignUserPrompt renders the user-provided details followed by the
// numbered step sequence.
func CampaignUserPrompt(fields []Field, sequence []types.StepType) string {
	var sb strings.Builder
	sb.WriteString("## User-Provided Details\n\n")
	for _, f := range fields {
		fmt.Fprintf(&sb, "- **%s:** %s\n", f.Label, f.Value)
	}
	sb.WriteString("\n## Campaign Step Sequence\n\n")
	for i, step := range sequence {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, step)
	}
	return sb.String()
}
