package prompts

// CompanySentinel is the hiring company name used in the hiring-name sample.
// Generated text that copies it is rewritten with the real company name.
const CompanySentinel = "SWCompanyExample"

// Sample is one few-shot user/assistant exchange.
type Sample struct {
	User      string
	Assistant string
}

// SampleKind selects a campaign few-shot sample.
type SampleKind int

const (
	SampleBusinessDevelopment SampleKind = iota
	SampleCandidateSpec
	SampleSourcingHiringName
	SampleSourcingNonHiringName
	SampleSourcingInHouse
)

func (k SampleKind) String() string {
	switch k {
	case SampleBusinessDevelopment:
		return "business-development"
	case SampleCandidateSpec:
		return "candidate-spec"
	case SampleSourcingHiringName:
		return "sourcing-hiring-name"
	case SampleSourcingNonHiringName:
		return "sourcing-non-hiring-name"
	case SampleSourcingInHouse:
		return "sourcing-in-house"
	default:
		return "unknown"
	}
}

// CampaignSample returns the few-shot exchange for kind.
func CampaignSample(kind SampleKind) Sample {
	return campaignSamples[kind]
}

var campaignSamples = map[SampleKind]Sample{
	SampleSourcingNonHiringName: {
		User: `## User-Provided Details

- **Include Hiring Company Name:** no
- **Hiring Company Name:**
- **Position title & description:** Head of Product, building product management practice from the ground up, owning strategy and agile delivery, and shaping the roadmap around the company mission
- **Job Location:** Oregon
- **Call to action:** Ask the candidate whether they would like to discuss the role in more detail
- **Additional context:** Works closely with the CEO, remote options available

## Campaign Step Sequence

1. email
2. phoneCall
3. email
4. phoneCall
5. email
6. linkedinConnectionRequest`,
		Assistant: `{"title": "Search - Head of Product, Oregon", "templates": [` +
			`{"subject": "{{firstName}}: Head of Product - Oregon", "body": "Dear {{firstName}},\n\nI'm working on a Head of Product role in Oregon that lines up closely with your background. My client wants someone to own their product practice from strategy through delivery.\n\nYour time at {{company}} stood out. Would a short conversation be useful?\n\nKind regards,\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Call candidate", "mailType": "phoneCall"}, ` +
			`{"subject": "{{firstName}}: Head of Product - Oregon", "body": "Hi {{firstName}},\n\nI wrote to you on {[previousStepDay]} about a Head of Product role. Emails like that often end up filtered, so I wanted to try again.\n\nThe role shapes the product roadmap and builds the team's processes from scratch. Is it worth a chat?\n\nRegards,\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Call candidate", "mailType": "phoneCall"}, ` +
			`{"subject": "{{firstName}}: Head of Product - Oregon", "body": "Hi {{firstName}}, I know you're busy.\n\nCould we talk {[tomorrow]} or {[twoWorkingDays]}? If someone else is a better contact, let me know.\n\nRegards,\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Hi {{firstName}},\n\nI focus on product hiring across the tech space and would be glad to connect.", "mailType": "linkedinConnectionRequest"}]}`,
	},
	SampleSourcingHiringName: {
		User: `## User-Provided Details

- **Include Hiring Company Name:** yes
- **Hiring Company Name:** SWCompanyExample
- **Position title & description:** Oracle Database Developer - PL/SQL
- **Job Location:** Remote
- **Call to action:** Discuss next steps tomorrow

## Campaign Step Sequence

1. email
2. inmail
3. sms
4. email
5. phoneCall
6. linkedinConnectionRequest`,
		Assistant: `{"title": "SWCompanyExample - PL/SQL - Oracle Database Developer", "templates": [` +
			`{"subject": "{{firstName}}, quick question", "body": "Good {[timeOfDay]} {{firstName}}, happy {[dayOfWeek]}!\n\nYour work as a {{role}} at {{company}} caught my eye.\n\nAre you open to a change? SWCompanyExample has a remote Oracle Database Developer role and is looking for someone with your experience.\n\nDo you have time {[tomorrow]} to talk?", "mailType": "email"}, ` +
			`{"subject": "{{firstName}}, do you have a minute?", "body": "Good {[timeOfDay]} {{firstName}},\n\nI emailed you {[previousStepDay]} about a PL/SQL role at SWCompanyExample.\n\nCould we speak later today or {[tomorrow]}?\n\n{[senderFirstName]}", "mailType": "inmail"}, ` +
			`{"body": "{{firstName}}, it's {[senderFirstName]}. SWCompanyExample has a remote PL/SQL developer opening that fits your background. Free for a quick call?", "mailType": "sms"}, ` +
			`{"subject": "{{firstName}}, quick question", "body": "Hi {{firstName}},\n\nFollowing up on my earlier note about SWCompanyExample.\n\nAre you free for a short chat {[tomorrow]}?\n\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Call candidate", "mailType": "phoneCall"}, ` +
			`{"body": "{{firstName}}, I'd like to connect and share networks. If you ever explore the market, let me know.", "mailType": "linkedinConnectionRequest"}]}`,
	},
	SampleSourcingInHouse: {
		User: `## User-Provided Details

- **Position title & description:** Head of Product at our fintech company, active in 13 markets. Owns product strategy and agile delivery, shapes the roadmap and drives growth of new products.
- **Job Location:** Oregon
- **Call to action:** Ask the candidate whether they would like to discuss the role in more detail
- **Additional context:** Works closely with the CEO, remote options available

## Campaign Step Sequence

1. email
2. phoneCall
3. email
4. linkedinConnectionRequest
5. email`,
		Assistant: `{"title": "Head of Product Outreach - Oregon", "templates": [` +
			`{"subject": "{{firstName}}: Head of Product - Oregon", "body": "Dear {{firstName}},\n\nWe're hiring a Head of Product to help our fintech business grow across 13 markets.\n\nYour experience at {{company}} looks like a strong match for someone who will set our product direction from Oregon. What date suits you for a conversation?\n\nKind regards,\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Call candidate", "mailType": "phoneCall"}, ` +
			`{"subject": "{{firstName}}: Head of Product - Oregon", "body": "Hi {{firstName}},\n\nI messaged you on {[previousStepDay]} about the Head of Product role on our team. The person we hire will lead new product development and grow our existing lines.\n\nWhat do you think?\n\nRegards,\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Hi {{firstName}},\n\nI emailed about our Head of Product role. We're growing our Oregon hub and would be glad to connect.\n\n{[senderFirstName]}", "mailType": "linkedinConnectionRequest"}, ` +
			`{"subject": "{{firstName}}: Head of Product - Oregon", "body": "Hi {{firstName}},\n\nInboxes get busy, so this is my last note about the role. If now isn't the time, just say so and I'll stay in touch.\n\nRegards,\n{[senderFirstName]}", "mailType": "email"}]}`,
	},
	SampleBusinessDevelopment: {
		User: `## User-Provided Details

- **What we offer:** A sourcing platform for recruiters that books meetings with candidates and clients and raises response rates.
- **Pain point:** Recruiters find it harder to win new business and to get replies from existing candidates.
- **Value proposition:** Connects to the CRM, email and LinkedIn a team already uses, keeps outreach targeted and tracks every touchpoint.
- **Call to action:** Book a short call to see how the platform would work for them
- **Additional context:** Recruiters using it are shifting from pure sourcing towards more business development.

## Campaign Step Sequence

1. email
2. phoneCall
3. linkedinConnectionRequest
4. inmail
5. email`,
		Assistant: `{"title": "BD Outreach - Nurture", "templates": [` +
			`{"subject": "More meetings for {{company}}", "body": "{{firstName}},\n\nMany recruiters tell us new business and candidate replies are harder to come by this year.\n\nIf that sounds familiar at {{company}}, our platform helps recruiters book more meetings with candidates and clients.\n\nOpen to a quick chat?\n\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Call to discuss email", "mailType": "phoneCall"}, ` +
			`{"body": "{{firstName}}, good to connect! I sent an email across {[previousStepDay]} and guessed your inbox might be busy.", "mailType": "linkedinConnectionRequest"}, ` +
			`{"subject": "How {{company}} could book more meetings", "body": "Hi {{firstName}}, my first email didn't explain how it works. We plug into your CRM, email and LinkedIn so outreach stays targeted and nothing is missed. Worth a look?", "mailType": "inmail"}, ` +
			`{"subject": "More meetings for {{company}}", "body": "{{firstName}},\n\nI'm guessing a business development push isn't the priority right now, which is fine.\n\nShall we catch up later in the year? You can pick a time here: {[senderCalendarLink]}\n\n{[senderFirstName]}", "mailType": "email"}]}`,
	},
	SampleCandidateSpec: {
		User: `## User-Provided Details

- **Candidate experience and qualifications:** Principal Firmware Engineer
- **Candidate key skills:** 20+ years in embedded software; robotics, surgical equipment and heart pumps; Bluetooth and wireless devices
- **Call to action:** Book a call this week to discuss next steps
- **Additional context:** The candidate is looking for a role in Boston, MA

## Campaign Step Sequence

1. email
2. linkedinConnectionRequest
3. email
4. phoneCall
5. email`,
		Assistant: `{"title": "Spec - Principal Firmware Engineer - Boston, MA", "templates": [` +
			`{"subject": "Principal Firmware Engineer looking in Boston, MA", "body": "Hi {{firstName}},\n\nI represent a Principal Firmware Engineer who is looking for a role in Boston and asked me to introduce them to {{company}}.\n\n- 20+ years in embedded software\n- Robotics, surgical equipment and heart pumps\n- Bluetooth and wireless devices\n\nAre you free this week to talk about next steps?\n\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Hi {{firstName}},\n\nI work with several engineers who would like an introduction to {{company}}. Happy to connect?\n\n{[senderFirstName]}", "mailType": "linkedinConnectionRequest"}, ` +
			`{"subject": "Principal Firmware Engineer looking in Boston, MA", "body": "Hi {{firstName}},\n\nFollowing up on the Principal Firmware Engineer who named {{company}} as a target. They can start immediately and have 8+ years in complex medical devices.\n\nCould we set up an introductory call {[tomorrow]}?\n\n{[senderFirstName]}", "mailType": "email"}, ` +
			`{"body": "Call client", "mailType": "phoneCall"}, ` +
			`{"subject": "Principal Firmware Engineer looking in Boston, MA", "body": "Hi {{firstName}},\n\nI tried your phone {[previousStepDay]}. If {{company}} isn't adding headcount right now, I'd still be glad to share how similar teams have used this kind of hire.\n\nWhen works for a short call?\n\n{[senderFirstName]}", "mailType": "email"}]}`,
	},
}
