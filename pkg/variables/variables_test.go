package variables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindInvalid_AllowListedTokensOnly(t *testing.T) {
	text := strings.Join(AllowList(), " and ")
	assert.Empty(t, FindInvalid(text))
	assert.Empty(t, FindInvalid("Hi {{firstName}},", "Speak {[tomorrow]}? {[senderFirstName]}"))
}

func TestFindInvalid_ReportsEachUnknownTokenOnce(t *testing.T) {
	subject := "{{wrongVar}} at {{company}}"
	body := "Hi {{wrongVar}}, see {[badVar]} and {[badVar]} again"

	assert.Equal(t, []string{"{{wrongVar}}", "{[badVar]}"}, FindInvalid(subject, body))
}

func TestFindInvalid_IsCaseSensitive(t *testing.T) {
	assert.Equal(t, []string{"{{FirstName}}"}, FindInvalid("Hello {{FirstName}}"))
}

func TestFindInvalid_ShapeMismatchIsInvalid(t *testing.T) {
	// role is allow-listed only in double-brace form
	assert.Equal(t, []string{"{[role]}"}, FindInvalid("the {[role]} position"))
}

func TestFindInvalid_MalformedAndEmptyInput(t *testing.T) {
	assert.Empty(t, FindInvalid())
	assert.Empty(t, FindInvalid(""))
	assert.Empty(t, FindInvalid("{{", "}}", "{[ ]}", "{{first name}}", "[link]", "{ {firstName} }"))
}

func TestTokens_MatchesBothShapesInOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"{[timeOfDay]}", "{{firstName}}", "{{x}}"},
		Tokens("Good {[timeOfDay]} {{firstName}} {{x}}"))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("{[senderCalendarLink]}"))
	assert.False(t, IsValid("{{senderCalendarLink}}"))
	assert.False(t, IsValid(""))
}

func TestAllowList_ReturnsCopy(t *testing.T) {
	list := AllowList()
	assert.Len(t, list, 12)
	list[0] = "mutated"
	assert.Equal(t, "{{firstName}}", AllowList()[0])
}
