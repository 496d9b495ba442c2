// Package variables recognises personalization placeholders ({{name}} and
// {[name]}) and checks them against the fixed allow-list.
package variables

import "regexp"

// Pattern matches both placeholder shapes.
var Pattern = regexp.MustCompile(`\{\{\w+\}\}|\{\[\w+\]\}`)

var allowList = []string{
	"{{firstName}}",
	"{[senderFirstName]}",
	"{{company}}",
	"{{previousCompany}}",
	"{{role}}",
	"{{city}}",
	"{[timeOfDay]}",
	"{[dayOfWeek]}",
	"{[tomorrow]}",
	"{[twoWorkingDays]}",
	"{[previousStepDay]}",
	"{[senderCalendarLink]}",
}

var allowed = func() map[string]struct{} {
	m := make(map[string]struct{}, len(allowList))
	for _, v := range allowList {
		m[v] = struct{}{}
	}
	return m
}()

// AllowList returns a copy of the accepted placeholders in catalogue order.
func AllowList() []string {
	out := make([]string, len(allowList))
	copy(out, allowList)
	return out
}

// IsValid reports whether token is exactly one of the allow-listed placeholders.
func IsValid(token string) bool {
	_, ok := allowed[token]
	return ok
}

// Tokens returns every placeholder in text, in order of appearance.
func Tokens(text string) []string {
	return Pattern.FindAllString(text, -1)
}

// FindInvalid returns the distinct placeholders across texts that are not
// allow-listed, in first-seen order.
func FindInvalid(texts ...string) []string {
	var invalid []string
	seen := make(map[string]struct{})
	for _, text := range texts {
		for _, token := range Tokens(text) {
			if IsValid(token) {
				continue
			}
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			invalid = append(invalid, token)
		}
	}
	return invalid
}
