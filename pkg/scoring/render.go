package scoring

import (
	"strings"

	"github.com/alantheprice/outreach/pkg/variables"
)

// textEscaper produces the entities the scoring service was built against:
// named entities for &, <, > and ", hex for '.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"\n", "<br>",
)

// Render converts plain step text into the HTML the scoring service expects:
// escaped text, line breaks as <br>, and every placeholder token wrapped in a
// custom-var span.
func Render(text string) string {
	return variables.Pattern.ReplaceAllString(textEscaper.Replace(text), `<span class="custom-var">$0</span>`)
}
