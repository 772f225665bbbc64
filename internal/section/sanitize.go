package section

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// richTextPolicy is the allowlist applied to the few fields that may carry
// markup (job description, company description, custom section content).
// Only basic formatting tags survive and every attribute is stripped.
var richTextPolicy = newRichTextPolicy()

func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ul", "ol", "li", "br", "div", "p")
	return p
}

// RichText sanitizes a rich-text field through the allowlist and marks the
// result safe for template interpolation. Everything not explicitly allowed
// is removed, so user input can never introduce attributes or scripts.
func RichText(s string) template.HTML {
	return template.HTML(richTextPolicy.Sanitize(s)) // #nosec G203 -- sanitized above
}
