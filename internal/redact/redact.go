// Package redact masks PII patterns (emails, account numbers, phone numbers)
// in free text before it reaches an external model or a response body.
package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order: account-number digit runs are masked before
// phone numbers so a bare 12-digit number becomes [ACCT], not [PHONE].
var rules = []rule{
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL]"},
	{regexp.MustCompile(`\b\d{7,}\b`), "[ACCT]"},
	{regexp.MustCompile(`\b\+?\d[\d\s\-()]{7,}\b`), "[PHONE]"},
}

// Apply returns text with every match of the PII patterns replaced by its
// category placeholder. Non-matching text is untouched; placeholders contain
// no digits or '@', so applying twice yields the same result.
func Apply(text string) string {
	if text == "" {
		return text
	}
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.placeholder)
	}
	return text
}

// Changed reports whether redaction would alter text.
func Changed(text string) bool {
	return Apply(text) != text
}
