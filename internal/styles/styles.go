// Package styles holds the preset prompt styles: a closed enumeration of
// instruction templates, not an extension point.
package styles

import (
	"fmt"
	"sort"
)

type Style string

const (
	StyleNone             Style = "none"
	StyleExecutiveBullets Style = "executive_bullets"
	StyleELI5             Style = "eli5"
	StyleRisksOnly        Style = "risks_only"
)

// DefaultSystemPrompt keeps answers concise and in a banking-research tone.
const DefaultSystemPrompt = "You are a helpful banking research assistant. " +
	"Be concise, accurate, and cite if context is provided."

var templates = map[Style]string{
	StyleNone:             "{{text}}",
	StyleExecutiveBullets: "Summarize this in exactly 3 concise executive bullet points:\n\n{{text}}",
	StyleELI5:             "Explain this simply, like I'm five. Avoid jargon:\n\n{{text}}",
	StyleRisksOnly:        "List only the risks mentioned in the following text. Do not add anything not present:\n\n{{text}}",
}

// Valid reports whether s names a known style. The empty string counts as
// StyleNone.
func Valid(s Style) bool {
	if s == "" {
		return true
	}
	_, ok := templates[s]
	return ok
}

// Apply renders the style's instruction template around the user text.
func Apply(s Style, text string) (string, error) {
	if s == "" {
		s = StyleNone
	}
	tmpl, ok := templates[s]
	if !ok {
		return "", fmt.Errorf("unknown style %q", s)
	}
	return Render(tmpl, map[string]string{"text": text})
}

// All lists the known styles in stable order.
func All() []Style {
	out := make([]Style, 0, len(templates))
	for s := range templates {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
