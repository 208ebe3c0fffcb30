package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyNone(t *testing.T) {
	out, err := Apply(StyleNone, "Summarize Basel III in 2 bullet points.")
	require.NoError(t, err)
	assert.Equal(t, "Summarize Basel III in 2 bullet points.", out)

	out, err = Apply("", "same as none")
	require.NoError(t, err)
	assert.Equal(t, "same as none", out)
}

func TestApplyExecutiveBullets(t *testing.T) {
	out, err := Apply(StyleExecutiveBullets, "The bank improved its CET1 ratio.")
	require.NoError(t, err)
	assert.Contains(t, out, "3 concise executive bullet points")
	assert.Contains(t, out, "The bank improved its CET1 ratio.")
}

func TestApplyUnknownStyle(t *testing.T) {
	_, err := Apply("haiku", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown style")
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(""))
	assert.True(t, Valid(StyleELI5))
	assert.True(t, Valid(StyleRisksOnly))
	assert.False(t, Valid("haiku"))
}

func TestAllClosedSet(t *testing.T) {
	all := All()
	assert.Len(t, all, 4)
	assert.Contains(t, all, StyleExecutiveBullets)
}

func TestRender(t *testing.T) {
	out, err := Render("Hello {{name}}, your balance is {{amount}}.",
		map[string]string{"name": "desk", "amount": "42"})
	require.NoError(t, err)
	assert.Equal(t, "Hello desk, your balance is 42.", out)
}

func TestRenderMissingVariable(t *testing.T) {
	_, err := Render("Hi {{name}}", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing template variables: name")
}

func TestExtractVariables(t *testing.T) {
	vars := ExtractVariables("{{a}} {{b}} {{a}}")
	assert.Equal(t, []string{"a", "b"}, vars)
}
