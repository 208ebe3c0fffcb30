package nlsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeAllowsSelect(t *testing.T) {
	out, err := Sanitize("SELECT * FROM transactions WHERE ccy = 'USD' LIMIT 5")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM transactions WHERE ccy = 'USD' LIMIT 5;", out)
}

func TestSanitizeAddsDefaultLimit(t *testing.T) {
	out, err := Sanitize("SELECT * FROM transactions WHERE ccy = 'EUR'")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM transactions WHERE ccy = 'EUR' LIMIT 100;", out)
}

func TestSanitizeNoLimitForAggregates(t *testing.T) {
	out, err := Sanitize("SELECT COUNT(*) FROM transactions")
	require.NoError(t, err)
	assert.NotContains(t, out, "LIMIT")
}

func TestSanitizeBlocksNonSelect(t *testing.T) {
	for _, sql := range []string{
		"DELETE FROM transactions",
		"UPDATE transactions SET amount = 0",
		"WITH x AS (SELECT 1) SELECT * FROM x",
	} {
		_, err := Sanitize(sql)
		assert.Error(t, err, sql)
	}
}

func TestSanitizeBlocksDDLInsideSelect(t *testing.T) {
	_, err := Sanitize("SELECT * FROM transactions; DROP TABLE transactions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsafe")
}

func TestSanitizeBlocksUnknownTables(t *testing.T) {
	_, err := Sanitize("SELECT * FROM users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tables")

	_, err = Sanitize("SELECT * FROM transactions JOIN users ON users.id = transactions.id")
	require.Error(t, err)
}

func TestSanitizeRequiresFrom(t *testing.T) {
	_, err := Sanitize("SELECT 1")
	require.Error(t, err)
}

func TestSanitizeBlocksUnknownDottedColumns(t *testing.T) {
	_, err := Sanitize("SELECT transactions.password FROM transactions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}

func TestSanitizeAllowsDottedAllowlist(t *testing.T) {
	out, err := Sanitize("SELECT transactions.amount FROM transactions ORDER BY transactions.ts")
	require.NoError(t, err)
	assert.Contains(t, out, "LIMIT 100")
}

func TestCleanLLMOutput(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"```sql\nSELECT 1;\n```", "SELECT 1;"},
		{"```\nSELECT 1;\n```", "SELECT 1;"},
		{"SELECT * FROM `transactions`;", "SELECT * FROM transactions;"},
		{"SELECT 'it’s';", "SELECT 'it's';"},
		{"  SELECT 1;  ", "SELECT 1;"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanLLMOutput(tc.in), tc.in)
	}
}
