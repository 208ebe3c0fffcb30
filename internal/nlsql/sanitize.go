package nlsql

import (
	"fmt"
	"regexp"
	"strings"
)

const allowedTable = "transactions"

var allowedColumns = map[string]bool{
	"id": true, "ts": true, "amount": true,
	"ccy": true, "counterparty": true, "book": true,
}

var (
	selectPattern = regexp.MustCompile(`(?i)^\s*SELECT\b`)
	ddlDMLPattern = regexp.MustCompile(`(?i)\b(DROP|DELETE|UPDATE|INSERT|ALTER|CREATE|TRUNCATE|ATTACH|PRAGMA|VACUUM)\b`)
	fromPattern   = regexp.MustCompile(`(?i)\bFROM\s+([A-Za-z_][A-Za-z0-9_]*)`)
	joinPattern   = regexp.MustCompile(`(?i)\bJOIN\s+([A-Za-z_][A-Za-z0-9_]*)`)
	dotColPattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\.([A-Za-z_][A-Za-z0-9_]*)`)
	limitPattern  = regexp.MustCompile(`(?i)\bLIMIT\s+\d+\b`)
	fencePattern  = regexp.MustCompile("(?is)^```(?:sql)?\\s*|\\s*```$")
)

var aggregateFuncs = []string{"COUNT", "SUM", "AVG", "MIN", "MAX"}

// CleanLLMOutput strips markdown code fences and smart quotes a model may
// wrap around generated SQL.
func CleanLLMOutput(sql string) string {
	sql = fencePattern.ReplaceAllString(strings.TrimSpace(sql), "")
	sql = strings.ReplaceAll(sql, "’", "'")
	sql = strings.ReplaceAll(sql, "`", "")
	return strings.TrimSpace(sql)
}

// Sanitize validates generated SQL against the read-only guardrails and
// returns the statement that may actually run. Non-aggregate queries without
// a LIMIT get a default LIMIT 100.
func Sanitize(sql string) (string, error) {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimRight(sql, ";") + ";"

	if !selectPattern.MatchString(sql) {
		return "", fmt.Errorf("only SELECT queries are allowed")
	}
	if ddlDMLPattern.MatchString(sql) {
		return "", fmt.Errorf("destructive or unsafe SQL detected")
	}
	if !onlyAllowedTables(sql) {
		return "", fmt.Errorf("query references unknown or disallowed tables")
	}
	if !dotColumnsAllowed(sql) {
		return "", fmt.Errorf("query references unknown columns")
	}
	return addDefaultLimit(sql, 100), nil
}

// onlyAllowedTables requires every FROM/JOIN target to be the transactions
// table, and at least one FROM clause to be present.
func onlyAllowedTables(sql string) bool {
	for _, m := range fromPattern.FindAllStringSubmatch(sql, -1) {
		if !strings.EqualFold(m[1], allowedTable) {
			return false
		}
	}
	for _, m := range joinPattern.FindAllStringSubmatch(sql, -1) {
		if !strings.EqualFold(m[1], allowedTable) {
			return false
		}
	}
	return fromPattern.MatchString(sql)
}

func dotColumnsAllowed(sql string) bool {
	for _, m := range dotColPattern.FindAllStringSubmatch(sql, -1) {
		table, col := strings.ToLower(m[1]), strings.ToLower(m[2])
		if table != allowedTable || !allowedColumns[col] {
			return false
		}
	}
	return true
}

func isAggregate(sql string) bool {
	upper := strings.ToUpper(sql)
	for _, fn := range aggregateFuncs {
		if strings.Contains(upper, fn) {
			return true
		}
	}
	return false
}

func addDefaultLimit(sql string, limit int) string {
	if limitPattern.MatchString(sql) || isAggregate(sql) {
		return sql
	}
	return fmt.Sprintf("%s LIMIT %d;", strings.TrimRight(sql, ";"), limit)
}
