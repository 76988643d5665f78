package crm

import (
	"fmt"
	"strings"
)

// The CRM's filter language takes SQL-ish clauses with single-quoted string
// literals. Values are always escaped before interpolation.

// EscapeString escapes quotes, backslashes and control characters for use
// inside a single-quoted filter literal.
func EscapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Eq builds an equality clause against a string literal
func Eq(field, value string) string {
	return fmt.Sprintf("%s = '%s'", field, EscapeString(value))
}

// In builds a membership clause; empty input yields an empty clause
func In(field string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, "'"+EscapeString(v)+"'")
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(quoted, ", "))
}

// Like builds a contains clause
func Like(field, value string) string {
	return fmt.Sprintf("%s LIKE '%%%s%%'", field, EscapeString(value))
}

// Or joins non-empty clauses with OR
func Or(clauses ...string) string {
	nonEmpty := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return strings.Join(nonEmpty, " OR ")
}
