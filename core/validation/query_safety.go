package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Export jobs are read-only by contract: only SELECT and WITH (CTE)
// statements are accepted.
var allowedCommands = map[string]bool{
	"SELECT": true,
	"WITH":   true,
}

var forbiddenCommands = []string{
	"DELETE",
	"DROP",
	"TRUNCATE",
	"INSERT",
	"UPDATE",
	"ALTER",
	"CREATE",
	"GRANT",
	"REVOKE",
	"EXECUTE",
	"EXEC",
	"CALL",
	"MERGE",
	"COPY",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ValidateQuery checks that the query is a single read-only statement.
// Comments are stripped first so a command cannot hide behind them, and
// string literals are ignored so 'DELETE' as data is not a false positive.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query cannot be empty")
	}

	cleaned := stripComments(query)
	statements := splitStatements(cleaned)

	if len(statements) > 1 {
		return fmt.Errorf("only a single SQL statement is allowed")
	}

	for _, stmt := range statements {
		normalized := strings.ToUpper(whitespaceRe.ReplaceAllString(strings.TrimSpace(stmt), " "))
		if normalized == "" {
			continue
		}

		command := firstWord(normalized)
		if command == "" {
			return fmt.Errorf("unable to identify SQL command")
		}

		if !allowedCommands[command] {
			return fmt.Errorf("unsupported SQL command: %s (only SELECT and WITH are allowed)", command)
		}

		if forbidden := scanForbidden(normalized); forbidden != "" {
			return fmt.Errorf("forbidden SQL command detected: %s (read-only mode)", forbidden)
		}
	}

	return nil
}

func firstWord(normalized string) string {
	parts := strings.Fields(normalized)
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimRight(parts[0], ";,()")
}

// scanForbidden looks for forbidden commands anywhere in the statement,
// catching attempts hidden inside CTE bodies or subqueries. Returns the
// first offending command, or "".
func scanForbidden(normalized string) string {
	scrubbed := blankStringLiterals(normalized)
	for _, forbidden := range forbiddenCommands {
		pattern := fmt.Sprintf(`\b%s\b`, regexp.QuoteMeta(forbidden))
		if matched, err := regexp.MatchString(pattern, scrubbed); err == nil && matched {
			return forbidden
		}
	}
	return ""
}

// stripComments removes -- line comments and /* */ block comments while
// leaving string literals intact.
func stripComments(query string) string {
	var out strings.Builder
	inLine, inBlock, inString := false, false, false
	var quote byte

	for i := 0; i < len(query); i++ {
		c := query[i]

		if inLine {
			if c == '\n' {
				inLine = false
				out.WriteByte(c) // keep newline for statement splitting
			}
			continue
		}

		if inBlock {
			if c == '*' && i+1 < len(query) && query[i+1] == '/' {
				inBlock = false
				i++
			}
			continue
		}

		if inString {
			out.WriteByte(c)
			if c == quote {
				if i+1 < len(query) && query[i+1] == quote {
					out.WriteByte(query[i+1])
					i++
					continue
				}
				inString = false
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			inString = true
			quote = c
			out.WriteByte(c)
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			inLine = true
			i++
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			inBlock = true
			i++
		default:
			out.WriteByte(c)
		}
	}

	return out.String()
}

// splitStatements splits on semicolons that sit outside string literals.
func splitStatements(query string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	var quote byte

	for i := 0; i < len(query); i++ {
		c := query[i]

		if inString {
			current.WriteByte(c)
			if c == quote {
				if i+1 < len(query) && query[i+1] == quote {
					current.WriteByte(query[i+1])
					i++
					continue
				}
				inString = false
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			inString = true
			quote = c
			current.WriteByte(c)
		case c == ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// blankStringLiterals replaces string literal contents with spaces so word
// boundary scans ignore data.
func blankStringLiterals(query string) string {
	out := []byte(query)
	inString := false
	var quote byte

	for i := 0; i < len(out); i++ {
		c := out[i]
		if inString {
			if c == quote {
				if i+1 < len(out) && out[i+1] == quote {
					out[i+1] = ' '
					i++
					continue
				}
				inString = false
				continue
			}
			out[i] = ' '
			continue
		}
		if c == '\'' || c == '"' {
			inString = true
			quote = c
		}
	}

	return string(out)
}
