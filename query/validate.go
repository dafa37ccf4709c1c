package query

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// StructurallyValid is the cheap pre-network gate: after stripping line
// comments, the document must start with "query", "mutation" or "{", and
// braces must balance (running depth never negative, ending at zero).
// This is a syntactic sanity check, not a grammar parse.
func StructurallyValid(text string) bool {
	stripped := stripComments(text)
	if stripped == "" {
		return false
	}

	if !strings.HasPrefix(stripped, "query") &&
		!strings.HasPrefix(stripped, "mutation") &&
		!strings.HasPrefix(stripped, "{") {
		return false
	}

	depth := 0
	for _, r := range stripped {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// Validate runs a full grammar parse and returns the parser's positioned
// error message. Used by the offline `validate` command where a real
// diagnostic beats a boolean.
func Validate(name, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%s: empty query document", name)
	}
	if _, err := parser.ParseQuery(&ast.Source{Name: name, Input: text}); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func stripComments(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
