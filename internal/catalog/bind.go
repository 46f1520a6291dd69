package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// Bind rewrites :name placeholders to positional ? markers and returns the
// matching argument list. Placeholders inside string literals, quoted
// identifiers and comments are left alone, as are :: casts. A nil parameter
// value binds SQL NULL; a parameter absent from params is an error.
func Bind(query string, params models.Params) (string, []any, error) {
	var (
		b       strings.Builder
		args    []any
		missing []string
	)
	b.Grow(len(query))

	scan(query, func(text string, name string) {
		if name == "" {
			b.WriteString(text)
			return
		}
		v, ok := params[name]
		if !ok {
			if !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
			return
		}
		b.WriteByte('?')
		args = append(args, v)
	})

	if len(missing) > 0 {
		return "", nil, fmt.Errorf("missing query parameters: %s", strings.Join(missing, ", "))
	}
	return b.String(), args, nil
}

// Placeholders returns the distinct parameter names referenced by query.
func Placeholders(query string) []string {
	var names []string
	scan(query, func(_ string, name string) {
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	})
	return names
}

// scan splits query into literal text and placeholder names, calling emit
// for each piece in order.
func scan(query string, emit func(text, name string)) {
	start := 0
	flush := func(end int) {
		if end > start {
			emit(query[start:end], "")
		}
	}

	for i := 0; i < len(query); {
		c := query[i]
		switch {
		case c == '\'' || c == '"':
			i = skipQuoted(query, i, c)
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			i = skipUntil(query, i+2, "\n")
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			i = skipUntil(query, i+2, "*/")
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			i += 2
		case c == ':' && i+1 < len(query) && isIdentStart(query[i+1]):
			j := i + 1
			for j < len(query) && isIdentPart(query[j]) {
				j++
			}
			flush(i)
			emit("", query[i+1:j])
			i = j
			start = j
		default:
			i++
		}
	}
	flush(len(query))
}

// skipQuoted returns the index after the literal opened at i. Doubled
// quotes inside the literal are escapes.
func skipQuoted(s string, i int, quote byte) int {
	i++
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

func skipUntil(s string, i int, end string) int {
	if k := strings.Index(s[i:], end); k >= 0 {
		return i + k + len(end)
	}
	return len(s)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
