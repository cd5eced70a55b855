package tmpl

import "strings"

// span is one {path} placeholder located in a template, or a backslash
// escaped literal brace group.
type span struct {
	start, end int    // byte offsets in the template, end exclusive
	path       string // trimmed placeholder path; empty for escaped spans
	escaped    bool
	literal    string // replacement text for escaped spans
}

// scan locates placeholder spans in a single left-to-right pass, tracking
// brace depth so nested braces close correctly and never backtracking. A
// backslash before an opening brace escapes the whole group: `\{name}`
// renders as the literal `{name}`. Unmatched braces are left as plain text;
// Validate reports them as diagnostics.
func scan(s string) []span {
	var spans []span
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '{' {
			if close := matchBrace(s, i+1); close >= 0 {
				spans = append(spans, span{
					start:   i,
					end:     close + 1,
					escaped: true,
					literal: s[i+1 : close+1],
				})
				i = close + 1
				continue
			}
			i += 2
			continue
		}
		if s[i] == '{' {
			if close := matchBrace(s, i); close >= 0 {
				path := strings.TrimSpace(s[i+1 : close])
				if path != "" {
					spans = append(spans, span{start: i, end: close + 1, path: path})
				}
				i = close + 1
				continue
			}
		}
		i++
	}
	return spans
}

// matchBrace returns the offset of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// HasPlaceholders reports whether s contains at least one unescaped
// placeholder span.
func HasPlaceholders(s string) bool {
	for _, sp := range scan(s) {
		if !sp.escaped {
			return true
		}
	}
	return false
}
