package tmpl

import (
	"fmt"
	"strings"
)

// ValidationResult is the structured diagnostics of a template, produced
// without evaluating it. Errors are advisory: an invalid template still
// renders, with missing references degrading per Formatting.
type ValidationResult struct {
	IsValid      bool
	Dependencies []string
	Errors       []string
}

// ExtractDependencies returns the placeholder paths referenced by template,
// deduplicated in first-appearance order. Escaped literals do not count.
func ExtractDependencies(template string) []string {
	var deps []string
	seen := make(map[string]bool)
	for _, sp := range scan(template) {
		if sp.escaped || seen[sp.path] {
			continue
		}
		seen[sp.path] = true
		deps = append(deps, sp.path)
	}
	return deps
}

// Validate checks template against the set of declared field keys. It
// reports unbalanced braces and references whose root segment is not a
// declared field; nested paths are checked by root segment only, since the
// shape below a field's value is runtime data. Never returns an error.
func Validate(template string, availableFields []string) ValidationResult {
	res := ValidationResult{
		IsValid:      true,
		Dependencies: ExtractDependencies(template),
	}

	if !bracesBalanced(template) {
		res.IsValid = false
		res.Errors = append(res.Errors, "unbalanced braces in template")
	}

	known := make(map[string]bool, len(availableFields))
	for _, f := range availableFields {
		known[f] = true
	}
	for _, dep := range res.Dependencies {
		root := dep
		if i := strings.IndexByte(dep, '.'); i >= 0 {
			root = dep[:i]
		}
		if !known[root] {
			res.IsValid = false
			res.Errors = append(res.Errors, fmt.Sprintf("reference to unknown field %q", root))
		}
	}
	return res
}

// bracesBalanced walks the template counting unescaped braces.
func bracesBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && s[i+1] == '{' {
				if close := matchBrace(s, i+1); close >= 0 {
					i = close
					continue
				}
				i++ // stray escaped open brace, skip both bytes
			}
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
