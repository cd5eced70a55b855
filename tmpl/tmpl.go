// Package tmpl evaluates {path} placeholder templates against a runtime
// value map.
//
// Paths resolve with dot-separated nested lookup; a resolved string value may
// itself contain placeholders and is evaluated in turn. Recursion is bounded
// by an explicit visited set and depth counter rather than the host call
// stack, so self-referential user templates terminate deterministically with
// a fixed sentinel instead of overflowing. Malformed templates never produce
// an error here: Validate reports diagnostics, evaluation degrades.
package tmpl

import (
	"regexp"
	"strings"

	"github.com/lvillar/fieldpdf"
)

// Sentinels substituted in place of values that are unsafe to resolve.
const (
	CircularRef      = "[Circular Reference]"
	MaxDepthExceeded = "[Max Depth Exceeded]"
)

// DefaultMaxDepth bounds nested template resolution.
const DefaultMaxDepth = 10

// Empty-value behaviors for Formatting.EmptyValueBehavior.
const (
	EmptySkip        = "skip"        // substitute the empty string (default)
	EmptyPlaceholder = "placeholder" // substitute "[path]"
)

// SeparatorsSmart enables separator cleanup after substitution: repeated
// commas and periods collapse, leading and trailing commas are stripped,
// whitespace runs collapse.
const SeparatorsSmart = "smart"

// WhitespaceNormalize collapses all whitespace to single spaces and trims.
const WhitespaceNormalize = "normalize"

// Formatting controls how resolved values and the substituted result are
// post-processed. The zero value substitutes empty strings for missing
// values and leaves the text otherwise untouched.
type Formatting struct {
	EmptyValueBehavior string
	SeparatorHandling  string
	WhitespaceHandling string
}

// Context carries the cycle and depth bookkeeping of one evaluation. The
// zero of MaxDepth is not usable; build contexts with NewContext.
type Context struct {
	Visited  map[string]bool // paths already resolved on this evaluation branch
	Depth    int
	MaxDepth int
}

// NewContext returns a fresh evaluation context with DefaultMaxDepth.
func NewContext() *Context {
	return &Context{Visited: make(map[string]bool), MaxDepth: DefaultMaxDepth}
}

// child derives the context for resolving a nested template reached through
// path. The visited set is copied: sibling spans may legitimately resolve
// the same path; only a path recurring on its own branch is circular.
func (c *Context) child(path string) *Context {
	visited := make(map[string]bool, len(c.Visited)+1)
	for k := range c.Visited {
		visited[k] = true
	}
	visited[path] = true
	return &Context{Visited: visited, Depth: c.Depth + 1, MaxDepth: c.MaxDepth}
}

// Evaluate substitutes placeholders in template using a fresh default
// context. It is the convenience entry point for call sites whose templates
// are known acyclic; pathological input still terminates via the default
// depth guard.
func Evaluate(template string, data fieldpdf.ValueMap, f Formatting) string {
	return EvaluateWithContext(template, data, f, nil)
}

// EvaluateWithContext substitutes placeholders in template, threading ctx
// through nested resolutions. A nil ctx gets a fresh default context.
//
// A non-positive MaxDepth on a caller-supplied context is a programming
// error and panics with fieldpdf.ErrInvalidMaxDepth; everything originating
// from template content degrades to a sentinel or default instead.
func EvaluateWithContext(template string, data fieldpdf.ValueMap, f Formatting, ctx *Context) string {
	if ctx == nil {
		ctx = NewContext()
	}
	if ctx.MaxDepth <= 0 {
		panic(fieldpdf.ErrInvalidMaxDepth)
	}
	if ctx.Visited == nil {
		ctx.Visited = make(map[string]bool)
	}

	spans := scan(template)
	if len(spans) == 0 && f.SeparatorHandling != SeparatorsSmart && f.WhitespaceHandling != WhitespaceNormalize {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, sp := range spans {
		b.WriteString(template[last:sp.start])
		if sp.escaped {
			b.WriteString(sp.literal)
		} else {
			b.WriteString(resolveSpan(sp.path, data, f, ctx))
		}
		last = sp.end
	}
	b.WriteString(template[last:])

	out := b.String()
	if f.SeparatorHandling == SeparatorsSmart {
		out = smartSeparators(out)
	}
	if f.WhitespaceHandling == WhitespaceNormalize {
		out = normalizeWhitespace(out)
	}
	return out
}

// resolveSpan produces the substitution text for one placeholder.
func resolveSpan(path string, data fieldpdf.ValueMap, f Formatting, ctx *Context) string {
	val := data.Lookup(path)

	if val.Kind() == fieldpdf.KindString && HasPlaceholders(val.String()) {
		if ctx.Visited[path] {
			return CircularRef
		}
		child := ctx.child(path)
		if child.Depth >= child.MaxDepth {
			return MaxDepthExceeded
		}
		return EvaluateWithContext(val.String(), data, f, child)
	}

	s := val.String()
	if val.IsNull() || s == "" {
		if f.EmptyValueBehavior == EmptyPlaceholder {
			return "[" + path + "]"
		}
		return ""
	}
	return strings.TrimSpace(s)
}

var (
	reRepeatedCommas  = regexp.MustCompile(`,(\s*,)+`)
	reRepeatedPeriods = regexp.MustCompile(`\.(\s*\.)+`)
	reLeadingComma    = regexp.MustCompile(`^\s*,\s*`)
	reTrailingComma   = regexp.MustCompile(`\s*,\s*$`)
	reSpaceRun        = regexp.MustCompile(`\s{2,}`)
	reWhitespace      = regexp.MustCompile(`\s+`)
)

func smartSeparators(s string) string {
	s = reRepeatedCommas.ReplaceAllString(s, ",")
	s = reRepeatedPeriods.ReplaceAllString(s, ".")
	s = reLeadingComma.ReplaceAllString(s, "")
	s = reTrailingComma.ReplaceAllString(s, "")
	return reSpaceRun.ReplaceAllString(s, " ")
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
