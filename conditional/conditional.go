// Package conditional evaluates conditional fields: an ordered list of
// (condition, renderValue) branches matched against a runtime value map,
// with the winning value optionally passed through template substitution and
// coerced to a checkbox state.
//
// Evaluation never fails on user-authored content. Ambiguous checkbox text
// resolves to unchecked and is reported as an advisory warning; circular or
// over-deep templates resolve to the tmpl package's sentinels.
package conditional

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lvillar/fieldpdf"
	"github.com/lvillar/fieldpdf/tmpl"
)

// reWholeRef matches a renderValue that is exactly one placeholder span.
// Such a value is a raw field reference: the referenced value keeps its
// original type instead of being stringified, so checkbox-mode booleans pass
// through untouched.
var reWholeRef = regexp.MustCompile(`^\{([^{}]+)\}$`)

// Checkbox coercion tables. Comparison is against the trimmed, lowercased
// string form of the resolved value.
var (
	trueValues  = map[string]bool{"true": true, "checked": true, "yes": true, "1": true}
	falseValues = map[string]bool{"false": true, "unchecked": true, "no": true, "0": true, "": true}
)

// EvaluateCondition applies one branch operator to a field's runtime value.
// equals and not-equals use the documented loose-equality coercion table;
// contains compares lowercased string forms; exists is true for any value
// that is non-null and not the empty string. Unknown operators match nothing.
func EvaluateCondition(op fieldpdf.Operator, fieldValue fieldpdf.Value, compare string) bool {
	switch op {
	case fieldpdf.OpEquals:
		return fieldValue.LooseEquals(fieldpdf.Str(compare))
	case fieldpdf.OpNotEquals:
		return !fieldValue.LooseEquals(fieldpdf.Str(compare))
	case fieldpdf.OpContains:
		return strings.Contains(strings.ToLower(fieldValue.String()), strings.ToLower(compare))
	case fieldpdf.OpExists:
		return exists(fieldValue)
	case fieldpdf.OpNotExists:
		return !exists(fieldValue)
	}
	return false
}

func exists(v fieldpdf.Value) bool {
	if v.IsNull() {
		return false
	}
	return !(v.Kind() == fieldpdf.KindString && v.String() == "")
}

// EvaluateField resolves a conditional field to its concrete value: a string
// for render-as-text fields, a boolean for render-as-checkbox fields.
//
// Branches are consulted in declared order and the first match wins; when
// none match (or there are no branches) the field's default value is the
// candidate. A candidate that is exactly one placeholder span is a raw field
// reference and preserves the referenced value's type; any other candidate
// containing braces goes through template substitution. An empty result
// falls back to the default value once.
func EvaluateField(f *fieldpdf.Field, values fieldpdf.ValueMap) (fieldpdf.Value, []fieldpdf.Warning) {
	candidate, usedDefault := selectCandidate(f, values)

	if m := reWholeRef.FindStringSubmatch(candidate); m != nil {
		raw := values.Lookup(strings.TrimSpace(m[1]))
		if f.RenderAs == fieldpdf.RenderAsCheckbox {
			return fieldpdf.Bool(rawChecked(raw)), nil
		}
		return fieldpdf.Str(raw.String()), nil
	}

	result := candidate
	if strings.ContainsAny(result, "{}") {
		result = tmpl.EvaluateWithContext(result, values, tmpl.Formatting{}, nil)
	}

	// One fallback to the default when the matched branch produced nothing.
	if result == "" && f.DefaultValue != "" && !usedDefault {
		result = f.DefaultValue
		if strings.ContainsAny(result, "{}") {
			result = tmpl.EvaluateWithContext(result, values, tmpl.Formatting{}, nil)
		}
	}

	if f.RenderAs == fieldpdf.RenderAsCheckbox {
		checked, warn := CoerceCheckbox(result)
		if warn != "" {
			return fieldpdf.Bool(checked), []fieldpdf.Warning{{FieldKey: f.Key, Message: warn}}
		}
		return fieldpdf.Bool(checked), nil
	}
	return fieldpdf.Str(result), nil
}

// selectCandidate scans the branches for the first matching condition.
func selectCandidate(f *fieldpdf.Field, values fieldpdf.ValueMap) (candidate string, usedDefault bool) {
	for i := range f.Branches {
		b := &f.Branches[i]
		fieldValue := values.Lookup(b.Condition.Field)
		if EvaluateCondition(b.Condition.Operator, fieldValue, b.Condition.Value) {
			return b.RenderValue, false
		}
	}
	return f.DefaultValue, true
}

// rawChecked decides the checkbox state of a raw (typed) referenced value:
// boolean true, or a string form lowercasing into the true set.
func rawChecked(v fieldpdf.Value) bool {
	if v.Kind() == fieldpdf.KindBool {
		return v.BoolValue()
	}
	return trueValues[strings.ToLower(v.String())]
}

// CoerceCheckbox maps resolved text to a checkbox state. A leading backslash
// marks the text as an escaped literal and always means unchecked. Values in
// neither coercion table resolve to unchecked with an advisory warning: a
// typo must not abort an export, but it should not silently pass either.
func CoerceCheckbox(s string) (checked bool, warning string) {
	if strings.HasPrefix(s, `\`) {
		return false, ""
	}
	norm := strings.ToLower(strings.TrimSpace(s))
	if trueValues[norm] {
		return true, ""
	}
	if falseValues[norm] {
		return false, ""
	}
	return false, fmt.Sprintf("ambiguous checkbox value %q resolved to unchecked", s)
}
