package fieldpdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller-contract violations in field descriptors. User
// authored template and branch content never produces these; malformed user
// content degrades to sentinels and warnings instead.
var (
	ErrMissingKey       = errors.New("fieldpdf: field has no key")
	ErrDuplicateKey     = errors.New("fieldpdf: duplicate field key")
	ErrUnknownType      = errors.New("fieldpdf: unknown field type")
	ErrInvalidPage      = errors.New("fieldpdf: page must be 1-based")
	ErrNoOptionMappings = errors.New("fieldpdf: options field has no mappings")
	ErrInvalidMaxDepth  = errors.New("fieldpdf: max depth must be positive")
	ErrNilSurface       = errors.New("fieldpdf: surface is nil")
)

// FieldError reports a failure while rendering a specific field. It wraps an
// underlying error and carries the field key and operation for context.
type FieldError struct {
	Key string // field key
	Op  string // operation name, e.g. "layout", "barcode"
	Err error  // underlying error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fieldpdf: field %q: %s: %v", e.Key, e.Op, e.Err)
	}
	return fmt.Sprintf("fieldpdf: field %q: %s: unknown error", e.Key, e.Op)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Warning is an advisory diagnostic produced while evaluating user-authored
// content. Warnings never abort a render; the condition they describe has
// already been resolved to a defined sentinel or default.
type Warning struct {
	FieldKey string // key of the field being evaluated, if known
	Message  string
}

func (w Warning) String() string {
	if w.FieldKey == "" {
		return w.Message
	}
	return fmt.Sprintf("field %q: %s", w.FieldKey, w.Message)
}
