package render

import (
	"github.com/lvillar/fieldpdf"
	"github.com/lvillar/fieldpdf/tmpl"
)

// Option is a functional option for configuring a Pipeline via New.
type Option func(*Pipeline)

// WithFormatting sets the template formatting applied to composite-text and
// conditional substitution.
func WithFormatting(f tmpl.Formatting) Option {
	return func(p *Pipeline) {
		p.formatting = f
	}
}

// WithMaxDepth sets the nested-template depth bound. New panics on a
// non-positive value: the bound guards against runaway user content, and a
// caller disabling it is a programming error.
func WithMaxDepth(n int) Option {
	return func(p *Pipeline) {
		p.maxDepth = n
	}
}

// WithWarningFunc registers a callback invoked for every advisory warning as
// it is produced, in addition to the warnings returned by RenderPage.
func WithWarningFunc(fn func(fieldpdf.Warning)) Option {
	return func(p *Pipeline) {
		p.warn = fn
	}
}

// WithDefaultSize sets the box size assumed for placed fields whose
// descriptor omits one.
func WithDefaultSize(width, height float64) Option {
	return func(p *Pipeline) {
		p.defaultSize = fieldpdf.Size{Width: width, Height: height}
	}
}
