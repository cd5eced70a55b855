// Package layout performs text layout inside a field box: greedy word
// wrapping, per-line horizontal alignment, block vertical centering, and
// auto-size shrinking.
//
// Glyph metrics live in the PDF primitive library, so all measurement goes
// through an injected WidthFunc. Coordinates are offsets from the box's
// bottom-left corner in drawing space (Y grows upward), ready to add to the
// converted field position.
package layout

import (
	"strings"

	"github.com/lvillar/fieldpdf"
)

// WidthFunc measures the rendered width of text at a font size. The font
// face is bound by the caller.
type WidthFunc func(text string, fontSize float64) float64

// Defaults applied for zero-valued Params fields.
const (
	DefaultFontSize   = 12
	DefaultLineHeight = 1.2
	MinFontSize       = 6
)

// Params describes the box and type settings of one layout run.
type Params struct {
	Width, Height float64
	Padding       fieldpdf.Padding
	FontSize      float64 // 0 means DefaultFontSize
	LineHeight    float64 // multiplier; 0 means DefaultLineHeight
	Align         fieldpdf.TextAlign
	AutoSize      bool
}

// Line is one laid-out line of text. X and Y are offsets from the field
// box's bottom-left corner; Y names the text baseline.
type Line struct {
	Text string
	X, Y float64
}

// Result is the placed output of a layout run, including the possibly
// shrunken font size.
type Result struct {
	Lines    []Line
	FontSize float64
}

// Layout places text within the box described by p.
//
// With AutoSize the font size shrinks one point at a time (floor
// MinFontSize) until the whole text fits the available width on a single
// vertically centered line. Otherwise words accumulate greedily into lines
// while they fit, lines stack at fontSize*lineHeight, and the block is
// vertically centered. Horizontal position is recomputed per line because
// wrapped lines have different widths.
func Layout(text string, p Params, widthOf WidthFunc) Result {
	size := p.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	avail := p.Width - p.Padding.Left - p.Padding.Right
	if avail < 0 {
		avail = 0
	}

	if p.AutoSize {
		for size > MinFontSize && widthOf(text, size) > avail {
			size--
		}
		return Result{
			FontSize: size,
			Lines: []Line{{
				Text: text,
				X:    alignX(text, size, p, widthOf),
				Y:    (p.Height - size) / 2,
			}},
		}
	}

	lh := p.LineHeight
	if lh <= 0 {
		lh = DefaultLineHeight
	}
	lineH := size * lh

	wrapped := wrap(text, avail, size, widthOf)
	blockTop := (p.Height + lineH*float64(len(wrapped))) / 2

	lines := make([]Line, len(wrapped))
	for i, s := range wrapped {
		lines[i] = Line{
			Text: s,
			X:    alignX(s, size, p, widthOf),
			Y:    blockTop - lineH*float64(i+1) + (lineH-size)/2,
		}
	}
	return Result{Lines: lines, FontSize: size}
}

// wrap splits text into lines no wider than avail. Explicit newlines force
// breaks; within a paragraph words accumulate while the candidate line still
// fits. A single word wider than the box gets its own overflowing line.
func wrap(text string, avail, fontSize float64, widthOf WidthFunc) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if widthOf(candidate, fontSize) <= avail {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// alignX computes a line's horizontal offset within the box.
func alignX(line string, fontSize float64, p Params, widthOf WidthFunc) float64 {
	switch p.Align {
	case fieldpdf.AlignCenter:
		return (p.Width - widthOf(line, fontSize)) / 2
	case fieldpdf.AlignRight:
		return p.Width - widthOf(line, fontSize) - p.Padding.Right
	default:
		return p.Padding.Left
	}
}
