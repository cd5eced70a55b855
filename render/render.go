// Package render turns evaluated field descriptors into drawing calls on an
// abstract page surface.
//
// The pipeline is a pure function of (field set, value map): conditional and
// template evaluation produce a concrete value per field, the coordinate
// conversion resolves its page-space box, the layout engine places text
// within it, and the result is emitted as primitive drawing calls. Fields
// are processed in declared order, with no shared state between them.
// Malformed user content degrades to sentinels, defaults, and advisory
// warnings; only broken field descriptors and a nil surface fail hard.
package render

import (
	"fmt"

	"github.com/lvillar/fieldpdf"
	"github.com/lvillar/fieldpdf/conditional"
	"github.com/lvillar/fieldpdf/layout"
	"github.com/lvillar/fieldpdf/tmpl"
)

// Rendering defaults.
const (
	DefaultFieldWidth  = 100
	DefaultFieldHeight = 20
	DefaultPadding     = 2

	// checkInset is the fraction of a checkmark square left blank on each
	// side. The target PDF is assumed to already carry the box artwork, so
	// only the X strokes are drawn.
	checkInset = 0.2

	checkStroke = 1.5
)

// Pipeline renders field sets onto surfaces. A Pipeline is stateless across
// calls and safe to reuse.
type Pipeline struct {
	formatting  tmpl.Formatting
	maxDepth    int
	warn        func(fieldpdf.Warning)
	defaultSize fieldpdf.Size
}

// New creates a Pipeline. It panics with fieldpdf.ErrInvalidMaxDepth if an
// option sets a non-positive depth bound.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		maxDepth:    tmpl.DefaultMaxDepth,
		defaultSize: fieldpdf.Size{Width: DefaultFieldWidth, Height: DefaultFieldHeight},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxDepth <= 0 {
		panic(fieldpdf.ErrInvalidMaxDepth)
	}
	return p
}

// RenderPage draws every field of fs placed on the given 1-based page.
// Fields without a position are data-only and are never drawn; fields on
// other pages are skipped. The field set and value map are treated as
// immutable snapshots. Returned warnings describe user-content conditions
// that were resolved by degrading; the error reports caller contract
// violations only.
func (p *Pipeline) RenderPage(s Surface, page int, fs *fieldpdf.FieldSet, values fieldpdf.ValueMap) ([]fieldpdf.Warning, error) {
	if s == nil {
		return nil, fieldpdf.ErrNilSurface
	}
	var warnings []fieldpdf.Warning
	report := func(ws ...fieldpdf.Warning) {
		for _, w := range ws {
			warnings = append(warnings, w)
			if p.warn != nil {
				p.warn(w)
			}
		}
	}

	for i := range fs.Fields {
		f := &fs.Fields[i]
		// Options variants place themselves from their mapping positions,
		// so a nil field-level position does not make them data-only.
		if f.Page != page || (f.Position == nil && f.Variant != fieldpdf.VariantOptions) {
			continue
		}
		if err := p.renderField(s, f, values, report); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

// renderField dispatches on field type and variant.
func (p *Pipeline) renderField(s Surface, f *fieldpdf.Field, values fieldpdf.ValueMap, report func(...fieldpdf.Warning)) error {
	if f.Variant == fieldpdf.VariantOptions {
		p.renderOptions(s, f, values)
		return nil
	}

	switch f.Type {
	case fieldpdf.TypeText:
		p.renderText(s, f, values.Lookup(f.Key).String())
	case fieldpdf.TypeCompositeText:
		ctx := &tmpl.Context{MaxDepth: p.maxDepth}
		p.renderText(s, f, tmpl.EvaluateWithContext(f.Template, values, p.formatting, ctx))
	case fieldpdf.TypeConditional:
		val, ws := conditional.EvaluateField(f, values)
		report(ws...)
		if f.RenderAs == fieldpdf.RenderAsCheckbox {
			if val.BoolValue() {
				p.renderCheck(s, f)
			}
		} else {
			p.renderText(s, f, val.String())
		}
	case fieldpdf.TypeCheckbox:
		checked, warn := conditional.CoerceCheckbox(values.Lookup(f.Key).String())
		if warn != "" {
			report(fieldpdf.Warning{FieldKey: f.Key, Message: warn})
		}
		if checked {
			p.renderCheck(s, f)
		}
	case fieldpdf.TypeImage, fieldpdf.TypeSignature:
		p.renderImage(s, f, values.Lookup(f.Key).String())
	case fieldpdf.TypeBarcode:
		p.renderBarcode(s, f, values.Lookup(f.Key).String(), report)
	default:
		return &fieldpdf.FieldError{Key: f.Key, Op: "render", Err: fieldpdf.ErrUnknownType}
	}
	return nil
}

// box resolves a field's drawing-space box, applying the default size for
// descriptors that omit one.
func (p *Pipeline) box(s Surface, f *fieldpdf.Field) (pos fieldpdf.Position, size fieldpdf.Size) {
	size = p.defaultSize
	if f.Size != nil {
		size = *f.Size
	}
	pos = fieldpdf.ToDrawingSpace(*f.Position, size.Height, s.PageHeight(), f.PositionVersion)
	return pos, size
}

func (p *Pipeline) renderText(s Surface, f *fieldpdf.Field, text string) {
	if text == "" {
		return
	}
	pos, size := p.box(s, f)
	props := f.Properties
	font := props.Font()
	color, _ := fieldpdf.ParseHexColor(props.TextColor)

	pad := props.Padding
	if pad == 0 {
		pad = DefaultPadding
	}
	res := layout.Layout(text, layout.Params{
		Width:      size.Width,
		Height:     size.Height,
		Padding:    fieldpdf.UniformPadding(pad),
		FontSize:   props.FontSize,
		LineHeight: props.LineHeight,
		Align:      props.TextAlign,
		AutoSize:   props.AutoSize,
	}, func(t string, fontSize float64) float64 {
		return s.TextWidth(t, font, fontSize)
	})

	for _, line := range res.Lines {
		if line.Text == "" {
			continue
		}
		s.DrawText(line.Text, pos.X+line.X, pos.Y+line.Y, res.FontSize, font, color)
	}
}

// renderCheck draws the two diagonal strokes of a checkmark X. The square's
// side comes from checkboxSize, defaulting to the field box height.
func (p *Pipeline) renderCheck(s Surface, f *fieldpdf.Field) {
	pos, size := p.box(s, f)
	side := f.Properties.CheckboxSize
	if side <= 0 {
		side = size.Height
	}
	color, _ := fieldpdf.ParseHexColor(f.Properties.TextColor)
	drawCheckmark(s, pos.X, pos.Y, side, color)
}

func drawCheckmark(s Surface, x, y, side float64, color fieldpdf.Color) {
	inset := side * checkInset
	s.DrawLine(x+inset, y+inset, x+side-inset, y+side-inset, checkStroke, color)
	s.DrawLine(x+inset, y+side-inset, x+side-inset, y+inset, checkStroke, color)
}

func (p *Pipeline) renderImage(s Surface, f *fieldpdf.Field, ref string) {
	if ref == "" {
		return
	}
	pos, size := p.box(s, f)
	mode := f.Properties.FitMode
	if mode == "" {
		mode = fieldpdf.FitContain
	}
	if fd, ok := s.(FitModeDrawer); ok {
		fd.DrawImageFit(ref, pos.X, pos.Y, size.Width, size.Height, mode)
		return
	}
	s.DrawImage(ref, pos.X, pos.Y, size.Width, size.Height)
}

// renderOptions draws the mappings of an options-variant field whose keys
// are selected by the runtime value. A scalar value selects one key, a list
// selects several; multiSelect is editor-side semantics and does not change
// normalization. Unselected mappings produce no drawing call.
func (p *Pipeline) renderOptions(s Surface, f *fieldpdf.Field, values fieldpdf.ValueMap) {
	selected := selectedKeys(values.Lookup(f.Key))
	if len(selected) == 0 {
		return
	}

	props := f.Properties
	font := props.Font()
	fontSize := props.FontSize
	if fontSize <= 0 {
		fontSize = layout.DefaultFontSize
	}
	color, _ := fieldpdf.ParseHexColor(props.TextColor)
	renderType := props.RenderType
	if renderType == "" {
		renderType = fieldpdf.OptionsCheckmark
	}

	for i := range f.OptionMappings {
		m := &f.OptionMappings[i]
		if m.Position == nil || !selected[m.Key] {
			continue
		}
		height := float64(DefaultFieldHeight)
		if m.Size != nil {
			height = m.Size.Height
		}
		pos := fieldpdf.ToDrawingSpace(*m.Position, height, s.PageHeight(), f.PositionVersion)

		switch renderType {
		case fieldpdf.OptionsText:
			s.DrawText(m.Key, pos.X, pos.Y+(height-fontSize)/2, fontSize, font, color)
		case fieldpdf.OptionsCustomText:
			if m.CustomText == "" {
				continue
			}
			s.DrawText(m.CustomText, pos.X, pos.Y+(height-fontSize)/2, fontSize, font, color)
		default:
			drawCheckmark(s, pos.X, pos.Y, height, color)
		}
	}
}

// selectedKeys normalizes an options value to its set of selected keys.
func selectedKeys(v fieldpdf.Value) map[string]bool {
	sel := make(map[string]bool)
	switch v.Kind() {
	case fieldpdf.KindNull:
	case fieldpdf.KindList:
		for _, item := range v.Items() {
			if s := item.String(); s != "" {
				sel[s] = true
			}
		}
	default:
		if s := v.String(); s != "" {
			sel[s] = true
		}
	}
	return sel
}

// warnf formats an advisory warning for a field.
func warnf(key, format string, args ...any) fieldpdf.Warning {
	return fieldpdf.Warning{FieldKey: key, Message: fmt.Sprintf(format, args...)}
}
