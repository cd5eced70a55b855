package render

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/lvillar/fieldpdf"
)

// fakeSurface records every drawing call. Text measurement is monospaced at
// half the font size per rune, matching the layout tests.
type fakeSurface struct {
	pageH  float64
	texts  []textCall
	lines  []lineCall
	images []imageCall
	added  []string
}

type textCall struct {
	text  string
	x, y  float64
	size  float64
	font  fieldpdf.FontSpec
	color fieldpdf.Color
}

type lineCall struct {
	x1, y1, x2, y2 float64
}

type imageCall struct {
	ref        string
	x, y, w, h float64
}

func newFakeSurface() *fakeSurface { return &fakeSurface{pageH: 800} }

func (s *fakeSurface) PageHeight() float64 { return s.pageH }

func (s *fakeSurface) TextWidth(text string, _ fieldpdf.FontSpec, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.5
}

func (s *fakeSurface) DrawText(text string, x, y, size float64, font fieldpdf.FontSpec, color fieldpdf.Color) {
	s.texts = append(s.texts, textCall{text: text, x: x, y: y, size: size, font: font, color: color})
}

func (s *fakeSurface) DrawLine(x1, y1, x2, y2, _ float64, _ fieldpdf.Color) {
	s.lines = append(s.lines, lineCall{x1, y1, x2, y2})
}

func (s *fakeSurface) DrawRect(x, y, w, h float64, _ fieldpdf.Color, _ float64) {}

func (s *fakeSurface) DrawImage(ref string, x, y, w, h float64) {
	s.images = append(s.images, imageCall{ref, x, y, w, h})
}

func (s *fakeSurface) AddImage(name string, _ image.Image) error {
	s.added = append(s.added, name)
	return nil
}

// fitSurface additionally records fit-mode image placement.
type fitSurface struct {
	fakeSurface
	fits []fieldpdf.FitMode
}

func (s *fitSurface) DrawImageFit(ref string, x, y, w, h float64, mode fieldpdf.FitMode) {
	s.images = append(s.images, imageCall{ref, x, y, w, h})
	s.fits = append(s.fits, mode)
}

func approx(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
}

func placed(key string, typ fieldpdf.FieldType) fieldpdf.Field {
	return fieldpdf.Field{
		Key:             key,
		Type:            typ,
		Page:            1,
		Position:        &fieldpdf.Position{X: 10, Y: 20},
		Size:            &fieldpdf.Size{Width: 100, Height: 20},
		PositionVersion: fieldpdf.PositionTopEdge,
	}
}

func render(t *testing.T, s Surface, fs *fieldpdf.FieldSet, values fieldpdf.ValueMap) []fieldpdf.Warning {
	t.Helper()
	warnings, err := New().RenderPage(s, 1, fs, values)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	return warnings
}

func TestRenderTextField(t *testing.T) {
	s := newFakeSurface()
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{placed("name", fieldpdf.TypeText)}}
	render(t, s, fs, fieldpdf.ValueMap{"name": fieldpdf.Str("Ada")})

	if len(s.texts) != 1 {
		t.Fatalf("got %d text calls, want 1", len(s.texts))
	}
	call := s.texts[0]
	if call.text != "Ada" || call.size != 12 {
		t.Fatalf("unexpected call: %+v", call)
	}
	// Box bottom-left is (10, 800-20-20). X adds the default padding.
	approx(t, call.x, 12, "x")
	if call.y <= 760 || call.y >= 780 {
		t.Fatalf("y = %v, outside field box", call.y)
	}
	if call.font.Family != "Helvetica" {
		t.Fatalf("font = %+v", call.font)
	}
}

func TestRenderSkipsUnplacedAndOtherPages(t *testing.T) {
	s := newFakeSurface()
	dataOnly := fieldpdf.Field{Key: "a", Type: fieldpdf.TypeText}
	elsewhere := placed("b", fieldpdf.TypeText)
	elsewhere.Page = 2
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{dataOnly, elsewhere}}
	render(t, s, fs, fieldpdf.ValueMap{
		"a": fieldpdf.Str("x"),
		"b": fieldpdf.Str("y"),
	})
	if len(s.texts) != 0 {
		t.Fatalf("got %d text calls, want 0", len(s.texts))
	}
}

func TestRenderEmptyTextSkipped(t *testing.T) {
	s := newFakeSurface()
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{placed("name", fieldpdf.TypeText)}}
	render(t, s, fs, fieldpdf.ValueMap{})
	if len(s.texts) != 0 {
		t.Fatalf("got %d text calls for missing value", len(s.texts))
	}
}

func TestRenderCompositeText(t *testing.T) {
	s := newFakeSurface()
	f := placed("greeting", fieldpdf.TypeCompositeText)
	f.Template = "Dear {name},"
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}
	render(t, s, fs, fieldpdf.ValueMap{"name": fieldpdf.Str("Ada")})

	if len(s.texts) != 1 || s.texts[0].text != "Dear Ada," {
		t.Fatalf("texts = %+v", s.texts)
	}
}

func TestRenderCheckbox(t *testing.T) {
	f := placed("agree", fieldpdf.TypeCheckbox)
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	s := newFakeSurface()
	warnings := render(t, s, fs, fieldpdf.ValueMap{"agree": fieldpdf.Str("yes")})
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(s.lines) != 2 {
		t.Fatalf("got %d lines, want 2 checkmark strokes", len(s.lines))
	}
	// Box bottom-left (10, 760), side 20, 20% inset on each end.
	approx(t, s.lines[0].x1, 14, "x1")
	approx(t, s.lines[0].y1, 764, "y1")
	approx(t, s.lines[0].x2, 26, "x2")
	approx(t, s.lines[0].y2, 776, "y2")

	s = newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"agree": fieldpdf.Str("no")})
	if len(s.lines) != 0 {
		t.Fatalf("unchecked box drew %d lines", len(s.lines))
	}
}

func TestRenderCheckboxAmbiguousWarns(t *testing.T) {
	s := newFakeSurface()
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{placed("agree", fieldpdf.TypeCheckbox)}}
	warnings := render(t, s, fs, fieldpdf.ValueMap{"agree": fieldpdf.Str("maybe")})

	if len(s.lines) != 0 {
		t.Fatalf("ambiguous value drew %d lines", len(s.lines))
	}
	if len(warnings) != 1 || warnings[0].FieldKey != "agree" {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestRenderConditionalText(t *testing.T) {
	s := newFakeSurface()
	f := placed("status", fieldpdf.TypeConditional)
	f.Branches = []fieldpdf.Branch{{
		Condition:   fieldpdf.Condition{Field: "age", Operator: fieldpdf.OpEquals, Value: "18"},
		RenderValue: "adult",
	}}
	f.DefaultValue = "minor"
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	render(t, s, fs, fieldpdf.ValueMap{"age": fieldpdf.Num(18)})
	if len(s.texts) != 1 || s.texts[0].text != "adult" {
		t.Fatalf("texts = %+v", s.texts)
	}

	s = newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"age": fieldpdf.Num(17)})
	if len(s.texts) != 1 || s.texts[0].text != "minor" {
		t.Fatalf("texts = %+v", s.texts)
	}
}

func TestRenderConditionalCheckbox(t *testing.T) {
	f := placed("flag", fieldpdf.TypeConditional)
	f.RenderAs = fieldpdf.RenderAsCheckbox
	f.DefaultValue = "{signed}"
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	s := newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"signed": fieldpdf.Bool(true)})
	if len(s.lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(s.lines))
	}

	s = newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"signed": fieldpdf.Bool(false)})
	if len(s.lines) != 0 {
		t.Fatalf("false reference drew %d lines", len(s.lines))
	}
}

func TestRenderOptionsCheckmark(t *testing.T) {
	f := fieldpdf.Field{
		Key:             "color",
		Type:            fieldpdf.TypeText,
		Variant:         fieldpdf.VariantOptions,
		Page:            1,
		Position:        &fieldpdf.Position{X: 0, Y: 0},
		PositionVersion: fieldpdf.PositionTopEdge,
		OptionMappings: []fieldpdf.OptionMapping{
			{Key: "red", Position: &fieldpdf.Position{X: 5, Y: 5}},
			{Key: "blue", Position: &fieldpdf.Position{X: 5, Y: 40}},
		},
	}
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	s := newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"color": fieldpdf.List(fieldpdf.Str("red"))})
	if len(s.lines) != 2 {
		t.Fatalf("got %d lines, want one checkmark", len(s.lines))
	}
	// Mapping "red" at (5, 800-5-20) with the default 20pt height.
	approx(t, s.lines[0].x1, 9, "x1")
	approx(t, s.lines[0].y1, 779, "y1")

	s = newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{
		"color": fieldpdf.List(fieldpdf.Str("red"), fieldpdf.Str("blue")),
	})
	if len(s.lines) != 4 {
		t.Fatalf("got %d lines, want two checkmarks", len(s.lines))
	}

	// A scalar value selects a single key.
	s = newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"color": fieldpdf.Str("blue")})
	if len(s.lines) != 2 {
		t.Fatalf("got %d lines for scalar selection", len(s.lines))
	}

	s = newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{})
	if len(s.lines) != 0 {
		t.Fatalf("missing value drew %d lines", len(s.lines))
	}
}

func TestRenderOptionsWithoutFieldPosition(t *testing.T) {
	// Options fields are placed entirely by their mappings; a nil
	// field-level position must not demote them to data-only.
	f := fieldpdf.Field{
		Key:             "color",
		Type:            fieldpdf.TypeText,
		Variant:         fieldpdf.VariantOptions,
		Page:            1,
		PositionVersion: fieldpdf.PositionTopEdge,
		OptionMappings: []fieldpdf.OptionMapping{
			{Key: "red", Position: &fieldpdf.Position{X: 5, Y: 5}},
		},
	}
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	s := newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"color": fieldpdf.Str("red")})
	if len(s.lines) != 2 {
		t.Fatalf("got %d lines, want one checkmark from the mapping position", len(s.lines))
	}
	approx(t, s.lines[0].x1, 9, "x1")
	approx(t, s.lines[0].y1, 779, "y1")

	// Still page-filtered like every other field.
	s = newFakeSurface()
	warnings, err := New().RenderPage(s, 2, fs, fieldpdf.ValueMap{"color": fieldpdf.Str("red")})
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if len(warnings) != 0 || len(s.lines) != 0 {
		t.Fatalf("field on page 1 drew on page 2: %d lines", len(s.lines))
	}
}

func TestRenderOptionsText(t *testing.T) {
	f := fieldpdf.Field{
		Key:             "color",
		Type:            fieldpdf.TypeText,
		Variant:         fieldpdf.VariantOptions,
		Page:            1,
		Position:        &fieldpdf.Position{X: 0, Y: 0},
		PositionVersion: fieldpdf.PositionTopEdge,
		Properties:      fieldpdf.Properties{RenderType: fieldpdf.OptionsText},
		OptionMappings: []fieldpdf.OptionMapping{
			{Key: "red", Position: &fieldpdf.Position{X: 5, Y: 5}},
		},
	}
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	s := newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"color": fieldpdf.Str("red")})
	if len(s.texts) != 1 || s.texts[0].text != "red" {
		t.Fatalf("texts = %+v", s.texts)
	}
}

func TestRenderOptionsCustomText(t *testing.T) {
	f := fieldpdf.Field{
		Key:             "color",
		Type:            fieldpdf.TypeText,
		Variant:         fieldpdf.VariantOptions,
		Page:            1,
		Position:        &fieldpdf.Position{X: 0, Y: 0},
		PositionVersion: fieldpdf.PositionTopEdge,
		Properties:      fieldpdf.Properties{RenderType: fieldpdf.OptionsCustomText},
		OptionMappings: []fieldpdf.OptionMapping{
			{Key: "red", Position: &fieldpdf.Position{X: 5, Y: 5}, CustomText: "rojo"},
			{Key: "blue", Position: &fieldpdf.Position{X: 5, Y: 40}},
		},
	}
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	s := newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{
		"color": fieldpdf.List(fieldpdf.Str("red"), fieldpdf.Str("blue")),
	})
	// Blue has no custom text, so only red draws.
	if len(s.texts) != 1 || s.texts[0].text != "rojo" {
		t.Fatalf("texts = %+v", s.texts)
	}
}

func TestRenderImage(t *testing.T) {
	f := placed("photo", fieldpdf.TypeImage)
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	s := newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{"photo": fieldpdf.Str("photo.png")})
	if len(s.images) != 1 || s.images[0].ref != "photo.png" {
		t.Fatalf("images = %+v", s.images)
	}
	approx(t, s.images[0].y, 760, "y")

	// A surface with fit-mode support is preferred and receives the mode.
	fsrf := &fitSurface{fakeSurface: *newFakeSurface()}
	render(t, fsrf, fs, fieldpdf.ValueMap{"photo": fieldpdf.Str("photo.png")})
	if len(fsrf.fits) != 1 || fsrf.fits[0] != fieldpdf.FitContain {
		t.Fatalf("fits = %v", fsrf.fits)
	}

	s = newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{})
	if len(s.images) != 0 {
		t.Fatalf("missing ref drew %d images", len(s.images))
	}
}

func TestRenderBarcode(t *testing.T) {
	f := placed("code", fieldpdf.TypeBarcode)
	f.Barcode = fieldpdf.BarcodeQR
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	s := newFakeSurface()
	warnings := render(t, s, fs, fieldpdf.ValueMap{"code": fieldpdf.Str("https://example.com")})
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(s.added) != 1 || s.added[0] != "barcode-code" {
		t.Fatalf("added = %v", s.added)
	}
	if len(s.images) != 1 || s.images[0].ref != "barcode-code" {
		t.Fatalf("images = %+v", s.images)
	}

	s = newFakeSurface()
	render(t, s, fs, fieldpdf.ValueMap{})
	if len(s.images) != 0 {
		t.Fatalf("empty content drew %d images", len(s.images))
	}
}

func TestRenderBarcodeWithoutImageAdder(t *testing.T) {
	f := placed("code", fieldpdf.TypeBarcode)
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	inner := newFakeSurface()
	warnings := render(t, surfaceOnly{inner}, fs, fieldpdf.ValueMap{"code": fieldpdf.Str("x")})
	if len(warnings) != 1 || warnings[0].FieldKey != "code" {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(inner.images) != 0 {
		t.Fatalf("images = %+v", inner.images)
	}
}

// surfaceOnly hides the fake's AddImage method so the surface satisfies only
// the base Surface interface.
type surfaceOnly struct{ inner *fakeSurface }

func (s surfaceOnly) PageHeight() float64 { return s.inner.PageHeight() }
func (s surfaceOnly) TextWidth(text string, font fieldpdf.FontSpec, size float64) float64 {
	return s.inner.TextWidth(text, font, size)
}
func (s surfaceOnly) DrawText(text string, x, y, size float64, font fieldpdf.FontSpec, color fieldpdf.Color) {
	s.inner.DrawText(text, x, y, size, font, color)
}
func (s surfaceOnly) DrawLine(x1, y1, x2, y2, thickness float64, color fieldpdf.Color) {
	s.inner.DrawLine(x1, y1, x2, y2, thickness, color)
}
func (s surfaceOnly) DrawRect(x, y, w, h float64, borderColor fieldpdf.Color, borderWidth float64) {
	s.inner.DrawRect(x, y, w, h, borderColor, borderWidth)
}
func (s surfaceOnly) DrawImage(ref string, x, y, w, h float64) {
	s.inner.DrawImage(ref, x, y, w, h)
}

func TestRenderUnknownType(t *testing.T) {
	s := newFakeSurface()
	f := placed("weird", "chart")
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{f}}

	_, err := New().RenderPage(s, 1, fs, fieldpdf.ValueMap{})
	if !errors.Is(err, fieldpdf.ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	var fe *fieldpdf.FieldError
	if !errors.As(err, &fe) || fe.Key != "weird" {
		t.Fatalf("err = %v, want FieldError for weird", err)
	}
}

func TestRenderNilSurface(t *testing.T) {
	_, err := New().RenderPage(nil, 1, &fieldpdf.FieldSet{}, fieldpdf.ValueMap{})
	if !errors.Is(err, fieldpdf.ErrNilSurface) {
		t.Fatalf("err = %v, want ErrNilSurface", err)
	}
}

func TestNewPanicsOnInvalidDepth(t *testing.T) {
	defer func() {
		if r := recover(); r != fieldpdf.ErrInvalidMaxDepth {
			t.Fatalf("recovered %v, want ErrInvalidMaxDepth", r)
		}
	}()
	New(WithMaxDepth(0))
}

func TestWarningFunc(t *testing.T) {
	var got []fieldpdf.Warning
	p := New(WithWarningFunc(func(w fieldpdf.Warning) { got = append(got, w) }))

	s := newFakeSurface()
	fs := &fieldpdf.FieldSet{Fields: []fieldpdf.Field{placed("agree", fieldpdf.TypeCheckbox)}}
	returned, err := p.RenderPage(s, 1, fs, fieldpdf.ValueMap{"agree": fieldpdf.Str("kinda")})
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if len(got) != 1 || len(returned) != 1 || got[0] != returned[0] {
		t.Fatalf("callback saw %v, return was %v", got, returned)
	}
}
