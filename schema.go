// Package fieldpdf implements a declarative field model for placing values on
// PDF templates and filling them from runtime data.
//
// A field set is a list of field descriptors: where a value goes on the page,
// how it is typed (text, checkbox, image, signature, conditional,
// composite-text, options, barcode), and how its concrete value is derived
// from a runtime value map. The JSON shape of the field set is the persisted
// wire format; the same shape is stored by editors, echoed into generated
// service code, and consumed here for rendering.
//
// Example JSON:
//
//	{
//	  "fields": [
//	    {"key": "name", "type": "text", "page": 1,
//	     "position": {"x": 72, "y": 100}, "size": {"width": 200, "height": 18}},
//	    {"key": "greeting", "type": "composite-text", "page": 1,
//	     "position": {"x": 72, "y": 130},
//	     "template": "Dear {salutation} {name},"}
//	  ]
//	}
//
// Rendering itself lives in the render subpackage; this package holds the
// schema, the runtime value representation, and the coordinate conversion
// shared by the evaluation pipeline.
package fieldpdf

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldType identifies how a field is rendered.
type FieldType string

const (
	TypeText          FieldType = "text"
	TypeCheckbox      FieldType = "checkbox"
	TypeImage         FieldType = "image"
	TypeSignature     FieldType = "signature"
	TypeConditional   FieldType = "conditional"
	TypeCompositeText FieldType = "composite-text"
	TypeBarcode       FieldType = "barcode"
)

// Variant distinguishes a plain field from a multi-option field whose value
// selects one or more pre-placed option mappings.
type Variant string

const (
	VariantSingle  Variant = "single"
	VariantOptions Variant = "options"
)

// PositionVersion identifies which of the two historical position encodings a
// field record uses. It is stored explicitly on the record; an ambiguous
// record is never silently defaulted to one encoding.
type PositionVersion string

const (
	// PositionTopEdge means Position is the field's top-left corner in
	// screen space: Y grows downward from the top of the page.
	PositionTopEdge PositionVersion = "top-edge"
	// PositionLegacy means Position is already in drawing space: Y grows
	// upward from the page bottom to the field's bottom edge.
	PositionLegacy PositionVersion = "legacy"
)

// Operator is a conditional branch comparison operator.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not-equals"
	OpContains  Operator = "contains"
	OpExists    Operator = "exists"
	OpNotExists Operator = "not-exists"
)

// RenderAs selects the output mode of a conditional field.
type RenderAs string

const (
	RenderAsText     RenderAs = "text"
	RenderAsCheckbox RenderAs = "checkbox"
)

// OptionsRenderType selects how a matched option mapping is drawn.
type OptionsRenderType string

const (
	OptionsCheckmark  OptionsRenderType = "checkmark"
	OptionsText       OptionsRenderType = "text"
	OptionsCustomText OptionsRenderType = "custom"
)

// FitMode controls how image and signature content is scaled into its box.
type FitMode string

const (
	FitContain FitMode = "fit"  // uniform scale-to-contain
	FitCover   FitMode = "fill" // uniform scale-to-cover, clipped to the box
)

// BarcodeType selects the symbology of a barcode field.
type BarcodeType string

const (
	BarcodeQR      BarcodeType = "qr"
	BarcodeCode128 BarcodeType = "code128"
	BarcodePDF417  BarcodeType = "pdf417"
)

// TextAlign is the horizontal alignment of text within a field box.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Position is a point in one of the two encodings named by PositionVersion.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a field box size in PDF points.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Properties holds the optional per-field appearance settings. The zero value
// of each setting means "use the documented default".
type Properties struct {
	FontSize     float64           `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`     // default 12
	FontFamily   string            `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"` // default Helvetica
	Bold         bool              `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic       bool              `json:"italic,omitempty" yaml:"italic,omitempty"`
	TextColor    string            `json:"textColor,omitempty" yaml:"textColor,omitempty"`   // hex, default #000000
	TextAlign    TextAlign         `json:"textAlign,omitempty" yaml:"textAlign,omitempty"`   // default left
	Padding      float64           `json:"padding,omitempty" yaml:"padding,omitempty"`       // uniform, default 2
	LineHeight   float64           `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"` // multiplier, default 1.2
	AutoSize     bool              `json:"autoSize,omitempty" yaml:"autoSize,omitempty"`
	CheckboxSize float64           `json:"checkboxSize,omitempty" yaml:"checkboxSize,omitempty"` // default field height
	FitMode      FitMode           `json:"fitMode,omitempty" yaml:"fitMode,omitempty"`           // default fit
	RenderType   OptionsRenderType `json:"renderType,omitempty" yaml:"renderType,omitempty"`     // options variant, default checkmark
}

// Condition compares the value of another field against a literal.
// Operators exists and not-exists ignore Value.
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    string   `json:"value,omitempty" yaml:"value,omitempty"`
}

// Branch is one (condition, renderValue) pair of a conditional field.
// Branches are evaluated in declared order; the first match wins.
type Branch struct {
	Condition   Condition `json:"condition" yaml:"condition"`
	RenderValue string    `json:"renderValue" yaml:"renderValue"`
}

// OptionMapping places one selectable option of an options-variant field.
type OptionMapping struct {
	Key        string    `json:"key" yaml:"key"`
	Position   *Position `json:"position,omitempty" yaml:"position,omitempty"`
	Size       *Size     `json:"size,omitempty" yaml:"size,omitempty"`
	CustomText string    `json:"customText,omitempty" yaml:"customText,omitempty"`
}

// Field is one placeable or data-only item of a field set.
//
// Position and Size are nil for data-only fields that are never drawn but may
// be referenced by templates and conditions of other fields.
type Field struct {
	Key             string          `json:"key" yaml:"key"`
	Type            FieldType       `json:"type" yaml:"type"`
	Variant         Variant         `json:"variant,omitempty" yaml:"variant,omitempty"` // default single
	Page            int             `json:"page" yaml:"page"`                           // 1-based
	Position        *Position       `json:"position,omitempty" yaml:"position,omitempty"`
	Size            *Size           `json:"size,omitempty" yaml:"size,omitempty"`
	PositionVersion PositionVersion `json:"positionVersion,omitempty" yaml:"positionVersion,omitempty"`
	Properties      Properties      `json:"properties" yaml:"properties,omitempty"`

	// composite-text
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// conditional
	Branches     []Branch `json:"conditionalBranches,omitempty" yaml:"conditionalBranches,omitempty"`
	DefaultValue string   `json:"conditionalDefaultValue,omitempty" yaml:"conditionalDefaultValue,omitempty"`
	RenderAs     RenderAs `json:"conditionalRenderAs,omitempty" yaml:"conditionalRenderAs,omitempty"` // default text

	// options variant
	OptionMappings []OptionMapping `json:"optionMappings,omitempty" yaml:"optionMappings,omitempty"`
	MultiSelect    bool            `json:"multiSelect,omitempty" yaml:"multiSelect,omitempty"`

	// barcode
	Barcode BarcodeType `json:"barcodeType,omitempty" yaml:"barcodeType,omitempty"` // default qr
}

// FieldSet is the top-level persisted document: an ordered list of fields.
type FieldSet struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// ParseFieldSet decodes a field set from its JSON wire format. Unknown keys
// are tolerated so documents written by newer producers still load.
func ParseFieldSet(data []byte) (*FieldSet, error) {
	var fs FieldSet
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("fieldpdf: parsing field set: %w", err)
	}
	return &fs, nil
}

// ParseFieldSetYAML decodes a field set from an equivalent YAML document.
func ParseFieldSetYAML(data []byte) (*FieldSet, error) {
	var fs FieldSet
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("fieldpdf: parsing field set: %w", err)
	}
	return &fs, nil
}

// fieldTypes is the set of descriptor types the pipeline understands.
var fieldTypes = map[FieldType]bool{
	TypeText:          true,
	TypeCheckbox:      true,
	TypeImage:         true,
	TypeSignature:     true,
	TypeConditional:   true,
	TypeCompositeText: true,
	TypeBarcode:       true,
}

// Validate checks the caller contract of the field set: keys present and
// unique, types known, pages positive, options variants carrying mappings.
// These are programming errors in the producer, not user content, so they
// are reported as a hard error before any rendering starts.
func (fs *FieldSet) Validate() error {
	seen := make(map[string]bool, len(fs.Fields))
	var errs []error
	for i := range fs.Fields {
		f := &fs.Fields[i]
		if f.Key == "" {
			errs = append(errs, fmt.Errorf("fieldpdf: field %d: %w", i, ErrMissingKey))
			continue
		}
		if seen[f.Key] {
			errs = append(errs, fmt.Errorf("fieldpdf: field %q: %w", f.Key, ErrDuplicateKey))
		}
		seen[f.Key] = true
		if !fieldTypes[f.Type] {
			errs = append(errs, fmt.Errorf("fieldpdf: field %q: %w: %q", f.Key, ErrUnknownType, f.Type))
		}
		if f.Position != nil && f.Page < 1 {
			errs = append(errs, fmt.Errorf("fieldpdf: field %q: %w: %d", f.Key, ErrInvalidPage, f.Page))
		}
		if f.Variant == VariantOptions && len(f.OptionMappings) == 0 {
			errs = append(errs, fmt.Errorf("fieldpdf: field %q: %w", f.Key, ErrNoOptionMappings))
		}
	}
	return errors.Join(errs...)
}

// PageCount returns the highest page number referenced by a placed field.
// A field counts as placed when it has a position of its own or when any of
// its option mappings does.
func (fs *FieldSet) PageCount() int {
	max := 0
	for i := range fs.Fields {
		f := &fs.Fields[i]
		placed := f.Position != nil
		for _, m := range f.OptionMappings {
			if m.Position != nil {
				placed = true
				break
			}
		}
		if placed && f.Page > max {
			max = f.Page
		}
	}
	return max
}
