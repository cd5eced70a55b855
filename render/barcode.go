package render

import (
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/lvillar/fieldpdf"
	pdf417 "github.com/ruudk/golang-pdf417"
)

// barcodeScale is the raster resolution in pixels per point. Barcodes are
// encoded at twice the box size so module edges stay crisp after embedding.
const barcodeScale = 2

// renderBarcode encodes the field's value in the configured symbology and
// places the raster in the field box. Content the symbology cannot encode,
// a box too small for the code, and surfaces that cannot register images
// all degrade to a warning; a barcode never aborts an export.
func (p *Pipeline) renderBarcode(s Surface, f *fieldpdf.Field, content string, report func(...fieldpdf.Warning)) {
	if content == "" {
		return
	}
	adder, ok := s.(ImageAdder)
	if !ok {
		report(warnf(f.Key, "surface cannot register barcode images"))
		return
	}
	pos, size := p.box(s, f)

	img, err := encodeBarcode(f.Barcode, content, int(size.Width*barcodeScale), int(size.Height*barcodeScale))
	if err != nil {
		report(warnf(f.Key, "barcode not rendered: %v", err))
		return
	}

	name := "barcode-" + f.Key
	if err := adder.AddImage(name, img); err != nil {
		report(warnf(f.Key, "barcode not rendered: %v", err))
		return
	}
	s.DrawImage(name, pos.X, pos.Y, size.Width, size.Height)
}

// encodeBarcode produces a w×h raster of content in the given symbology.
// The zero symbology defaults to QR.
func encodeBarcode(t fieldpdf.BarcodeType, content string, w, h int) (image.Image, error) {
	var (
		bc  barcode.Barcode
		err error
	)
	switch t {
	case fieldpdf.BarcodeCode128:
		bc, err = code128.Encode(content)
	case fieldpdf.BarcodePDF417:
		bc = pdf417.Encode(content, 4, 4)
	default:
		bc, err = qr.Encode(content, qr.M, qr.Auto)
	}
	if err != nil {
		return nil, err
	}
	return barcode.Scale(bc, w, h)
}
