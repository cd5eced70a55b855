package render

import (
	"image"

	"github.com/lvillar/fieldpdf"
)

// Surface is the abstract page the pipeline draws on. Coordinates are in
// drawing space: origin at the page's bottom-left corner, Y growing upward,
// units in PDF points. Font and image resources are resolved by the
// implementation; the pipeline only names them.
type Surface interface {
	// PageHeight returns the page height, needed to convert top-edge
	// positions into drawing space.
	PageHeight() float64

	// TextWidth measures rendered text. Glyph metrics belong to the PDF
	// primitive library behind the surface.
	TextWidth(text string, font fieldpdf.FontSpec, size float64) float64

	DrawText(text string, x, y, size float64, font fieldpdf.FontSpec, color fieldpdf.Color)
	DrawLine(x1, y1, x2, y2, thickness float64, color fieldpdf.Color)
	DrawRect(x, y, w, h float64, borderColor fieldpdf.Color, borderWidth float64)

	// DrawImage places a previously registered or resolvable image
	// stretched to the given box.
	DrawImage(ref string, x, y, w, h float64)
}

// ImageAdder is implemented by surfaces that can register raster images
// generated at render time, such as barcodes.
type ImageAdder interface {
	AddImage(name string, img image.Image) error
}

// FitModeDrawer is implemented by surfaces whose image collaborator can
// scale content into a box per fit mode: contain ("fit") or cover ("fill",
// clipped to the box). Surfaces without it fall back to a plain stretched
// DrawImage.
type FitModeDrawer interface {
	DrawImageFit(ref string, x, y, w, h float64, mode fieldpdf.FitMode)
}
