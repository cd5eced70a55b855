// Package pdfsurface implements the render.Surface contract on top of the
// gofpdf primitive library.
//
// It owns everything the evaluation core treats as external: font metrics
// and embedding, image decoding and registration, template-page import, and
// page byte serialization. The surface converts between the core's
// bottom-origin drawing space and gofpdf's top-origin coordinates at the
// call boundary.
package pdfsurface

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phpdave11/gofpdf"
	fpdi "github.com/phpdave11/gofpdf/contrib/gofpdi"

	// Extra codecs so image and signature fields accept more than the
	// formats gofpdf reads natively.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lvillar/fieldpdf"
)

// A4 page size in PDF points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// coreFonts are the font families gofpdf ships without embedding. Unknown
// families fall back to Helvetica rather than poisoning the document error
// state over a typo in field properties.
var coreFonts = map[string]string{
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"times":     "Times",
	"courier":   "Courier",
	"symbol":    "Symbol",
}

// Surface draws on a gofpdf document, one page at a time.
type Surface struct {
	pdf    *gofpdf.Fpdf
	pageW  float64
	pageH  float64
	images map[string]gofpdf.ImageOptions // registered image name -> options
}

// New creates a surface with a custom page size in points.
func New(pageWidth, pageHeight float64) *Surface {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	return &Surface{
		pdf:    pdf,
		pageW:  pageWidth,
		pageH:  pageHeight,
		images: make(map[string]gofpdf.ImageOptions),
	}
}

// NewA4 creates an A4 portrait surface.
func NewA4() *Surface {
	return New(A4Width, A4Height)
}

// AddPage starts a new blank page.
func (s *Surface) AddPage() {
	s.pdf.AddPage()
}

// ImportTemplatePage starts a new page painted with page pageno of the
// source PDF at full size, so fields render over the original artwork.
// The importer panics on unreadable input; that is converted to an error.
func (s *Surface) ImportTemplatePage(sourcePath string, pageno int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfsurface: importing %s page %d: %v", sourcePath, pageno, r)
		}
	}()
	tpl := fpdi.ImportPage(s.pdf, sourcePath, pageno, "/MediaBox")
	s.pdf.AddPage()
	fpdi.UseImportedTemplate(s.pdf, tpl, 0, 0, s.pageW, s.pageH)
	return nil
}

// PageHeight implements render.Surface.
func (s *Surface) PageHeight() float64 { return s.pageH }

// PageWidth returns the page width in points.
func (s *Surface) PageWidth() float64 { return s.pageW }

// TextWidth implements render.Surface using gofpdf's glyph metrics.
func (s *Surface) TextWidth(text string, font fieldpdf.FontSpec, size float64) float64 {
	s.setFont(font, size)
	return s.pdf.GetStringWidth(text)
}

// DrawText implements render.Surface. The y coordinate names the baseline
// in bottom-origin drawing space.
func (s *Surface) DrawText(text string, x, y, size float64, font fieldpdf.FontSpec, color fieldpdf.Color) {
	s.setFont(font, size)
	s.pdf.SetTextColor(color.R, color.G, color.B)
	s.pdf.Text(x, s.pageH-y, text)
}

// DrawLine implements render.Surface.
func (s *Surface) DrawLine(x1, y1, x2, y2, thickness float64, color fieldpdf.Color) {
	s.pdf.SetLineWidth(thickness)
	s.pdf.SetDrawColor(color.R, color.G, color.B)
	s.pdf.Line(x1, s.pageH-y1, x2, s.pageH-y2)
}

// DrawRect implements render.Surface. x and y name the box's bottom-left
// corner.
func (s *Surface) DrawRect(x, y, w, h float64, borderColor fieldpdf.Color, borderWidth float64) {
	s.pdf.SetLineWidth(borderWidth)
	s.pdf.SetDrawColor(borderColor.R, borderColor.G, borderColor.B)
	s.pdf.Rect(x, s.pageH-y-h, w, h, "D")
}

// DrawImage implements render.Surface, stretching the image to the box.
// ref is either a name registered through AddImage/AddImageFile or a path
// to an image file.
func (s *Surface) DrawImage(ref string, x, y, w, h float64) {
	opts, ok := s.ensureImage(ref)
	if !ok {
		return
	}
	s.pdf.ImageOptions(ref, x, s.pageH-y-h, w, h, false, opts, 0, "")
}

// DrawImageFit implements render.FitModeDrawer: contain scales the image
// uniformly inside the box, cover fills the box and clips the overflow.
func (s *Surface) DrawImageFit(ref string, x, y, w, h float64, mode fieldpdf.FitMode) {
	opts, ok := s.ensureImage(ref)
	if !ok {
		return
	}
	info := s.pdf.GetImageInfo(ref)
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		s.pdf.ImageOptions(ref, x, s.pageH-y-h, w, h, false, opts, 0, "")
		return
	}

	scaleW, scaleH := w/info.Width(), h/info.Height()
	scale := scaleW
	if mode == fieldpdf.FitCover {
		if scaleH > scale {
			scale = scaleH
		}
	} else if scaleH < scale {
		scale = scaleH
	}
	drawW, drawH := info.Width()*scale, info.Height()*scale
	drawX := x + (w-drawW)/2
	drawY := y + (h-drawH)/2

	if mode == fieldpdf.FitCover {
		s.pdf.ClipRect(x, s.pageH-y-h, w, h, false)
		defer s.pdf.ClipEnd()
	}
	s.pdf.ImageOptions(ref, drawX, s.pageH-drawY-drawH, drawW, drawH, false, opts, 0, "")
}

// AddImage implements render.ImageAdder by registering an in-memory raster
// under the given name, PNG-encoded for embedding.
func (s *Surface) AddImage(name string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("pdfsurface: encoding image %q: %w", name, err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	s.pdf.RegisterImageOptionsReader(name, opts, &buf)
	if s.pdf.Err() {
		return fmt.Errorf("pdfsurface: registering image %q: %w", name, s.pdf.Error())
	}
	s.images[name] = opts
	return nil
}

// AddImageFile registers an image file under the given name. Formats gofpdf
// reads natively pass straight through; anything else goes through the
// stdlib decoder (plus the x/image codecs) and is re-encoded as PNG.
func (s *Surface) AddImageFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pdfsurface: opening image %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return s.addNativeImage(name, path, f)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("pdfsurface: decoding image %s: %w", path, err)
	}
	return s.AddImage(name, img)
}

func (s *Surface) addNativeImage(name, path string, r io.Reader) error {
	imageType := s.pdf.ImageTypeFromMime("image/" + normalizedExt(path))
	opts := gofpdf.ImageOptions{ImageType: imageType}
	s.pdf.RegisterImageOptionsReader(name, opts, r)
	if s.pdf.Err() {
		return fmt.Errorf("pdfsurface: registering image %s: %w", path, s.pdf.Error())
	}
	s.images[name] = opts
	return nil
}

// ensureImage resolves ref to registered image options, registering a file
// path on first use. An unreadable ref is skipped: a missing image degrades
// the render, it must not abort the export.
func (s *Surface) ensureImage(ref string) (gofpdf.ImageOptions, bool) {
	if opts, ok := s.images[ref]; ok {
		return opts, true
	}
	if err := s.AddImageFile(ref, ref); err != nil {
		return gofpdf.ImageOptions{}, false
	}
	return s.images[ref], true
}

// Output serializes the document.
func (s *Surface) Output(w io.Writer) error {
	if s.pdf.Err() {
		return fmt.Errorf("pdfsurface: %w", s.pdf.Error())
	}
	return s.pdf.Output(w)
}

// WriteFile serializes the document to a file.
func (s *Surface) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pdfsurface: creating %s: %w", path, err)
	}
	defer f.Close()
	return s.Output(f)
}

func (s *Surface) setFont(font fieldpdf.FontSpec, size float64) {
	family, ok := coreFonts[strings.ToLower(font.Family)]
	if !ok {
		family = "Helvetica"
	}
	s.pdf.SetFont(family, font.Style, size)
}

func normalizedExt(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "jpg" {
		ext = "jpeg"
	}
	return ext
}
