package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // logo decoders
	_ "image/jpeg" // logo decoders
	_ "image/png"  // logo decoders
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/MrJamesThe3rd/invoicer/internal/encoding"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

// Renderer is the drawing surface the composer lays the invoice out on. Coordinates are in
// millimetres from the top-left corner; text y is the baseline.
type Renderer interface {
	SetFont(style string, size float64)
	SetTextColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetLineWidth(width float64)
	Text(x, y float64, s string)
	// TextCentered centres s horizontally on x, rotated counter-clockwise by angle degrees.
	TextCentered(x, y float64, s string, angle float64)
	FillRect(x, y, w, h float64)
	Line(x1, y1, x2, y2 float64)
	Image(img *logo.Image, x, y, w, h float64) error
	// SplitText wraps s so that no line is wider than width at the current font.
	SplitText(s string, width float64) []string
	Output(w io.Writer) error
}

const fontFamily = "Helvetica"

// PDF renders onto an A4 portrait page with gofpdf. Automatic page breaks are off: content
// that runs past the bottom of the page is clipped by the viewer.
type PDF struct {
	pdf    *gofpdf.Fpdf
	images int
}

func NewPDF() *PDF {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", 10)

	return &PDF{pdf: pdf}
}

func (p *PDF) SetFont(style string, size float64) {
	p.pdf.SetFont(fontFamily, style, size)
}

func (p *PDF) SetTextColor(r, g, b int)    { p.pdf.SetTextColor(r, g, b) }
func (p *PDF) SetFillColor(r, g, b int)    { p.pdf.SetFillColor(r, g, b) }
func (p *PDF) SetDrawColor(r, g, b int)    { p.pdf.SetDrawColor(r, g, b) }
func (p *PDF) SetLineWidth(width float64) { p.pdf.SetLineWidth(width) }

func (p *PDF) Text(x, y float64, s string) {
	p.pdf.Text(x, y, encoding.ToWindows1252(s))
}

func (p *PDF) TextCentered(x, y float64, s string, angle float64) {
	txt := encoding.ToWindows1252(s)
	w := p.pdf.GetStringWidth(txt)

	if angle == 0 {
		p.pdf.Text(x-w/2, y, txt)
		return
	}

	p.pdf.TransformBegin()
	p.pdf.TransformRotate(angle, x, y)
	p.pdf.Text(x-w/2, y, txt)
	p.pdf.TransformEnd()
}

func (p *PDF) FillRect(x, y, w, h float64) {
	p.pdf.Rect(x, y, w, h, "F")
}

func (p *PDF) Line(x1, y1, x2, y2 float64) {
	p.pdf.Line(x1, y1, x2, y2)
}

// Image places the logo. A logo gofpdf cannot embed returns an error and leaves the document
// usable.
func (p *PDF) Image(img *logo.Image, x, y, w, h float64) error {
	imageType := pdfImageType(img.MIME)
	if imageType == "" {
		return fmt.Errorf("unsupported logo type %q", img.MIME)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err != nil {
		return fmt.Errorf("decoding logo: %w", err)
	}

	name := fmt.Sprintf("logo-%d", p.images)
	p.images++

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))

	if err := p.pdf.Error(); err != nil {
		p.pdf.ClearError()
		return fmt.Errorf("registering logo: %w", err)
	}

	p.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")

	return nil
}

func (p *PDF) SplitText(s string, width float64) []string {
	return wrap(s, width, func(line string) float64 {
		return p.pdf.GetStringWidth(encoding.ToWindows1252(line))
	})
}

func (p *PDF) Output(w io.Writer) error {
	return p.pdf.Output(w)
}

func pdfImageType(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}

	return ""
}
