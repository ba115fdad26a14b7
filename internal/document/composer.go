package document

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// ErrRender is returned when the renderer fails; the document is discarded.
var ErrRender = errors.New("rendering invoice")

// GenericRenderMessage is what the user sees when rendering fails.
const GenericRenderMessage = "Error generating PDF. Please try again."

type rgb struct{ r, g, b int }

var (
	brandColor  = rgb{102, 126, 234}
	black       = rgb{0, 0, 0}
	white       = rgb{255, 255, 255}
	mutedColor  = rgb{100, 100, 100}
	ruleColor   = rgb{200, 200, 200}
	footerColor = rgb{150, 150, 150}
)

// Page geometry in millimetres.
const (
	marginLeft   = 15.0
	marginRight  = 195.0
	pageCenterX  = 105.0
	startY       = 20.0
	tableWidth   = 180.0
	descX        = 20.0
	qtyX         = 120.0
	rateX        = 145.0
	amountX      = 170.0
	descWidth    = 95.0
	notesWidth   = 180.0
	lineHeight   = 5.0
	minRowHeight = 10.0
	footerY1     = 280.0
	footerY2     = 285.0
	watermarkY   = 150.0
)

// Composer lays an invoice out top to bottom with a single cursor. Each block advances the
// cursor by a fixed amount, or by the number of wrapped lines; nothing is ever reflowed.
type Composer struct {
	now    func() time.Time
	logger *slog.Logger
}

func NewComposer(now func() time.Time, logger *slog.Logger) *Composer {
	if now == nil {
		now = time.Now
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Composer{now: now, logger: logger}
}

type page struct {
	r Renderer
	y float64
}

func (p *page) advance(dy float64) { p.y += dy }

func (p *page) color(c rgb) { p.r.SetTextColor(c.r, c.g, c.b) }

// Compose draws the invoice onto r. A panic inside the renderer is reported as ErrRender.
func (c *Composer) Compose(r Renderer, in invoice.Input, totals invoice.Totals) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrRender, rec)
		}
	}()

	p := &page{r: r, y: startY}

	c.logo(p, in)
	c.header(p, in)
	c.metadata(p, in)
	c.billTo(p, in)
	c.tableHeader(p)
	c.lineItem(p, in, totals)
	c.totals(p, in, totals)
	c.notes(p, in)

	if in.Watermark {
		c.watermark(p)
	}

	c.footer(p)

	return nil
}

// Render composes the invoice with the gofpdf renderer and returns the PDF bytes. Nothing is
// returned unless the whole document was produced.
func (c *Composer) Render(in invoice.Input, totals invoice.Totals) ([]byte, error) {
	return c.RenderWith(NewPDF(), in, totals)
}

func (c *Composer) RenderWith(r Renderer, in invoice.Input, totals invoice.Totals) ([]byte, error) {
	if err := c.Compose(r, in, totals); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return buf.Bytes(), nil
}

func (c *Composer) logo(p *page, in invoice.Input) {
	if in.Logo == nil {
		return
	}

	if err := p.r.Image(in.Logo, marginLeft, p.y, 40, 20); err != nil {
		c.logger.Error("error adding logo", "error", err, "invoice", in.InvoiceNumber)
		return
	}

	p.advance(25)
}

func (c *Composer) header(p *page, in invoice.Input) {
	p.r.SetFont("", 24)
	p.color(brandColor)
	p.r.Text(marginLeft, p.y, in.BusinessName)
	p.advance(10)

	p.r.SetFont("", 16)
	p.color(black)
	p.r.Text(marginLeft, p.y, "INVOICE")
	p.advance(15)
}

func (c *Composer) metadata(p *page, in invoice.Input) {
	p.r.SetFont("", 10)
	p.color(mutedColor)

	p.r.Text(marginLeft, p.y, "Invoice Number: "+in.InvoiceNumber)
	p.advance(6)
	p.r.Text(marginLeft, p.y, "Invoice Date: "+displayDate(in.InvoiceDate))
	p.advance(6)
	p.r.Text(marginLeft, p.y, "Due Date: "+displayDate(in.DueDate))
	p.advance(15)
}

func (c *Composer) billTo(p *page, in invoice.Input) {
	p.r.SetFont("", 12)
	p.color(black)
	p.r.Text(marginLeft, p.y, "Bill To:")
	p.advance(7)

	p.r.SetFont("", 11)
	p.r.Text(marginLeft, p.y, in.ClientName)
	p.advance(20)
}

func (c *Composer) tableHeader(p *page) {
	p.r.SetFillColor(brandColor.r, brandColor.g, brandColor.b)
	p.r.FillRect(marginLeft, p.y, tableWidth, 10)

	p.color(white)
	p.r.SetFont("", 10)
	p.r.Text(descX, p.y+7, "Description")
	p.r.Text(qtyX, p.y+7, "Qty")
	p.r.Text(rateX, p.y+7, "Rate")
	p.r.Text(amountX, p.y+7, "Amount")
	p.advance(15)
}

func (c *Composer) lineItem(p *page, in invoice.Input, totals invoice.Totals) {
	p.color(black)
	p.r.SetFont("", 9)

	lines := p.r.SplitText(in.ServiceDescription, descWidth)
	for i, line := range lines {
		p.r.Text(descX, p.y+float64(i)*lineHeight, line)
	}

	p.r.Text(qtyX, p.y, formatNumber(in.Quantity))
	p.r.Text(rateX, p.y, invoice.FormatCurrency(in.Rate, in.Currency))
	p.r.Text(amountX, p.y, invoice.FormatCurrency(totals.Subtotal, in.Currency))
	p.advance(max(float64(len(lines))*lineHeight, minRowHeight))

	p.r.SetDrawColor(ruleColor.r, ruleColor.g, ruleColor.b)
	p.r.Line(marginLeft, p.y, marginRight, p.y)
	p.advance(10)
}

func (c *Composer) totals(p *page, in invoice.Input, totals invoice.Totals) {
	p.r.SetFont("", 10)

	p.r.Text(rateX, p.y, "Subtotal:")
	p.r.Text(amountX, p.y, invoice.FormatCurrency(totals.Subtotal, in.Currency))
	p.advance(7)

	p.r.Text(rateX, p.y, "Tax ("+formatNumber(in.TaxRatePercent)+"%):")
	p.r.Text(amountX, p.y, invoice.FormatCurrency(totals.Tax, in.Currency))
	p.advance(10)

	p.r.SetLineWidth(0.5)
	p.r.Line(rateX, p.y, marginRight, p.y)
	p.advance(7)

	p.r.SetFont("B", 12)
	p.r.Text(rateX, p.y, "Total:")
	p.r.Text(amountX, p.y, invoice.FormatCurrency(totals.Total, in.Currency))
	p.advance(15)
}

func (c *Composer) notes(p *page, in invoice.Input) {
	if strings.TrimSpace(in.AdditionalNotes) == "" {
		return
	}

	p.r.SetFont("", 10)
	p.color(mutedColor)
	p.r.Text(marginLeft, p.y, "Notes:")
	p.advance(7)

	p.r.SetFont("", 9)

	lines := p.r.SplitText(in.AdditionalNotes, notesWidth)
	for i, line := range lines {
		p.r.Text(marginLeft, p.y+float64(i)*lineHeight, line)
	}

	p.advance(float64(len(lines)) * lineHeight)
}

func (c *Composer) watermark(p *page) {
	p.r.SetFont("", 60)
	p.color(ruleColor)
	p.r.TextCentered(pageCenterX, watermarkY, "DRAFT", 45)
}

func (c *Composer) footer(p *page) {
	p.r.SetFont("", 8)
	p.color(footerColor)
	p.r.TextCentered(pageCenterX, footerY1, "Thank you for your business!", 0)
	p.r.TextCentered(pageCenterX, footerY2, "Generated on "+c.now().Format("1/2/2006"), 0)
}

func displayDate(t time.Time) string {
	if t.IsZero() {
		return "Invalid Date"
	}

	return invoice.FormatDisplayDate(t)
}

// formatNumber prints a number with the shortest exact representation, "NaN" included.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
