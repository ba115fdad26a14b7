package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/document"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

type runner struct {
	svc       *app.Services
	slot      string
	outputDir string
	now       func() time.Time
}

func formFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "business", Usage: "business name"},
		&cli.StringFlag{Name: "currency", Usage: "currency symbol or ISO code"},
		&cli.StringFlag{Name: "number", Usage: "invoice number (generated when empty)"},
		&cli.StringFlag{Name: "client", Usage: "client name"},
		&cli.StringFlag{Name: "date", Usage: "invoice date, YYYY-MM-DD"},
		&cli.StringFlag{Name: "due", Usage: "due date, YYYY-MM-DD (30 days after the invoice date when empty)"},
		&cli.StringFlag{Name: "description", Usage: "service description"},
		&cli.StringFlag{Name: "quantity", Usage: "quantity"},
		&cli.StringFlag{Name: "rate", Usage: "rate per unit"},
		&cli.StringFlag{Name: "tax", Usage: "tax rate in percent"},
		&cli.StringFlag{Name: "notes", Usage: "additional notes"},
		&cli.BoolFlag{Name: "watermark", Usage: "print a DRAFT watermark"},
		&cli.StringFlag{Name: "logo", Usage: "path to a PNG, JPEG or GIF logo"},
	}
}

func newApp(r *runner) *cli.App {
	generateFlags := append([]cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "generate every invoice in a JSON or CSV batch file"},
		&cli.StringFlag{Name: "format", Usage: "batch format (json or csv), taken from the extension when empty"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output directory", Value: r.outputDir},
		&cli.BoolFlag{Name: "no-template", Usage: "do not prefill from the saved template"},
	}, formFlags()...)

	return &cli.App{
		Name:  "invoicegen",
		Usage: "generate PDF invoices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "slot", Usage: "template slot", Value: r.slot, Destination: &r.slot},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "render one invoice from flags, or a whole batch file",
				Flags:  generateFlags,
				Action: r.generate,
			},
			{
				Name:  "totals",
				Usage: "print the totals for a quantity, rate and tax rate",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "quantity", Value: "1"},
					&cli.StringFlag{Name: "rate", Value: "0"},
					&cli.StringFlag{Name: "tax", Value: "0"},
					&cli.StringFlag{Name: "currency", Value: string(invoice.DefaultCurrency)},
				},
				Action: r.totals,
			},
			{
				Name:  "template",
				Usage: "show or save the reusable invoice template",
				Subcommands: []*cli.Command{
					{Name: "show", Usage: "print the saved template", Action: r.showTemplate},
					{
						Name:   "save",
						Usage:  "save business details for the next invoices",
						Flags:  formFlags(),
						Action: r.saveTemplate,
					},
				},
			},
		},
	}
}

func formFromFlags(c *cli.Context) invoice.Form {
	return invoice.Form{
		BusinessName:       c.String("business"),
		Currency:           c.String("currency"),
		InvoiceNumber:      c.String("number"),
		ClientName:         c.String("client"),
		InvoiceDate:        c.String("date"),
		DueDate:            c.String("due"),
		ServiceDescription: c.String("description"),
		Quantity:           invoice.Raw(c.String("quantity")),
		Rate:               invoice.Raw(c.String("rate")),
		TaxRate:            invoice.Raw(c.String("tax")),
		AdditionalNotes:    c.String("notes"),
		Watermark:          c.Bool("watermark"),
	}
}

func (r *runner) loadTemplate(c *cli.Context) template.Template {
	if c.Bool("no-template") {
		return template.Defaults()
	}

	tpl, _, err := r.svc.Templates.Load(c.Context, r.slot)
	if err != nil {
		fmt.Fprintln(c.App.ErrWriter, "warning:", err)
	}

	return tpl
}

func (r *runner) generate(c *cli.Context) error {
	if path := c.String("input"); path != "" {
		return r.generateBatch(c, path)
	}

	f := invoice.NewForm(r.now())
	r.loadTemplate(c).Prefill(&f)
	f.Overlay(formFromFlags(c))

	if c.IsSet("date") && !c.IsSet("due") {
		f.SetInvoiceDate(c.String("date"))
	}

	in, err := f.Input()
	if err != nil {
		return cli.Exit(logo.UserMessage(err), 1)
	}

	if path := c.String("logo"); path != "" {
		img, err := logo.ReadFile(path)
		if err != nil {
			return cli.Exit(logo.UserMessage(err), 1)
		}

		in.Logo = img
	}

	doc, err := r.svc.Documents.Generate(c.Context, in)
	if err != nil {
		var verr *invoice.ValidationError
		if errors.As(err, &verr) {
			printErrors(c.App.Writer, verr.Errors)
			return cli.Exit(invoice.GenericPrompt, 1)
		}

		return cli.Exit(document.GenericRenderMessage, 1)
	}

	dir := c.String("output")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, export.SafeFileName(doc.FileName))
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("writing invoice: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "%s (%s), total %s\n",
		path, humanize.Bytes(uint64(len(doc.Data))), invoice.FormatCurrency(doc.Totals.Total, in.Currency))

	return nil
}

func (r *runner) generateBatch(c *cli.Context, path string) error {
	format := importer.Format(c.String("format"))
	if format == "" {
		var err error

		format, err = importer.FormatFromPath(path)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening batch: %w", err)
	}
	defer file.Close()

	rows, err := r.svc.Importer.Import(format, file)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	forms := export.Prepare(r.now(), r.loadTemplate(c), rows)

	items, err := r.svc.Export.Export(c.Context, forms, c.String("output"))
	if err != nil {
		return err
	}

	fmt.Fprint(c.App.Writer, r.svc.Export.GenerateSummary(items))

	failed := 0

	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d invoices failed", failed, len(items)), 1)
	}

	return nil
}

func (r *runner) totals(c *cli.Context) error {
	var (
		tax      = invoice.ParseNumber(c.String("tax"))
		currency = invoice.Currency(c.String("currency"))
		totals   = invoice.CalculateTotals(
			invoice.ParseNumber(c.String("quantity")),
			invoice.ParseNumber(c.String("rate")),
			tax,
		)
	)

	w := c.App.Writer
	fmt.Fprintf(w, "Subtotal: %s\n", invoice.FormatCurrency(totals.Subtotal, currency))
	fmt.Fprintf(w, "Tax (%s%%): %s\n", strconv.FormatFloat(tax, 'f', -1, 64), invoice.FormatCurrency(totals.Tax, currency))
	fmt.Fprintf(w, "Total: %s\n", invoice.FormatCurrency(totals.Total, currency))

	return nil
}

func (r *runner) showTemplate(c *cli.Context) error {
	tpl, found, err := r.svc.Templates.Load(c.Context, r.slot)
	if err != nil {
		return err
	}

	w := c.App.Writer

	if !found {
		fmt.Fprintln(w, "No template saved, using defaults.")
	}

	fmt.Fprintf(w, "Business: %s\n", tpl.BusinessName)
	fmt.Fprintf(w, "Currency: %s\n", tpl.Currency)
	fmt.Fprintf(w, "Tax rate: %s%%\n", strconv.FormatFloat(tpl.TaxRate, 'f', -1, 64))
	fmt.Fprintf(w, "Notes: %s\n", tpl.AdditionalNotes)

	if tpl.Logo != nil {
		fmt.Fprintf(w, "Logo: %s, %s\n", tpl.Logo.MIME, humanize.Bytes(uint64(tpl.Logo.Size())))
	}

	if found {
		fmt.Fprintf(w, "Saved: %s\n", humanize.Time(tpl.SavedAt))
	}

	return nil
}

func (r *runner) saveTemplate(c *cli.Context) error {
	f := formFromFlags(c)
	if !c.IsSet("currency") {
		f.Currency = string(invoice.DefaultCurrency)
	}

	tpl, err := template.FromForm(f)
	if err != nil {
		return cli.Exit(logo.UserMessage(err), 1)
	}

	if path := c.String("logo"); path != "" {
		img, err := logo.ReadFile(path)
		if err != nil {
			return cli.Exit(logo.UserMessage(err), 1)
		}

		tpl.Logo = img
	}

	if _, err := r.svc.Templates.Save(c.Context, r.slot, tpl); err != nil {
		fmt.Fprintln(c.App.ErrWriter, err)
		return cli.Exit(template.SaveFailedMessage, 1)
	}

	fmt.Fprintln(c.App.Writer, template.SavedMessage)

	return nil
}

func printErrors(w io.Writer, errs invoice.Errors) {
	for _, f := range errs.Fields() {
		fmt.Fprintf(w, "  %s: %s\n", f, errs[f].Message())
	}
}
