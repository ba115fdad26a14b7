package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/MrJamesThe3rd/invoicer/internal/document"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

const generateTimeout = 30 * time.Second

type invoiceState int

const (
	invoiceStateEditing invoiceState = iota
	invoiceStateGenerating
	invoiceStateResult
	invoiceStateConfirm
)

type confirmAction int

const (
	confirmSaveTemplate confirmAction = iota
	confirmReset
)

type InvoiceModel struct {
	CommonModel
	documents *document.Service
	templates *template.Service
	slot      string
	outputDir string

	draft    *invoice.Form
	logoPath *string

	state     invoiceState
	form      *huh.Form
	confirm   *huh.Form
	action    confirmAction
	confirmed *bool
	spinner   spinner.Model

	path   string
	size   int
	total  string
	errs   invoice.Errors
	err    error
	status string
}

func NewInvoiceModel(
	documents *document.Service,
	templates *template.Service,
	slot, outputDir string,
	draft *invoice.Form,
) InvoiceModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := InvoiceModel{
		documents: documents,
		templates: templates,
		slot:      slot,
		outputDir: outputDir,
		draft:     draft,
		logoPath:  new(""),
		confirmed: new(false),
		spinner:   s,
	}
	m.form = m.buildForm()

	return m
}

func (m InvoiceModel) Title() string { return "New Invoice" }

func (m InvoiceModel) ShortHelp() string {
	switch m.state {
	case invoiceStateGenerating:
		return "Generating..."
	case invoiceStateResult:
		return "e: edit | s: save as template | n: new invoice | Esc: back to menu"
	}

	return "Esc: back | Enter: next"
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m InvoiceModel) buildForm() *huh.Form {
	d := m.draft

	currencies := make([]huh.Option[string], 0, len(invoice.Currencies()))
	for _, c := range invoice.Currencies() {
		currencies = append(currencies, huh.NewOption(string(c), string(c)))
	}

	logoTitle := "Logo (optional)"
	if d.LogoDataURL != "" {
		logoTitle = "Logo (leave empty to keep the current one)"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key(string(invoice.FieldBusinessName)).
				Title("Business Name").
				Value(&d.BusinessName).
				Validate(fieldCheck(d, invoice.FieldBusinessName)),
			huh.NewSelect[string]().
				Key(string(invoice.FieldCurrency)).
				Title("Currency").
				Options(currencies...).
				Value(&d.Currency),
			huh.NewInput().
				Key(string(invoice.FieldLogo)).
				Title(logoTitle).
				Description("PNG, JPEG or GIF, up to 2MB").
				Placeholder("./logo.png").
				Value(m.logoPath).
				Validate(checkLogoPath),
		).Title("From"),

		huh.NewGroup(
			huh.NewInput().
				Key(string(invoice.FieldInvoiceNumber)).
				Title("Invoice Number").
				Value(&d.InvoiceNumber).
				Validate(fieldCheck(d, invoice.FieldInvoiceNumber)),
			huh.NewInput().
				Key(string(invoice.FieldClientName)).
				Title("Bill To").
				Value(&d.ClientName).
				Validate(fieldCheck(d, invoice.FieldClientName)),
			huh.NewInput().
				Key(string(invoice.FieldInvoiceDate)).
				Title("Invoice Date").
				Placeholder("YYYY-MM-DD").
				Value(&d.InvoiceDate).
				Validate(fieldCheck(d, invoice.FieldInvoiceDate)),
			huh.NewInput().
				Key(string(invoice.FieldDueDate)).
				Title("Due Date").
				Description(fmt.Sprintf("Leave empty for %d days after the invoice date", invoice.DueDays)).
				Placeholder("YYYY-MM-DD").
				Value(&d.DueDate).
				Validate(fieldCheck(d, invoice.FieldDueDate)),
		).Title("Invoice"),

		huh.NewGroup(
			huh.NewText().
				Key(string(invoice.FieldServiceDescription)).
				Title("Service Description").
				Lines(3).
				Value(&d.ServiceDescription).
				Validate(fieldCheck(d, invoice.FieldServiceDescription)),
			huh.NewInput().
				Key(string(invoice.FieldQuantity)).
				Title("Quantity").
				Value((*string)(&d.Quantity)).
				Validate(fieldCheck(d, invoice.FieldQuantity)),
			huh.NewInput().
				Key(string(invoice.FieldRate)).
				Title("Rate").
				Value((*string)(&d.Rate)).
				Validate(fieldCheck(d, invoice.FieldRate)),
			huh.NewInput().
				Key(string(invoice.FieldTaxRate)).
				Title("Tax Rate (%)").
				Value((*string)(&d.TaxRate)).
				Validate(fieldCheck(d, invoice.FieldTaxRate)),
		).Title("Service"),

		huh.NewGroup(
			huh.NewText().
				Key(string(invoice.FieldAdditionalNotes)).
				Title("Additional Notes").
				Lines(3).
				Value(&d.AdditionalNotes),
			huh.NewConfirm().
				Key(string(invoice.FieldWatermark)).
				Title("Add DRAFT watermark?").
				Affirmative("Yes").
				Negative("No").
				Value(&d.Watermark),
		).Title("Finish"),
	).WithWidth(60).WithShowHelp(false)
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case invoiceStateEditing:
		return m.updateEditing(msg)
	case invoiceStateGenerating:
		return m.updateGenerating(msg)
	case invoiceStateResult:
		return m.updateResult(msg)
	case invoiceStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m InvoiceModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.err = nil
	m.errs = nil

	if err := applyLogo(m.draft, *m.logoPath); err != nil {
		m.state = invoiceStateResult
		m.err = err
		m.status = logo.UserMessage(err)

		return m, nil
	}

	*m.logoPath = ""
	m.state = invoiceStateGenerating

	return m, tea.Batch(m.spinner.Tick, m.generateCmd())
}

// updateGenerating swallows every key until the document is written, so a second generation
// cannot start while one is running.
func (m InvoiceModel) updateGenerating(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(generatedMsg); ok {
		m.state = invoiceStateResult
		m.err = result.err
		m.path = result.path
		m.size = result.size
		m.total = result.total
		m.status = ""

		var verr *invoice.ValidationError

		switch {
		case errors.As(result.err, &verr):
			m.errs = verr.Errors
			m.status = invoice.GenericPrompt
		case result.err != nil:
			m.status = document.GenericRenderMessage
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m InvoiceModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case templateSavedMsg:
		m.err = msg.err
		m.status = template.SavedMessage

		if msg.err != nil {
			m.status = template.SaveFailedMessage
		}

		return m, nil

	case draftResetMsg:
		*m.draft = *msg.draft
		m.errs = nil
		m.err = msg.err
		m.path = ""
		m.status = ""

		return m.edit()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "e", "enter":
			return m.edit()
		case "s":
			return m.ask(confirmSaveTemplate, "Save business details as the default template?")
		case "n":
			return m.ask(confirmReset, "Start a new invoice? Unsaved values will be lost.")
		}
	}

	return m, nil
}

func (m InvoiceModel) edit() (tea.Model, tea.Cmd) {
	m.state = invoiceStateEditing
	m.form = m.buildForm()

	return m, m.form.Init()
}

func (m InvoiceModel) ask(action confirmAction, question string) (tea.Model, tea.Cmd) {
	*m.confirmed = false
	m.action = action
	m.state = invoiceStateConfirm
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(m.confirmed),
		),
	).WithWidth(60).WithShowHelp(false)

	return m, m.confirm.Init()
}

func (m InvoiceModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoiceStateResult
		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = invoiceStateResult

	if !*m.confirmed {
		return m, nil
	}

	if m.action == confirmReset {
		return m, m.resetCmd()
	}

	return m, m.saveTemplateCmd()
}

func (m InvoiceModel) View() string {
	switch m.state {
	case invoiceStateEditing:
		preview := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginLeft(2).
			Render(headerStyle.Render("Totals") + "\n\n" + FormatTotals(*m.draft))

		return pageStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, m.form.View(), preview))

	case invoiceStateGenerating:
		return pageStyle.Render(fmt.Sprintf("%s Generating invoice %s...", m.spinner.View(), m.draft.InvoiceNumber))

	case invoiceStateConfirm:
		return pageStyle.Render(m.confirm.View())

	case invoiceStateResult:
		return m.viewResult()
	}

	return ""
}

func (m InvoiceModel) viewResult() string {
	var body string

	switch {
	case len(m.errs) > 0:
		body = errorStyle.Render(m.status) + "\n\n" + FormatErrors(m.errs)
	case m.err != nil:
		body = errorStyle.Render(m.status)
	case m.status != "":
		body = successStyle.Render(m.status)
	}

	if m.path != "" {
		done := successStyle.Bold(true).Render("Invoice generated!") + "\n\n" +
			fmt.Sprintf("File: %s (%s)\nTotal: %s", m.path, humanize.Bytes(uint64(m.size)), m.total)

		if body != "" {
			body = done + "\n\n" + body
		} else {
			body = done
		}
	}

	return pageStyle.Render(body + "\n\n" + mutedStyle.Render(m.ShortHelp()))
}

type generatedMsg struct {
	path  string
	size  int
	total string
	err   error
}

type templateSavedMsg struct {
	err error
}

type draftResetMsg struct {
	draft *invoice.Form
	err   error
}

func (m InvoiceModel) generateCmd() tea.Cmd {
	f := *m.draft
	completeDueDate(&f)

	return func() tea.Msg {
		in, err := f.Input()
		if err != nil {
			return generatedMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		doc, err := m.documents.Generate(ctx, in)
		if err != nil {
			return generatedMsg{err: err}
		}

		if err := os.MkdirAll(m.outputDir, 0o755); err != nil {
			return generatedMsg{err: err}
		}

		path := filepath.Join(m.outputDir, export.SafeFileName(doc.FileName))
		if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
			return generatedMsg{err: err}
		}

		return generatedMsg{
			path:  path,
			size:  len(doc.Data),
			total: invoice.FormatCurrency(doc.Totals.Total, in.Currency),
		}
	}
}

func (m InvoiceModel) saveTemplateCmd() tea.Cmd {
	f := *m.draft

	return func() tea.Msg {
		tpl, err := template.FromForm(f)
		if err != nil {
			return templateSavedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		_, err = m.templates.Save(ctx, m.slot, tpl)

		return templateSavedMsg{err: err}
	}
}

func (m InvoiceModel) resetCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		draft, err := NewDraft(ctx, m.templates, m.slot, time.Now())

		return draftResetMsg{draft: draft, err: err}
	}
}
