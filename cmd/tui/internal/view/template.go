package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

type templateState int

const (
	templateStateLoading templateState = iota
	templateStateEditing
	templateStateSaving
	templateStateResult
)

// templateValues are the form bindings. They live behind a pointer so the huh form keeps
// writing to the same values while the model is copied around.
type templateValues struct {
	businessName string
	currency     string
	taxRate      string
	notes        string
	logoPath     string
	removeLogo   bool
}

type TemplateModel struct {
	CommonModel
	templates *template.Service
	slot      string

	state   templateState
	current template.Template
	found   bool
	values  *templateValues
	form    *huh.Form
	spinner spinner.Model

	status string
	err    error
}

func NewTemplateModel(templates *template.Service, slot string) TemplateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return TemplateModel{
		templates: templates,
		slot:      slot,
		values:    &templateValues{},
		spinner:   s,
	}
}

func (m TemplateModel) Title() string { return "Invoice Template" }

func (m TemplateModel) ShortHelp() string {
	switch m.state {
	case templateStateResult:
		return "Esc: back to menu"
	case templateStateSaving:
		return "Saving..."
	}

	return "Esc: back | Enter: next"
}

func (m TemplateModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m TemplateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.state != templateStateSaving {
		return m, Back
	}

	switch msg := msg.(type) {
	case templateLoadedMsg:
		m.current = msg.tpl
		m.found = msg.found
		m.err = msg.err
		m.fill(msg.tpl)
		m.form = m.buildForm()
		m.state = templateStateEditing

		return m, m.form.Init()

	case templateSavedMsg:
		m.state = templateStateResult
		m.err = msg.err
		m.status = template.SavedMessage

		if msg.err != nil {
			m.status = template.SaveFailedMessage
		}

		return m, nil
	}

	switch m.state {
	case templateStateLoading, templateStateSaving:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case templateStateEditing:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = templateStateSaving

		return m, tea.Batch(m.spinner.Tick, m.saveCmd())
	}

	return m, nil
}

func (m TemplateModel) fill(t template.Template) {
	*m.values = templateValues{
		businessName: t.BusinessName,
		currency:     t.Currency.Symbol(),
		taxRate:      strconv.FormatFloat(t.TaxRate, 'f', -1, 64),
		notes:        t.AdditionalNotes,
	}
}

func (m TemplateModel) buildForm() *huh.Form {
	v := m.values

	currencies := make([]huh.Option[string], 0, len(invoice.Currencies()))
	for _, c := range invoice.Currencies() {
		currencies = append(currencies, huh.NewOption(string(c), string(c)))
	}

	fields := []huh.Field{
		huh.NewInput().Title("Business Name").Value(&v.businessName),
		huh.NewSelect[string]().Title("Currency").Options(currencies...).Value(&v.currency),
		huh.NewInput().Title("Tax Rate (%)").Description("Saved as 0 when it is not a number").Value(&v.taxRate),
		huh.NewText().Title("Additional Notes").Lines(3).Value(&v.notes),
		huh.NewInput().
			Title("Logo (optional)").
			Description("PNG, JPEG or GIF, up to 2MB").
			Placeholder("./logo.png").
			Value(&v.logoPath).
			Validate(checkLogoPath),
	}

	if m.current.Logo != nil {
		fields = append(fields, huh.NewConfirm().
			Title("Remove the saved logo?").
			Affirmative("Yes").
			Negative("No").
			Value(&v.removeLogo))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(60).WithShowHelp(false)
}

func (m TemplateModel) View() string {
	switch m.state {
	case templateStateLoading:
		return pageStyle.Render(m.spinner.View() + " Loading template...")

	case templateStateSaving:
		return pageStyle.Render(m.spinner.View() + " Saving template...")

	case templateStateEditing:
		return pageStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(m.Title()),
			mutedStyle.Render(m.describe()),
			"",
			m.form.View(),
		))

	case templateStateResult:
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		return pageStyle.Render(style.Render(m.status) + "\n\n" + mutedStyle.Render(m.ShortHelp()))
	}

	return ""
}

func (m TemplateModel) describe() string {
	if !m.found {
		return "No template saved yet."
	}

	desc := fmt.Sprintf("Saved %s", humanize.Time(m.current.SavedAt))
	if m.current.Logo != nil {
		desc += fmt.Sprintf(", logo %s", humanize.Bytes(uint64(m.current.Logo.Size())))
	}

	return desc
}

type templateLoadedMsg struct {
	tpl   template.Template
	found bool
	err   error
}

func (m TemplateModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		tpl, found, err := m.templates.Load(ctx, m.slot)

		return templateLoadedMsg{tpl: tpl, found: found, err: err}
	}
}

func (m TemplateModel) saveCmd() tea.Cmd {
	v := *m.values
	current := m.current

	return func() tea.Msg {
		tpl, err := template.FromForm(invoice.Form{
			BusinessName:    v.businessName,
			Currency:        v.currency,
			TaxRate:         invoice.Raw(v.taxRate),
			AdditionalNotes: v.notes,
		})
		if err != nil {
			return templateSavedMsg{err: err}
		}

		switch {
		case v.logoPath != "":
			img, err := logo.ReadFile(v.logoPath)
			if err != nil {
				return templateSavedMsg{err: err}
			}

			tpl.Logo = img
		case !v.removeLogo:
			tpl.Logo = current.Logo
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		_, err = m.templates.Save(ctx, m.slot, tpl)

		return templateSavedMsg{err: err}
	}
}
