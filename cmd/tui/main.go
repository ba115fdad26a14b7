package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type model struct {
	svc       *app.Services
	slot      string
	outputDir string
	title     string

	// draft is shared across visits to the invoice view until the user starts a new one.
	draft *invoice.Form

	currentView View

	invoiceView  view.InvoiceModel
	templateView view.TemplateModel
	batchView    view.BatchModel
}

type View int

const (
	ViewMenu     View = 0
	ViewInvoice  View = 1
	ViewTemplate View = 2
	ViewBatch    View = 3
)

func initialModel(svc *app.Services, cfg *config.Config) model {
	ctx, cancel := view.StoreCtx()
	defer cancel()

	draft, err := view.NewDraft(ctx, svc.Templates, cfg.Store.Slot, time.Now())
	if err != nil {
		slog.Error("failed to load template", "error", err)
	}

	return model{
		svc:         svc,
		slot:        cfg.Store.Slot,
		outputDir:   cfg.Output.Dir,
		title:       cfg.App.Name,
		draft:       draft,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoice
				m.invoiceView = view.NewInvoiceModel(m.svc.Documents, m.svc.Templates, m.slot, m.outputDir, m.draft)

				return m, m.invoiceView.Init()
			case "2":
				m.currentView = ViewTemplate
				m.templateView = view.NewTemplateModel(m.svc.Templates, m.slot)

				return m, m.templateView.Init()
			case "3":
				m.currentView = ViewBatch
				m.batchView = view.NewBatchModel(m.svc.Importer, m.svc.Export, m.svc.Templates, m.slot, m.outputDir)

				return m, m.batchView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInvoice:
		var newModel tea.Model
		newModel, cmd = m.invoiceView.Update(msg)
		m.invoiceView = newModel.(view.InvoiceModel)
	case ViewTemplate:
		var newModel tea.Model
		newModel, cmd = m.templateView.Update(msg)
		m.templateView = newModel.(view.TemplateModel)
	case ViewBatch:
		var newModel tea.Model
		newModel, cmd = m.batchView.Update(msg)
		m.batchView = newModel.(view.BatchModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.title + "\n\n" +
				"1. New Invoice\n" +
				"2. Edit Template\n" +
				"3. Batch Generate\n\n" +
				"q. Quit",
		)
	case ViewInvoice:
		return m.invoiceView.View()
	case ViewTemplate:
		return m.templateView.View()
	case ViewBatch:
		return m.batchView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	svc, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start services", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	p := tea.NewProgram(initialModel(svc, cfg))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
