package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

const batchTimeout = 5 * time.Minute

type batchState int

const (
	batchStateFilePick batchState = iota
	batchStatePath
	batchStateRunning
	batchStateResult
)

// BatchModel generates every invoice of a JSON or CSV file, each merged with the saved template.
type BatchModel struct {
	CommonModel
	importService *importer.Service
	exportService *export.Service
	templates     *template.Service
	slot          string

	state      batchState
	filePicker filepicker.Model
	inputPath  string
	outputDir  *string
	form       *huh.Form
	spinner    spinner.Model

	generated int
	failed    int
	summary   string
	err       error
}

func NewBatchModel(
	importSvc *importer.Service,
	exportSvc *export.Service,
	templates *template.Service,
	slot, outputDir string,
) BatchModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".json", ".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return BatchModel{
		importService: importSvc,
		exportService: exportSvc,
		templates:     templates,
		slot:          slot,
		filePicker:    fp,
		outputDir:     new(outputDir),
		spinner:       s,
	}
}

func (m BatchModel) Title() string { return "Batch Generate" }

func (m BatchModel) ShortHelp() string {
	switch m.state {
	case batchStateResult:
		return "Esc: back to menu"
	case batchStateRunning:
		return "Generating..."
	}

	return "Esc: back | Enter: select"
}

func (m BatchModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.handleEsc()
	}

	switch m.state {
	case batchStateFilePick:
		return m.updateFilePick(msg)
	case batchStatePath:
		return m.updatePath(msg)
	case batchStateRunning:
		return m.updateRunning(msg)
	}

	return m, nil
}

func (m BatchModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case batchStatePath:
		m.state = batchStateFilePick
		return m, nil
	case batchStateRunning:
		return m, nil
	}

	return m, Back
}

func (m BatchModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.inputPath = path
		m.form = m.buildPathForm()
		m.state = batchStatePath

		return m, m.form.Init()
	}

	return m, cmd
}

func (m BatchModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder(".").
				Value(m.outputDir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BatchModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = batchStateRunning
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runCmd(m.inputPath, *m.outputDir))
}

func (m BatchModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(batchResultMsg); ok {
		m.state = batchStateResult
		m.err = result.err
		m.summary = m.exportService.GenerateSummary(result.items)
		m.generated, m.failed = 0, 0

		for _, item := range result.items {
			if item.Err != nil {
				m.failed++
			} else {
				m.generated++
			}
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m BatchModel) View() string {
	switch m.state {
	case batchStateFilePick:
		return pageStyle.Render(fmt.Sprintf("Select a JSON or CSV batch file:\n\n%s", m.filePicker.View()))

	case batchStatePath:
		return pageStyle.Render(m.form.View())

	case batchStateRunning:
		return pageStyle.Render(fmt.Sprintf("%s Generating invoices from %s...", m.spinner.View(), m.inputPath))

	case batchStateResult:
		return m.viewResult()
	}

	return ""
}

func (m BatchModel) viewResult() string {
	if m.err != nil {
		return pageStyle.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := successStyle.Bold(true).Render("Batch Complete!")
	if m.failed > 0 {
		header = errorStyle.Bold(true).Render(fmt.Sprintf("%d of %d invoices failed", m.failed, m.failed+m.generated))
	}

	return pageStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("Generated %d invoices into %s", m.generated, *m.outputDir),
			"",
			m.summary,
		),
	)
}

type batchResultMsg struct {
	items []export.Item
	err   error
}

func (m BatchModel) runCmd(inputPath, outputDir string) tea.Cmd {
	return func() tea.Msg {
		format, err := importer.FormatFromPath(inputPath)
		if err != nil {
			return batchResultMsg{err: err}
		}

		f, err := os.Open(inputPath)
		if err != nil {
			return batchResultMsg{err: err}
		}
		defer f.Close()

		rows, err := m.importService.Import(format, f)
		if err != nil {
			return batchResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		tpl, _, err := m.templates.Load(ctx, m.slot)
		if err != nil {
			return batchResultMsg{err: err}
		}

		items, err := m.exportService.Export(ctx, export.Prepare(time.Now(), tpl, rows), outputDir)

		return batchResultMsg{items: items, err: err}
	}
}
