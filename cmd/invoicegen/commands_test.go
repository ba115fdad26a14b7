package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/MrJamesThe3rd/invoicer/internal/app"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
)

type harness struct {
	r   *runner
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{}
	cfg.Store.Backend = "memory"

	svc, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	dir := t.TempDir()

	return &harness{
		r: &runner{
			svc:       svc,
			slot:      "invoiceTemplate",
			outputDir: dir,
			now:       func() time.Time { return time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC) },
		},
		dir: dir,
	}
}

func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer

	a := newApp(h.r)
	a.Writer = &out
	a.ErrWriter = &out
	a.ExitErrHandler = func(*cli.Context, error) {}

	err := a.Run(append([]string{"invoicegen"}, args...))

	return out.String(), err
}

func TestTotals(t *testing.T) {
	out, err := newHarness(t).run("totals", "--quantity", "3", "--rate", "150", "--tax", "8")
	require.NoError(t, err)

	assert.Equal(t, "Subtotal: $450.00\nTax (8%): $36.00\nTotal: $486.00\n", out)
}

func TestGenerate(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("generate",
		"--business", "Acme Studio",
		"--number", "INV-1",
		"--client", "Jane Doe",
		"--date", "2024-01-10",
		"--description", "Design work",
		"--quantity", "3",
		"--rate", "150",
		"--tax", "8",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "total $486.00")

	data, err := os.ReadFile(filepath.Join(h.dir, "Invoice_INV-1_Jane_Doe.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerate_ClientNameWithSeparators(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("generate",
		"--business", "Acme",
		"--number", "../INV-1",
		"--client", "AC/DC Ltd",
		"--description", "Roadie work",
		"--rate", "10",
	)
	require.NoError(t, err)

	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Invoice_.._INV-1_AC_DC_Ltd.pdf", entries[0].Name())
}

func TestGenerate_Invalid(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("generate", "--client", "Jane", "--description", "Design", "--rate", "-5")
	require.Error(t, err)

	assert.Contains(t, out, "businessName: This field is required")
	assert.Contains(t, out, "rate: Value must not be negative")

	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTemplate_SaveThenGenerate(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("template", "save", "--business", "Acme Studio", "--currency", "EUR", "--tax", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Template saved successfully")

	out, err = h.run("template", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Business: Acme Studio")
	assert.Contains(t, out, "Tax rate: 20%")

	out, err = h.run("generate", "--number", "INV-2", "--client", "Bob", "--description", "Audit", "--rate", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "total €120.00")
}

func TestTemplate_ShowDefaults(t *testing.T) {
	out, err := newHarness(t).run("template", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "No template saved")
	assert.Contains(t, out, "Currency: $")
}

func TestGenerate_Batch(t *testing.T) {
	h := newHarness(t)

	batch := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(batch, []byte(`[
		{"businessName": "Acme", "invoiceNumber": "A-1", "clientName": "Jane", "serviceDescription": "Design", "rate": 10},
		{"businessName": "Acme", "invoiceNumber": "A-2", "clientName": "", "serviceDescription": "Design", "rate": 10}
	]`), 0o644))

	out, err := h.run("generate", "--input", batch)
	require.Error(t, err)
	assert.Contains(t, out, "* A-1 | Jane | $10.00 | Invoice_A-1_Jane.pdf")
	assert.Contains(t, out, "* A-2 |  | - | FAILED:")

	_, err = os.Stat(filepath.Join(h.dir, "Invoice_A-1_Jane.pdf"))
	assert.NoError(t, err)
}
