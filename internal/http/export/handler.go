package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

// maxRequestSize caps the JSON list of rows to generate.
const maxRequestSize = 10 << 20

type Handler struct {
	svc         *export.Service
	templateSvc *template.Service
	now         func() time.Time
}

func NewHandler(svc *export.Service, templateSvc *template.Service) *Handler {
	return &Handler{svc: svc, templateSvc: templateSvc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	Invoices []invoice.Form `json:"invoices"`
}

type itemResponse struct {
	InvoiceNumber string `json:"invoiceNumber"`
	ClientName    string `json:"clientName"`
	Total         string `json:"total,omitempty"`
	File          string `json:"file,omitempty"`
	Error         string `json:"error,omitempty"`
}

type exportMetadataResponse struct {
	Generated int            `json:"generated"`
	Failed    int            `json:"failed"`
	Items     []itemResponse `json:"items"`
	Summary   string         `json:"summary"`
}

func toItemResponse(item export.Item) itemResponse {
	resp := itemResponse{
		InvoiceNumber: item.InvoiceNumber,
		ClientName:    item.ClientName,
	}

	if item.Err != nil {
		resp.Error = item.Err.Error()
		return resp
	}

	resp.Total = invoice.FormatCurrency(item.Totals.Total, item.Currency)
	resp.File = filepath.Base(item.FilePath)

	return resp
}

// run generates the requested invoices into a fresh temporary directory. The caller removes it.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (string, []export.Item, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", nil, fmt.Errorf("invalid request body: %w", err)
	}

	tpl, _, err := h.templateSvc.Load(r.Context(), auth.Slot(r.Context()))
	if err != nil {
		slog.Error("failed to load template", "error", err)
	}

	tmpDir, err := os.MkdirTemp("", "invoicer-export-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp dir: %w", err)
	}

	items, err := h.svc.Export(r.Context(), export.Prepare(h.now(), tpl, req.Invoices), tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", nil, err
	}

	return tmpDir, items, nil
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, err := h.run(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer os.RemoveAll(tmpDir)

	resp := exportMetadataResponse{
		Items:   make([]itemResponse, 0, len(items)),
		Summary: h.svc.GenerateSummary(items),
	}

	for _, item := range items {
		if item.Err != nil {
			resp.Failed++
		} else {
			resp.Generated++
		}

		resp.Items = append(resp.Items, toItemResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, err := h.run(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer os.RemoveAll(tmpDir)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": "invoices_" + h.now().Format("20060102") + ".zip"}))

	zw := zip.NewWriter(w)

	if err := writeZip(zw, items, h.svc.GenerateSummary(items)); err != nil {
		slog.Error("failed to create zip", "error", err)
	}

	if err := zw.Close(); err != nil {
		slog.Error("failed to finish zip", "error", err)
	}
}

// writeZip adds every generated PDF and a summary.txt listing the whole batch.
func writeZip(zw *zip.Writer, items []export.Item, summary string) error {
	for _, item := range items {
		if item.FilePath == "" {
			continue
		}

		if err := addFile(zw, item.FilePath); err != nil {
			return fmt.Errorf("adding %s: %w", filepath.Base(item.FilePath), err)
		}
	}

	zf, err := zw.Create("summary.txt")
	if err != nil {
		return err
	}

	_, err = io.WriteString(zf, summary)

	return err
}

func addFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zf, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}

	_, err = io.Copy(zf, f)

	return err
}
