package importbatch

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

// maxUploadSize caps an uploaded batch file.
const maxUploadSize = 10 << 20

type Handler struct {
	importSvc   *importer.Service
	templateSvc *template.Service
	now         func() time.Time
}

func NewHandler(importSvc *importer.Service, templateSvc *template.Service) *Handler {
	return &Handler{
		importSvc:   importSvc,
		templateSvc: templateSvc,
		now:         time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
}

type rowResponse struct {
	Row     int                              `json:"row"`
	Invoice invoice.Form                     `json:"invoice"`
	Valid   bool                             `json:"valid"`
	Errors  map[invoice.Field]invoice.Reason `json:"errors,omitempty"`
	Total   string                           `json:"total"`
}

type importResponse struct {
	Imported int           `json:"imported"`
	Valid    int           `json:"valid"`
	Rows     []rowResponse `json:"rows"`
}

// importFile parses a batch file and previews every invoice in it, already merged with the
// saved template, without generating anything.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format, err = importer.FormatFromPath(header.Filename)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	rows, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tpl, _, err := h.templateSvc.Load(r.Context(), auth.Slot(r.Context()))
	if err != nil {
		slog.Error("failed to load template", "error", err)
	}

	forms := export.Prepare(h.now(), tpl, rows)

	resp := importResponse{
		Imported: len(forms),
		Rows:     make([]rowResponse, 0, len(forms)),
	}

	for i, f := range forms {
		row := rowResponse{Row: i + 1, Invoice: f}

		in, err := f.Input()
		if err != nil {
			row.Errors = map[invoice.Field]invoice.Reason{invoice.FieldLogo: invoice.ReasonLogoType}
		} else {
			row.Errors = invoice.Validate(in)
			row.Total = invoice.FormatCurrency(in.Totals().Total, in.Currency)
		}

		row.Valid = len(row.Errors) == 0
		if row.Valid {
			resp.Valid++
		}

		resp.Rows = append(resp.Rows, row)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
