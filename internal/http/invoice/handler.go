package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/document"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

type Generator interface {
	Generate(ctx context.Context, in invoice.Input) (*document.Document, error)
}

type Handler struct {
	generator Generator
}

func NewHandler(generator Generator) *Handler {
	return &Handler{generator: generator}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/totals", h.totals)
	r.Post("/validate", h.validate)
	r.Post("/pdf", h.pdf)
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	in, ok := h.read(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toTotalsResponse(in.Totals(), in.Currency))
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.read(w, r)
	if !ok {
		return
	}

	errs := invoice.Validate(in)

	status := http.StatusOK
	if !errs.OK() {
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, toValidationResponse(errs))
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	in, ok := h.read(w, r)
	if !ok {
		return
	}

	doc, err := h.generator.Generate(r.Context(), in)

	var verr *invoice.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, toValidationResponse(verr.Errors))
		return
	}

	if err != nil {
		slog.Error("failed to generate invoice", "error", err, "invoice", in.InvoiceNumber)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: document.GenericRenderMessage})

		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(doc.Data); err != nil {
		slog.Error("failed to write invoice", "error", err)
	}
}

// read decodes the request, answering 400 itself when that fails.
func (h *Handler) read(w http.ResponseWriter, r *http.Request) (invoice.Input, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	in, err := readInput(r)
	if errors.Is(err, errLogo) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: logo.UserMessage(err)})
		return in, false
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return in, false
	}

	return in, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
