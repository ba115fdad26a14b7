package template

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

type Handler struct {
	svc *template.Service
}

func NewHandler(svc *template.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.save)
}

type templateRequest struct {
	BusinessName    string      `json:"businessName"`
	Currency        string      `json:"currency"`
	TaxRate         invoice.Raw `json:"taxRate"`
	AdditionalNotes string      `json:"additionalNotes"`
	LogoDataURL     string      `json:"logoDataUrl,omitempty"`
}

type templateResponse struct {
	Found           bool       `json:"found"`
	BusinessName    string     `json:"businessName"`
	Currency        string     `json:"currency"`
	TaxRate         float64    `json:"taxRate"`
	AdditionalNotes string     `json:"additionalNotes"`
	LogoDataURL     string     `json:"logoDataUrl,omitempty"`
	SavedAt         *time.Time `json:"savedAt,omitempty"`
}

type saveResponse struct {
	Message  string           `json:"message"`
	Template templateResponse `json:"template"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(t template.Template, found bool) templateResponse {
	resp := templateResponse{
		Found:           found,
		BusinessName:    t.BusinessName,
		Currency:        string(t.Currency),
		TaxRate:         t.TaxRate,
		AdditionalNotes: t.AdditionalNotes,
	}

	if t.Logo != nil {
		resp.LogoDataURL = t.Logo.DataURL()
	}

	if !t.SavedAt.IsZero() {
		resp.SavedAt = new(t.SavedAt)
	}

	return resp
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, found, err := h.svc.Load(r.Context(), auth.Slot(r.Context()))
	if err != nil {
		slog.Error("failed to load template", "error", err)
	}

	writeJSON(w, http.StatusOK, toResponse(t, found))
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*logo.MaxSize)

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := template.FromForm(invoice.Form{
		BusinessName:    req.BusinessName,
		Currency:        req.Currency,
		TaxRate:         req.TaxRate,
		AdditionalNotes: req.AdditionalNotes,
		LogoDataURL:     req.LogoDataURL,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: logo.UserMessage(err)})
		return
	}

	if t.Logo != nil {
		if err := logo.Check(t.Logo.MIME, t.Logo.Size()); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: logo.UserMessage(err)})
			return
		}
	}

	saved, err := h.svc.Save(r.Context(), auth.Slot(r.Context()), t)
	if err != nil {
		slog.Error("failed to save template", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: template.SaveFailedMessage})

		return
	}

	writeJSON(w, http.StatusOK, saveResponse{
		Message:  template.SavedMessage,
		Template: toResponse(saved, true),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
