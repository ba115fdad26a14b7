package logo

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
}

type uploadResponse struct {
	DataURL string `json:"dataUrl"`
	MIME    string `json:"mime"`
	Size    int64  `json:"size"`
	Human   string `json:"humanSize"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// upload turns a picked file into the data URL the form and template keep.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*logo.MaxSize)

	if err := r.ParseMultipartForm(logo.MaxSize + 1<<20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: logo.UserMessage(logo.ErrTooLarge)})
			return
		}

		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)

		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		http.Error(w, "logo field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	upload := logo.Begin(header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err := upload.Resolve(file); err != nil {
		slog.Debug("rejecting logo", "file", upload.Name, "state", upload.State(), "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: logo.UserMessage(err)})

		return
	}

	img := upload.Image()

	writeJSON(w, http.StatusOK, uploadResponse{
		DataURL: img.DataURL(),
		MIME:    img.MIME,
		Size:    img.Size(),
		Human:   humanize.IBytes(uint64(img.Size())),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
