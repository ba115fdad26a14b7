package invoice_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/document"
	invoiceHandler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const validBody = `{
	"businessName": "Acme Studio",
	"currency": "$",
	"invoiceNumber": "INV-001",
	"clientName": "Jane  Doe",
	"invoiceDate": "2024-01-10",
	"dueDate": "2024-02-09",
	"serviceDescription": "Website redesign",
	"quantity": 3,
	"rate": "150",
	"taxRate": "8"
}`

type failingGenerator struct{}

func (failingGenerator) Generate(_ context.Context, in invoice.Input) (*document.Document, error) {
	return nil, fmt.Errorf("generating invoice %s: %w", in.InvoiceNumber, document.ErrRender)
}

func newRouter(gen invoiceHandler.Generator) http.Handler {
	r := chi.NewRouter()
	r.Route("/invoices", invoiceHandler.NewHandler(gen).Routes)

	return r
}

func do(t *testing.T, h http.Handler, path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Totals(t *testing.T) {
	rec := do(t, newRouter(document.NewService()), "/invoices/totals", "application/json", bytes.NewBufferString(validBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"subtotal": 450, "tax": 36, "total": 486,
		"formatted": {"subtotal": "$450.00", "tax": "$36.00", "total": "$486.00"}
	}`, rec.Body.String())
}

func TestHandler_TotalsNaN(t *testing.T) {
	body := `{"currency": "€", "quantity": "lots", "rate": 10, "taxRate": 0}`

	rec := do(t, newRouter(document.NewService()), "/invoices/totals", "application/json", bytes.NewBufferString(body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"subtotal": null, "tax": null, "total": null,
		"formatted": {"subtotal": "€NaN", "tax": "€NaN", "total": "€NaN"}
	}`, rec.Body.String())
}

func TestHandler_Validate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Valid",
			body:       validBody,
			wantStatus: http.StatusOK,
			wantBody:   `{"valid": true}`,
		},
		{
			name:       "DueBeforeInvoice",
			body:       strings.Replace(validBody, `"2024-02-09"`, `"2024-01-05"`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody: `{
				"valid": false,
				"message": "Please fill in all required fields correctly",
				"errors": {"dueDate": "due_before_invoice"},
				"messages": {"dueDate": "Due date must be after invoice date"}
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(document.NewService()), "/invoices/validate", "application/json", bytes.NewBufferString(tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_PDF(t *testing.T) {
	rec := do(t, newRouter(document.NewService()), "/invoices/pdf", "application/json", bytes.NewBufferString(validBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "Invoice_INV-001_Jane_Doe.pdf", params["filename"])
}

func TestHandler_PDFInvalid(t *testing.T) {
	body := strings.Replace(validBody, `"Acme Studio"`, `"   "`, 1)

	rec := do(t, newRouter(document.NewService()), "/invoices/pdf", "application/json", bytes.NewBufferString(body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"businessName": "required"}, resp.Errors)
}

func TestHandler_PDFRenderFailure(t *testing.T) {
	rec := do(t, newRouter(failingGenerator{}), "/invoices/pdf", "application/json", bytes.NewBufferString(validBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Error generating PDF. Please try again."}`, rec.Body.String())
}

func TestHandler_BadJSON(t *testing.T) {
	rec := do(t, newRouter(document.NewService()), "/invoices/totals", "application/json", bytes.NewBufferString(`{"quantity": `))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_OversizedBody(t *testing.T) {
	body := bytes.NewBufferString(`{"businessName":"Acme","additionalNotes":"` + strings.Repeat("x", 5<<20) + `"}`)

	rec := do(t, newRouter(document.NewService()), "/invoices/totals", "application/json", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body too large")
}

func multipartBody(t *testing.T, fields map[string]string, logoType string, logo []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if logo != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="logo"; filename="logo.png"`)
		h.Set("Content-Type", logoType)

		part, err := mw.CreatePart(h)
		require.NoError(t, err)

		_, err = part.Write(logo)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 4))))

	return buf.Bytes()
}

func validFields() map[string]string {
	return map[string]string{
		"businessName":       "Acme Studio",
		"currency":           "£",
		"invoiceNumber":      "INV-002",
		"clientName":         "Bob",
		"invoiceDate":        "2024-01-10",
		"dueDate":            "2024-02-09",
		"serviceDescription": "Logo design",
		"quantity":           "1",
		"rate":               "1.234,50",
		"taxRate":            "0",
		"watermark":          "true",
	}
}

func TestHandler_PDFMultipartWithLogo(t *testing.T) {
	body, contentType := multipartBody(t, validFields(), "image/png", pngBytes(t))

	rec := do(t, newRouter(document.NewService()), "/invoices/pdf", contentType, body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestHandler_MultipartLogoRejected(t *testing.T) {
	tests := []struct {
		name     string
		logoType string
		logo     []byte
		wantMsg  string
	}{
		{name: "NotAnImage", logoType: "application/pdf", logo: []byte("%PDF-1.4"), wantMsg: "Please upload a valid image file"},
		{name: "DisguisedText", logoType: "image/png", logo: []byte("just some text"), wantMsg: "Please upload a valid image file"},
		{name: "TooLarge", logoType: "image/png", logo: append(pngBytes(t), make([]byte, 3*1024*1024)...), wantMsg: "Image size should be less than 2MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, validFields(), tt.logoType, tt.logo)

			rec := do(t, newRouter(document.NewService()), "/invoices/totals", contentType, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, tt.wantMsg), rec.Body.String())
		})
	}
}
