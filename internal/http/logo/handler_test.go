package logo_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logoHandler "github.com/MrJamesThe3rd/invoicer/internal/http/logo"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

func upload(t *testing.T, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="logo"; filename="logo.png"`)
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	r := chi.NewRouter()
	r.Route("/logo", logoHandler.NewHandler().Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Upload(t *testing.T) {
	var pngData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, image.NewGray(image.Rect(0, 0, 2, 2))))

	rec := upload(t, "image/png", pngData.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		DataURL string `json:"dataUrl"`
		MIME    string `json:"mime"`
		Size    int64  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "image/png", resp.MIME)
	assert.Equal(t, int64(pngData.Len()), resp.Size)
	assert.True(t, strings.HasPrefix(resp.DataURL, "data:image/png;base64,"))

	img, err := logo.ParseDataURL(resp.DataURL)
	require.NoError(t, err)
	assert.Equal(t, pngData.Bytes(), img.Data)
}

func TestHandler_UploadRejected(t *testing.T) {
	rec := upload(t, "text/plain", []byte("hello"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Please upload a valid image file"}`, rec.Body.String())
}

func TestHandler_UploadTooLarge(t *testing.T) {
	rec := upload(t, "image/png", make([]byte, 3*1024*1024))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Image size should be less than 2MB"}`, rec.Body.String())
}

func TestHandler_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	r := chi.NewRouter()
	logoHandler.NewHandler().Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
