package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestMiddleware(t *testing.T) {
	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "alice"})
	noSubject := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{})
	hs512 := sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.RegisteredClaims{Subject: "alice"})

	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantSlot   string
	}{
		{name: "NoHeader", secret: secret, wantStatus: http.StatusOK, wantSlot: "invoiceTemplate"},
		{name: "NoSecretIgnoresHeader", secret: "", header: "Bearer " + valid, wantStatus: http.StatusOK, wantSlot: "invoiceTemplate"},
		{name: "ValidToken", secret: secret, header: "Bearer " + valid, wantStatus: http.StatusOK, wantSlot: "invoiceTemplate:alice"},
		{name: "Expired", secret: secret, header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "WrongKey", secret: secret, header: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized},
		{name: "NoSubject", secret: secret, header: "Bearer " + noSubject, wantStatus: http.StatusUnauthorized},
		{name: "WrongAlgorithm", secret: secret, header: "Bearer " + hs512, wantStatus: http.StatusUnauthorized},
		{name: "BasicScheme", secret: secret, header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSlot string

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSlot = auth.Slot(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/template", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			auth.New(tt.secret, "").Handler(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantSlot, gotSlot)
		})
	}
}

func TestSlot_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "invoiceTemplate", auth.Slot(req.Context()))
	assert.Equal(t, "custom", auth.Slot(auth.WithSlot(req.Context(), "custom")))
}
