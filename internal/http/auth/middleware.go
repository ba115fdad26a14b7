package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

type slotKey struct{}

// Middleware resolves which template slot a request works on. Without a configured secret
// every request shares the base slot; with one, a bearer token's subject selects its own slot.
type Middleware struct {
	secret   []byte
	baseSlot string
}

func New(secret, baseSlot string) *Middleware {
	if baseSlot == "" {
		baseSlot = template.DefaultSlot
	}

	return &Middleware{secret: []byte(secret), baseSlot: baseSlot}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slot := m.baseSlot

		header := r.Header.Get("Authorization")
		if header != "" && len(m.secret) > 0 {
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				http.Error(w, "unsupported authorization scheme", http.StatusUnauthorized)
				return
			}

			subject, err := m.subject(raw)
			if err != nil {
				slog.Debug("rejecting token", "error", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)

				return
			}

			slot = m.baseSlot + ":" + subject
		}

		next.ServeHTTP(w, r.WithContext(WithSlot(r.Context(), slot)))
	})
}

func (m *Middleware) subject(raw string) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}

	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}

	return claims.Subject, nil
}

func WithSlot(ctx context.Context, slot string) context.Context {
	return context.WithValue(ctx, slotKey{}, slot)
}

// Slot returns the template slot chosen for the request, or the default slot.
func Slot(ctx context.Context) string {
	if slot, ok := ctx.Value(slotKey{}).(string); ok && slot != "" {
		return slot
	}

	return template.DefaultSlot
}
