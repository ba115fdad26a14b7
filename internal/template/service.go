package template

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultSlot is the slot used when no other is configured.
const DefaultSlot = "invoiceTemplate"

// Messages shown after an explicit save.
const (
	SavedMessage      = "✅ Template saved successfully!"
	SaveFailedMessage = "Error saving template. Please try again."
)

// ErrNotFound is returned by a Store when the slot has never been written.
var ErrNotFound = errors.New("template slot not found")

//go:generate mockgen -source=service.go -destination=store_mock.go -package=template
type Store interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, data []byte) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock returns a copy of the service that stamps saves with now.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{store: s.store, now: now}
}

// Save overwrites the slot with t and returns the template as stored.
func (s *Service) Save(ctx context.Context, slot string, t Template) (Template, error) {
	t.SavedAt = s.now().UTC()

	data, err := encode(t)
	if err != nil {
		return Template{}, fmt.Errorf("saving template: %w", err)
	}

	if err := s.store.Set(ctx, slot, data); err != nil {
		return Template{}, fmt.Errorf("saving template: %w", err)
	}

	return t, nil
}

// Load reads the slot. The boolean reports whether a saved template was found; an absent or
// unreadable record yields Defaults and no error.
func (s *Service) Load(ctx context.Context, slot string) (Template, bool, error) {
	data, err := s.store.Get(ctx, slot)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), false, nil
	}

	if err != nil {
		return Defaults(), false, fmt.Errorf("loading template: %w", err)
	}

	t, err := decode(data)
	if err != nil {
		slog.Debug("ignoring unreadable template", "slot", slot, "error", err)
		return Defaults(), false, nil
	}

	return t, true, nil
}
