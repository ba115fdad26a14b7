// Package app wires the services shared by the invoicer binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/invoicer/internal/archive"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/document"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
	"github.com/MrJamesThe3rd/invoicer/internal/template/store"
)

type Services struct {
	Documents *document.Service
	Templates *template.Service
	Importer  *importer.Service
	Export    *export.Service

	closer io.Closer
}

// New opens the template store and builds every service on top of it.
func New(ctx context.Context, cfg *config.Config) (*Services, error) {
	st, closer, err := store.FromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening template store: %w", err)
	}

	var opts []document.Option

	archiver, err := archive.FromConfig(cfg)
	if err != nil {
		closer.Close()
		return nil, err
	}

	if archiver != nil {
		slog.Info("archiving invoices", "bucket", cfg.Archive.Bucket, "prefix", cfg.Archive.Prefix)
		opts = append(opts, document.WithArchiver(archiver))
	}

	documents := document.NewService(opts...)

	return &Services{
		Documents: documents,
		Templates: template.NewService(st),
		Importer:  importer.NewService(),
		Export:    export.NewService(documents),
		closer:    closer,
	}, nil
}

func (s *Services) Close() error {
	return s.closer.Close()
}
