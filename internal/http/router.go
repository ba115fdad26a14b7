package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/invoicer/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicer/internal/http/export"
	"github.com/MrJamesThe3rd/invoicer/internal/http/importbatch"
	"github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/http/logo"
	"github.com/MrJamesThe3rd/invoicer/internal/http/template"
)

type Options struct {
	// Origins allowed to call the API from a browser. Empty allows any origin.
	Origins []string
	Timeout time.Duration
	Auth    *auth.Middleware
}

func New(
	opts Options,
	invoicesV1 *invoice.Handler,
	logoV1 *logo.Handler,
	templateV1 *template.Handler,
	importV1 *importbatch.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	origins := opts.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	authMw := opts.Auth
	if authMw == nil {
		authMw = auth.New("", "")
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authMw.Handler)

		r.Route("/invoices", invoicesV1.Routes)
		r.Route("/logo", logoV1.Routes)

		r.Route("/template", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			templateV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			exportV1.Routes(r)
		})
	})

	return router
}
