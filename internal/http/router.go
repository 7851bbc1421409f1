package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/news-portal/internal/http/handlers"
	"github.com/pribylovaa/news-portal/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	// Settle — бюджет ожидания загрузок сессии; дедлайн запроса не короче него.
	Settle   time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(sessions handlers.Sessions, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(opts.Logger),
		middleware.RequestID(),          // до логирования: id попадает в attrs
		middleware.Logging(opts.Logger), // request-scoped логгер в контексте
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout, opts.Settle))
	}

	h := handlers.New(sessions)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/snapshot", h.GetSnapshot)

	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)

		r.Post("/navigate", h.Navigate)
		r.Post("/back", h.Back)
		r.Post("/category", h.ChangeCategory)
		r.Post("/time-range", h.ChangeTimeRange)
		r.Post("/page", h.ChangePage)
		r.Post("/retry", h.Retry)
	})
}
