package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/news-portal/internal/errors"
	logctx "github.com/pribylovaa/news-portal/pkg/log"
)

var errPanic = errors.New("internal")

// Recover перехватывает panic обработчика сессии и отвечает 500/internal
// в общем конверте (request_id берётся из заголовка, его ставит RequestID).
// В лог попадают id запроса и id сессии ридера, если маршрут его содержит.
// http.ErrAbortHandler пробрасывается дальше: net/http обрывает соединение молча.
// Recover стоит снаружи Logging, поэтому логгер передаётся явно; nil — логгер из контекста.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []slog.Attr{
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", r.Header.Get("X-Request-Id")),
					slog.Any("reason", rec),
				}
				if sid := sessionID(r); sid != "" {
					attrs = append(attrs, slog.String("session_id", sid))
				}
				lg := log
				if lg == nil {
					lg = logctx.From(r.Context())
				}
				lg.LogAttrs(r.Context(), slog.LevelError, "panic", attrs...)

				apierrors.WriteError(w, r, errPanic)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// sessionID достаёт {id} из маршрута chi. Контекст маршрута общий для всех
// уровней роутера, поэтому параметр виден и здесь, снаружи роутинга.
func sessionID(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.URLParam("id")
}
