package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/news-portal/internal/clients/interceptors"
)

// RequestID обеспечивает наличие X-Request-Id:
//  1. читает заголовок X-Request-Id, если есть;
//  2. иначе генерирует UUID;
//  3. кладёт id в Response Header, Request Header (его читает errors.WriteError)
//     и в контекст (его читает metadata-интерсептор вызовов к бэкенду).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.NewString()
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			ctx := interceptors.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
