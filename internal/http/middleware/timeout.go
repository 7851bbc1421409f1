package middleware

import (
	"context"
	"net/http"
	"time"
)

// SettleHeadroom — запас сверх бюджета ожидания загрузок сессии на само
// действие и запись ответа.
const SettleHeadroom = time.Second

// Timeout навешивает deadline на запрос, если его ещё нет.
// Дедлайн не короче settle+SettleHeadroom: View сессии должен успеть выждать
// свои загрузки, иначе ответ всегда уходил бы с loading.
// Значение d<=0 делает мидлвар no-op.
func Timeout(d, settle time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		if settle > 0 && d < settle+SettleHeadroom {
			d = settle + SettleHeadroom
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
