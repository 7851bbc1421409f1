// log прокладывает request-scoped *slog.Logger через context.Context.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста (или возвращает slog.Default()).
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}

	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}

// With возвращает контекст с логгером, обогащённым attrs.
// Удобно для фоновых горутин, которые живут дольше запроса.
func With(ctx context.Context, attrs ...any) context.Context {
	return Into(ctx, From(ctx).With(attrs...))
}
