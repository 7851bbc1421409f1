package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	logctx "github.com/pribylovaa/news-portal/pkg/log"
)

// ClientUnaryLoggingInterceptor — логирование исходящих unary-вызовов.
//
// Поведение:
//   - берёт x-request-id из исходящего metadata (или генерирует и добавляет);
//   - логгер берётся из контекста (если там есть логгер сессии), иначе base;
//   - обогащённый логгер прокладывается в контекст вызова;
//   - одна итоговая запись: msg="grpc", code, dur. Отмена пишется на Debug:
//     вытесненные загрузки сегментов — штатная ситуация.
//
// Payload не логируется.
func ClientUnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryClientInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()

		var rid string
		if md, ok := metadata.FromOutgoingContext(ctx); ok {
			if v := md.Get("x-request-id"); len(v) > 0 && v[0] != "" {
				rid = v[0]
			}
		}
		if rid == "" {
			rid = uuid.NewString()
			ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", rid)
		}

		target := "-"
		if cc != nil && cc.Target() != "" {
			target = cc.Target()
		}

		l := base
		if ctxLog := logctx.From(ctx); ctxLog != slog.Default() {
			l = ctxLog
		}
		l = l.With(
			slog.String("request_id", rid),
			slog.String("method", method),
			slog.String("target", target),
		)
		ctx = logctx.Into(ctx, l)

		err := invoker(ctx, method, req, reply, cc, opts...)

		code := status.Code(err)
		lvl := slog.LevelInfo
		if code == codes.Canceled {
			lvl = slog.LevelDebug
		}
		l.LogAttrs(ctx, lvl, "grpc",
			slog.String("code", code.String()),
			slog.Duration("dur", time.Since(start)),
		)

		return err
	}
}
