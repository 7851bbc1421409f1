// interceptors — клиентские gRPC-интерсепторы вызовов к бэкенду контента.
package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type CtxKey string

const (
	CtxRequestID CtxKey = "request_id"
	CtxSessionID CtxKey = "session_id"
)

// WithRequestID кладёт id запроса в контекст.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxRequestID, id)
}

// WithSessionID кладёт id сессии ридера в контекст.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxSessionID, id)
}

// ClientWithMetadata — добавляет в исходящий gRPC вызов заголовки:
//   - x-request-id (если есть в контексте),
//   - x-session-id (если есть в контексте),
//   - user-agent (если передан параметром).
func ClientWithMetadata(userAgent string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		var pairs []string

		if rid, _ := ctx.Value(CtxRequestID).(string); rid != "" {
			pairs = append(pairs, "x-request-id", rid)
		}
		if sid, _ := ctx.Value(CtxSessionID).(string); sid != "" {
			pairs = append(pairs, "x-session-id", sid)
		}
		if userAgent != "" {
			pairs = append(pairs, "user-agent", userAgent)
		}
		if len(pairs) > 0 {
			ctx = metadata.AppendToOutgoingContext(ctx, pairs...)
		}

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
