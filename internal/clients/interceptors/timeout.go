package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// ClientWithTimeout навешивает таймаут d на исходящий вызов, если у
// контекста ещё нет дедлайна.
//
// Контракт:
//  1. d <= 0 — контекст не меняется;
//  2. у ctx уже есть deadline — оставляем как есть;
//  3. иначе — context.WithTimeout(ctx, d) с гарантированным cancel().
func ClientWithTimeout(d time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if d <= 0 {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		if _, ok := ctx.Deadline(); ok {
			return invoker(ctx, method, req, reply, cc, opts...)
		}

		cctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		return invoker(cctx, method, req, reply, cc, opts...)
	}
}
