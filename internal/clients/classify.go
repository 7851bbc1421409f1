package clients

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apierrors "github.com/pribylovaa/news-portal/internal/errors"
	"github.com/pribylovaa/news-portal/internal/segment"
)

// classify переводит ошибку вызова в таксономию сегментов:
//   - отменённый ctx или Canceled -> segment.ErrCancelled;
//   - Unavailable, DeadlineExceeded -> segment.ErrNetwork;
//   - NotFound -> segment.ErrNotFound;
//   - прочие коды -> *segment.ServerError с HTTP-эквивалентом статуса.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", segment.ErrCancelled, err)
	}

	st, ok := status.FromError(err)
	if !ok {
		switch {
		case errors.Is(err, context.Canceled):
			return fmt.Errorf("%w: %w", segment.ErrCancelled, err)
		default:
			// Дедлайн, ошибки лимитера и прочие сбои до ответа бэкенда.
			return fmt.Errorf("%w: %w", segment.ErrNetwork, err)
		}
	}

	switch st.Code() {
	case codes.Canceled:
		return fmt.Errorf("%w: %s", segment.ErrCancelled, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", segment.ErrNetwork, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", segment.ErrNotFound, st.Message())
	default:
		return &segment.ServerError{
			Status:  apierrors.HTTPStatusFromCode(st.Code()),
			Message: st.Message(),
		}
	}
}
