// session — сессии ридера в памяти шлюза.
//
// Сессия владеет одним хранилищем снапшота, одним синхронизатором,
// одной навигацией и одной защёлкой просмотров. Сессии не переживают
// рестарт процесса и вытесняются после простоя дольше TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pribylovaa/news-portal/internal/navigation"
	"github.com/pribylovaa/news-portal/internal/projector"
	"github.com/pribylovaa/news-portal/internal/segment"
	"github.com/pribylovaa/news-portal/internal/synchronizer"
	logctx "github.com/pribylovaa/news-portal/pkg/log"
)

// Session — одна сессия ридера.
type Session struct {
	ID string

	syncer *synchronizer.Synchronizer
	binder *navigation.Binder
	log    *slog.Logger

	settle   time.Duration
	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// LastSeen возвращает момент последнего обращения к сессии.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// ctx добавляет в контекст логгер сессии.
func (s *Session) ctx(ctx context.Context) context.Context {
	return logctx.Into(ctx, s.log)
}

// Navigate переходит по URL.
func (s *Session) Navigate(ctx context.Context, raw string) (navigation.Navigation, error) {
	return s.binder.Navigate(s.ctx(ctx), raw)
}

// Back возвращает на предыдущий URL.
func (s *Session) Back(ctx context.Context) (navigation.Navigation, error) {
	return s.binder.Back(s.ctx(ctx))
}

// ChangeCategory открывает ленту рубрики.
func (s *Session) ChangeCategory(ctx context.Context, category string) (navigation.Navigation, error) {
	return s.binder.ChangeCategory(s.ctx(ctx), category)
}

// ChangeTimeRange меняет окно времени топа.
func (s *Session) ChangeTimeRange(ctx context.Context, tr string) (navigation.Navigation, error) {
	return s.binder.ChangeTimeRange(s.ctx(ctx), tr)
}

// ChangePage меняет страницу сегмента.
func (s *Session) ChangePage(ctx context.Context, key segment.Key, page int) (navigation.Navigation, error) {
	return s.binder.ChangePage(s.ctx(ctx), key, page)
}

// Retry повторяет упавшие сегменты.
func (s *Session) Retry(ctx context.Context) (navigation.Navigation, error) {
	return s.binder.Retry(s.ctx(ctx))
}

// View дожидается завершения загрузок (не дольше таймаута сессии
// и не дольше ctx) и возвращает проекцию страницы. Если загрузки не
// успели завершиться, проекция показывает loading.
func (s *Session) View(ctx context.Context) (View, error) {
	const op = "session.View"

	if s.settle > 0 {
		sctx, cancel := context.WithTimeout(ctx, s.settle)
		err := s.syncer.Settle(sctx)
		cancel()

		if err != nil && ctx.Err() != nil {
			return View{}, fmt.Errorf("%s: %w", op, ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Debug("session_settle_timeout", slog.String("op", op))
		}
	}

	return s.snapshotView(), nil
}

func (s *Session) snapshotView() View {
	r, results, general := s.syncer.Observe()

	return View{
		URL:       r.String(),
		Route:     r,
		Flags:     projector.Project(r, results, general),
		CanGoBack: s.binder.CanGoBack(),
		Segments:  segmentViews(r, results),
	}
}

// Close останавливает загрузки сессии.
func (s *Session) Close() {
	s.syncer.Close()
}
