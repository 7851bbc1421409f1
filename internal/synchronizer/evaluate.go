package synchronizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/news-portal/internal/exclusion"
	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/plan"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
)

// evaluateLocked проходит активные сегменты в порядке плана.
//
// Правила для каждого сегмента:
//  1. невалидный id публикации или пустой поисковый запрос — not-found, без загрузки;
//  2. есть свежее значение в снапшоте — snapshot-fresh, без загрузки;
//  3. вышестоящие сегменты не разрешены — ждём (загрузка в полёте отменяется);
//  4. те же фильтры уже загружаются или загружены — ничего не делаем;
//  5. иначе вытесняем прежнюю загрузку и запускаем новую.
func (s *Synchronizer) evaluateLocked() {
	r := s.route

	for _, step := range plan.Steps(r.Kind) {
		sl := s.slots[step.Key]

		if f, ok := s.unreachable(step.Key, r); ok {
			if sl.state != segment.StateNotFound || sl.filters != f {
				s.supersedeLocked(sl)
				sl.state = segment.StateNotFound
				sl.data = segment.Data{}
				sl.err = segment.ErrNotFound
				sl.filters = f
				sl.issued = true
			}
			continue
		}

		if d, ok := s.freshLocked(step.Key, r); ok {
			if sl.state != segment.StateSnapshotFresh {
				s.supersedeLocked(sl)
				sl.state = segment.StateSnapshotFresh
				sl.data = d
				sl.err = nil
			}
			if s.resolvedLocked(step.DependsOn) {
				sl.filters = plan.Filters(r, step.Key, s.upstreamLocked(), s.sizes)
				sl.issued = true
			}
			continue
		}

		if !s.resolvedLocked(step.DependsOn) {
			if sl.state == segment.StateFetching {
				s.supersedeLocked(sl)
				sl.state = segment.StateIdle
			}
			continue
		}

		f := plan.Filters(r, step.Key, s.upstreamLocked(), s.sizes)
		if sl.issued && sl.filters == f {
			switch sl.state {
			case segment.StateFetching, segment.StateFetched, segment.StateErrored, segment.StateNotFound:
				continue
			}
		}

		s.startLocked(step.Key, sl, f)
	}
}

// unreachable сообщает, что сегмент на маршруте r адресовать нечем:
// id публикации невалиден или поисковый запрос пуст.
func (s *Synchronizer) unreachable(key segment.Key, r route.Route) (segment.Filters, bool) {
	switch {
	case key == segment.Post && !s.validID(r.PostID):
		return segment.Filters{PostID: r.PostID}, true
	case key == segment.Search && r.Query == "":
		return segment.Filters{}, true
	}

	return segment.Filters{}, false
}

// freshLocked возвращает значение снапшота, если оно пригодно для маршрута r.
// Для публикации значение пригодно только при совпадении id.
func (s *Synchronizer) freshLocked(key segment.Key, r route.Route) (segment.Data, bool) {
	if !s.store.Has(key) || s.store.HasError(key) {
		return segment.Data{}, false
	}

	d, ok := s.store.Get(key)
	if !ok {
		return segment.Data{}, false
	}

	if key == segment.Post && (d.Post == nil || d.Post.ID != r.PostID) {
		return segment.Data{}, false
	}

	return d, true
}

func (s *Synchronizer) resolvedLocked(deps []segment.Key) bool {
	for _, d := range deps {
		if !s.slots[d].state.Resolved() {
			return false
		}
	}

	return true
}

// upstreamLocked собирает разрешённые значения вышестоящих сегментов.
// Упавший или неразрешённый сегмент даёт nil.
func (s *Synchronizer) upstreamLocked() exclusion.Upstream {
	healthy := func(k segment.Key) segment.Data {
		sl := s.slots[k]
		if !sl.state.Healthy() {
			return segment.Data{}
		}
		return sl.data
	}

	return exclusion.Upstream{
		Headline: healthy(segment.Headline).Page,
		Top:      healthy(segment.Top).Page,
		Post:     healthy(segment.Post).Post,
	}
}

// supersedeLocked отменяет загрузку в полёте и делает её результат устаревшим.
func (s *Synchronizer) supersedeLocked(sl *slot) {
	if sl.cancel != nil {
		sl.cancel()
		sl.cancel = nil
	}
	sl.gen++
}

func (s *Synchronizer) startLocked(key segment.Key, sl *slot, f segment.Filters) {
	s.supersedeLocked(sl)

	if !sl.issued || sl.filters != f {
		sl.data = segment.Data{}
	}

	ctx, cancel := context.WithCancel(s.base)
	sl.state = segment.StateFetching
	sl.err = nil
	sl.filters = f
	sl.issued = true
	sl.cancel = cancel

	if s.inflight == 0 {
		s.idle = make(chan struct{})
	}
	s.inflight++

	s.log.Debug("sync_fetch_started",
		slog.String("segment", string(key)),
		slog.Uint64("gen", sl.gen),
	)

	go s.run(ctx, key, f, sl.gen)
}

func (s *Synchronizer) run(ctx context.Context, key segment.Key, f segment.Filters, gen uint64) {
	start := time.Now()
	d, err := s.fetch(ctx, key, f)
	took := time.Since(start)

	kind := segment.Classify(err)
	if err == nil && ctx.Err() != nil {
		kind = segment.KindCancelled
	}
	s.observer.ObserveFetch(key, Outcome(kind), took)

	s.complete(key, gen, d, err, kind)
}

func (s *Synchronizer) fetch(ctx context.Context, key segment.Key, f segment.Filters) (segment.Data, error) {
	const op = "synchronizer.fetch"

	switch key {
	case segment.Categories:
		cats, err := s.fetcher.Categories(ctx)
		if err != nil {
			return segment.Data{}, fmt.Errorf("%s: %w", op, err)
		}
		if cats == nil {
			cats = []models.Category{}
		}
		return segment.Data{Categories: cats}, nil

	case segment.Post:
		p, err := s.fetcher.Post(ctx, f.PostID)
		if err != nil {
			return segment.Data{}, fmt.Errorf("%s: %w", op, err)
		}
		if p == nil {
			return segment.Data{}, fmt.Errorf("%s: post %q: %w", op, f.PostID, segment.ErrNotFound)
		}
		return segment.Data{Post: p}, nil

	default:
		page, err := s.fetcher.Search(ctx, f)
		if err != nil {
			return segment.Data{}, fmt.Errorf("%s: %w", op, err)
		}
		if page == nil {
			page = &models.PostPage{}
		}
		return segment.Data{Page: page}, nil
	}
}

// complete применяет результат загрузки, если он ещё актуален,
// и переоценивает сегменты: зависимые могли разблокироваться.
func (s *Synchronizer) complete(key segment.Key, gen uint64, d segment.Data, err error, kind segment.ErrorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer s.doneLocked()

	sl := s.slots[key]
	if s.closed || sl.gen != gen {
		s.log.Debug("sync_result_discarded",
			slog.String("segment", string(key)),
			slog.Uint64("gen", gen),
		)
		return
	}

	if sl.cancel != nil {
		sl.cancel()
		sl.cancel = nil
	}

	switch kind {
	case segment.KindNone:
		sl.state = segment.StateFetched
		sl.data = d
		sl.err = nil
	case segment.KindCancelled:
		// Поколение актуально, значит отменили не мы: сегмент снова
		// становится кандидатом на загрузку.
		sl.state = segment.StateIdle
		sl.err = nil
		s.log.Debug("sync_fetch_cancelled_upstream", slog.String("segment", string(key)))
	case segment.KindNotFound:
		if key == segment.Post {
			sl.state = segment.StateNotFound
			sl.data = segment.Data{}
			sl.err = segment.ErrNotFound
			s.log.Info("sync_post_not_found", slog.String("post_id", sl.filters.PostID))
			break
		}
		fallthrough
	default:
		sl.state = segment.StateErrored
		sl.data = segment.Data{}
		sl.err = err
		s.log.Warn("sync_fetch_failed",
			slog.String("segment", string(key)),
			slog.String("kind", string(kind)),
			slog.String("err", err.Error()),
		)
	}

	s.evaluateLocked()
	s.notifyLocked()
}

// doneLocked учитывает завершение загрузки и будит ждущих Settle.
func (s *Synchronizer) doneLocked() {
	s.inflight--
	if s.inflight == 0 && s.idle != nil {
		close(s.idle)
		s.idle = nil
	}
}
