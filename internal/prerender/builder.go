// prerender собирает серверный снапшот страницы: то, что получает
// синхронизатор сессии при старте.
package prerender

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pribylovaa/news-portal/internal/exclusion"
	"github.com/pribylovaa/news-portal/internal/plan"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
	"github.com/pribylovaa/news-portal/internal/snapshot"
	"github.com/pribylovaa/news-portal/internal/synchronizer"
	logctx "github.com/pribylovaa/news-portal/pkg/log"
)

// DefaultConcurrency — сколько сегментов одной волны грузится параллельно.
const DefaultConcurrency = 4

// Builder строит снапшот волнами плана: сегменты одной волны грузятся
// параллельно, следующая волна видит разрешённые значения предыдущих.
type Builder struct {
	fetcher     synchronizer.Fetcher
	sizes       plan.Sizes
	observer    synchronizer.Observer
	concurrency int
}

// New создаёт Builder. observer может быть nil.
func New(f synchronizer.Fetcher, sizes plan.Sizes, observer synchronizer.Observer) *Builder {
	return &Builder{
		fetcher:     f,
		sizes:       sizes,
		observer:    observer,
		concurrency: DefaultConcurrency,
	}
}

// Build собирает снапшот для маршрута r.
//
// Упавший сегмент получает флаг "<key>Error" без значения; ненайденная или
// некорректно адресованная публикация в снапшот не попадает вовсе, как и
// поиск с пустым запросом.
// Ошибка возвращается только при отмене ctx.
func (b *Builder) Build(ctx context.Context, r route.Route) (snapshot.Snapshot, error) {
	const op = "prerender.Build"

	lg := logctx.From(ctx)

	var (
		mu   sync.Mutex
		snap snapshot.Snapshot
	)

	for _, stage := range plan.Stages(r.Kind) {
		up := upstream(&snap)

		var g errgroup.Group
		g.SetLimit(b.concurrency)

		for _, key := range stage {
			if addressless(key, r) {
				continue
			}

			f := plan.Filters(r, key, up, b.sizes)

			g.Go(func() error {
				start := time.Now()
				d, err := b.fetch(ctx, key, f)
				kind := segment.Classify(err)
				if b.observer != nil {
					b.observer.ObserveFetch(key, synchronizer.Outcome(kind), time.Since(start))
				}

				mu.Lock()
				defer mu.Unlock()

				switch kind {
				case segment.KindNone:
					snap.Set(key, d)
				case segment.KindCancelled, segment.KindNotFound:
				default:
					snap.SetError(key)
					lg.Warn("prerender_segment_failed",
						slog.String("op", op),
						slog.String("segment", string(key)),
						slog.String("kind", string(kind)),
						slog.String("err", err.Error()),
					)
				}

				return nil
			})
		}

		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return snap, nil
}

func (b *Builder) fetch(ctx context.Context, key segment.Key, f segment.Filters) (segment.Data, error) {
	switch key {
	case segment.Categories:
		cats, err := b.fetcher.Categories(ctx)
		return segment.Data{Categories: cats}, err
	case segment.Post:
		p, err := b.fetcher.Post(ctx, f.PostID)
		if err == nil && p == nil {
			err = segment.ErrNotFound
		}
		return segment.Data{Post: p}, err
	default:
		page, err := b.fetcher.Search(ctx, f)
		return segment.Data{Page: page}, err
	}
}

// addressless — сегмент нечем адресовать: загружать его бессмысленно.
func addressless(key segment.Key, r route.Route) bool {
	switch key {
	case segment.Post:
		return !route.ValidPostID(r.PostID)
	case segment.Search:
		return r.Query == ""
	}
	return false
}

func upstream(s *snapshot.Snapshot) exclusion.Upstream {
	return exclusion.Upstream{
		Headline: s.Headline,
		Top:      s.Top,
		Post:     s.Post,
	}
}

