// navigation — связка URL и синхронизатора сегментов.
//
// Binder выводит состояние страницы из URL и на каждое действие
// пользователя (смена рубрики, окна времени, страницы сегмента, повтор)
// инвалидирует ровно затронутые сегменты, после чего переходит по новому URL.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
)

var (
	// ErrNoHistory — возвращаться некуда.
	ErrNoHistory = errors.New("no history")
	// ErrInvalidArgument — некорректные параметры действия.
	ErrInvalidArgument = errors.New("invalid argument")
)

// feeds — сегменты, которые инвалидирует смена рубрики.
var feeds = []segment.Key{segment.Headline, segment.Top, segment.Regular, segment.Search}

// Synchronizer — часть синхронизатора, которой управляет Binder.
type Synchronizer interface {
	Apply(invalidate []segment.Key, r route.Route) error
	Results() []segment.Result
	GeneralError() bool
}

// Latch — защёлка счётчика просмотров.
type Latch interface {
	Hit(ctx context.Context, id string) bool
}

// Navigation — итог действия: куда перейти и нужно ли прокручивать наверх.
type Navigation struct {
	URL      string `json:"url"`
	NoScroll bool   `json:"no_scroll"`
}

// Binder — навигация одной сессии ридера. Безопасен для конкурентного
// использования: действия сериализуются.
type Binder struct {
	mu      sync.Mutex
	segs    Synchronizer
	latch   Latch
	validID func(string) bool

	current route.Route
	history []route.Route
	started bool
}

// New создаёт Binder. latch может быть nil.
func New(s Synchronizer, latch Latch) *Binder {
	return &Binder{
		segs:    s,
		latch:   latch,
		validID: route.ValidPostID,
	}
}

// Start выполняет первичную оценку для стартового URL без инвалидации:
// всё, что есть в снапшоте, используется как есть.
func (b *Binder) Start(ctx context.Context, raw string) (Navigation, error) {
	const op = "navigation.Start"

	r, err := route.Parse(raw)
	if err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.segs.Apply(nil, r); err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	b.current = r
	b.started = true
	b.hitLocked(ctx)

	return Navigation{URL: r.String()}, nil
}

// Navigate переходит по ссылке или внешнему URL. Инвалидируются сегменты,
// чьи выведенные из URL входы изменились.
func (b *Binder) Navigate(ctx context.Context, raw string) (Navigation, error) {
	const op = "navigation.Navigate"

	r, err := route.Parse(raw)
	if err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	nav, err := b.goLocked(ctx, r, Diff(b.current, r), false, true)
	if err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	return nav, nil
}

// Back возвращает на предыдущий URL истории.
func (b *Binder) Back(ctx context.Context) (Navigation, error) {
	const op = "navigation.Back"

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.history) == 0 {
		return Navigation{}, fmt.Errorf("%s: %w", op, ErrNoHistory)
	}

	prev := b.history[len(b.history)-1]
	if err := b.segs.Apply(Diff(b.current, prev), prev); err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	b.history = b.history[:len(b.history)-1]
	b.current = prev
	b.hitLocked(ctx)

	return Navigation{URL: prev.String()}, nil
}

// ChangeCategory открывает ленту рубрики: инвалидируются все ленты,
// страницы всех сегментов сбрасываются на первую.
func (b *Binder) ChangeCategory(ctx context.Context, category string) (Navigation, error) {
	const op = "navigation.ChangeCategory"

	b.mu.Lock()
	defer b.mu.Unlock()

	r := route.Route{
		Kind:     route.KindHome,
		Category: category,
		TopRange: b.current.TopRange,
	}.Normalize()

	nav, err := b.goLocked(ctx, r, slices.Clone(feeds), false, true)
	if err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	return nav, nil
}

// ChangeTimeRange меняет окно времени топа. regular инвалидируется вместе
// с top, потому что зависит от его множества исключений.
func (b *Binder) ChangeTimeRange(ctx context.Context, raw string) (Navigation, error) {
	const op = "navigation.ChangeTimeRange"

	tr, err := segment.ParseTimeRange(raw)
	if err != nil {
		return Navigation{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.current
	r.TopRange = tr
	r.Pages = r.Pages.With(segment.Top, 1)

	nav, err := b.goLocked(ctx, r, []segment.Key{segment.Top, segment.Regular}, true, true)
	if err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	return nav, nil
}

// ChangePage меняет страницу одного сегмента, не трогая остальные.
func (b *Binder) ChangePage(ctx context.Context, key segment.Key, page int) (Navigation, error) {
	const op = "navigation.ChangePage"

	if !key.IsPaged() || page < 1 {
		return Navigation{}, fmt.Errorf("%s: segment=%q page=%d: %w", op, key, page, ErrInvalidArgument)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.current
	r.Pages = r.Pages.With(key, page)

	invalidate := []segment.Key{key}
	if r.Kind == route.KindPost && (key == segment.Headline || key == segment.Top) {
		invalidate = append(invalidate, segment.Regular)
	}

	nav, err := b.goLocked(ctx, r, invalidate, true, true)
	if err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	return nav, nil
}

// Retry повторяет упавшие сегменты. При общей ошибке повторяются все
// активные сегменты без достоверных данных. Здоровые сегменты не трогаются.
func (b *Binder) Retry(ctx context.Context) (Navigation, error) {
	const op = "navigation.Retry"

	b.mu.Lock()
	defer b.mu.Unlock()

	keys := RetryKeys(b.segs.Results(), b.segs.GeneralError())

	nav, err := b.goLocked(ctx, b.current, keys, true, false)
	if err != nil {
		return Navigation{}, fmt.Errorf("%s: %w", op, err)
	}

	return nav, nil
}

// Route возвращает текущий маршрут.
func (b *Binder) Route() route.Route {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}

// CanGoBack сообщает, есть ли куда возвращаться.
func (b *Binder) CanGoBack() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.history) > 0
}

func (b *Binder) goLocked(ctx context.Context, r route.Route, invalidate []segment.Key, noScroll, push bool) (Navigation, error) {
	if err := b.segs.Apply(invalidate, r); err != nil {
		return Navigation{}, err
	}

	if push && b.started && r != b.current {
		b.history = append(b.history, b.current)
	}

	b.current = r
	b.started = true
	b.hitLocked(ctx)

	return Navigation{URL: r.String(), NoScroll: noScroll}, nil
}

func (b *Binder) hitLocked(ctx context.Context) {
	if b.latch == nil || b.current.Kind != route.KindPost || !b.validID(b.current.PostID) {
		return
	}

	b.latch.Hit(ctx, b.current.PostID)
}

// Diff возвращает сегменты, чьи выведенные из URL входы различаются
// между маршрутами from и to.
func Diff(from, to route.Route) []segment.Key {
	set := make(map[segment.Key]bool)
	add := func(keys ...segment.Key) {
		for _, k := range keys {
			set[k] = true
		}
	}

	if !strings.EqualFold(from.Category, to.Category) {
		add(feeds...)
	}

	for _, k := range segment.Paged {
		if from.Page(k) != to.Page(k) {
			add(k)
		}
	}

	if from.TopRange != to.TopRange {
		add(segment.Top, segment.Regular)
	}

	if from.Query != to.Query {
		add(segment.Search)
	}

	if to.Kind == route.KindPost && from.PostID != to.PostID {
		add(segment.Post, segment.Regular)
	}

	out := make([]segment.Key, 0, len(set))
	for _, k := range segment.All {
		if set[k] {
			out = append(out, k)
		}
	}

	return out
}

// RetryKeys выбирает сегменты для повтора: упавшие, а при общей ошибке ещё
// и все активные без достоверных данных. not-found терминален и не повторяется.
func RetryKeys(results []segment.Result, generalError bool) []segment.Key {
	var out []segment.Key
	for _, r := range results {
		switch {
		case r.State == segment.StateErrored:
			out = append(out, r.Key)
		case generalError && !r.State.Healthy() && r.State != segment.StateNotFound:
			out = append(out, r.Key)
		}
	}

	return out
}
