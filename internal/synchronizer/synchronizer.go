//go:generate mockgen -source=synchronizer.go -destination=../../mocks/mock_fetcher.go -package=mocks Fetcher

// synchronizer — синхронизатор сегментов страницы ридера.
//
// Для каждого активного сегмента текущего маршрута синхронизатор решает:
// взять значение из серверного снапшота, ждать вышестоящие сегменты или
// загрузить данные через Fetcher. Загрузки выполняются в горутинах; все
// переходы состояний происходят под одним мьютексом. У сегмента не больше
// одной загрузки в полёте: новая вытесняет (отменяет) предыдущую, а результат
// применяется только если его поколение всё ещё актуально.
package synchronizer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/plan"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
	logctx "github.com/pribylovaa/news-portal/pkg/log"
)

// ErrClosed — синхронизатор закрыт.
var ErrClosed = errors.New("synchronizer closed")

// Fetcher — потребляемый контракт загрузки данных сегментов.
// Отмена передаётся через ctx; отменённая загрузка должна вернуть ошибку,
// классифицируемую как segment.KindCancelled.
type Fetcher interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Post(ctx context.Context, id string) (*models.Post, error)
	Search(ctx context.Context, f segment.Filters) (*models.PostPage, error)
}

// Store — хранилище снапшота, с которым работает синхронизатор.
type Store interface {
	Has(key segment.Key) bool
	Get(key segment.Key) (segment.Data, bool)
	HasError(key segment.Key) bool
	Drop(keys ...segment.Key)
}

// slot — состояние одного сегмента.
type slot struct {
	state   segment.State
	data    segment.Data
	err     error
	filters segment.Filters
	// issued — filters вычислены и относятся к data/state.
	issued bool
	gen    uint64
	cancel context.CancelFunc
}

// Synchronizer — синхронизатор сегментов одной сессии ридера.
type Synchronizer struct {
	fetcher Fetcher
	store   Store
	sizes   plan.Sizes

	log      *slog.Logger
	observer Observer
	validID  func(string) bool

	parent     context.Context
	base       context.Context
	cancelBase context.CancelFunc

	mu       sync.Mutex
	route    route.Route
	slots    map[segment.Key]*slot
	inflight int
	idle     chan struct{}
	subs     map[int]chan struct{}
	nextSub  int
	closed   bool
}

// New создаёт синхронизатор. Оценка не начинается до первого Apply.
func New(fetcher Fetcher, store Store, sizes plan.Sizes, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		fetcher:  fetcher,
		store:    store,
		sizes:    sizes,
		log:      slog.Default(),
		observer: nopObserver{},
		validID:  route.ValidPostID,
		parent:   context.Background(),
		slots:    make(map[segment.Key]*slot, len(segment.All)),
		subs:     make(map[int]chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, k := range segment.All {
		s.slots[k] = &slot{state: segment.StateIdle}
	}

	s.base, s.cancelBase = context.WithCancel(logctx.Into(s.parent, s.log))

	return s
}

// Apply атомарно инвалидирует ключи invalidate и переоценивает сегменты
// для маршрута r. Инвалидация удаляет значение из снапшота и из
// синхронизатора и отменяет загрузку в полёте.
func (s *Synchronizer) Apply(invalidate []segment.Key, r route.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.resetLocked(invalidate...)
	s.route = r

	var leaving []segment.Key
	for _, k := range segment.All {
		if !plan.IsActive(r.Kind, k) {
			leaving = append(leaving, k)
		}
	}
	s.resetLocked(leaving...)

	s.evaluateLocked()
	s.notifyLocked()

	return nil
}

// Invalidate сбрасывает указанные сегменты и переоценивает текущий маршрут.
func (s *Synchronizer) Invalidate(keys ...segment.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.resetLocked(keys...)
	s.evaluateLocked()
	s.notifyLocked()

	return nil
}

// Refresh переоценивает текущий маршрут без инвалидации. Повторная оценка
// с теми же входами не порождает новых загрузок.
func (s *Synchronizer) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.evaluateLocked()
	s.notifyLocked()

	return nil
}

// Route возвращает маршрут последней оценки.
func (s *Synchronizer) Route() route.Route {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.route
}

// Result возвращает наблюдаемое состояние сегмента.
func (s *Synchronizer) Result(key segment.Key) segment.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resultLocked(key)
}

// Results возвращает состояния активных сегментов текущего маршрута в порядке плана.
func (s *Synchronizer) Results() []segment.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resultsLocked()
}

// Observe возвращает маршрут, результаты его сегментов и флаг общей ошибки
// одним снимком: все три значения согласованы между собой.
func (s *Synchronizer) Observe() (route.Route, []segment.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.route, s.resultsLocked(), s.generalErrorLocked()
}

// GeneralError сообщает, что рубрики упали и снапшот их не покрывает:
// страница целиком в состоянии общей ошибки.
func (s *Synchronizer) GeneralError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generalErrorLocked()
}

// Subscribe возвращает канал уведомлений об изменениях и функцию отписки.
// Уведомления схлопываются: канал буферизован на одно событие.
func (s *Synchronizer) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++

	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subs, id)
	}
}

// Settle блокируется, пока не завершатся все загрузки (включая те, что
// запустились по цепочке зависимостей), либо до отмены ctx.
func (s *Synchronizer) Settle(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.inflight == 0 {
			s.mu.Unlock()
			return nil
		}
		ch := s.idle
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close отменяет все загрузки. Результаты, пришедшие после Close, отбрасываются.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	s.cancelBase()
	for _, sl := range s.slots {
		if sl.cancel != nil {
			sl.cancel()
			sl.cancel = nil
		}
	}

	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Synchronizer) resultsLocked() []segment.Result {
	keys := plan.Active(s.route.Kind)
	out := make([]segment.Result, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.resultLocked(k))
	}

	return out
}

func (s *Synchronizer) resultLocked(key segment.Key) segment.Result {
	sl, ok := s.slots[key]
	if !ok {
		return segment.Result{Key: key, State: segment.StateIdle}
	}

	return segment.Result{
		Key:     key,
		State:   sl.state,
		Data:    sl.data,
		Err:     sl.err,
		Filters: sl.filters,
	}
}

func (s *Synchronizer) generalErrorLocked() bool {
	if !plan.IsActive(s.route.Kind, segment.Categories) {
		return false
	}

	return s.slots[segment.Categories].state == segment.StateErrored
}

// resetLocked возвращает сегменты в idle и удаляет их из снапшота.
func (s *Synchronizer) resetLocked(keys ...segment.Key) {
	if len(keys) == 0 {
		return
	}

	s.store.Drop(keys...)

	for _, k := range keys {
		sl, ok := s.slots[k]
		if !ok {
			continue
		}

		if sl.cancel != nil {
			sl.cancel()
			sl.cancel = nil
		}

		*sl = slot{state: segment.StateIdle, gen: sl.gen + 1}
	}
}

func (s *Synchronizer) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
