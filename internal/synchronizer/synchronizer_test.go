package synchronizer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/plan"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
	"github.com/pribylovaa/news-portal/internal/snapshot"
)

// Тесты для internal/synchronizer.
//
// Покрытие:
//   - приоритет снапшота и выход из snapshot-fresh только по инвалидации;
//   - гейтинг по зависимостям и множества исключений;
//   - изоляция частичных отказов и общая ошибка по рубрикам;
//   - отмена и вытеснение: устаревший результат не применяется;
//   - проверка id публикации из снапшота, невалидный id и пустой поисковый запрос;
//   - идемпотентность повторной оценки, Settle, Subscribe, Close.
//
// Fetcher подменён управляемой заглушкой: каждый вызов ждёт ответа теста.

type reply struct {
	d   segment.Data
	err error
}

type call struct {
	key   segment.Key
	f     segment.Filters
	ctx   context.Context
	reply chan reply
}

func (c *call) ok(d segment.Data) { c.reply <- reply{d: d} }
func (c *call) fail(err error) { c.reply <- reply{err: err} }
func (c *call) page(ids ...string) { c.ok(segment.Data{Page: page(ids...)}) }

// stubFetcher — Fetcher, отдающий каждый вызов в канал calls.
// С deaf вызов не реагирует на отмену ctx и ждёт только ответа теста.
type stubFetcher struct {
	calls chan *call
	deaf  bool
}

func newStub() *stubFetcher {
	return &stubFetcher{calls: make(chan *call, 64)}
}

func (s *stubFetcher) do(ctx context.Context, key segment.Key, f segment.Filters) reply {
	c := &call{key: key, f: f, ctx: ctx, reply: make(chan reply, 1)}
	s.calls <- c

	if s.deaf {
		return <-c.reply
	}

	select {
	case r := <-c.reply:
		return r
	case <-ctx.Done():
		return reply{err: ctx.Err()}
	}
}

func (s *stubFetcher) Categories(ctx context.Context) ([]models.Category, error) {
	r := s.do(ctx, segment.Categories, segment.Filters{})
	return r.d.Categories, r.err
}

func (s *stubFetcher) Post(ctx context.Context, id string) (*models.Post, error) {
	r := s.do(ctx, segment.Post, segment.Filters{PostID: id})
	return r.d.Post, r.err
}

func (s *stubFetcher) Search(ctx context.Context, f segment.Filters) (*models.PostPage, error) {
	var key segment.Key
	switch {
	case f.Sort == segment.SortViews:
		key = segment.Top
	case f.Sort == segment.SortLatest && f.Size == plan.HeadlineSize:
		key = segment.Headline
	case f.Sort == segment.SortLatest:
		key = segment.Regular
	default:
		key = segment.Search
	}

	r := s.do(ctx, key, f)
	return r.d.Page, r.err
}

// take ждёт ровно len(keys) вызовов и проверяет их множество.
func (s *stubFetcher) take(t *testing.T, keys ...segment.Key) map[segment.Key]*call {
	t.Helper()

	got := make(map[segment.Key]*call, len(keys))
	for range keys {
		select {
		case c := <-s.calls:
			got[c.key] = c
		case <-time.After(time.Second):
			t.Fatalf("ожидали вызовы %v, получили %v", keys, sortedKeys(got))
		}
	}

	require.ElementsMatch(t, keys, sortedKeys(got))
	return got
}

// none проверяет, что новых вызовов нет.
func (s *stubFetcher) none(t *testing.T) {
	t.Helper()

	select {
	case c := <-s.calls:
		t.Fatalf("неожиданный вызов %s %+v", c.key, c.f)
	case <-time.After(50 * time.Millisecond):
	}
}

func sortedKeys(m map[segment.Key]*call) []segment.Key {
	out := make([]segment.Key, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func page(ids ...string) *models.PostPage {
	p := &models.PostPage{Pagination: models.Pagination{TotalItem: int64(len(ids)), TotalPage: 1}}
	for _, id := range ids {
		p.Items = append(p.Items, models.Post{ID: id, Title: "t" + id})
	}
	return p
}

func cats() segment.Data {
	return segment.Data{Categories: []models.Category{{ID: "1", Name: "Tech", Slug: "tech"}}}
}

func silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSync(t *testing.T, f Fetcher, snap *snapshot.Snapshot, opts ...Option) (*Synchronizer, *snapshot.Store) {
	t.Helper()

	st := snapshot.New(snap)
	s := New(f, st, plan.DefaultSizes(), append([]Option{WithLogger(silent())}, opts...)...)
	t.Cleanup(s.Close)

	return s, st
}

func settle(t *testing.T, s *Synchronizer) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Settle(ctx))
}

func TestApply_SnapshotFresh_NoFetch(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{
		Categories: cats().Categories,
		Headline:   page("5"),
		Top:        page("9", "2"),
		Regular:    page("11", "12"),
	}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.Home()))
	stub.none(t)
	settle(t, s)

	for _, r := range s.Results() {
		require.Equal(t, segment.StateSnapshotFresh, r.State, r.Key)
		require.True(t, r.HasData(), r.Key)
	}

	require.Equal(t, "5", s.Result(segment.Top).Filters.ExcludeIDs)
}

func TestApply_SnapshotFresh_IgnoresComputedFilterChanges(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories, Headline: page("5"), Top: page("9"), Regular: page("11")}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.Home()))

	// Без явной инвалидации смена маршрута не выводит сегменты из снапшота.
	require.NoError(t, s.Apply(nil, route.MustParse("/?top_range=7")))
	stub.none(t)
	require.Equal(t, segment.StateSnapshotFresh, s.Result(segment.Top).State)
}

func TestInvalidate_ExitsSnapshotFresh(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories, Headline: page("5"), Top: page("9"), Regular: page("11")}
	s, st := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.Home()))
	require.NoError(t, s.Apply([]segment.Key{segment.Top}, route.MustParse("/?top_range=7")))

	c := stub.take(t, segment.Top)[segment.Top]
	require.Equal(t, segment.RangeWeek, c.f.TimeRange)
	require.Equal(t, "5", c.f.ExcludeIDs)
	require.False(t, st.Has(segment.Top))
	require.Equal(t, segment.StateFetching, s.Result(segment.Top).State)

	c.page("3")
	settle(t, s)

	require.Equal(t, segment.StateFetched, s.Result(segment.Top).State)
	// regular не инвалидирован и остаётся из снапшота.
	require.Equal(t, segment.StateSnapshotFresh, s.Result(segment.Regular).State)
}

func TestApply_ColdHome_DependencyGating(t *testing.T) {
	t.Parallel()

	stub := newStub()
	s, _ := newSync(t, stub, nil)

	require.NoError(t, s.Apply(nil, route.MustParse("/?category=tech")))

	first := stub.take(t, segment.Categories, segment.Headline)
	stub.none(t)
	require.Equal(t, segment.StateIdle, s.Result(segment.Top).State)
	require.Equal(t, segment.StateIdle, s.Result(segment.Regular).State)
	require.Equal(t, "tech", first[segment.Headline].f.Category)

	first[segment.Headline].page("5")
	top := stub.take(t, segment.Top)[segment.Top]
	require.Equal(t, "5", top.f.ExcludeIDs)
	stub.none(t)

	top.page("9", "2")
	regular := stub.take(t, segment.Regular)[segment.Regular]
	require.Equal(t, "5,9,2", regular.f.ExcludeIDs)

	regular.page("11")
	first[segment.Categories].ok(cats())
	settle(t, s)

	for _, r := range s.Results() {
		require.Equal(t, segment.StateFetched, r.State, r.Key)
	}
	require.False(t, s.GeneralError())
}

func TestApply_PartialFailureIsolation(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.Home()))

	stub.take(t, segment.Headline)[segment.Headline].page("5")
	stub.take(t, segment.Top)[segment.Top].fail(&segment.ServerError{Status: http.StatusBadGateway, Message: "upstream"})

	regular := stub.take(t, segment.Regular)[segment.Regular]
	require.Equal(t, "5", regular.f.ExcludeIDs)
	regular.page("11")
	settle(t, s)

	top := s.Result(segment.Top)
	require.Equal(t, segment.StateErrored, top.State)
	require.ErrorIs(t, top.Err, segment.ErrServer)
	require.False(t, top.HasData())

	require.Equal(t, segment.StateFetched, s.Result(segment.Headline).State)
	require.Equal(t, segment.StateFetched, s.Result(segment.Regular).State)
	require.False(t, s.GeneralError())
}

func TestApply_ErroredSnapshotEntryIsFetched(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{CategoriesError: true, Search: page("1")}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=go")))

	stub.take(t, segment.Categories)[segment.Categories].fail(segment.ErrNetwork)
	settle(t, s)

	require.True(t, s.GeneralError())
	require.Equal(t, segment.StateSnapshotFresh, s.Result(segment.Search).State)
}

func TestApply_SupersedeCancelsAndDiscardsStale(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories, Headline: page("1"), Top: page("2")}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/posts/7")))
	first := stub.take(t, segment.Post)[segment.Post]
	require.Equal(t, "7", first.f.PostID)

	require.NoError(t, s.Apply([]segment.Key{segment.Post, segment.Regular}, route.MustParse("/posts/9")))

	select {
	case <-first.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("вытесненная загрузка не отменена")
	}

	// Поздний ответ вытесненной загрузки не должен примениться.
	first.ok(segment.Data{Post: &models.Post{ID: "7"}})

	second := stub.take(t, segment.Post)[segment.Post]
	require.Equal(t, "9", second.f.PostID)
	second.ok(segment.Data{Post: &models.Post{ID: "9"}})

	regular := stub.take(t, segment.Regular)[segment.Regular]
	require.Equal(t, "9", regular.f.ExcludeIDs)
	regular.page("20")
	settle(t, s)

	require.Equal(t, "9", s.Result(segment.Post).Data.Post.ID)
	require.Equal(t, segment.StateFetched, s.Result(segment.Post).State)
}

func TestApply_LateSuccessAfterSupersedeIsDiscarded(t *testing.T) {
	t.Parallel()

	stub := newStub()
	stub.deaf = true
	snap := &snapshot.Snapshot{Categories: cats().Categories, Headline: page("1"), Top: page("2")}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/posts/7")))
	first := stub.take(t, segment.Post)[segment.Post]

	require.NoError(t, s.Apply([]segment.Key{segment.Post, segment.Regular}, route.MustParse("/posts/9")))
	second := stub.take(t, segment.Post)[segment.Post]
	require.Equal(t, "9", second.f.PostID)

	second.ok(segment.Data{Post: &models.Post{ID: "9"}})
	// regular стартует только после применения ответа для 9.
	regular := stub.take(t, segment.Regular)[segment.Regular]

	// Вытесненная загрузка завершается успешно уже после новой.
	first.ok(segment.Data{Post: &models.Post{ID: "7"}})
	regular.page("20")
	settle(t, s)

	r := s.Result(segment.Post)
	require.Equal(t, segment.StateFetched, r.State)
	require.Equal(t, "9", r.Data.Post.ID)
	require.Equal(t, "9", r.Filters.PostID)
	require.Equal(t, "9", s.Result(segment.Regular).Filters.ExcludeIDs)
	stub.none(t)
}

func TestApply_CancelledResultIsNotAnError(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=go")))
	c := stub.take(t, segment.Search)[segment.Search]

	// Отмена пришла от бэкенда, а не от вытеснения: сегмент загружается заново.
	c.fail(segment.ErrCancelled)

	again := stub.take(t, segment.Search)[segment.Search]
	require.Equal(t, c.f, again.f)
	require.Equal(t, segment.StateFetching, s.Result(segment.Search).State)

	again.page("1")
	settle(t, s)

	r := s.Result(segment.Search)
	require.Equal(t, segment.StateFetched, r.State)
	require.NoError(t, r.Err)
}

func TestApply_EmptySearchQuery_NotFoundWithoutFetch(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/search")))
	stub.none(t)
	settle(t, s)

	r := s.Result(segment.Search)
	require.Equal(t, segment.StateNotFound, r.State)
	require.False(t, r.HasData())

	// Повторная оценка ничего не запускает.
	require.NoError(t, s.Refresh())
	stub.none(t)

	// Появился запрос: поиск загружается.
	require.NoError(t, s.Apply([]segment.Key{segment.Search}, route.MustParse("/search?query=go")))
	c := stub.take(t, segment.Search)[segment.Search]
	require.Equal(t, "go", c.f.Query)
	c.page("1")
	settle(t, s)
	require.Equal(t, segment.StateFetched, s.Result(segment.Search).State)
}

func TestApply_SnapshotPostIdentity(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{
		Categories: cats().Categories,
		Post:       &models.Post{ID: "7"},
		Headline:   page("1"),
		Top:        page("2"),
		Regular:    page("3"),
	}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/posts/9")))

	c := stub.take(t, segment.Post)[segment.Post]
	require.Equal(t, "9", c.f.PostID)
	require.Equal(t, segment.StateFetching, s.Result(segment.Post).State)
	require.False(t, s.Result(segment.Post).HasData())

	c.ok(segment.Data{Post: &models.Post{ID: "9"}})
	settle(t, s)
	require.Equal(t, "9", s.Result(segment.Post).Data.Post.ID)
}

func TestApply_SnapshotPostMatchingID(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{
		Categories: cats().Categories,
		Post:       &models.Post{ID: "7"},
		Headline:   page("1"),
		Top:        page("2"),
		Regular:    page("3"),
	}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/posts/7")))
	stub.none(t)
	require.Equal(t, segment.StateSnapshotFresh, s.Result(segment.Post).State)
}

func TestApply_InvalidPostID_NotFoundWithoutFetch(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories, Headline: page("1"), Top: page("2")}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/posts/not-a-number")))

	// regular зависит от post; not-found — разрешённое состояние.
	regular := stub.take(t, segment.Regular)[segment.Regular]
	require.Equal(t, "", regular.f.ExcludeIDs)
	regular.page("3")
	settle(t, s)

	r := s.Result(segment.Post)
	require.Equal(t, segment.StateNotFound, r.State)
	require.ErrorIs(t, r.Err, segment.ErrNotFound)
}

func TestApply_PostNotFoundFromBackend(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories, Headline: page("1"), Top: page("2"), Regular: page("3")}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/posts/404")))
	stub.take(t, segment.Post)[segment.Post].fail(segment.ErrNotFound)
	settle(t, s)

	require.Equal(t, segment.StateNotFound, s.Result(segment.Post).State)

	// Повторная оценка не перезапрашивает терминальный not-found.
	require.NoError(t, s.Refresh())
	stub.none(t)
}

func TestRefresh_Idempotent(t *testing.T) {
	t.Parallel()

	stub := newStub()
	s, _ := newSync(t, stub, nil)

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=go")))
	calls := stub.take(t, segment.Categories, segment.Search)
	calls[segment.Categories].ok(cats())
	calls[segment.Search].fail(segment.ErrNetwork)
	settle(t, s)

	require.NoError(t, s.Refresh())
	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=go")))
	stub.none(t)

	require.Equal(t, segment.StateErrored, s.Result(segment.Search).State)

	// Явная инвалидация — единственный путь повторить упавший сегмент.
	require.NoError(t, s.Invalidate(segment.Search))
	stub.take(t, segment.Search)[segment.Search].page("1")
	settle(t, s)
	require.Equal(t, segment.StateFetched, s.Result(segment.Search).State)
}

func TestApply_LeavingRouteResetsSegments(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{
		Categories: cats().Categories,
		Post:       &models.Post{ID: "7"},
		Headline:   page("1"),
		Top:        page("2"),
		Regular:    page("3"),
	}
	s, st := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/posts/7")))
	require.NoError(t, s.Apply(nil, route.Home()))

	require.False(t, st.Has(segment.Post))
	require.Equal(t, segment.StateIdle, s.Result(segment.Post).State)
	require.False(t, s.Result(segment.Post).HasData())
	require.Equal(t, segment.StateSnapshotFresh, s.Result(segment.Headline).State)
}

func TestGeneralError_CategoriesFailed(t *testing.T) {
	t.Parallel()

	stub := newStub()
	s, _ := newSync(t, stub, &snapshot.Snapshot{Search: page("1")})

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=x")))
	require.False(t, s.GeneralError())

	stub.take(t, segment.Categories)[segment.Categories].fail(&segment.ServerError{Status: 500, Message: "db"})
	settle(t, s)

	require.True(t, s.GeneralError())
}

func TestSettle_RespectsContext(t *testing.T) {
	t.Parallel()

	stub := newStub()
	s, _ := newSync(t, stub, nil)

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=x")))
	stub.take(t, segment.Categories, segment.Search)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, s.Settle(ctx), context.DeadlineExceeded)
}

func TestSubscribe_NotifiesOnChanges(t *testing.T) {
	t.Parallel()

	stub := newStub()
	s, _ := newSync(t, stub, &snapshot.Snapshot{Categories: cats().Categories})

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=x")))
	<-ch

	stub.take(t, segment.Search)[segment.Search].page("1")

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("нет уведомления о результате")
	}
}

func TestClose_StopsEverything(t *testing.T) {
	t.Parallel()

	stub := newStub()
	st := snapshot.New(nil)
	s := New(stub, st, plan.DefaultSizes(), WithLogger(silent()))

	ch, _ := s.Subscribe()
	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=x")))
	calls := stub.take(t, segment.Categories, segment.Search)

	s.Close()
	s.Close()

	<-calls[segment.Search].ctx.Done()
	settle(t, s)

	_, open := <-ch
	for open {
		_, open = <-ch
	}

	require.ErrorIs(t, s.Apply(nil, route.Home()), ErrClosed)
	require.ErrorIs(t, s.Refresh(), ErrClosed)
	require.ErrorIs(t, s.Invalidate(segment.Search), ErrClosed)
}

// recObserver запоминает итоги загрузок.
type recObserver struct {
	mu  sync.Mutex
	got map[segment.Key]string
}

func (o *recObserver) ObserveFetch(key segment.Key, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.got == nil {
		o.got = make(map[segment.Key]string)
	}
	o.got[key] = outcome
}

func TestObserver_ReceivesOutcomes(t *testing.T) {
	t.Parallel()

	stub := newStub()
	obs := &recObserver{}
	s, _ := newSync(t, stub, nil, WithObserver(obs))

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=x")))
	calls := stub.take(t, segment.Categories, segment.Search)
	calls[segment.Categories].ok(cats())
	calls[segment.Search].fail(segment.ErrNetwork)
	settle(t, s)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Equal(t, map[segment.Key]string{
		segment.Categories: OutcomeOK,
		segment.Search:     string(segment.KindNetwork),
	}, obs.got)
}

func TestWithPostIDValidator(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{Categories: cats().Categories, Headline: page("1"), Top: page("2"), Regular: page("3")}
	s, _ := newSync(t, stub, snap, WithPostIDValidator(func(id string) bool { return id == "slug-ok" }))

	require.NoError(t, s.Apply(nil, route.MustParse("/posts/slug-ok")))
	require.Equal(t, "slug-ok", stub.take(t, segment.Post)[segment.Post].f.PostID)
}

type baseKey struct{}

func TestWithBaseContext_ValuesReachFetcher(t *testing.T) {
	t.Parallel()

	stub := newStub()
	base := context.WithValue(context.Background(), baseKey{}, "s-1")
	s, _ := newSync(t, stub, nil, WithBaseContext(base))

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=go")))
	calls := stub.take(t, segment.Categories, segment.Search)

	require.Equal(t, "s-1", calls[segment.Search].ctx.Value(baseKey{}))
	calls[segment.Categories].ok(cats())
	calls[segment.Search].page("1")
	settle(t, s)
}

func TestObserve_RouteAndResultsAgree(t *testing.T) {
	t.Parallel()

	stub := newStub()
	snap := &snapshot.Snapshot{CategoriesError: true}
	s, _ := newSync(t, stub, snap)

	require.NoError(t, s.Apply(nil, route.MustParse("/search?query=go")))
	calls := stub.take(t, segment.Categories, segment.Search)
	calls[segment.Categories].fail(segment.ErrNetwork)
	calls[segment.Search].page("1")
	settle(t, s)

	r, results, general := s.Observe()
	require.Equal(t, "/search?query=go", r.String())
	require.True(t, general)

	keys := make([]segment.Key, 0, len(results))
	for _, res := range results {
		keys = append(keys, res.Key)
	}
	require.Equal(t, plan.Active(r.Kind), keys)

	// Невалидный id: post сразу not-found, regular от него не ждёт.
	require.NoError(t, s.Apply(nil, route.MustParse("/posts/abc")))
	stub.take(t, segment.Headline, segment.Regular)

	r, results, _ = s.Observe()
	require.Equal(t, route.KindPost, r.Kind)
	require.Len(t, results, len(plan.Active(route.KindPost)))
}
