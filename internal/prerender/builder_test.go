package prerender

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/plan"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
	"github.com/pribylovaa/news-portal/mocks"
)

// Тесты для internal/prerender.
//
// Покрытие:
//   - волны: top видит headline, regular видит headline+top;
//   - упавший сегмент даёт флаг ошибки, соседи не страдают;
//   - невалидный id публикации не запрашивается, not-found не попадает в снапшот;
//   - поиск с пустым запросом не запрашивается;
//   - отмена ctx.

func page(ids ...string) *models.PostPage {
	p := &models.PostPage{}
	for _, id := range ids {
		p.Items = append(p.Items, models.Post{ID: id})
	}
	return p
}

// feed — ожидаемые фильтры ленты при размерах по умолчанию.
func feed(sort segment.Sort, size int, tr segment.TimeRange, exclude string) segment.Filters {
	return segment.Filters{Page: 1, Size: size, Sort: sort, TimeRange: tr, ExcludeIDs: exclude}
}

func TestBuild_Home(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)

	f.EXPECT().Categories(gomock.Any()).Return([]models.Category{{ID: "1", Slug: "tech"}}, nil)
	f.EXPECT().Search(gomock.Any(), feed(segment.SortLatest, 1, "", "")).Return(page("5"), nil)
	f.EXPECT().Search(gomock.Any(), feed(segment.SortViews, 5, segment.RangeWeek, "5")).Return(page("9", "2"), nil)
	f.EXPECT().Search(gomock.Any(), feed(segment.SortLatest, 10, "", "5,9,2")).Return(page("11"), nil)

	b := New(f, plan.DefaultSizes(), nil)
	snap, err := b.Build(context.Background(), route.MustParse("/?top_range=7"))
	require.NoError(t, err)

	require.Len(t, snap.Categories, 1)
	require.Equal(t, []string{"9", "2"}, snap.Top.IDs())
	require.Equal(t, []string{"11"}, snap.Regular.IDs())
	require.False(t, snap.TopError)
}

func TestBuild_PartialFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)

	f.EXPECT().Categories(gomock.Any()).Return(nil, segment.ErrNetwork)
	f.EXPECT().Post(gomock.Any(), "7").Return(&models.Post{ID: "7"}, nil)
	f.EXPECT().Search(gomock.Any(), feed(segment.SortLatest, 1, "", "")).Return(page("5"), nil)
	f.EXPECT().Search(gomock.Any(), feed(segment.SortViews, 5, segment.RangeAll, "5")).
		Return(nil, &segment.ServerError{Status: 503, Message: "busy"})
	f.EXPECT().Search(gomock.Any(), feed(segment.SortLatest, 10, "", "7")).Return(page("3"), nil)

	b := New(f, plan.DefaultSizes(), nil)
	snap, err := b.Build(context.Background(), route.MustParse("/posts/7"))
	require.NoError(t, err)

	require.True(t, snap.CategoriesError)
	require.Nil(t, snap.Categories)
	require.True(t, snap.TopError)
	require.Nil(t, snap.Top)
	require.Equal(t, "7", snap.Post.ID)
	require.Equal(t, []string{"3"}, snap.Regular.IDs())
}

func TestBuild_InvalidPostIDNotFetched(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)

	f.EXPECT().Categories(gomock.Any()).Return([]models.Category{}, nil)
	f.EXPECT().Search(gomock.Any(), gomock.Any()).Return(page("1"), nil).Times(3)

	b := New(f, plan.DefaultSizes(), nil)
	snap, err := b.Build(context.Background(), route.MustParse("/posts/abc"))
	require.NoError(t, err)
	require.Nil(t, snap.Post)
	require.False(t, snap.PostError)
}

func TestBuild_EmptySearchQueryNotFetched(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)

	// Search не ожидается: любой вызов провалит тест.
	f.EXPECT().Categories(gomock.Any()).Return([]models.Category{{ID: "1", Slug: "tech"}}, nil)

	b := New(f, plan.DefaultSizes(), nil)
	snap, err := b.Build(context.Background(), route.MustParse("/search"))
	require.NoError(t, err)
	require.Len(t, snap.Categories, 1)
	require.Nil(t, snap.Search)
	require.False(t, snap.SearchError)
}

func TestBuild_PostNotFoundLeftOut(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)

	f.EXPECT().Categories(gomock.Any()).Return([]models.Category{}, nil)
	f.EXPECT().Post(gomock.Any(), "404").Return(nil, segment.ErrNotFound)
	f.EXPECT().Search(gomock.Any(), gomock.Any()).Return(page("1"), nil).Times(3)

	b := New(f, plan.DefaultSizes(), nil)
	snap, err := b.Build(context.Background(), route.MustParse("/posts/404"))
	require.NoError(t, err)
	require.Nil(t, snap.Post)
	require.False(t, snap.PostError)
}

func TestBuild_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	f.EXPECT().Categories(gomock.Any()).Return([]models.Category{}, nil)
	f.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ segment.Filters) (*models.PostPage, error) {
			cancel()
			return nil, ctx.Err()
		})

	b := New(f, plan.DefaultSizes(), nil)
	_, err := b.Build(ctx, route.MustParse("/search?query=go"))
	require.ErrorIs(t, err, context.Canceled)
}
