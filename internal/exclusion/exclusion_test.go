package exclusion

import (
	"testing"

	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
	"github.com/stretchr/testify/require"
)

func page(ids ...string) *models.PostPage {
	p := &models.PostPage{}
	for _, id := range ids {
		p.Items = append(p.Items, models.Post{ID: id})
	}
	return p
}

func TestExcludedIDs(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name   string
		target segment.Key
		kind   route.Kind
		up     Upstream
		want   string
	}{
		{
			name:   "regular_headline_then_top_without_duplicates",
			target: segment.Regular,
			kind:   route.KindHome,
			up:     Upstream{Headline: page("5"), Top: page("9", "5", "2")},
			want:   "5,9,2",
		},
		{
			name:   "top_excludes_headline_only",
			target: segment.Top,
			kind:   route.KindHome,
			up:     Upstream{Headline: page("5"), Top: page("9")},
			want:   "5",
		},
		{
			name:   "absent_upstream_filtered",
			target: segment.Regular,
			kind:   route.KindHome,
			up:     Upstream{Top: page("", "3")},
			want:   "3",
		},
		{
			name:   "nothing_resolved",
			target: segment.Regular,
			kind:   route.KindHome,
			want:   "",
		},
		{
			// На странице публикации regular исключает только её саму,
			// даже если headline и top разрешены.
			name:   "regular_on_post_route_excludes_post_only",
			target: segment.Regular,
			kind:   route.KindPost,
			up:     Upstream{Headline: page("5"), Top: page("9"), Post: &models.Post{ID: "7"}},
			want:   "7",
		},
		{
			name:   "regular_on_post_route_without_post",
			target: segment.Regular,
			kind:   route.KindPost,
			up:     Upstream{Headline: page("5")},
			want:   "",
		},
		{
			name:   "headline_has_no_exclusions",
			target: segment.Headline,
			kind:   route.KindHome,
			up:     Upstream{Top: page("1")},
			want:   "",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ExcludedIDs(tc.target, tc.kind, tc.up))
		})
	}
}

func TestIDs_StableOrder(t *testing.T) {
	t.Parallel()

	up := Upstream{Headline: page("h"), Top: page("t1", "t2", "t3")}
	for i := 0; i < 5; i++ {
		require.Equal(t, []string{"h", "t1", "t2", "t3"}, IDs(segment.Regular, route.KindHome, up))
	}
}
