package plan

import (
	"github.com/pribylovaa/news-portal/internal/exclusion"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
)

// HeadlineSize — главная новость всегда одна.
const HeadlineSize = 1

// Sizes — размеры страниц лент.
type Sizes struct {
	Top     int
	Regular int
	Search  int
}

// DefaultSizes — размеры по умолчанию.
func DefaultSizes() Sizes {
	return Sizes{Top: 5, Regular: 10, Search: 10}
}

// orDefault подставляет значения по умолчанию вместо неположительных.
func (s Sizes) orDefault() Sizes {
	def := DefaultSizes()
	if s.Top <= 0 {
		s.Top = def.Top
	}
	if s.Regular <= 0 {
		s.Regular = def.Regular
	}
	if s.Search <= 0 {
		s.Search = def.Search
	}

	return s
}

// Filters выводит фильтры сегмента key для маршрута r.
// Исключаемые id считаются только из разрешённых значений up, никогда
// из устаревших фильтров.
func Filters(r route.Route, key segment.Key, up exclusion.Upstream, sizes Sizes) segment.Filters {
	sizes = sizes.orDefault()

	switch key {
	case segment.Post:
		return segment.Filters{PostID: r.PostID}
	case segment.Headline:
		return segment.Filters{
			Category: r.Category,
			Page:     r.Page(segment.Headline),
			Size:     HeadlineSize,
			Sort:     segment.SortLatest,
		}
	case segment.Top:
		return segment.Filters{
			Category:   r.Category,
			Page:       r.Page(segment.Top),
			Size:       sizes.Top,
			Sort:       segment.SortViews,
			TimeRange:  r.TopRange,
			ExcludeIDs: exclusion.ExcludedIDs(segment.Top, r.Kind, up),
		}
	case segment.Regular:
		return segment.Filters{
			Category:   r.Category,
			Page:       r.Page(segment.Regular),
			Size:       sizes.Regular,
			Sort:       segment.SortLatest,
			ExcludeIDs: exclusion.ExcludedIDs(segment.Regular, r.Kind, up),
		}
	case segment.Search:
		return segment.Filters{
			Query: r.Query,
			Page:  r.Page(segment.Search),
			Size:  sizes.Search,
		}
	default:
		return segment.Filters{}
	}
}
