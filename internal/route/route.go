// route разбирает и собирает URL публичного ридера.
//
// Контракт URL:
//   - пути: "/" (главная/рубрика), "/posts/{id}" (публикация), "/search" (поиск);
//   - query: category, query, top_range, <segment>_page для headline|top|regular|search;
//   - страница 1 — значение по умолчанию и в URL не пишется, как и top_range=all.
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pribylovaa/news-portal/internal/segment"
)

// ErrUnknownRoute — путь не относится к публичному ридеру.
var ErrUnknownRoute = errors.New("unknown route")

// Kind — вид страницы ридера.
type Kind string

const (
	KindHome   Kind = "home"
	KindPost   Kind = "post"
	KindSearch Kind = "search"
)

const (
	paramCategory = "category"
	paramQuery    = "query"
	paramTopRange = "top_range"

	postsPrefix = "/posts/"
	searchPath  = "/search"
)

// Pages — номера страниц сегментов (1-based). Нулевое значение трактуется как 1.
type Pages struct {
	Headline int `json:"headline"`
	Top      int `json:"top"`
	Regular  int `json:"regular"`
	Search   int `json:"search"`
}

// Get возвращает номер страницы сегмента (минимум 1).
func (p Pages) Get(k segment.Key) int {
	var n int
	switch k {
	case segment.Headline:
		n = p.Headline
	case segment.Top:
		n = p.Top
	case segment.Regular:
		n = p.Regular
	case segment.Search:
		n = p.Search
	}

	if n < 1 {
		return 1
	}

	return n
}

// With возвращает копию с установленной страницей сегмента.
func (p Pages) With(k segment.Key, n int) Pages {
	if n < 1 {
		n = 1
	}

	switch k {
	case segment.Headline:
		p.Headline = n
	case segment.Top:
		p.Top = n
	case segment.Regular:
		p.Regular = n
	case segment.Search:
		p.Search = n
	}

	return p
}

// Route — состояние страницы, выведенное из URL. Сравнимо по значению.
type Route struct {
	Kind     Kind              `json:"kind"`
	PostID   string            `json:"post_id,omitempty"`
	Category string            `json:"category,omitempty"`
	Query    string            `json:"query,omitempty"`
	TopRange segment.TimeRange `json:"top_range"`
	Pages    Pages             `json:"pages"`
}

// Home возвращает маршрут главной страницы.
func Home() Route {
	return Route{Kind: KindHome}.Normalize()
}

// Page возвращает номер страницы сегмента.
func (r Route) Page(k segment.Key) int { return r.Pages.Get(k) }

// Parse разбирает URL (абсолютный или относительный) в Route.
//
// Разбор снисходительный: неизвестный top_range трактуется как all,
// нечисловая или неположительная страница — как 1. Ошибка возвращается только
// для неразбираемого URL и чужого пути.
func Parse(raw string) (Route, error) {
	const op = "route.Parse"

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Route{}, fmt.Errorf("%s: %w", op, err)
	}

	r := Home()

	path := u.Path
	switch {
	case path == "" || path == "/":
		r.Kind = KindHome
	case path == searchPath || path == searchPath+"/":
		r.Kind = KindSearch
	case strings.HasPrefix(path, postsPrefix):
		id := strings.Trim(strings.TrimPrefix(path, postsPrefix), "/")
		if strings.Contains(id, "/") {
			return Route{}, fmt.Errorf("%s: %q: %w", op, path, ErrUnknownRoute)
		}
		r.Kind = KindPost
		r.PostID = id
	default:
		return Route{}, fmt.Errorf("%s: %q: %w", op, path, ErrUnknownRoute)
	}

	q := u.Query()
	r.Category = strings.ToLower(strings.TrimSpace(q.Get(paramCategory)))
	r.Query = strings.TrimSpace(q.Get(paramQuery))

	if tr, err := segment.ParseTimeRange(q.Get(paramTopRange)); err == nil {
		r.TopRange = tr
	}

	for _, k := range segment.Paged {
		if n, err := strconv.Atoi(q.Get(k.PageParam())); err == nil {
			r.Pages = r.Pages.With(k, n)
		}
	}

	return r.Normalize(), nil
}

// MustParse — Parse с panic при ошибке. Для тестов и констант.
func MustParse(raw string) Route {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}

	return r
}

// Path возвращает путь маршрута без query.
func (r Route) Path() string {
	switch r.Kind {
	case KindPost:
		return postsPrefix + url.PathEscape(r.PostID)
	case KindSearch:
		return searchPath
	default:
		return "/"
	}
}

// Values возвращает query-параметры маршрута без значений по умолчанию.
func (r Route) Values() url.Values {
	q := url.Values{}

	if r.Category != "" {
		q.Set(paramCategory, r.Category)
	}

	if r.Query != "" {
		q.Set(paramQuery, r.Query)
	}

	if r.TopRange != "" && r.TopRange != segment.RangeAll {
		q.Set(paramTopRange, string(r.TopRange))
	}

	for _, k := range segment.Paged {
		if n := r.Page(k); n > 1 {
			q.Set(k.PageParam(), strconv.Itoa(n))
		}
	}

	return q
}

// String собирает канонический относительный URL маршрута.
func (r Route) String() string {
	u := url.URL{Path: r.Path(), RawQuery: r.Values().Encode()}
	return u.String()
}

// Normalize приводит маршрут к каноническому виду (то, что дал бы Parse(String())).
func (r Route) Normalize() Route {
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Query = strings.TrimSpace(r.Query)
	if r.TopRange == "" {
		r.TopRange = segment.RangeAll
	}

	for _, k := range segment.Paged {
		r.Pages = r.Pages.With(k, r.Page(k))
	}

	return r
}
