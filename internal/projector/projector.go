// projector выводит внешне видимые флаги страницы из состояний сегментов.
package projector

import (
	"github.com/pribylovaa/news-portal/internal/plan"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
)

// Flags — флаги страницы для слоя отображения.
type Flags struct {
	Loading      bool `json:"loading"`
	Error        bool `json:"error"`
	NotFound     bool `json:"not_found"`
	GeneralError bool `json:"general_error"`
}

// errorSources — сегменты, чья ошибка поднимает флаг error страницы.
// top сюда не входит: его отказ рисуется заглушкой внутри страницы.
var errorSources = map[route.Kind][]segment.Key{
	route.KindHome:   {segment.Categories, segment.Headline, segment.Regular},
	route.KindPost:   {segment.Categories, segment.Post},
	route.KindSearch: {segment.Categories, segment.Search},
}

// Project вычисляет флаги страницы r по результатам сегментов.
func Project(r route.Route, results []segment.Result, generalError bool) Flags {
	byKey := make(map[segment.Key]segment.Result, len(results))
	for _, res := range results {
		byKey[res.Key] = res
	}

	state := func(k segment.Key) segment.State {
		if res, ok := byKey[k]; ok {
			return res.State
		}
		return segment.StateIdle
	}

	var f Flags
	f.GeneralError = generalError

	for _, k := range plan.Required(r.Kind) {
		if state(k).Pending() {
			f.Loading = true
			break
		}
	}

	for _, k := range errorSources[r.Kind] {
		res := byKey[k]
		if res.State == segment.StateErrored && !res.HasData() {
			f.Error = true
			break
		}
	}
	if generalError {
		f.Error = true
	}

	switch r.Kind {
	case route.KindPost:
		f.NotFound = state(segment.Post) == segment.StateNotFound
	case route.KindSearch:
		f.NotFound = r.Query == ""
	}

	return f
}
