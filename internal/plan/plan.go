// plan — явная таблица сегментов и зависимостей для каждого вида страницы
// и вывод фильтров сегмента из маршрута и разрешённых вышестоящих сегментов.
//
// Правило гейтинга: сегмент не начинает загрузку, пока все его DependsOn
// не разрешены (успешно или с ошибкой). Рубрики и основной сегмент страницы
// зависимостей не имеют и грузятся сразу.
package plan

import (
	"slices"

	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
)

// Step — сегмент страницы и его вышестоящие зависимости.
type Step struct {
	Key       segment.Key
	DependsOn []segment.Key
}

// steps перечислены в порядке оценки: зависимость всегда раньше зависимого.
var steps = map[route.Kind][]Step{
	route.KindHome: {
		{Key: segment.Categories},
		{Key: segment.Headline},
		{Key: segment.Top, DependsOn: []segment.Key{segment.Headline}},
		{Key: segment.Regular, DependsOn: []segment.Key{segment.Headline, segment.Top}},
	},
	route.KindPost: {
		{Key: segment.Categories},
		{Key: segment.Post},
		{Key: segment.Headline},
		{Key: segment.Top, DependsOn: []segment.Key{segment.Headline}},
		{Key: segment.Regular, DependsOn: []segment.Key{segment.Post}},
	},
	route.KindSearch: {
		{Key: segment.Categories},
		{Key: segment.Search},
	},
}

var primary = map[route.Kind]segment.Key{
	route.KindHome:   segment.Headline,
	route.KindPost:   segment.Post,
	route.KindSearch: segment.Search,
}

// required — сегменты, чья загрузка определяет флаг loading страницы.
var required = map[route.Kind][]segment.Key{
	route.KindHome:   {segment.Categories, segment.Headline, segment.Top, segment.Regular},
	route.KindPost:   {segment.Categories, segment.Post},
	route.KindSearch: {segment.Categories, segment.Search},
}

// Steps возвращает копию таблицы шагов для вида страницы.
func Steps(kind route.Kind) []Step {
	src := steps[kind]
	out := make([]Step, len(src))
	for i, s := range src {
		out[i] = Step{Key: s.Key, DependsOn: slices.Clone(s.DependsOn)}
	}

	return out
}

// Active возвращает сегменты, присутствующие на странице, в порядке оценки.
func Active(kind route.Kind) []segment.Key {
	out := make([]segment.Key, 0, len(steps[kind]))
	for _, s := range steps[kind] {
		out = append(out, s.Key)
	}

	return out
}

// IsActive сообщает, присутствует ли сегмент на странице.
func IsActive(kind route.Kind, key segment.Key) bool {
	return slices.Contains(Active(kind), key)
}

// DependsOn возвращает зависимости сегмента на странице данного вида.
func DependsOn(kind route.Kind, key segment.Key) []segment.Key {
	for _, s := range steps[kind] {
		if s.Key == key {
			return slices.Clone(s.DependsOn)
		}
	}

	return nil
}

// Primary возвращает основной сегмент страницы.
func Primary(kind route.Kind) segment.Key { return primary[kind] }

// Required возвращает сегменты, без которых страница считается загружающейся.
func Required(kind route.Kind) []segment.Key { return slices.Clone(required[kind]) }

// Stages группирует сегменты страницы по волнам: в волне i — сегменты,
// все зависимости которых лежат в волнах < i. Используется пререндером.
func Stages(kind route.Kind) [][]segment.Key {
	level := make(map[segment.Key]int)
	var stages [][]segment.Key

	for _, s := range steps[kind] {
		lvl := 0
		for _, d := range s.DependsOn {
			if l, ok := level[d]; ok && l+1 > lvl {
				lvl = l + 1
			}
		}
		level[s.Key] = lvl

		for len(stages) <= lvl {
			stages = append(stages, nil)
		}
		stages[lvl] = append(stages[lvl], s.Key)
	}

	return stages
}
