// exclusion вычисляет множества исключаемых id: публикация, уже показанная
// сегментом с более высоким приоритетом, не должна повторяться ниже на той же
// странице.
//
// Приоритеты: headline раньше top/regular; на странице публикации post раньше
// regular. На странице публикации regular исключает только саму публикацию,
// на страницах рубрик — headline и top. Асимметрия сохранена намеренно.
package exclusion

import (
	"strings"

	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
)

// Upstream — разрешённые значения вышестоящих сегментов.
// Любое поле может быть nil, если сегмент ещё не разрешён или упал.
type Upstream struct {
	Headline *models.PostPage
	Top      *models.PostPage
	Post     *models.Post
}

// IDs возвращает упорядоченный список исключаемых id для сегмента target:
// сначала headline, затем top в порядке ранга, затем post. Пустые id
// отбрасываются, повторы удаляются с сохранением первого вхождения.
func IDs(target segment.Key, kind route.Kind, up Upstream) []string {
	var raw []string

	switch target {
	case segment.Top:
		raw = append(raw, up.Headline.IDs()...)
	case segment.Regular:
		if kind == route.KindPost {
			if up.Post != nil {
				raw = append(raw, up.Post.ID)
			}
			break
		}
		raw = append(raw, up.Headline.IDs()...)
		raw = append(raw, up.Top.IDs()...)
	default:
		return nil
	}

	return dedupe(raw)
}

// ExcludedIDs — строковая форма IDs: id через запятую.
func ExcludedIDs(target segment.Key, kind route.Kind, up Upstream) string {
	return strings.Join(IDs(target, kind, up), ",")
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
