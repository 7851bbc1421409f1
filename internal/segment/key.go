// segment описывает сегменты страницы ридера: ключи, фильтры, состояния
// и таксономию ошибок загрузки.
//
// Сегмент — независимо пагинируемый и независимо отказывающий срез контента
// страницы (рубрики, одиночная публикация, главная новость, топ, лента, поиск).
package segment

import "fmt"

// Key — стабильный идентификатор сегмента: по нему ищется значение в снапшоте
// и выполняется инвалидация.
type Key string

const (
	Categories Key = "categories"
	Post       Key = "post"
	Headline   Key = "headline"
	Top        Key = "top"
	Regular    Key = "regular"
	Search     Key = "search"
)

// All — все сегменты в порядке приоритета отображения.
var All = []Key{Categories, Post, Headline, Top, Regular, Search}

// Paged — сегменты, у которых есть собственный номер страницы в URL.
var Paged = []Key{Headline, Top, Regular, Search}

// ErrorKey возвращает имя флага ошибки сегмента в снапшоте: "<key>Error".
func (k Key) ErrorKey() string { return string(k) + "Error" }

// PageParam возвращает имя query-параметра страницы сегмента: "<key>_page".
func (k Key) PageParam() string { return string(k) + "_page" }

// IsPaged сообщает, есть ли у сегмента собственная пагинация в URL.
func (k Key) IsPaged() bool {
	for _, p := range Paged {
		if p == k {
			return true
		}
	}

	return false
}

// Valid сообщает, является ли k известным сегментом.
func (k Key) Valid() bool {
	for _, v := range All {
		if v == k {
			return true
		}
	}

	return false
}

// ParseKey разбирает имя сегмента.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown segment %q", s)
	}

	return k, nil
}
