// models содержит доменные сущности публичного ридера портала.
// Эти типы используются синхронизатором сегментов, транспортом и HTTP-слоем.
package models

import "time"

// Post — доменная сущность публикации.
//
// Особенности:
//   - ID — непрозрачная строка бэкенда (числовой id или UUID);
//   - Content — HTML, уже очищенный на границе транспорта;
//   - PublishedAt — в UTC.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	Category    string    `json:"category,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Author      string    `json:"author,omitempty"`
	Views       int64     `json:"views"`
	PublishedAt time.Time `json:"published_at"`
}

// Category — рубрика портала.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Pagination — метаданные постраничной выдачи.
type Pagination struct {
	TotalItem int64 `json:"total_item"`
	TotalPage int64 `json:"total_page"`
}

// PostPage — страница публикаций с метаданными пагинации.
type PostPage struct {
	Items      []Post     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// IDs возвращает идентификаторы публикаций страницы в порядке выдачи.
func (p *PostPage) IDs() []string {
	if p == nil {
		return nil
	}

	ids := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		ids = append(ids, it.ID)
	}

	return ids
}

// First возвращает первую публикацию страницы или nil.
func (p *PostPage) First() *Post {
	if p == nil || len(p.Items) == 0 {
		return nil
	}

	return &p.Items[0]
}
