// snapshot — серверный снапшот страницы и хранилище поверх него.
//
// Снапшот — пакет данных, собранный на стороне сервера для конкретного
// URL: значения сегментов под их ключами и флаги "<key>Error". Отсутствие
// ключа означает "нет данных", а не ошибку.
package snapshot

import (
	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/segment"
)

// Snapshot — форма снапшота на проводе (JSON).
type Snapshot struct {
	Categories      []models.Category `json:"categories,omitempty"`
	CategoriesError bool              `json:"categoriesError,omitempty"`
	Post            *models.Post      `json:"post,omitempty"`
	PostError       bool              `json:"postError,omitempty"`
	Headline        *models.PostPage  `json:"headline,omitempty"`
	HeadlineError   bool              `json:"headlineError,omitempty"`
	Top             *models.PostPage  `json:"top,omitempty"`
	TopError        bool              `json:"topError,omitempty"`
	Regular         *models.PostPage  `json:"regular,omitempty"`
	RegularError    bool              `json:"regularError,omitempty"`
	Search          *models.PostPage  `json:"search,omitempty"`
	SearchError     bool              `json:"searchError,omitempty"`
}

// Data возвращает значение сегмента из снапшота.
func (s *Snapshot) Data(key segment.Key) segment.Data {
	if s == nil {
		return segment.Data{}
	}

	switch key {
	case segment.Categories:
		return segment.Data{Categories: s.Categories}
	case segment.Post:
		return segment.Data{Post: s.Post}
	case segment.Headline:
		return segment.Data{Page: s.Headline}
	case segment.Top:
		return segment.Data{Page: s.Top}
	case segment.Regular:
		return segment.Data{Page: s.Regular}
	case segment.Search:
		return segment.Data{Page: s.Search}
	default:
		return segment.Data{}
	}
}

// Failed возвращает флаг ошибки сегмента.
func (s *Snapshot) Failed(key segment.Key) bool {
	if s == nil {
		return false
	}

	switch key {
	case segment.Categories:
		return s.CategoriesError
	case segment.Post:
		return s.PostError
	case segment.Headline:
		return s.HeadlineError
	case segment.Top:
		return s.TopError
	case segment.Regular:
		return s.RegularError
	case segment.Search:
		return s.SearchError
	default:
		return false
	}
}

// Set записывает значение сегмента и снимает его флаг ошибки.
func (s *Snapshot) Set(key segment.Key, d segment.Data) {
	switch key {
	case segment.Categories:
		s.Categories, s.CategoriesError = d.Categories, false
	case segment.Post:
		s.Post, s.PostError = d.Post, false
	case segment.Headline:
		s.Headline, s.HeadlineError = d.Page, false
	case segment.Top:
		s.Top, s.TopError = d.Page, false
	case segment.Regular:
		s.Regular, s.RegularError = d.Page, false
	case segment.Search:
		s.Search, s.SearchError = d.Page, false
	}
}

// SetError помечает сегмент упавшим и удаляет его значение.
func (s *Snapshot) SetError(key segment.Key) {
	s.Set(key, segment.Data{})

	switch key {
	case segment.Categories:
		s.CategoriesError = true
	case segment.Post:
		s.PostError = true
	case segment.Headline:
		s.HeadlineError = true
	case segment.Top:
		s.TopError = true
	case segment.Regular:
		s.RegularError = true
	case segment.Search:
		s.SearchError = true
	}
}
