package segment

import "github.com/pribylovaa/news-portal/internal/models"

// Data — разрешённое значение сегмента. Заполнено ровно одно поле
// в зависимости от сегмента.
type Data struct {
	Categories []models.Category `json:"categories,omitempty"`
	Post       *models.Post      `json:"post,omitempty"`
	Page       *models.PostPage  `json:"page,omitempty"`
}

// Empty сообщает, что значение отсутствует.
func (d Data) Empty() bool {
	return d.Categories == nil && d.Post == nil && d.Page == nil
}

// Result — наблюдаемое состояние одного сегмента.
type Result struct {
	Key     Key
	State   State
	Data    Data
	Err     error
	Filters Filters
}

// HasData сообщает, есть ли у сегмента значение для отображения.
func (r Result) HasData() bool { return !r.Data.Empty() }
