package session

import (
	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/projector"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
)

// View — проекция страницы сессии для клиента.
type View struct {
	URL       string          `json:"url"`
	Route     route.Route     `json:"route"`
	Flags     projector.Flags `json:"flags"`
	CanGoBack bool            `json:"can_go_back"`
	Segments  []SegmentView   `json:"segments"`
}

// SegmentView — состояние одного сегмента для отображения.
//
// Unavailable — сегмент упал, но страница в целом рисуется: на его месте
// показывается заглушка.
type SegmentView struct {
	Key         segment.Key        `json:"key"`
	State       segment.State      `json:"state"`
	Page        int                `json:"page,omitempty"`
	Categories  []models.Category  `json:"categories,omitempty"`
	Post        *models.Post       `json:"post,omitempty"`
	Items       []models.Post      `json:"items,omitempty"`
	Pagination  *models.Pagination `json:"pagination,omitempty"`
	Filters     segment.Filters    `json:"filters"`
	Error       *SegmentError      `json:"error,omitempty"`
	Unavailable bool               `json:"unavailable,omitempty"`
}

// SegmentError — безопасное описание ошибки сегмента.
type SegmentError struct {
	Kind    segment.ErrorKind `json:"kind"`
	Message string            `json:"message"`
}

func segmentViews(r route.Route, results []segment.Result) []SegmentView {
	out := make([]SegmentView, 0, len(results))

	for _, res := range results {
		v := SegmentView{
			Key:        res.Key,
			State:      res.State,
			Categories: res.Data.Categories,
			Post:       res.Data.Post,
			Filters:    res.Filters,
		}

		if res.Key.IsPaged() {
			v.Page = r.Page(res.Key)
		}

		if p := res.Data.Page; p != nil {
			v.Items = p.Items
			pg := p.Pagination
			v.Pagination = &pg
		}

		if res.Err != nil {
			v.Error = &SegmentError{
				Kind:    segment.Classify(res.Err),
				Message: segment.Message(res.Err),
			}
		}

		v.Unavailable = res.State == segment.StateErrored && !res.HasData()

		out = append(out, v)
	}

	return out
}
