package handlers

import (
	"github.com/pribylovaa/news-portal/internal/navigation"
	"github.com/pribylovaa/news-portal/internal/session"
	"github.com/pribylovaa/news-portal/internal/snapshot"
)

// CreateSessionRequest — открытие сессии. Snapshot — снапшот, который
// клиент получил вместе с первой страницей; без него шлюз соберёт свой.
type CreateSessionRequest struct {
	URL      string             `json:"url"`
	Snapshot *snapshot.Snapshot `json:"snapshot,omitempty"`
}

type CreateSessionResponse struct {
	ID   string       `json:"id"`
	View session.View `json:"view"`
}

type NavigateRequest struct {
	URL string `json:"url"`
}

type CategoryRequest struct {
	Category string `json:"category"`
}

type TimeRangeRequest struct {
	Range string `json:"range"`
}

type PageRequest struct {
	Segment string `json:"segment"`
	Page    int    `json:"page"`
}

// ActionResponse — результат действия пользователя: куда перейти и что показать.
type ActionResponse struct {
	Navigation navigation.Navigation `json:"navigation"`
	View       session.View          `json:"view"`
}
