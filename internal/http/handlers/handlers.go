package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apierrors "github.com/pribylovaa/news-portal/internal/errors"
	"github.com/pribylovaa/news-portal/internal/session"
	"github.com/pribylovaa/news-portal/internal/snapshot"
)

// Sessions — реестр сессий ридера, с которым работают хендлеры.
type Sessions interface {
	Prerender(ctx context.Context, raw string) (snapshot.Snapshot, error)
	Create(ctx context.Context, raw string, snap *snapshot.Snapshot) (*session.Session, error)
	Get(id string) (*session.Session, error)
	Close(id string) error
}

// Handlers агрегирует зависимости.
type Handlers struct {
	Sessions Sessions
}

func New(s Sessions) *Handlers {
	return &Handlers{Sessions: s}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode body: %w: %v", apierrors.ErrInvalidArgument, err)
	}

	return nil
}

func invalid(what string) error {
	return fmt.Errorf("%s: %w", what, apierrors.ErrInvalidArgument)
}
