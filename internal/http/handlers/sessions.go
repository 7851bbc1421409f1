package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/news-portal/internal/errors"
	"github.com/pribylovaa/news-portal/internal/navigation"
	"github.com/pribylovaa/news-portal/internal/segment"
	"github.com/pribylovaa/news-portal/internal/session"
)

func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if req.URL == "" {
		apierrors.WriteError(w, r, invalid("url"))
		return
	}

	s, err := h.Sessions.Create(r.Context(), req.URL, req.Snapshot)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	view, err := s.View(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: s.ID, View: view})
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	view, err := s.View(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Close(chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if req.URL == "" {
		apierrors.WriteError(w, r, invalid("url"))
		return
	}

	h.act(w, r, func(ctx context.Context, s *session.Session) (navigation.Navigation, error) {
		return s.Navigate(ctx, req.URL)
	})
}

func (h *Handlers) Back(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) (navigation.Navigation, error) {
		return s.Back(ctx)
	})
}

func (h *Handlers) ChangeCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.act(w, r, func(ctx context.Context, s *session.Session) (navigation.Navigation, error) {
		return s.ChangeCategory(ctx, req.Category)
	})
}

func (h *Handlers) ChangeTimeRange(w http.ResponseWriter, r *http.Request) {
	var req TimeRangeRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.act(w, r, func(ctx context.Context, s *session.Session) (navigation.Navigation, error) {
		return s.ChangeTimeRange(ctx, req.Range)
	})
}

func (h *Handlers) ChangePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	key, err := segment.ParseKey(req.Segment)
	if err != nil {
		apierrors.WriteError(w, r, invalid("segment"))
		return
	}

	h.act(w, r, func(ctx context.Context, s *session.Session) (navigation.Navigation, error) {
		return s.ChangePage(ctx, key, req.Page)
	})
}

func (h *Handlers) Retry(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) (navigation.Navigation, error) {
		return s.Retry(ctx)
	})
}

// act выполняет действие над сессией и отвечает навигацией и новой проекцией.
func (h *Handlers) act(w http.ResponseWriter, r *http.Request, fn func(context.Context, *session.Session) (navigation.Navigation, error)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	nav, err := fn(r.Context(), s)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	view, err := s.View(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{Navigation: nav, View: view})
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return nil, false
	}

	return s, true
}
