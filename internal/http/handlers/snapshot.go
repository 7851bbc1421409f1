package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/news-portal/internal/errors"
)

// GetSnapshot — GET /snapshot?url=... — серверный снапшот для адреса.
func (h *Handlers) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		apierrors.WriteError(w, r, invalid("url"))
		return
	}

	snap, err := h.Sessions.Prerender(r.Context(), raw)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
