package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"uigenie/internal/domain"
)

// ListGenerations returns the caller's records, newest first.
func (a *App) ListGenerations(w http.ResponseWriter, r *http.Request) {
	p, ok := a.principal(r)
	if !ok {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	items, err := a.Generations.ListByOwner(r.Context(), p.ID, limit, offset)
	if err != nil {
		a.Logger.Error().Err(err).Str("owner_id", p.ID).Msg("list generations failed")
		a.error(w, r, http.StatusInternalServerError, "internal", "Failed to load generations")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// GetGeneration returns one of the caller's records. Records of other owners
// are reported as missing.
func (a *App) GetGeneration(w http.ResponseWriter, r *http.Request) {
	p, ok := a.principal(r)
	if !ok {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	gen, err := a.Generations.GetForOwner(r.Context(), chi.URLParam(r, "id"), p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, r, http.StatusNotFound, "not_found", "Generation not found")
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("owner_id", p.ID).Msg("get generation failed")
		a.error(w, r, http.StatusInternalServerError, "internal", "Failed to load generations")
		return
	}
	a.json(w, http.StatusOK, gen)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
