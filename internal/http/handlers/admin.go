package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (a *App) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Generations.Stats(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("dashboard stats failed")
		a.error(w, r, http.StatusInternalServerError, "internal", "Failed to load dashboard")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"stats": stats})
}

// AdminDeleteOwnerGenerations removes every record of an owner. User
// management calls it when a user is deleted.
func (a *App) AdminDeleteOwnerGenerations(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(chi.URLParam(r, "ownerId"))
	if ownerID == "" {
		a.error(w, r, http.StatusBadRequest, "validation_error", "Owner id is required")
		return
	}
	n, err := a.Generations.DeleteByOwner(r.Context(), ownerID)
	if err != nil {
		a.Logger.Error().Err(err).Str("owner_id", ownerID).Msg("cascade delete failed")
		a.error(w, r, http.StatusInternalServerError, "internal", "Failed to delete generations")
		return
	}
	admin, _ := a.principal(r)
	a.Logger.Info().Str("owner_id", ownerID).Str("admin_id", admin.ID).Int64("deleted", n).Msg("owner generations deleted")
	a.json(w, http.StatusOK, map[string]any{"ownerId": ownerID, "deleted": n})
}
