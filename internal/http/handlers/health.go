package handlers

import (
	"net/http"
	"time"

	"uigenie/internal/infra"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	env := ""
	if a.Config != nil {
		env = a.Config.AppEnv
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": env,
		"dbConnected": a.DB != nil && infra.IsLive(r.Context(), a.DB),
	})
}
