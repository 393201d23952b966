package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"uigenie/internal/domain"
	"uigenie/internal/infra"
	"uigenie/internal/middleware"
	"uigenie/internal/pipeline"
)

// Pipeline runs one upload through the generation stages.
type Pipeline interface {
	Run(ctx context.Context, req pipeline.Request) (*domain.Generation, error)
}

// ObjectStoreStatus reports the configured object store and its credentials.
type ObjectStoreStatus interface {
	Provider() string
	Credentials() map[string]bool
}

// ModelStatus reports whether the generative model key is present.
type ModelStatus interface {
	Configured() bool
}

// App holds the handles every handler needs. All fields are set once at
// startup.
type App struct {
	Config      *infra.Config
	Logger      infra.Logger
	Pipeline    Pipeline
	Generations domain.GenerationRepository
	DB          infra.Pinger
	ObjectStore ObjectStoreStatus
	Model       ModelStatus
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Step     string `json:"step,omitempty"`
	Category string `json:"category,omitempty"`
	Details  any    `json:"details,omitempty"`
}

func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	a.json(w, status, errorResponse{Error: localize(middleware.LocaleFromContext(r.Context()), msg), Code: code})
}

// pipelineError maps a pipeline failure to its status and JSON body.
func (a *App) pipelineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrUnauthorized) {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	de, ok := domain.AsError(err)
	if !ok {
		de = domain.UnknownError("Internal server error", err)
	}

	body := errorResponse{
		Error:    localize(middleware.LocaleFromContext(r.Context()), de.Message),
		Code:     string(de.Kind),
		Step:     string(de.Stage),
		Category: string(de.Category),
	}
	switch {
	case len(de.Missing) > 0:
		body.Details = map[string]any{"missing": de.Missing}
	case de.Kind == domain.KindUnknown:
		a.capture(r, err)
		if a.Config != nil && a.Config.IsDevelopment() && de.Err != nil {
			body.Details = de.Err.Error()
		}
	case de.Err != nil:
		body.Details = de.Err.Error()
	}
	a.json(w, statusFor(de), body)
}

func statusFor(de *domain.Error) int {
	switch de.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConfiguration:
		return http.StatusFailedDependency
	case domain.KindStorage:
		if de.Stage == domain.StagePersistence {
			return http.StatusInternalServerError
		}
		return http.StatusBadGateway
	case domain.KindSynthesis:
		if de.Category == domain.CategoryQuotaExceeded {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) capture(r *http.Request, err error) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("request_id", middleware.RequestIDFromContext(r.Context()))
		hub.CaptureException(err)
	})
}

func (a *App) principal(r *http.Request) (domain.Principal, bool) {
	return middleware.PrincipalFromContext(r.Context())
}
