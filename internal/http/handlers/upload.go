package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"uigenie/internal/domain"
	"uigenie/internal/infra"
	"uigenie/internal/middleware"
	"uigenie/internal/pipeline"
)

// UploadField is the multipart field carrying the image.
const UploadField = "image"

// Upload streams the image part straight into the pipeline.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) {
	p, ok := a.principal(r)
	if !ok {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	req := pipeline.Request{
		OwnerID:   p.ID,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}

	mr, err := r.MultipartReader()
	if err == nil {
		part, err := imagePart(mr)
		if err != nil {
			a.Logger.Warn().Err(err).Str("request_id", req.RequestID).Msg("malformed multipart upload")
			a.pipelineError(w, r, domain.ValidationError("Malformed multipart body"))
			return
		}
		if part != nil {
			defer part.Close()
			if name := part.FileName(); name != "" {
				req.Filename = name
				req.File = part
			}
		}
	}

	gen, err := a.Pipeline.Run(r.Context(), req)
	if err != nil {
		a.pipelineError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, gen)
}

// imagePart advances to the image field. It returns nil when the body has no
// such field.
func imagePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == UploadField {
			return part, nil
		}
		_ = part.Close()
	}
}

type credentialStatus struct {
	Provider    string          `json:"provider"`
	Credentials map[string]bool `json:"credentials"`
}

type debugResponse struct {
	ObjectStore     credentialStatus `json:"objectStore"`
	GenerativeModel struct {
		APIKey bool `json:"apiKey"`
	} `json:"generativeModel"`
	DocumentStore struct {
		Configured bool `json:"configured"`
		Connected  bool `json:"connected"`
	} `json:"documentStore"`
}

// UploadDebug reports credential presence and database liveness. It never
// exposes secret values.
func (a *App) UploadDebug(w http.ResponseWriter, r *http.Request) {
	var resp debugResponse
	if a.ObjectStore != nil {
		resp.ObjectStore = credentialStatus{
			Provider:    a.ObjectStore.Provider(),
			Credentials: a.ObjectStore.Credentials(),
		}
	}
	resp.GenerativeModel.APIKey = a.Model != nil && a.Model.Configured()
	resp.DocumentStore.Configured = a.Config != nil && a.Config.DatabaseURL != ""
	resp.DocumentStore.Connected = a.DB != nil && infra.IsLive(r.Context(), a.DB)
	a.json(w, http.StatusOK, resp)
}
