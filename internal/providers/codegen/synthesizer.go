// Package codegen turns a UI design image into React + Tailwind source code
// using the Gemini generative model.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"uigenie/internal/domain"
	"uigenie/internal/infra"
	"uigenie/internal/storage"
)

// Instruction is sent verbatim alongside every image.
const Instruction = "Convert this UI design into clean React + Tailwind CSS code.\n" +
	"Put everything in a single functional component (index.jsx). Return only the code."

// DefaultModel is used when GEMINI_MODEL is empty.
const DefaultModel = "gemini-2.5-flash"

// APIKeyEnv names the environment variable carrying the model key.
const APIKeyEnv = "GEMINI_API_KEY"

// contentGenerator is the part of the genai client the synthesizer calls.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options controls how the synthesizer is configured.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger

	// Generator replaces the genai client; tests use it.
	Generator contentGenerator
}

// Synthesizer asks the model for a single functional component per image.
type Synthesizer struct {
	apiKey    string
	model     string
	generator contentGenerator
	logger    zerolog.Logger
}

// New builds the synthesizer. A missing key does not fail construction; it is
// reported by Missing and returned as a configuration error from Generate.
func New(ctx context.Context, opts Options) (*Synthesizer, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	s := &Synthesizer{
		apiKey:    strings.TrimSpace(opts.APIKey),
		model:     model,
		generator: opts.Generator,
		logger:    opts.Logger.With().Str("provider", "gemini").Str("model", model).Logger(),
	}
	if s.generator != nil || s.apiKey == "" {
		return s, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     s.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("codegen: init genai client: %w", err)
	}
	s.generator = client.Models
	return s, nil
}

// NewFromConfig wires the synthesizer from the process configuration.
func NewFromConfig(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*Synthesizer, error) {
	return New(ctx, Options{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
		Logger:  logger,
	})
}

// Model returns the configured model name.
func (s *Synthesizer) Model() string { return s.model }

// Configured reports whether the model key is present.
func (s *Synthesizer) Configured() bool { return s.apiKey != "" }

// Missing lists the absent credential variables.
func (s *Synthesizer) Missing() []string {
	if s.Configured() {
		return nil
	}
	return []string{APIKeyEnv}
}

// Generate reads the asset, sends it with the fixed instruction and returns
// the model's text. Exactly one model call is made per invocation.
func (s *Synthesizer) Generate(ctx context.Context, asset *storage.Asset) (string, error) {
	if !s.Configured() {
		return "", domain.ConfigurationError(APIKeyEnv)
	}
	if asset == nil {
		return "", domain.SynthesisError(domain.CategoryUnknown, "Gemini API error: no image to convert", nil)
	}

	mimeType, ok := storage.DetectImageType(asset.Filename)
	if !ok {
		s.logger.Warn().Str("asset_id", asset.ID).Str("filename", asset.Filename).
			Msg("could not detect image type, using image/png")
		mimeType = storage.DefaultImageType
	}

	data, err := asset.ReadAll()
	if err != nil {
		return "", domain.SynthesisError(domain.CategoryUnknown, "Gemini API error: "+err.Error(), err)
	}
	s.logger.Debug().Str("asset_id", asset.ID).Str("mime_type", mimeType).
		Int("encoded_kb", encodedKB(len(data))).Msg("sending image to model")

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(Instruction),
		}, genai.RoleUser),
	}

	resp, err := s.generator.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		category := classify(err)
		s.logger.Error().Err(err).Str("asset_id", asset.ID).Str("category", string(category)).
			Msg("model request failed")
		return "", domain.SynthesisError(category, userMessage(category, err), err)
	}
	if resp == nil {
		return "", domain.SynthesisError(domain.CategoryUnknown, "Gemini API error: empty response", nil)
	}

	code := resp.Text()
	if strings.TrimSpace(code) == "" {
		err := errors.New("model returned no text")
		return "", domain.SynthesisError(domain.CategoryUnknown, "Gemini API error: "+err.Error(), err)
	}

	s.logger.Info().Str("asset_id", asset.ID).Int("code_length", len(code)).Msg("model response received")
	return code, nil
}

// encodedKB is the size of n bytes after base64 encoding, rounded to KB.
func encodedKB(n int) int {
	encoded := (n + 2) / 3 * 4
	return (encoded + 512) / 1024
}
