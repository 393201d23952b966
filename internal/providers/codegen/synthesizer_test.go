package codegen

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"uigenie/internal/domain"
	"uigenie/internal/storage"
)

type fakeGenerator struct {
	calls    int
	model    string
	contents []*genai.Content
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
	}
}

func newAsset(t *testing.T, filename, body string) *storage.Asset {
	t.Helper()
	dir, err := storage.EnsureDir(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	store, err := storage.NewTransientStore(dir, zerolog.Nop())
	require.NoError(t, err)
	asset, err := store.Acquire(context.Background(), filename, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { store.Release(asset) })
	return asset
}

func TestGenerateSendsImageAndInstruction(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("export default function App() { return <div/> }")}
	s, err := New(context.Background(), Options{APIKey: "key", Generator: gen})
	require.NoError(t, err)

	code, err := s.Generate(context.Background(), newAsset(t, "login.jpg", "jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "export default function App() { return <div/> }", code)

	require.Equal(t, 1, gen.calls)
	assert.Equal(t, DefaultModel, gen.model)
	require.Len(t, gen.contents, 1)
	parts := gen.contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("jpeg-bytes"), parts[0].InlineData.Data)
	assert.Equal(t, Instruction, parts[1].Text)
}

func TestGenerateFallsBackToPNG(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("code")}
	s, err := New(context.Background(), Options{APIKey: "key", Model: "gemini-test", Generator: gen})
	require.NoError(t, err)

	_, err = s.Generate(context.Background(), newAsset(t, "design.bin", "bytes"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", gen.model)
	assert.Equal(t, storage.DefaultImageType, gen.contents[0].Parts[0].InlineData.MIMEType)
}

func TestGenerateWithoutKeyMakesNoCall(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("code")}
	s, err := New(context.Background(), Options{Generator: gen})
	require.NoError(t, err)
	assert.False(t, s.Configured())
	assert.Equal(t, []string{APIKeyEnv}, s.Missing())

	_, err = s.Generate(context.Background(), newAsset(t, "ui.png", "png"))
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindConfiguration, de.Kind)
	assert.Equal(t, []string{APIKeyEnv}, de.Missing)
	assert.Zero(t, gen.calls)
}

func TestGenerateEmptyTextIsUnknownFailure(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("   ")}
	s, err := New(context.Background(), Options{APIKey: "key", Generator: gen})
	require.NoError(t, err)

	_, err = s.Generate(context.Background(), newAsset(t, "ui.png", "png"))
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindSynthesis, de.Kind)
	assert.Equal(t, domain.CategoryUnknown, de.Category)
}

func TestGenerateClassifiesFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category domain.SynthesisCategory
		message  string
	}{
		{
			name:     "unauthenticated",
			err:      genai.APIError{Code: 401, Status: "UNAUTHENTICATED", Message: "bad key"},
			category: domain.CategoryMissingCredential,
			message:  "Gemini API key is invalid or missing",
		},
		{
			name:     "permission denied",
			err:      fmt.Errorf("call: %w", genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}),
			category: domain.CategoryMissingCredential,
			message:  "Gemini API key is invalid or missing",
		},
		{
			name:     "resource exhausted",
			err:      &genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"},
			category: domain.CategoryQuotaExceeded,
			message:  "Gemini API quota exceeded",
		},
		{
			name:     "dial failure",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			category: domain.CategoryNetworkError,
			message:  "Network error connecting to Gemini API",
		},
		{
			name:     "api key text",
			err:      errors.New("API key not valid. Please pass a valid API key."),
			category: domain.CategoryMissingCredential,
			message:  "Gemini API key is invalid or missing",
		},
		{
			name:     "quota text",
			err:      errors.New("you exceeded your current quota"),
			category: domain.CategoryQuotaExceeded,
			message:  "Gemini API quota exceeded",
		},
		{
			name:     "network text",
			err:      errors.New("network unreachable"),
			category: domain.CategoryNetworkError,
			message:  "Network error connecting to Gemini API",
		},
		{
			name:     "server error",
			err:      genai.APIError{Code: 500, Status: "INTERNAL", Message: "model overloaded"},
			category: domain.CategoryUnknown,
			message:  "Gemini API error: model overloaded",
		},
		{
			name:     "opaque",
			err:      errors.New("boom"),
			category: domain.CategoryUnknown,
			message:  "Gemini API error: boom",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{err: tc.err}
			s, err := New(context.Background(), Options{APIKey: "key", Generator: gen})
			require.NoError(t, err)

			_, err = s.Generate(context.Background(), newAsset(t, "ui.png", "png"))
			de, ok := domain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, domain.KindSynthesis, de.Kind)
			assert.Equal(t, tc.category, de.Category)
			assert.Equal(t, tc.message, de.Message)
			assert.Equal(t, tc.err, de.Err)
			assert.Equal(t, 1, gen.calls, "no retry")
		})
	}
}

func TestClassifyPrefersStructuredSignal(t *testing.T) {
	err := genai.APIError{Code: 429, Message: "invalid API key"}
	assert.Equal(t, domain.CategoryQuotaExceeded, classify(err))
}

func TestEncodedKB(t *testing.T) {
	assert.Equal(t, 0, encodedKB(0))
	assert.Equal(t, 4, encodedKB(3072))
	assert.Equal(t, 133, encodedKB(100*1024))
}
