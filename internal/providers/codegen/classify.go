package codegen

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"uigenie/internal/domain"
)

// classify maps a model failure to a category. Structured signals win; the
// message substrings are the last resort.
func classify(err error) domain.SynthesisCategory {
	if err == nil {
		return domain.CategoryUnknown
	}
	if apiErr, ok := asAPIError(err); ok {
		switch {
		case apiErr.Code == http.StatusUnauthorized,
			apiErr.Code == http.StatusForbidden,
			apiErr.Status == "UNAUTHENTICATED",
			apiErr.Status == "PERMISSION_DENIED":
			return domain.CategoryMissingCredential
		case apiErr.Code == http.StatusTooManyRequests,
			apiErr.Status == "RESOURCE_EXHAUSTED":
			return domain.CategoryQuotaExceeded
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.CategoryNetworkError
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key"):
		return domain.CategoryMissingCredential
	case strings.Contains(msg, "quota"):
		return domain.CategoryQuotaExceeded
	case strings.Contains(msg, "network"):
		return domain.CategoryNetworkError
	}
	return domain.CategoryUnknown
}

func asAPIError(err error) (genai.APIError, bool) {
	var val genai.APIError
	if errors.As(err, &val) {
		return val, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

func userMessage(category domain.SynthesisCategory, err error) string {
	switch category {
	case domain.CategoryMissingCredential:
		return "Gemini API key is invalid or missing"
	case domain.CategoryQuotaExceeded:
		return "Gemini API quota exceeded"
	case domain.CategoryNetworkError:
		return "Network error connecting to Gemini API"
	}
	if apiErr, ok := asAPIError(err); ok && apiErr.Message != "" {
		return "Gemini API error: " + apiErr.Message
	}
	return "Gemini API error: " + err.Error()
}
