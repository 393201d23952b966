package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// requestAttrs collects values that inner middleware resolves for the
// request log line.
type requestAttrs struct {
	locale  string
	country string
}

type requestAttrsKey struct{}

func annotate(ctx context.Context, locale, country string) {
	if a, ok := ctx.Value(requestAttrsKey{}).(*requestAttrs); ok {
		a.locale = locale
		a.country = country
	}
}

// Logger writes one structured line per request.
func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			attrs := &requestAttrs{}
			next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), requestAttrsKey{}, attrs)))

			evt := l.Info()
			switch {
			case rw.status >= 500:
				evt = l.Error()
			case rw.status >= 400:
				evt = l.Warn()
			}
			evt.Str("request_id", RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Int("bytes", rw.bytes).
				Dur("duration", time.Since(start))
			if attrs.locale != "" {
				evt = evt.Str("locale", attrs.locale)
			}
			if attrs.country != "" {
				evt = evt.Str("country", attrs.country)
			}
			evt.Msg("http request")
		})
	}
}
