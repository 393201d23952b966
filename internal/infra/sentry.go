package infra

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

// InitSentry configures the global Sentry hub when a DSN is present. It
// returns a flush function that is safe to call even when Sentry is disabled.
func InitSentry(cfg *Config, logger zerolog.Logger) (enabled bool, flush func()) {
	noop := func() {}
	if cfg == nil || cfg.SentryDSN == "" {
		return false, noop
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		EnableTracing:    false,
		AttachStacktrace: true,
	}); err != nil {
		logger.Error().Err(err).Msg("sentry initialization failed")
		return false, noop
	}
	return true, func() { sentry.Flush(2 * time.Second) }
}
