// Package objectstore uploads transient assets to durable remote storage and
// returns a public retrieval URL.
package objectstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"uigenie/internal/infra"
	"uigenie/internal/storage"
)

// Store is the durable object storage contract used by the pipeline.
type Store interface {
	// Provider names the backing service.
	Provider() string
	// Credentials reports which credential fields are present, keyed by
	// name, key and secret.
	Credentials() map[string]bool
	// Missing lists the environment variables of absent credentials.
	Missing() []string
	// Upload performs one synchronous upload attempt.
	Upload(ctx context.Context, asset *storage.Asset) (string, error)
}

// credential pairs an environment variable with its configured value.
type credential struct {
	field string
	env   string
	value string
}

func presence(creds []credential) map[string]bool {
	return lo.SliceToMap(creds, func(c credential) (string, bool) {
		return c.field, strings.TrimSpace(c.value) != ""
	})
}

func missing(creds []credential) []string {
	out := lo.FilterMap(creds, func(c credential, _ int) (string, bool) {
		return c.env, strings.TrimSpace(c.value) == ""
	})
	sort.Strings(out)
	return out
}

// New builds the store selected by cfg.ObjectStore. Missing credentials do not
// fail construction; they surface per upload as configuration errors.
func New(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (Store, error) {
	switch cfg.ObjectStore {
	case infra.ObjectStoreS3:
		return NewS3(ctx, S3Options{
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
			Prefix:          cfg.S3.Prefix,
			Logger:          logger,
		})
	case infra.ObjectStoreCloudinary, "":
		return NewCloudinary(CloudinaryOptions{
			CloudName: cfg.Cloudinary.Name,
			APIKey:    cfg.Cloudinary.Key,
			APISecret: cfg.Cloudinary.Secret,
			Folder:    cfg.Cloudinary.Folder,
			Logger:    logger,
		})
	default:
		return nil, fmt.Errorf("objectstore: unsupported provider %q", cfg.ObjectStore)
	}
}
