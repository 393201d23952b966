package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"

	"uigenie/internal/domain"
	"uigenie/internal/storage"
)

const providerCloudinary = "cloudinary"

// CloudinaryOptions configures the Cloudinary adapter.
type CloudinaryOptions struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	Logger    zerolog.Logger

	// Uploader overrides the SDK upload API; tests use it.
	Uploader CloudinaryUploader
}

// CloudinaryUploader is the subset of the Cloudinary SDK used here.
// *uploader.API satisfies it.
type CloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// Cloudinary uploads assets to a Cloudinary media library.
type Cloudinary struct {
	creds    []credential
	folder   string
	uploader CloudinaryUploader
	logger   zerolog.Logger
}

// NewCloudinary builds the adapter. The SDK client is only created when the
// full credential triple is present.
func NewCloudinary(opts CloudinaryOptions) (*Cloudinary, error) {
	c := &Cloudinary{
		creds: []credential{
			{field: "name", env: "CLOUDINARY_NAME", value: opts.CloudName},
			{field: "key", env: "CLOUDINARY_KEY", value: opts.APIKey},
			{field: "secret", env: "CLOUDINARY_SECRET", value: opts.APISecret},
		},
		folder:   strings.Trim(strings.TrimSpace(opts.Folder), "/"),
		uploader: opts.Uploader,
		logger:   opts.Logger.With().Str("object_store", providerCloudinary).Logger(),
	}
	if c.uploader == nil && len(c.Missing()) == 0 {
		cld, err := cloudinary.NewFromParams(
			strings.TrimSpace(opts.CloudName),
			strings.TrimSpace(opts.APIKey),
			strings.TrimSpace(opts.APISecret),
		)
		if err != nil {
			return nil, fmt.Errorf("objectstore: init cloudinary: %w", err)
		}
		c.uploader = &cld.Upload
	}
	return c, nil
}

func (c *Cloudinary) Provider() string { return providerCloudinary }

func (c *Cloudinary) Credentials() map[string]bool { return presence(c.creds) }

func (c *Cloudinary) Missing() []string { return missing(c.creds) }

// Upload sends the asset in a single attempt and returns its secure URL.
func (c *Cloudinary) Upload(ctx context.Context, asset *storage.Asset) (string, error) {
	if miss := c.Missing(); len(miss) > 0 {
		return "", domain.ConfigurationError(miss...)
	}
	if asset == nil {
		return "", domain.StorageError("no asset to upload", nil)
	}

	params := uploader.UploadParams{PublicID: asset.ID}
	if c.folder != "" {
		params.Folder = c.folder
	}

	res, err := c.uploader.Upload(ctx, asset.Path, params)
	if err != nil {
		c.logger.Error().Err(err).Str("asset_id", asset.ID).Msg("cloudinary upload failed")
		return "", domain.StorageError("cloudinary upload failed", err)
	}
	if res == nil {
		return "", domain.StorageError("cloudinary upload failed", errors.New("empty upload result"))
	}
	if msg := strings.TrimSpace(res.Error.Message); msg != "" {
		c.logger.Error().Str("asset_id", asset.ID).Str("cloudinary_error", msg).Msg("cloudinary rejected upload")
		return "", domain.StorageError("cloudinary upload failed", errors.New(msg))
	}
	if res.SecureURL == "" {
		return "", domain.StorageError("cloudinary upload failed", errors.New("no secure_url in response"))
	}

	c.logger.Debug().Str("asset_id", asset.ID).Str("public_id", res.PublicID).Msg("asset uploaded")
	return res.SecureURL, nil
}

var _ Store = (*Cloudinary)(nil)
