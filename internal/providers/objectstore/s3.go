package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"uigenie/internal/domain"
	"uigenie/internal/storage"
)

const providerS3 = "s3"

// S3Client is the subset of the S3 API used by the adapter.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the S3 adapter. Endpoint and PublicBaseURL allow
// S3-compatible stores such as MinIO or R2.
type S3Options struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Endpoint        string
	PublicBaseURL   string
	Prefix          string
	Logger          zerolog.Logger

	// Client overrides the SDK client; tests use it.
	Client S3Client
}

// S3 uploads assets to an S3 bucket.
type S3 struct {
	creds         []credential
	bucket        string
	region        string
	prefix        string
	publicBaseURL string
	client        S3Client
	logger        zerolog.Logger
}

// NewS3 builds the adapter. The SDK client is only created when the full
// credential triple is present.
func NewS3(_ context.Context, opts S3Options) (*S3, error) {
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = "us-east-1"
	}
	s := &S3{
		creds: []credential{
			{field: "name", env: "S3_BUCKET", value: opts.Bucket},
			{field: "key", env: "S3_ACCESS_KEY_ID", value: opts.AccessKeyID},
			{field: "secret", env: "S3_SECRET_ACCESS_KEY", value: opts.SecretAccessKey},
		},
		bucket:        strings.TrimSpace(opts.Bucket),
		region:        region,
		prefix:        strings.Trim(strings.TrimSpace(opts.Prefix), "/"),
		publicBaseURL: strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/"),
		client:        opts.Client,
		logger:        opts.Logger.With().Str("object_store", providerS3).Logger(),
	}
	if s.client == nil && len(s.Missing()) == 0 {
		cfg := aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				strings.TrimSpace(opts.AccessKeyID),
				strings.TrimSpace(opts.SecretAccessKey),
				"",
			),
			// Upload is a single attempt; failures surface to the caller.
			Retryer: func() aws.Retryer { return aws.NopRetryer{} },
		}
		endpoint := strings.TrimSpace(opts.Endpoint)
		s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
				o.UsePathStyle = true
			}
		})
		if endpoint != "" && s.publicBaseURL == "" {
			s.publicBaseURL = strings.TrimRight(endpoint, "/") + "/" + s.bucket
		}
	}
	return s, nil
}

func (s *S3) Provider() string { return providerS3 }

func (s *S3) Credentials() map[string]bool { return presence(s.creds) }

func (s *S3) Missing() []string { return missing(s.creds) }

// Upload puts the asset in a single attempt and returns its public URL. The
// SDK client is built without retries.
func (s *S3) Upload(ctx context.Context, asset *storage.Asset) (string, error) {
	if miss := s.Missing(); len(miss) > 0 {
		return "", domain.ConfigurationError(miss...)
	}
	if asset == nil {
		return "", domain.StorageError("no asset to upload", nil)
	}

	f, err := asset.Open()
	if err != nil {
		return "", domain.StorageError("s3 upload failed", err)
	}
	defer f.Close()

	key := s.objectKey(asset)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(asset.ContentType()),
		ContentLength: aws.Int64(asset.Size),
	})
	if err != nil {
		evt := s.logger.Error().Err(err).Str("bucket", s.bucket).Str("key", key)
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			evt = evt.Str("s3_code", apiErr.ErrorCode())
		}
		evt.Msg("s3 upload failed")
		return "", domain.StorageError("s3 upload failed", err)
	}

	s.logger.Debug().Str("asset_id", asset.ID).Str("key", key).Msg("asset uploaded")
	return s.publicURL(key), nil
}

func (s *S3) objectKey(asset *storage.Asset) string {
	name := asset.ID + filepath.Ext(asset.Path)
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3) publicURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

var _ Store = (*S3)(nil)
