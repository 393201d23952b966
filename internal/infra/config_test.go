package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ObjectStoreCloudinary, cfg.ObjectStore)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "ui-genie", cfg.Cloudinary.Folder)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.HTTPWriteTimeout)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadConfigReadsCredentialTriples(t *testing.T) {
	setRequired(t)
	t.Setenv("CLOUDINARY_NAME", "demo")
	t.Setenv("CLOUDINARY_KEY", "key")
	t.Setenv("CLOUDINARY_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("OBJECT_STORE", " S3 ")
	t.Setenv("S3_BUCKET", "ui-bucket")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Cloudinary.Name)
	assert.Equal(t, "key", cfg.Cloudinary.Key)
	assert.Equal(t, "secret", cfg.Cloudinary.Secret)
	assert.Equal(t, "gm-key", cfg.Gemini.APIKey)
	assert.Equal(t, ObjectStoreS3, cfg.ObjectStore)
	assert.Equal(t, "ui-bucket", cfg.S3.Bucket)
}

func TestLoadConfigSplitsCORSOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigRequiresDatabaseAndSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "x")
	_, err := LoadConfig()
	require.EqualError(t, err, "DATABASE_URL is required")

	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "")
	_, err = LoadConfig()
	require.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoadConfigRejectsUnknownObjectStore(t *testing.T) {
	setRequired(t)
	t.Setenv("OBJECT_STORE", "ftp")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}
