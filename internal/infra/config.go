package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ObjectStoreCloudinary = "cloudinary"
	ObjectStoreS3         = "s3"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv        string `env:"APP_ENV" envDefault:"development"`
	Port          string `env:"PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL"`
	JWTSecret     string `env:"JWT_SECRET"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`
	ObjectStore   string `env:"OBJECT_STORE" envDefault:"cloudinary"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`
	GeoIPDBPath   string `env:"GEOIP_DB_PATH"`
	SentryDSN     string `env:"SENTRY_DSN"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	Cloudinary CloudinaryConfig `envPrefix:"CLOUDINARY_"`
	S3         S3Config         `envPrefix:"S3_"`
	Gemini     GeminiConfig     `envPrefix:"GEMINI_"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitPerMin    int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	HTTPReadTimeoutSeconds  int `env:"HTTP_READ_TIMEOUT_SECONDS" envDefault:"15"`
	HTTPWriteTimeoutSeconds int `env:"HTTP_WRITE_TIMEOUT_SECONDS" envDefault:"120"`
	HTTPIdleTimeoutSeconds  int `env:"HTTP_IDLE_TIMEOUT_SECONDS" envDefault:"60"`

	HTTPReadTimeout  time.Duration `env:"-"`
	HTTPWriteTimeout time.Duration `env:"-"`
	HTTPIdleTimeout  time.Duration `env:"-"`
}

// CloudinaryConfig carries the Cloudinary credential triple.
type CloudinaryConfig struct {
	Name   string `env:"NAME"`
	Key    string `env:"KEY"`
	Secret string `env:"SECRET"`
	Folder string `env:"FOLDER" envDefault:"ui-genie"`
}

// S3Config carries the S3 credential triple plus endpoint overrides for
// S3-compatible stores.
type S3Config struct {
	Bucket          string `env:"BUCKET"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	Region          string `env:"REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ENDPOINT"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
	Prefix          string `env:"PREFIX" envDefault:"ui-genie"`
}

// GeminiConfig configures the generative model client.
type GeminiConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gemini-2.5-flash"`
	BaseURL string `env:"BASE_URL"`
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Object store and model credentials are optional here; their absence is
// reported per request as a configuration error.
func LoadConfig() (*Config, error) {
	cfg, err := ParseConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig reads the environment without enforcing required values.
func ParseConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.ObjectStore = strings.ToLower(strings.TrimSpace(cfg.ObjectStore))
	switch cfg.ObjectStore {
	case ObjectStoreCloudinary, ObjectStoreS3:
	case "":
		cfg.ObjectStore = ObjectStoreCloudinary
	default:
		return nil, fmt.Errorf("unsupported OBJECT_STORE %q", cfg.ObjectStore)
	}

	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)
	cfg.HTTPReadTimeout = seconds(cfg.HTTPReadTimeoutSeconds, 15)
	cfg.HTTPWriteTimeout = seconds(cfg.HTTPWriteTimeoutSeconds, 120)
	cfg.HTTPIdleTimeout = seconds(cfg.HTTPIdleTimeoutSeconds, 60)
	if cfg.RateLimitPerMin <= 0 {
		cfg.RateLimitPerMin = 30
	}
	return cfg, nil
}

// Validate checks the values the service cannot boot without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
