package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"uigenie/internal/infra"
	"uigenie/internal/providers/codegen"
	"uigenie/internal/providers/objectstore"
)

type envCheck struct {
	name     string
	value    string
	required bool
}

func newCheckEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkenv",
		Short: "Report which environment variables are configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := infra.ParseConfig()
			if err != nil {
				return err
			}
			missing, err := checkEnv(cmd.Context(), cmd.OutOrStdout(), cfg)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

// checkEnv prints every relevant variable with its value masked and returns
// the names that must be set before uploads can succeed.
func checkEnv(ctx context.Context, out io.Writer, cfg *infra.Config) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := objectstore.New(ctx, cfg, infra.NopLogger())
	if err != nil {
		return nil, err
	}
	synth, err := codegen.NewFromConfig(ctx, cfg, infra.NopLogger())
	if err != nil {
		return nil, err
	}

	checks := []envCheck{
		{name: "APP_ENV", value: cfg.AppEnv},
		{name: "DATABASE_URL", value: cfg.DatabaseURL, required: true},
		{name: "JWT_SECRET", value: cfg.JWTSecret, required: true},
		{name: "OBJECT_STORE", value: store.Provider()},
	}
	switch cfg.ObjectStore {
	case infra.ObjectStoreS3:
		checks = append(checks,
			envCheck{name: "S3_BUCKET", value: cfg.S3.Bucket},
			envCheck{name: "S3_ACCESS_KEY_ID", value: cfg.S3.AccessKeyID},
			envCheck{name: "S3_SECRET_ACCESS_KEY", value: cfg.S3.SecretAccessKey},
		)
	default:
		checks = append(checks,
			envCheck{name: "CLOUDINARY_NAME", value: cfg.Cloudinary.Name},
			envCheck{name: "CLOUDINARY_KEY", value: cfg.Cloudinary.Key},
			envCheck{name: "CLOUDINARY_SECRET", value: cfg.Cloudinary.Secret},
		)
	}
	checks = append(checks,
		envCheck{name: codegen.APIKeyEnv, value: cfg.Gemini.APIKey},
		envCheck{name: "GEMINI_MODEL", value: synth.Model()},
	)

	var missing []string
	for _, c := range checks {
		if c.required && strings.TrimSpace(c.value) == "" {
			missing = append(missing, c.name)
		}
		fmt.Fprintf(out, "%-22s %s\n", c.name, mask(c.value))
	}
	missing = append(missing, store.Missing()...)
	missing = append(missing, synth.Missing()...)
	return missing, nil
}

// mask keeps the first and last two characters of longer values.
func mask(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return "(not set)"
	case len(v) <= 6:
		return strings.Repeat("*", len(v))
	default:
		return v[:2] + strings.Repeat("*", len(v)-4) + v[len(v)-2:]
	}
}
