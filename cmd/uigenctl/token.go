package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"uigenie/internal/domain"
	"uigenie/internal/infra"
	"uigenie/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := infra.ParseConfig()
			if err != nil {
				return err
			}
			p, err := principalFor(subject, role)
			if err != nil {
				return err
			}
			token, err := middleware.SignToken(cfg.JWTSecret, p, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "principal id placed in the subject claim")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "principal role (user or admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime; 0 disables expiry")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}

func principalFor(subject, role string) (domain.Principal, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return domain.Principal{}, fmt.Errorf("--sub is required")
	}
	switch r := domain.Role(strings.ToLower(strings.TrimSpace(role))); r {
	case domain.RoleUser, domain.RoleAdmin:
		return domain.Principal{ID: subject, Role: r}, nil
	default:
		return domain.Principal{}, fmt.Errorf("unsupported role %q", role)
	}
}
