package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"uigenie/internal/domain"
)

// Claims is the bearer token payload. The subject is the principal id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type principalKey struct{}

// SignToken issues an HS256 token for p. A zero ttl means no expiry.
func SignToken(secret string, p domain.Principal, ttl time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := Claims{
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  p.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies token and resolves its principal.
func ParseToken(secret, token string) (domain.Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	role := domain.RoleUser
	if domain.Role(claims.Role) == domain.RoleAdmin {
		role = domain.RoleAdmin
	}
	return domain.Principal{ID: claims.Subject, Role: role}, nil
}

// Authenticate resolves the bearer token into a principal or answers 401.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			p, err := ParseToken(secret, strings.TrimSpace(token))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin answers 403 unless the resolved principal is an admin. It must
// run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if !p.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok && p.ID != ""
}

func ContextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	if strings.TrimSpace(p.ID) == "" {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, p)
}
