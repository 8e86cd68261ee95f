package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CapabilityManageStore gates every admin route.
const CapabilityManageStore = "manage_woocommerce"

type Claims struct {
	Capabilities []string `json:"caps"`
	jwt.RegisteredClaims
}

func (c *Claims) Can(capability string) bool {
	return slices.Contains(c.Capabilities, capability)
}

type claimsKey struct{}

// ClaimsFrom returns the verified claims stored by RequireCapability.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

var (
	// ErrEmptySecret is returned for every token when no signing secret is configured.
	ErrEmptySecret = errors.New("jwt secret is empty")

	errMissingToken = errors.New("missing bearer token")
	errBadToken     = errors.New("invalid token")
)

// ParseToken verifies an HS256 token signed with secret. An empty secret
// verifies nothing.
func ParseToken(raw string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errBadToken
	}
	return &claims, nil
}

// RequireCapability rejects requests without a valid bearer token carrying
// capability: 401 for a missing or bad token, 403 for a missing capability.
// With an empty secret every request gets 401.
func RequireCapability(secret []byte, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			raw, err := bearerToken(r)
			if err != nil {
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			claims, err := ParseToken(raw, secret)
			if err != nil {
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			if !claims.Can(capability) {
				deny(w, http.StatusForbidden, "FORBIDDEN", "You are not allowed to do this")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", errMissingToken
	}
	return strings.TrimSpace(h[7:]), nil
}

func deny(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "error": message})
}
