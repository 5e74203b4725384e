package rest

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyInfo describes the claims carried by a store anon key.
type KeyInfo struct {
	Role      string
	Issuer    string
	ExpiresAt time.Time
}

// InspectAnonKey decodes the anon key's claims without verifying the
// signature; only the store can verify it. It fails when the key is not a JWT.
func InspectAnonKey(key string) (KeyInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyInfo{}, fmt.Errorf("anon key: %w", err)
	}

	var info KeyInfo
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if iss, err := claims.GetIssuer(); err == nil {
		info.Issuer = iss
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

// Warnings lists problems worth logging at startup.
func (k KeyInfo) Warnings(now time.Time) []string {
	var out []string
	if !k.ExpiresAt.IsZero() && !now.Before(k.ExpiresAt) {
		out = append(out, fmt.Sprintf("anon key expired at %s", k.ExpiresAt.Format(time.RFC3339)))
	}
	if k.Role != "" && k.Role != "anon" {
		out = append(out, fmt.Sprintf("anon key carries role %q; a privileged key should not ship in a client", k.Role))
	}
	return out
}
