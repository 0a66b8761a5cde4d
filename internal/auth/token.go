// Package auth verifies bearer tokens issued by the identity service. This
// API never mints tokens; it only validates HS256 access tokens and exposes
// the subject and role claims to downstream handlers.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/quote-api/internal/common"
)

const rolesClaim = "roles"

// Claims carries the identity facts handlers care about.
type Claims struct {
	Subject string
	Roles   []string
}

// Service validates access tokens against a shared HMAC secret.
type Service struct {
	secret    []byte
	issuer    string
	clockSkew time.Duration
	now       func() time.Time
}

// NewService constructs a token validation service.
func NewService(secret, issuer string) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: secret is required")
	}
	return &Service{
		secret:    []byte(secret),
		issuer:    issuer,
		clockSkew: 30 * time.Second,
		now:       time.Now,
	}, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (s *Service) ParseAccessToken(token string) (Claims, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Claims{}, unauthorized("missing token", nil)
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return Claims{}, unauthorized("invalid token", err)
	}

	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithAcceptableSkew(s.clockSkew),
	}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}
	if err := jwt.Validate(parsed, options...); err != nil {
		return Claims{}, unauthorized("invalid token", err)
	}
	if parsed.Subject() == "" {
		return Claims{}, unauthorized("invalid token", errors.New("auth: token missing subject"))
	}

	return Claims{Subject: parsed.Subject(), Roles: extractRoles(parsed)}, nil
}

func extractRoles(tok jwt.Token) []string {
	raw, ok := tok.Get(rolesClaim)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		roles := make([]string, 0, len(v))
		for _, entry := range v {
			if role, ok := entry.(string); ok {
				roles = append(roles, role)
			}
		}
		return roles
	case string:
		return []string{v}
	default:
		return nil
	}
}

func unauthorized(message string, err error) *common.AppError {
	if err != nil {
		err = fmt.Errorf("auth: %w", err)
	}
	return common.NewAppError("UNAUTHORIZED", message, http.StatusUnauthorized, err)
}
