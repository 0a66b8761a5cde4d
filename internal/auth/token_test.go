package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/quote-api/internal/common"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, mutate func(b *jwt.Builder)) string {
	t.Helper()
	b := jwt.NewBuilder().
		Subject("user-1").
		Issuer("quote-api-test").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour))
	if mutate != nil {
		mutate(b)
	}
	tok, err := b.Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(testSecret)))
	require.NoError(t, err)
	return string(signed)
}

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(testSecret, "quote-api-test")
	require.NoError(t, err)
	return svc
}

func TestParseAccessToken(t *testing.T) {
	svc := newService(t)
	token := signToken(t, func(b *jwt.Builder) {
		b.Claim("roles", []string{"admin", "ops"})
	})

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, []string{"admin", "ops"}, claims.Roles)
}

func TestParseAccessTokenExpired(t *testing.T) {
	svc := newService(t)
	token := signToken(t, func(b *jwt.Builder) {
		b.Expiration(time.Now().Add(-time.Hour))
	})

	_, err := svc.ParseAccessToken(token)
	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	svc := newService(t)
	token := signToken(t, func(b *jwt.Builder) {
		b.Issuer("someone-else")
	})

	_, err := svc.ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	svc := newService(t)
	_, err := svc.ParseAccessToken("not.a.token")
	require.Error(t, err)
}

func TestRequireAuthAndRole(t *testing.T) {
	svc := newService(t)
	mw := Middleware{Service: svc}

	var sawSubject string
	protected := mw.RequireAuth(RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSubject, _ = common.Subject(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		token := signToken(t, func(b *jwt.Builder) {
			b.Claim("roles", []string{"customer"})
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		token := signToken(t, func(b *jwt.Builder) {
			b.Claim("roles", []string{"admin"})
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", sawSubject)
	})
}
