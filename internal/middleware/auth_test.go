package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := AuthMiddleware(testSecret)(func(c echo.Context) error {
		called = true
		caller := CallerFromContext(c)
		require.NotNil(t, caller)
		assert.Equal(t, "u-1", caller.UserID)
		assert.Equal(t, "player@example.com", caller.Email)
		return c.NoContent(http.StatusOK)
	})(c)

	return rec, called, err
}

func validClaims() Claims {
	return Claims{
		Email: "player@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, called, err := runAuth(t, "Bearer "+signToken(t, testSecret, validClaims()))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noEmail := validClaims()
	noEmail.Email = ""

	tests := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"wrong secret":   "Bearer " + signToken(t, "other-secret", validClaims()),
		"expired":        "Bearer " + signToken(t, testSecret, expired),
		"no email":       "Bearer " + signToken(t, testSecret, noEmail),
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			_, called, err := runAuth(t, header)
			assert.False(t, called)

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		})
	}
}

func TestCallerFromContext_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, CallerFromContext(c))
}
