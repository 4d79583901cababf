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

func signToken(t *testing.T, key []byte, expires time.Time) string {
	t.Helper()
	claims := &Claims{
		Username: "padraic",
		UserHash: UserHashFromUsername("padraic", key),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func doRequest(key []byte, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("username").(string))
	}, JWT(key))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTValidToken(t *testing.T) {
	key := []byte("test-key")
	rec := doRequest(key, signToken(t, key, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "padraic", rec.Body.String())
}

func TestJWTBearerPrefix(t *testing.T) {
	key := []byte("test-key")
	rec := doRequest(key, "Bearer "+signToken(t, key, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "padraic", rec.Body.String())
}

func TestJWTMissingHeader(t *testing.T) {
	rec := doRequest([]byte("test-key"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJWTWrongKey(t *testing.T) {
	rec := doRequest([]byte("right-key"), signToken(t, []byte("wrong-key"), time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTExpiredToken(t *testing.T) {
	key := []byte("test-key")
	rec := doRequest(key, signToken(t, key, time.Now().Add(-time.Hour)))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestUserHashDeterministic(t *testing.T) {
	key := []byte("k")
	assert.Equal(t, UserHashFromUsername("Padraic ", key), UserHashFromUsername("padraic", key))
	assert.NotEqual(t, UserHashFromUsername("padraic", key), UserHashFromUsername("someone", key))
}
