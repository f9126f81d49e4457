package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playroom-api/internal/config"
	jwtinfra "github.com/playroom-api/internal/infrastructure/jwt"
)

// newTestVerifier generates a throwaway RSA key pair, writes the public half
// where the verifier expects a PEM file, and returns the private key for
// signing test tokens.
func newTestVerifier(t *testing.T) (*jwtinfra.Verifier, *rsa.PrivateKey) {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPath := filepath.Join(t.TempDir(), "public.pem")
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	v, err := jwtinfra.NewVerifier(&config.Config{JWTPublicKeyPath: pubPath})
	require.NoError(t, err)
	return v, privKey
}

func signToken(t *testing.T, key *rsa.PrivateKey, userID string, expiresIn time.Duration) string {
	t.Helper()
	claims := &jwtinfra.Claims{
		UserID: userID,
		Role:   "USER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claimsEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(claims.UserID))
	})
}

func TestAuth_ValidToken(t *testing.T) {
	v, key := newTestVerifier(t)
	r := httptest.NewRequest(http.MethodGet, "/v1/notifications/u1", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, key, "u1", time.Hour))
	rr := httptest.NewRecorder()

	Auth(v)(claimsEcho(t)).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", rr.Body.String())
}

func TestAuth_MissingHeader(t *testing.T) {
	v, _ := newTestVerifier(t)
	r := httptest.NewRequest(http.MethodGet, "/v1/notifications/u1", nil)
	rr := httptest.NewRecorder()

	Auth(v)(claimsEcho(t)).ServeHTTP(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	v, _ := newTestVerifier(t)
	r := httptest.NewRequest(http.MethodGet, "/v1/notifications/u1", nil)
	r.Header.Set("Authorization", "Token abc")
	rr := httptest.NewRecorder()

	Auth(v)(claimsEcho(t)).ServeHTTP(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	v, key := newTestVerifier(t)
	r := httptest.NewRequest(http.MethodGet, "/v1/notifications/u1", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, key, "u1", -time.Minute))
	rr := httptest.NewRecorder()

	Auth(v)(claimsEcho(t)).ServeHTTP(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_TokenSignedByAnotherKey(t *testing.T) {
	v, _ := newTestVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/v1/notifications/u1", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, otherKey, "u1", time.Hour))
	rr := httptest.NewRecorder()

	Auth(v)(claimsEcho(t)).ServeHTTP(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
