package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndVerifyRoundTrips(t *testing.T) {
	auth := NewAuthenticator([]byte("test-secret"))

	token, err := auth.Mint(SpectatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "spectator-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Stage: "stage-1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	claims, err := auth.Verify(req)
	require.NoError(t, err)
	assert.Equal(t, "spectator-1", claims.Subject)
	assert.Equal(t, "stage-1", claims.Stage)
}

func TestVerifyRejectsMissingHeader(t *testing.T) {
	auth := NewAuthenticator([]byte("test-secret"))
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)

	_, err := auth.Verify(req)
	assert.ErrorIs(t, err, errMissingBearer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	minter := NewAuthenticator([]byte("secret-a"))
	verifier := NewAuthenticator([]byte("secret-b"))

	token, err := minter.Mint(SpectatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = verifier.Verify(req)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	auth := NewAuthenticator([]byte("test-secret"))

	token, err := auth.Mint(SpectatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = auth.Verify(req)
	assert.Error(t, err)
}

func TestRequireAuthRejectsUnauthenticatedRequest(t *testing.T) {
	auth := NewAuthenticator([]byte("test-secret"))
	handlerCalled := false
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, handlerCalled)
}

func TestRequireAuthStashesClaimsInContext(t *testing.T) {
	auth := NewAuthenticator([]byte("test-secret"))
	token, err := auth.Mint(SpectatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Stage:            "stage-7",
	})
	require.NoError(t, err)

	var gotStage string
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStage = ClaimsFromContext(r.Context()).Stage
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stage-7", gotStage)
}
