package telemetry

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SpectatorClaims is the bearer-token payload a spectator client
// presents to the websocket endpoint. Grounded on
// `r3e-network-service_layer`'s ServiceClaims/jwt.ParseWithClaims
// pattern, trimmed to what a read-only spectator connection needs —
// no service/user distinction, just a subject and the stage it may
// watch.
type SpectatorClaims struct {
	jwt.RegisteredClaims
	Stage string `json:"stage"`
}

// Authenticator verifies bearer tokens with a single HMAC secret. The
// retrieval pack's service-to-service middleware verifies RS256 tokens
// minted by a separate issuer; a spectator token is simpler — one
// telemetry server mints and verifies its own tokens, so a shared
// secret is the right fit rather than a keypair.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{secret: secret}
}

// Mint issues a spectator token for the given stage, valid for the
// caller-supplied claims (expiry included).
func (a *Authenticator) Mint(claims SpectatorClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

var errMissingBearer = errors.New("telemetry: missing bearer token")

// Verify extracts and validates the bearer token from r's Authorization
// header, the same header convention the retrieval pack's service-auth
// middleware uses (just HS256 instead of RS256, and no X-Service-Token
// split since there is only one credential kind here).
func (a *Authenticator) Verify(r *http.Request) (*SpectatorClaims, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, errMissingBearer
	}
	raw := strings.TrimPrefix(header, prefix)

	claims := &SpectatorClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("telemetry: unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("telemetry: invalid token")
	}
	return claims, nil
}

// RequireAuth is chi-compatible middleware gating every route it wraps
// behind a valid spectator token, stashing the verified claims in the
// request context for handlers to read via ClaimsFromContext.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.Verify(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}
