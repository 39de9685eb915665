package telemetry

import "context"

type claimsKey struct{}

func withClaims(ctx context.Context, claims *SpectatorClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the verified spectator claims stashed by
// Authenticator.RequireAuth, or nil if none are present.
func ClaimsFromContext(ctx context.Context) *SpectatorClaims {
	claims, _ := ctx.Value(claimsKey{}).(*SpectatorClaims)
	return claims
}
