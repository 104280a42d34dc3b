// Copyright (c) 2026 RepSet. All rights reserved.

package identity

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/repset/edge/internal/platform/constants"
	"github.com/repset/edge/internal/platform/sec"
)

// # Session-Backed Resolver

// TokenVerifier defines the JWT verification behavior the resolver needs.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.SessionClaims, error)
}

// SessionService is the production [Resolver]. It verifies the session JWT
// locally (signature, expiry, issuer) and then confirms the session is still
// live in Redis.
//
// # Why two checks?
//
// The JWT alone proves the token was minted by the auth service, but not that
// the session is still active: sign-out and admin revocation remove the
// session key. The Redis lookup is the single external provider call made
// per request.
type SessionService struct {
	verifier TokenVerifier
	sessions redis.Cmdable
}

// NewSessionService constructs a SessionService.
func NewSessionService(verifier TokenVerifier, sessions redis.Cmdable) *SessionService {
	return &SessionService{verifier: verifier, sessions: sessions}
}

// Resolve implements [Resolver].
func (service *SessionService) Resolve(ctx context.Context, token string) (Principal, error) {

	// ── 1. Anonymous Access ───────────────────────────────────────────────
	if token == "" {
		return Anonymous(), nil
	}

	// ── 2. Local Token Verification ───────────────────────────────────────
	// A bad token is a normal state (stale cookie, expired session), not an
	// error. Verification is purely local and cannot "fail unavailable".
	claims, err := service.verifier.Verify(token)
	if err != nil {
		return Anonymous(), nil
	}

	// ── 3. Session Liveness ───────────────────────────────────────────────
	sessionKey := constants.RedisPrefixSession + claims.SessionID
	exists, err := service.sessions.Exists(ctx, sessionKey).Result()
	if err != nil {
		return Anonymous(), fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	if exists == 0 {
		// Session was revoked or expired out of the store.
		return Anonymous(), nil
	}

	return Principal{ID: claims.UserID, Authenticated: true}, nil
}
