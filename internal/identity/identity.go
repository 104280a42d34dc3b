// Copyright (c) 2026 RepSet. All rights reserved.

/*
Package identity resolves request credentials into a verified principal.

It is the gate's first lookup: given the session token carried by the request
(or the absence of one), it answers "who is calling?" with a [Principal].

# Error Semantics

"Not authenticated" is a normal state, never an error. The only error this
package surfaces is [ErrProviderUnavailable], raised when the session store
itself cannot be reached. Callers decide the failure posture: the gate fails
closed on protected routes and treats the caller as anonymous on public ones.
*/
package identity

import (
	"context"
	"errors"
)

// # Domain Entities

// Principal represents the resolved identity (or anonymity) of a request's caller.
//
// It is constructed fresh per request, never persisted, and immutable for the
// request's duration.
type Principal struct {
	// ID is the caller's opaque user ID. Empty unless Authenticated.
	ID string `json:"id,omitempty"`

	// Authenticated reports whether the session token was valid and live.
	Authenticated bool `json:"authenticated"`
}

// Anonymous returns the principal used for requests without a valid session.
func Anonymous() Principal {
	return Principal{}
}

// # Contracts

// Resolver turns a raw session token into a [Principal].
//
// # Why an interface?
//
// The gate depends on this interface rather than on the concrete
// [SessionService] so tests can inject deterministic fakes, including ones
// that simulate a provider outage.
type Resolver interface {

	/*
		Resolve validates the session token and returns the caller's principal.

		An empty, malformed, expired, or revoked token resolves to the
		anonymous principal with a nil error. Exactly one session store call
		is made per invocation.

		Parameters:
		  - context: context.Context
		  - token: string (raw session token, may be empty)

		Returns:
		  - Principal: The resolved caller
		  - error: ErrProviderUnavailable when the session store is unreachable
	*/
	Resolve(context context.Context, token string) (Principal, error)
}

// ErrProviderUnavailable signals that the session store could not be reached.
// It is a transient infrastructure failure, not an authentication verdict.
var ErrProviderUnavailable = errors.New("identity: session provider unavailable")
