// Copyright (c) 2026 RepSet. All rights reserved.

/*
Package constants provides centralized, immutable values for the edge gateway.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Gate: Redirect targets and response headers emitted by the request gate.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "repset-edge"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Request Headers

const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderXRealIP        = "X-Real-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderOrigin         = "Origin"
	HeaderReferer        = "Referer"
	HeaderUserAgent      = "User-Agent"

	// HeaderXUserID carries the resolved principal to the proxied application.
	HeaderXUserID = "X-User-Id"
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session JWTs.
	AuthIssuer = "repset.app"

	// SessionCookieName is the cookie that carries the session access token.
	SessionCookieName = "repset_session"
)

// # Gate Redirect Targets

const (
	// PathSignIn is where unauthenticated visitors of protected pages are sent.
	PathSignIn = "/auth/signin"

	// PathOnboarding is where authenticated, not-yet-onboarded users are sent.
	PathOnboarding = "/onboarding"

	// PathDashboard is the post-login landing page and the fallback deny target.
	PathDashboard = "/dashboard"

	// QueryRedirectTo carries the originally requested path through a sign-in redirect.
	QueryRedirectTo = "redirectTo"

	// QueryError carries a human-relevant denial reason on dashboard redirects.
	QueryError = "error"

	// QueryUpgrade marks a denial that an upgraded subscription would lift.
	QueryUpgrade = "upgrade"

	// ErrorTrainerAccessRequired is the denial reason for non-trainers on trainer pages.
	ErrorTrainerAccessRequired = "trainer_access_required"
)

// # Gate Response Headers

// Fixed security headers attached to every allowed response.
const (
	HeaderXFrameOptions       = "X-Frame-Options"
	HeaderXContentTypeOptions = "X-Content-Type-Options"
	HeaderReferrerPolicy      = "Referrer-Policy"
	HeaderXRobotsTag          = "X-Robots-Tag"
	HeaderXRateLimitLimit     = "X-RateLimit-Limit"
	HeaderXRateLimitRemaining = "X-RateLimit-Remaining"

	SecurityFrameOptions       = "DENY"
	SecurityContentTypeOptions = "nosniff"
	SecurityReferrerPolicy     = "strict-origin-when-cross-origin"
	SecurityRobotsTag          = "noindex, nofollow"

	// Informational values only. The enforced limiter lives in the
	// platform middleware, not in the gate.
	RateLimitLimitValue     = "1000"
	RateLimitRemainingValue = "999"
)

// Development-only diagnostic headers.
const (
	HeaderXDeviceType        = "X-Device-Type"
	HeaderXUserAuthenticated = "X-User-Authenticated"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCore    = "core"
	SchemaUsers   = "users"
	SchemaBilling = "billing"
	SchemaTrainer = "trainer"
	SchemaSystem  = "system"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "auth:session:"
)
