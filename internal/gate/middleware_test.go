// Copyright (c) 2026 RepSet. All rights reserved.

package gate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repset/edge/internal/gate"
	"github.com/repset/edge/internal/platform/ctxutil"
)

// envConfig satisfies gate.AppConfig with a fixed answer.
type envConfig bool

func (dev envConfig) IsDevelopment() bool { return bool(dev) }

func newHandler(t *testing.T, subject *gate.Gate, dev bool) (http.Handler, *int) {
	t.Helper()

	calls := 0
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls++
		principal := ctxutil.GetPrincipal(request.Context())
		if principal.Authenticated {
			writer.Header().Set("X-Test-User", principal.ID)
		}
		writer.WriteHeader(http.StatusOK)
	})

	return gate.Middleware(subject, envConfig(dev))(next), &calls
}

func sessionRequest(path, token string) *http.Request {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		request.AddCookie(&http.Cookie{Name: "repset_session", Value: token})
	}
	return request
}

/*
TestMiddleware_RedirectsWith307 verifies redirect decisions surface as
temporary redirects with the full target URL.
*/
func TestMiddleware_RedirectsWith307(t *testing.T) {
	subject := gate.New(&fakeResolver{}, &fakeStore{}, &fakeRecorder{}, testLogger())
	handler, calls := newHandler(t, subject, false)

	response := httptest.NewRecorder()
	handler.ServeHTTP(response, sessionRequest("/dashboard", ""))

	require.Equal(t, http.StatusTemporaryRedirect, response.Code)
	assert.Equal(t, "/auth/signin?redirectTo=%2Fdashboard", response.Header().Get("Location"))
	assert.Equal(t, 0, *calls, "the upstream handler must not run on redirect")
}

/*
TestMiddleware_Allow_SetsSecurityHeaders verifies the fixed header set lands
on allowed responses and the principal reaches the next handler's context.
*/
func TestMiddleware_Allow_SetsSecurityHeaders(t *testing.T) {
	store := &fakeStore{onboarded: true, limits: freeLimits()}
	subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())
	handler, calls := newHandler(t, subject, false)

	response := httptest.NewRecorder()
	handler.ServeHTTP(response, sessionRequest("/dashboard", "valid"))

	require.Equal(t, http.StatusOK, response.Code)
	require.Equal(t, 1, *calls)

	assert.Equal(t, "DENY", response.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", response.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", response.Header().Get("Referrer-Policy"))
	assert.Equal(t, "noindex, nofollow", response.Header().Get("X-Robots-Tag"))

	// Principal was injected into the downstream context.
	assert.Equal(t, "user-1", response.Header().Get("X-Test-User"))

	// Debug headers stay off outside development.
	assert.Empty(t, response.Header().Get("X-Device-Type"))
	assert.Empty(t, response.Header().Get("X-User-Authenticated"))
}

/*
TestMiddleware_DevelopmentDebugHeaders verifies the extra diagnostics appear
only in development mode.
*/
func TestMiddleware_DevelopmentDebugHeaders(t *testing.T) {
	store := &fakeStore{onboarded: true, limits: freeLimits()}
	subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())
	handler, _ := newHandler(t, subject, true)

	request := sessionRequest("/dashboard", "valid")
	request.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148")

	response := httptest.NewRecorder()
	handler.ServeHTTP(response, request)

	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "mobile", response.Header().Get("X-Device-Type"))
	assert.Equal(t, "true", response.Header().Get("X-User-Authenticated"))
}

/*
TestMiddleware_StaticAssetBypass verifies framework assets skip evaluation.
*/
func TestMiddleware_StaticAssetBypass(t *testing.T) {
	// A resolver that always fails would redirect any evaluated request.
	resolver := &fakeResolver{err: assert.AnError}
	subject := gate.New(resolver, &fakeStore{}, &fakeRecorder{}, testLogger())
	handler, calls := newHandler(t, subject, false)

	paths := []string{"/_next/static/chunks/main.js", "/_next/image?url=x", "/favicon.ico", "/logo.png"}
	for _, path := range paths {
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, sessionRequest(path, ""))
		assert.Equal(t, http.StatusOK, response.Code, path)
		// No security headers on the bypass path: assets are not gated.
		assert.Empty(t, response.Header().Get("X-Frame-Options"), path)
	}
	assert.Equal(t, len(paths), *calls)
}
