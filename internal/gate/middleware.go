// Copyright (c) 2026 RepSet. All rights reserved.

package gate

import (
	"net/http"

	"github.com/repset/edge/internal/platform/constants"
	"github.com/repset/edge/internal/platform/ctxutil"
	"github.com/repset/edge/internal/routeclass"
)

// AppConfig defines the behavior the middleware needs from configuration.
type AppConfig interface {
	IsDevelopment() bool
}

// Middleware adapts the gate's decision function onto the standard
// http.Handler chain.
//
// # Flow
//  1. Static framework assets bypass evaluation entirely.
//  2. Build the transport-neutral [Request] descriptor.
//  3. Evaluate the gate.
//  4. Redirect decisions return a 307 with the target's query parameters.
//  5. Allow decisions set the fixed security headers, inject the resolved
//     principal into the request context, and call the next handler.
//
// # Usage
//
// Mount around the proxied application routes only; health probes stay
// outside the gate.
func Middleware(gate *Gate, cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, httpRequest *http.Request) {

			// ── 1. Asset Bypass ───────────────────────────────────────────
			if routeclass.IsStaticAsset(httpRequest.URL.Path) {
				next.ServeHTTP(writer, httpRequest)
				return
			}

			// ── 2. Evaluate ───────────────────────────────────────────────
			request := FromHTTP(httpRequest)
			decision := gate.Evaluate(httpRequest.Context(), request)

			// ── 3. Redirect ───────────────────────────────────────────────
			if decision.Kind == DecisionRedirect {
				// 307 keeps the original method across the redirect, the
				// same contract the previous front-end middleware honored.
				http.Redirect(writer, httpRequest, decision.RedirectURL(), http.StatusTemporaryRedirect)
				return
			}

			// ── 4. Allow ──────────────────────────────────────────────────
			header := writer.Header()
			for name, value := range decision.Headers {
				header.Set(name, value)
			}

			if cfg.IsDevelopment() {
				header.Set(constants.HeaderXDeviceType, string(request.DeviceType))
				if decision.Principal.Authenticated {
					header.Set(constants.HeaderXUserAuthenticated, "true")
				} else {
					header.Set(constants.HeaderXUserAuthenticated, "false")
				}
			}

			ctx := ctxutil.WithPrincipal(httpRequest.Context(), decision.Principal)
			next.ServeHTTP(writer, httpRequest.WithContext(ctx))
		})
	}
}
