// Copyright (c) 2026 RepSet. All rights reserved.

package api

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/repset/edge/internal/platform/apperr"
	"github.com/repset/edge/internal/platform/constants"
	"github.com/repset/edge/internal/platform/ctxutil"
	"github.com/repset/edge/internal/platform/respond"
)

// # Upstream Proxy

// NewUpstreamProxy builds the reverse proxy that forwards gate-allowed
// requests to the RepSet web application.
//
// The proxy stamps the resolved principal onto the forwarded request as
// X-User-Id, and strips any client-supplied value of that header first so
// the application can trust it unconditionally.
func NewUpstreamProxy(upstream *url.URL, log *slog.Logger) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(upstream)

	director := proxy.Director
	proxy.Director = func(request *http.Request) {
		director(request)
		request.Host = upstream.Host

		request.Header.Del(constants.HeaderXUserID)
		if principal := ctxutil.GetPrincipal(request.Context()); principal.Authenticated {
			request.Header.Set(constants.HeaderXUserID, principal.ID)
		}
	}

	proxy.ErrorHandler = func(writer http.ResponseWriter, request *http.Request, err error) {
		log.ErrorContext(request.Context(), "upstream_proxy_error",
			slog.String("path", request.URL.Path),
			slog.Any("error", err),
		)
		respond.Error(writer, request, apperr.BadGateway(err))
	}

	return proxy
}
