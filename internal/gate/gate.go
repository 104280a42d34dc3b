// Copyright (c) 2026 RepSet. All rights reserved.

/*
Package gate implements the request-time authorization and entitlement gate.

Every inbound request is evaluated through an ordered state machine that
composes the route classifier, the identity resolver, and the entitlement
store into exactly one [Decision]: allow the request through (with fixed
security headers) or redirect it. The decision function is total — every
combination of principal, route, and entitlement state, including dependency
failures, maps to a defined outcome. The gate never returns an error.

# Failure Posture

Authentication, onboarding, and role checks are security boundaries and fail
CLOSED: a dependency failure redirects conservatively. The usage-limit check
is a business rule and fails OPEN: its unavailability must never lock a
paying user out of their own account. This asymmetry is deliberate and
covered by tests.
*/
package gate

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/repset/edge/internal/activity"
	"github.com/repset/edge/internal/entitlement"
	"github.com/repset/edge/internal/identity"
	"github.com/repset/edge/internal/platform/constants"
	"github.com/repset/edge/internal/routeclass"
)

// # Decisions

// DecisionKind discriminates the gate's two possible outcomes.
type DecisionKind int

const (
	// DecisionAllow passes the request through to the application.
	DecisionAllow DecisionKind = iota

	// DecisionRedirect sends the caller elsewhere. Denials are expressed as
	// redirects with an error query parameter, never as bare 4xx pages.
	DecisionRedirect
)

// Decision is the gate's output for one request. Exactly one is produced
// per evaluation.
type Decision struct {
	Kind DecisionKind

	// Headers are set on the response for allowed requests.
	Headers map[string]string

	// Principal is the resolved caller, injected into the request context
	// on allow so downstream handlers can attribute the request.
	Principal identity.Principal

	// Location and Params describe the redirect target.
	Location string
	Params   url.Values
}

// RedirectURL renders the redirect target with its query string.
func (decision Decision) RedirectURL() string {
	if len(decision.Params) == 0 {
		return decision.Location
	}
	return decision.Location + "?" + decision.Params.Encode()
}

// redirect builds a terminal redirect decision.
func redirect(location string, params url.Values) Decision {
	return Decision{Kind: DecisionRedirect, Location: location, Params: params}
}

// redirectToSignIn preserves the originally requested path so the sign-in
// flow can bounce the user back after authentication.
func redirectToSignIn(originalPath string) Decision {
	return redirect(constants.PathSignIn, url.Values{
		constants.QueryRedirectTo: {originalPath},
	})
}

// securityHeaders returns the fixed header set attached to every allowed
// response. A fresh map per decision keeps decisions immutable-by-value.
func securityHeaders() map[string]string {
	return map[string]string{
		constants.HeaderXFrameOptions:       constants.SecurityFrameOptions,
		constants.HeaderXContentTypeOptions: constants.SecurityContentTypeOptions,
		constants.HeaderReferrerPolicy:      constants.SecurityReferrerPolicy,
		constants.HeaderXRobotsTag:          constants.SecurityRobotsTag,
		constants.HeaderXRateLimitLimit:     constants.RateLimitLimitValue,
		constants.HeaderXRateLimitRemaining: constants.RateLimitRemainingValue,
	}
}

// # Limited Creation Paths

// limitedRoute binds a creation page to the resource whose tier cap it spends.
type limitedRoute struct {
	prefix   string
	resource entitlement.Resource
}

// The usage-limit gate applies only to these mutating sub-paths, never to
// api routes.
var limitedRoutes = []limitedRoute{
	{"/workout/create", entitlement.ResourceWorkouts},
	{"/settings/devices/connect", entitlement.ResourceDevices},
	{"/trainer/clients/new", entitlement.ResourceClients},
}

// limitedResource reports which resource, if any, the path creates.
func limitedResource(path string) (entitlement.Resource, bool) {
	for _, route := range limitedRoutes {
		if strings.HasPrefix(path, route.prefix) {
			return route.resource, true
		}
	}
	return "", false
}

// # The Gate

// Recorder is the slice of the activity recorder the gate needs.
type Recorder interface {
	Record(event *activity.Event)
}

// Gate composes the identity resolver, the entitlement store, and the
// activity recorder into the per-request decision function.
//
// It holds no mutable state: evaluation is a pure function of its inputs
// plus external reads, so any number of requests may evaluate concurrently.
type Gate struct {
	resolver identity.Resolver
	store    entitlement.Store
	recorder Recorder
	log      *slog.Logger
}

// New constructs a Gate with all dependencies injected.
func New(resolver identity.Resolver, store entitlement.Store, recorder Recorder, logger *slog.Logger) *Gate {
	return &Gate{
		resolver: resolver,
		store:    store,
		recorder: recorder,
		log:      logger,
	}
}

// Evaluate runs the ordered decision state machine for one request.
//
// Steps run strictly in order; each yields either "continue" or a terminal
// decision that skips everything after it.
func (gate *Gate) Evaluate(ctx context.Context, request *Request) Decision {
	route := routeclass.Classify(request.Path)

	// ── 1. Resolve Identity ───────────────────────────────────────────────
	// Provider outage fails closed on protected routes and degrades to an
	// anonymous principal everywhere else.
	principal, err := gate.resolver.Resolve(ctx, request.SessionToken)
	if err != nil {
		gate.log.WarnContext(ctx, "gate_identity_unavailable",
			slog.String("path", request.Path),
			slog.Any("error", err),
		)
		if route.IsProtected {
			return redirectToSignIn(route.Path)
		}
		principal = identity.Anonymous()
	}

	// ── 2. Auth-Page Redirect ─────────────────────────────────────────────
	// Signed-in users have no business on sign-in/sign-up pages. Route them
	// by onboarding progress; an unreadable flag counts as "not onboarded"
	// because the onboarding page safely forwards users who already finished.
	if principal.Authenticated && route.IsAuthPage {
		state, stateErr := gate.store.OnboardingState(ctx, principal.ID)
		if stateErr != nil {
			gate.log.WarnContext(ctx, "gate_onboarding_lookup_failed",
				slog.String("user_id", principal.ID),
				slog.Any("error", stateErr),
			)
			return redirect(constants.PathOnboarding, nil)
		}
		if !state.Completed {
			return redirect(constants.PathOnboarding, nil)
		}
		return redirect(constants.PathDashboard, nil)
	}

	// ── 3. Protected-Route Gate ───────────────────────────────────────────
	if !principal.Authenticated && route.IsProtected {
		return redirectToSignIn(route.Path)
	}

	// ── 4. Trainer-Only Gate ──────────────────────────────────────────────
	// Fail closed: an unreadable flag never grants trainer access.
	if principal.Authenticated && route.IsTrainerOnly {
		isTrainer, flagErr := gate.store.TrainerFlag(ctx, principal.ID)
		if flagErr != nil {
			gate.log.WarnContext(ctx, "gate_trainer_lookup_failed",
				slog.String("user_id", principal.ID),
				slog.Any("error", flagErr),
			)
			return redirect(constants.PathDashboard, nil)
		}
		if !isTrainer {
			return redirect(constants.PathDashboard, url.Values{
				constants.QueryError: {constants.ErrorTrainerAccessRequired},
			})
		}
	}

	// ── 5. Subscription-Limit Gate ────────────────────────────────────────
	// Advisory, not security-critical: every failure in this step falls
	// through to allow.
	if principal.Authenticated && !route.IsAPI {
		if resource, limited := limitedResource(route.Path); limited {
			if decision, blocked := gate.checkLimit(ctx, principal, resource); blocked {
				return decision
			}
		}
	}

	// ── 6. Default Allow ──────────────────────────────────────────────────
	if principal.Authenticated && !route.IsAPI {
		gate.recorder.Record(gate.pageViewEvent(principal, request))
	}

	return Decision{
		Kind:      DecisionAllow,
		Headers:   securityHeaders(),
		Principal: principal,
	}
}

// checkLimit resolves the caller's plan caps and current usage for one
// resource. blocked is true only when a configured, non-unlimited cap is
// already spent.
func (gate *Gate) checkLimit(ctx context.Context, principal identity.Principal, resource entitlement.Resource) (Decision, bool) {
	limits, err := gate.store.SubscriptionLimits(ctx, principal.ID)
	if err != nil {
		gate.log.WarnContext(ctx, "gate_limits_lookup_failed",
			slog.String("user_id", principal.ID),
			slog.Any("error", err),
		)
		return Decision{}, false
	}

	limit, unlimited := limits.LimitFor(resource)
	if unlimited || limit == nil {
		// No cap configured means no cap enforced.
		return Decision{}, false
	}

	usage, err := gate.store.UsageCount(ctx, principal.ID, resource)
	if err != nil {
		gate.log.WarnContext(ctx, "gate_usage_lookup_failed",
			slog.String("user_id", principal.ID),
			slog.String("resource", string(resource)),
			slog.Any("error", err),
		)
		return Decision{}, false
	}

	if !limits.Reached(resource, usage) {
		return Decision{}, false
	}

	return redirect(constants.PathDashboard, url.Values{
		constants.QueryError:   {string(resource) + "_limit_reached"},
		constants.QueryUpgrade: {"true"},
	}), true
}

// pageViewEvent builds the audit event enqueued for allowed page requests.
func (gate *Gate) pageViewEvent(principal identity.Principal, request *Request) *activity.Event {
	return &activity.Event{
		UserID:       principal.ID,
		Action:       activity.ActionPageView,
		ResourceType: activity.ResourceTypePage,
		ResourceID:   request.Path,
		IPAddress:    request.ClientIP,
		UserAgent:    request.UserAgent,
		Metadata: map[string]any{
			activity.MetaDeviceType: string(request.DeviceType),
			activity.MetaReferrer:   request.Referer,
			activity.MetaTimestamp:  request.ReceivedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}
}
