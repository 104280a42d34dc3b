// Copyright (c) 2026 RepSet. All rights reserved.

package gate_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repset/edge/internal/activity"
	"github.com/repset/edge/internal/entitlement"
	"github.com/repset/edge/internal/gate"
	"github.com/repset/edge/internal/identity"
)

// # Test Doubles

// fakeResolver resolves a fixed principal or fails with a fixed error.
type fakeResolver struct {
	principal identity.Principal
	err       error
}

func (resolver *fakeResolver) Resolve(_ context.Context, token string) (identity.Principal, error) {
	if resolver.err != nil {
		return identity.Anonymous(), resolver.err
	}
	if token == "" {
		return identity.Anonymous(), nil
	}
	return resolver.principal, nil
}

// fakeStore serves canned entitlement facts with per-call failure switches.
type fakeStore struct {
	onboarded     bool
	onboardingErr error

	isTrainer  bool
	trainerErr error

	limits    entitlement.SubscriptionLimits
	limitsErr error

	usage    map[entitlement.Resource]int
	usageErr error
}

func (store *fakeStore) OnboardingState(_ context.Context, userID string) (entitlement.OnboardingState, error) {
	if store.onboardingErr != nil {
		return entitlement.OnboardingState{}, store.onboardingErr
	}
	return entitlement.OnboardingState{UserID: userID, Completed: store.onboarded}, nil
}

func (store *fakeStore) TrainerFlag(_ context.Context, _ string) (bool, error) {
	if store.trainerErr != nil {
		return false, store.trainerErr
	}
	return store.isTrainer, nil
}

func (store *fakeStore) SubscriptionLimits(_ context.Context, _ string) (entitlement.SubscriptionLimits, error) {
	if store.limitsErr != nil {
		return entitlement.SubscriptionLimits{}, store.limitsErr
	}
	return store.limits, nil
}

func (store *fakeStore) UsageCount(_ context.Context, _ string, resource entitlement.Resource) (int, error) {
	if store.usageErr != nil {
		return 0, store.usageErr
	}
	return store.usage[resource], nil
}

// fakeRecorder collects events synchronously.
type fakeRecorder struct {
	events []*activity.Event
}

func (recorder *fakeRecorder) Record(event *activity.Event) {
	recorder.events = append(recorder.events, event)
}

// # Helpers

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func member(id string) identity.Principal {
	return identity.Principal{ID: id, Authenticated: true}
}

func pageRequest(path, token string) *gate.Request {
	return &gate.Request{
		Method:       "GET",
		Path:         path,
		SessionToken: token,
		UserAgent:    "test-agent",
		ClientIP:     "203.0.113.7",
		DeviceType:   gate.DeviceDesktop,
	}
}

func freeLimits() entitlement.SubscriptionLimits {
	return entitlement.LimitsForTier(entitlement.TierFree)
}

// # Step 1: Identity Resolution

/*
TestGate_ProviderDown_ProtectedRoute_FailsClosed verifies an identity outage
on a protected route redirects to sign-in, never allows.
*/
func TestGate_ProviderDown_ProtectedRoute_FailsClosed(t *testing.T) {
	resolver := &fakeResolver{err: identity.ErrProviderUnavailable}
	subject := gate.New(resolver, &fakeStore{}, &fakeRecorder{}, testLogger())

	decision := subject.Evaluate(context.Background(), pageRequest("/dashboard", "some-token"))

	require.Equal(t, gate.DecisionRedirect, decision.Kind)
	assert.Equal(t, "/auth/signin", decision.Location)
	assert.Equal(t, "/dashboard", decision.Params.Get("redirectTo"))
}

/*
TestGate_ProviderDown_PublicRoute_FailsOpen verifies an identity outage on a
public route degrades the caller to anonymous and allows the request.
*/
func TestGate_ProviderDown_PublicRoute_FailsOpen(t *testing.T) {
	resolver := &fakeResolver{err: identity.ErrProviderUnavailable}
	recorder := &fakeRecorder{}
	subject := gate.New(resolver, &fakeStore{}, recorder, testLogger())

	decision := subject.Evaluate(context.Background(), pageRequest("/pricing", "some-token"))

	require.Equal(t, gate.DecisionAllow, decision.Kind)
	assert.False(t, decision.Principal.Authenticated)
	assert.Empty(t, recorder.events, "anonymous requests are not tracked")
}

// # Step 2: Auth-Page Redirects

/*
TestGate_AuthPage_Branching covers the onboarding branch of the auth-page rule.
*/
func TestGate_AuthPage_Branching(t *testing.T) {
	tests := []struct {
		name         string
		store        *fakeStore
		wantLocation string
	}{
		{"not_onboarded_goes_to_onboarding", &fakeStore{onboarded: false}, "/onboarding"},
		{"onboarded_goes_to_dashboard", &fakeStore{onboarded: true}, "/dashboard"},
		{"lookup_failure_goes_to_onboarding", &fakeStore{onboardingErr: entitlement.ErrUnavailable}, "/onboarding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{principal: member("user-1")}
			subject := gate.New(resolver, tt.store, &fakeRecorder{}, testLogger())

			decision := subject.Evaluate(context.Background(), pageRequest("/auth/signin", "valid"))

			require.Equal(t, gate.DecisionRedirect, decision.Kind)
			assert.Equal(t, tt.wantLocation, decision.Location)
		})
	}
}

/*
TestGate_AuthPage_AnonymousPassesThrough verifies signed-out visitors can
reach the auth pages.
*/
func TestGate_AuthPage_AnonymousPassesThrough(t *testing.T) {
	subject := gate.New(&fakeResolver{}, &fakeStore{}, &fakeRecorder{}, testLogger())

	decision := subject.Evaluate(context.Background(), pageRequest("/auth/signin", ""))

	assert.Equal(t, gate.DecisionAllow, decision.Kind)
}

// # Step 3: Protected Routes

/*
TestGate_Protected_AnonymousRedirectsToSignIn verifies the sign-in redirect
preserves the originally requested path.
*/
func TestGate_Protected_AnonymousRedirectsToSignIn(t *testing.T) {
	subject := gate.New(&fakeResolver{}, &fakeStore{}, &fakeRecorder{}, testLogger())

	// No session cookie on a trainer page: step 3 fires before the trainer
	// check is ever reached.
	decision := subject.Evaluate(context.Background(), pageRequest("/trainer/clients", ""))

	require.Equal(t, gate.DecisionRedirect, decision.Kind)
	assert.Equal(t, "/auth/signin", decision.Location)
	assert.Equal(t, "/trainer/clients", decision.Params.Get("redirectTo"))
}

// # Step 4: Trainer-Only Routes

/*
TestGate_TrainerGate covers grant, deny, and fail-closed outcomes.
*/
func TestGate_TrainerGate(t *testing.T) {
	t.Run("non_trainer_denied_with_reason", func(t *testing.T) {
		store := &fakeStore{isTrainer: false, onboarded: true, limits: freeLimits()}
		subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())

		decision := subject.Evaluate(context.Background(), pageRequest("/trainer", "valid"))

		require.Equal(t, gate.DecisionRedirect, decision.Kind)
		assert.Equal(t, "/dashboard", decision.Location)
		assert.Equal(t, "trainer_access_required", decision.Params.Get("error"))
	})

	t.Run("trainer_continues_past_gate", func(t *testing.T) {
		store := &fakeStore{isTrainer: true, limits: freeLimits()}
		subject := gate.New(&fakeResolver{principal: member("trainer-1")}, store, &fakeRecorder{}, testLogger())

		decision := subject.Evaluate(context.Background(), pageRequest("/trainer", "valid"))

		assert.Equal(t, gate.DecisionAllow, decision.Kind)
	})

	t.Run("lookup_failure_fails_closed_without_reason", func(t *testing.T) {
		store := &fakeStore{trainerErr: entitlement.ErrUnavailable}
		subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())

		decision := subject.Evaluate(context.Background(), pageRequest("/trainer", "valid"))

		require.Equal(t, gate.DecisionRedirect, decision.Kind)
		assert.Equal(t, "/dashboard", decision.Location)
		assert.Empty(t, decision.Params.Get("error"))
	})
}

// # Step 5: Subscription Limits

/*
TestGate_WorkoutLimit_Monotonic pins the >= "reached" rule around the cap.
*/
func TestGate_WorkoutLimit_Monotonic(t *testing.T) {
	const limit = 3

	tests := []struct {
		usage       int
		wantBlocked bool
	}{
		{limit - 1, false},
		{limit, true},
		{limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("usage_%d", tt.usage), func(t *testing.T) {
			store := &fakeStore{
				limits: freeLimits(),
				usage:  map[entitlement.Resource]int{entitlement.ResourceWorkouts: tt.usage},
			}
			subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())

			decision := subject.Evaluate(context.Background(), pageRequest("/workout/create", "valid"))

			if tt.wantBlocked {
				require.Equal(t, gate.DecisionRedirect, decision.Kind)
				assert.Equal(t, "/dashboard", decision.Location)
				assert.Equal(t, "workouts_limit_reached", decision.Params.Get("error"))
				assert.Equal(t, "true", decision.Params.Get("upgrade"))
			} else {
				assert.Equal(t, gate.DecisionAllow, decision.Kind)
			}
		})
	}
}

/*
TestGate_Limit_FailsOpen verifies limit-check store failures never block.
*/
func TestGate_Limit_FailsOpen(t *testing.T) {
	t.Run("limits_lookup_down", func(t *testing.T) {
		store := &fakeStore{limitsErr: entitlement.ErrUnavailable}
		subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())

		decision := subject.Evaluate(context.Background(), pageRequest("/workout/create", "valid"))

		assert.Equal(t, gate.DecisionAllow, decision.Kind)
	})

	t.Run("usage_lookup_down", func(t *testing.T) {
		store := &fakeStore{limits: freeLimits(), usageErr: entitlement.ErrUnavailable}
		subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())

		decision := subject.Evaluate(context.Background(), pageRequest("/workout/create", "valid"))

		assert.Equal(t, gate.DecisionAllow, decision.Kind)
	})
}

/*
TestGate_Limit_UnlimitedTierSkipsCount verifies unlimited plans never read usage.
*/
func TestGate_Limit_UnlimitedTierSkipsCount(t *testing.T) {
	store := &fakeStore{
		limits: entitlement.LimitsForTier(entitlement.TierPro),
		// A failing usage read proves the count query is skipped entirely.
		usageErr: errors.New("must not be called"),
	}
	subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())

	decision := subject.Evaluate(context.Background(), pageRequest("/workout/create", "valid"))

	assert.Equal(t, gate.DecisionAllow, decision.Kind)
}

/*
TestGate_Limit_MissingCapMeansUnlimited pins the nil-cap decision: a plan row
without a configured limit never blocks.
*/
func TestGate_Limit_MissingCapMeansUnlimited(t *testing.T) {
	store := &fakeStore{
		limits: entitlement.SubscriptionLimits{Tier: entitlement.TierFree},
		usage:  map[entitlement.Resource]int{entitlement.ResourceWorkouts: 1000},
	}
	subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())

	decision := subject.Evaluate(context.Background(), pageRequest("/workout/create", "valid"))

	assert.Equal(t, gate.DecisionAllow, decision.Kind)
}

/*
TestGate_Limit_NeverAppliesToAPIRoutes verifies api routes skip step 5.
*/
func TestGate_Limit_NeverAppliesToAPIRoutes(t *testing.T) {
	store := &fakeStore{
		limits: freeLimits(),
		usage:  map[entitlement.Resource]int{entitlement.ResourceWorkouts: 99},
	}
	subject := gate.New(&fakeResolver{principal: member("user-1")}, store, &fakeRecorder{}, testLogger())

	decision := subject.Evaluate(context.Background(), pageRequest("/api/workouts", "valid"))

	assert.Equal(t, gate.DecisionAllow, decision.Kind)
}

// # Step 6: Allow

/*
TestGate_Allow_SetsHeadersAndRecordsPageView covers the default-allow path.
*/
func TestGate_Allow_SetsHeadersAndRecordsPageView(t *testing.T) {
	recorder := &fakeRecorder{}
	store := &fakeStore{onboarded: true, limits: freeLimits()}
	subject := gate.New(&fakeResolver{principal: member("user-1")}, store, recorder, testLogger())

	decision := subject.Evaluate(context.Background(), pageRequest("/dashboard", "valid"))

	require.Equal(t, gate.DecisionAllow, decision.Kind)

	// 1. Fixed security headers
	assert.Equal(t, "DENY", decision.Headers["X-Frame-Options"])
	assert.Equal(t, "nosniff", decision.Headers["X-Content-Type-Options"])
	assert.Equal(t, "strict-origin-when-cross-origin", decision.Headers["Referrer-Policy"])
	assert.Equal(t, "noindex, nofollow", decision.Headers["X-Robots-Tag"])
	assert.Equal(t, "1000", decision.Headers["X-RateLimit-Limit"])
	assert.Equal(t, "999", decision.Headers["X-RateLimit-Remaining"])

	// 2. Page-view event enqueued for the authenticated caller
	require.Len(t, recorder.events, 1)
	event := recorder.events[0]
	assert.Equal(t, "page_view", event.Action)
	assert.Equal(t, "page", event.ResourceType)
	assert.Equal(t, "/dashboard", event.ResourceID)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, "203.0.113.7", event.IPAddress)
}

/*
TestGate_Allow_APIRoutesAreNotTracked verifies api requests skip activity logging.
*/
func TestGate_Allow_APIRoutesAreNotTracked(t *testing.T) {
	recorder := &fakeRecorder{}
	subject := gate.New(&fakeResolver{principal: member("user-1")}, &fakeStore{limits: freeLimits()}, recorder, testLogger())

	decision := subject.Evaluate(context.Background(), pageRequest("/api/v1/workouts", "valid"))

	assert.Equal(t, gate.DecisionAllow, decision.Kind)
	assert.Empty(t, recorder.events)
}

// # Totality

/*
TestGate_Totality sweeps principal/route/failure combinations and asserts the
gate always yields exactly one well-formed decision.
*/
func TestGate_Totality(t *testing.T) {
	paths := []string{"/", "/auth/signin", "/dashboard", "/trainer", "/trainer/clients/new",
		"/workout/create", "/api/health", "/onboarding", "/settings/devices/connect"}
	resolvers := []*fakeResolver{
		{},
		{principal: member("user-1")},
		{err: identity.ErrProviderUnavailable},
	}
	stores := []*fakeStore{
		{onboarded: true, isTrainer: true, limits: freeLimits()},
		{onboardingErr: entitlement.ErrUnavailable, trainerErr: entitlement.ErrUnavailable,
			limitsErr: entitlement.ErrUnavailable, usageErr: entitlement.ErrUnavailable},
	}

	for _, path := range paths {
		for ri, resolver := range resolvers {
			for si, store := range stores {
				name := fmt.Sprintf("%s/resolver_%d/store_%d", path, ri, si)
				t.Run(name, func(t *testing.T) {
					subject := gate.New(resolver, store, &fakeRecorder{}, testLogger())

					decision := subject.Evaluate(context.Background(), pageRequest(path, "token"))

					switch decision.Kind {
					case gate.DecisionAllow:
						assert.NotEmpty(t, decision.Headers)
					case gate.DecisionRedirect:
						assert.NotEmpty(t, decision.Location)
					default:
						t.Fatalf("undefined decision kind %v", decision.Kind)
					}
				})
			}
		}
	}
}
