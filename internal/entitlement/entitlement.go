// Copyright (c) 2026 RepSet. All rights reserved.

/*
Package entitlement exposes the per-user subscription, onboarding, and role
facts the authorization gate consumes.

It defines the typed read model (tier, limits, usage) and the [Store]
contract, with a PostgreSQL implementation that maps raw rows into these
types. Reads are independent snapshot queries: the gate never assumes two
calls are transactionally consistent with each other, and nothing here is
cached across requests.

# Architecture

This layer is read-only. Usage counters are incremented by the application
that owns the resources; subscription rows are written by the billing
webhooks. The gate only ever looks.
*/
package entitlement

import "github.com/repset/edge/pkg/pointer"

// # Tiers

// Tier is a subscription plan level.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// # Resources

// Resource identifies a countable, tier-limited thing a user can create.
type Resource string

const (
	ResourceWorkouts Resource = "workouts"
	ResourceDevices  Resource = "devices"
	ResourceClients  Resource = "clients"
)

// # Read Model

// OnboardingState is the per-user onboarding flag.
//
// It is created with Completed=false when the profile is created and flipped
// to true exactly once by the onboarding flow. The gate only reads it.
type OnboardingState struct {
	UserID    string `json:"user_id"`
	Completed bool   `json:"onboarding_completed"`
}

// SubscriptionLimits is the per-request snapshot of a user's plan caps.
//
// A nil limit pointer means no cap is configured for that resource. When the
// corresponding unlimited flag is set, the limit value is not authoritative
// and must be ignored.
type SubscriptionLimits struct {
	Tier Tier `json:"tier"`

	WorkoutLimit         *int `json:"workout_limit"`
	HasUnlimitedWorkouts bool `json:"has_unlimited_workouts"`

	DeviceLimit         *int `json:"device_limit"`
	HasUnlimitedDevices bool `json:"has_unlimited_devices"`

	ClientLimit         *int `json:"client_limit"`
	HasUnlimitedClients bool `json:"has_unlimited_clients"`
}

// LimitFor returns the cap and unlimited flag for a resource.
func (limits SubscriptionLimits) LimitFor(resource Resource) (limit *int, unlimited bool) {
	switch resource {
	case ResourceWorkouts:
		return limits.WorkoutLimit, limits.HasUnlimitedWorkouts
	case ResourceDevices:
		return limits.DeviceLimit, limits.HasUnlimitedDevices
	case ResourceClients:
		return limits.ClientLimit, limits.HasUnlimitedClients
	default:
		return nil, false
	}
}

// Reached reports whether the given usage count exhausts the cap for a
// resource. At-limit counts block the creation of one more (>= rule).
//
// An unlimited resource, or one with no configured cap, is never reached.
func (limits SubscriptionLimits) Reached(resource Resource, usage int) bool {
	limit, unlimited := limits.LimitFor(resource)
	if unlimited || limit == nil {
		return false
	}
	return usage >= *limit
}

// # Tier Defaults

// Per-tier caps, mirroring the published pricing matrix. Free users get a
// small starter allowance; Pro removes the workout and device caps;
// Enterprise adds client management for trainers.
var tierDefaults = map[Tier]SubscriptionLimits{
	TierFree: {
		Tier:         TierFree,
		WorkoutLimit: pointer.To(3),
		DeviceLimit:  pointer.To(1),
		ClientLimit:  pointer.To(0),
	},
	TierPro: {
		Tier:                 TierPro,
		HasUnlimitedWorkouts: true,
		HasUnlimitedDevices:  true,
		ClientLimit:          pointer.To(0),
	},
	TierEnterprise: {
		Tier:                 TierEnterprise,
		HasUnlimitedWorkouts: true,
		HasUnlimitedDevices:  true,
		HasUnlimitedClients:  true,
	},
}

// LimitsForTier returns the default caps for a plan tier.
// Unknown tiers fall back to the free plan.
func LimitsForTier(tier Tier) SubscriptionLimits {
	if limits, ok := tierDefaults[tier]; ok {
		return limits
	}
	return tierDefaults[TierFree]
}
