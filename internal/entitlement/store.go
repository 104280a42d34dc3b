// Copyright (c) 2026 RepSet. All rights reserved.

package entitlement

import (
	"context"
	"errors"
)

// ErrUnavailable signals that the entitlement store could not serve a read.
//
// The gate maps it asymmetrically: fail-closed for onboarding and trainer
// checks, fail-open for usage-limit checks. The store never retries; if
// retrying is ever wanted, it belongs to the caller.
var ErrUnavailable = errors.New("entitlement: store unavailable")

// # Entitlement Data Access

// Store defines the read contract the authorization gate evaluates against.
//
// Each method is an independent snapshot read. Implementations must be safe
// for concurrent use from many simultaneous gate evaluations.
type Store interface {

	/*
		OnboardingState returns whether the user finished onboarding.

		A user without a profile row has simply not onboarded yet; that maps
		to Completed=false, not to an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - OnboardingState: The user's onboarding flag
		  - error: ErrUnavailable on store failures
	*/
	OnboardingState(context context.Context, userID string) (OnboardingState, error)

	/*
		TrainerFlag reports whether the user holds a trainer account.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - bool: true only for trainer accounts
		  - error: ErrUnavailable on store failures
	*/
	TrainerFlag(context context.Context, userID string) (bool, error)

	/*
		SubscriptionLimits returns the user's current plan caps.

		Users without an active subscription row are on the free tier.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - SubscriptionLimits: Snapshot of the user's caps
		  - error: ErrUnavailable on store failures
	*/
	SubscriptionLimits(context context.Context, userID string) (SubscriptionLimits, error)

	/*
		UsageCount returns the user's current count for a limited resource.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - resource: Resource (workouts, devices, or clients)

		Returns:
		  - int: Current usage snapshot
		  - error: ErrUnavailable on store failures or unknown resources
	*/
	UsageCount(context context.Context, userID string, resource Resource) (int, error)
}
