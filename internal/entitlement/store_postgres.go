// Copyright (c) 2026 RepSet. All rights reserved.

// PostgreSQL implementation of the entitlement [Store].
//
// # Error Mapping
//
// Storage-specific errors are wrapped with [ErrUnavailable] so the gate can
// classify them with errors.Is, without learning pgx details. Absent rows
// are not failures: they map to the documented safe defaults (not onboarded,
// not a trainer, free tier).
package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/repset/edge/internal/platform/database/schema"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
OnboardingState retrieves the user's onboarding flag from users.profile.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - OnboardingState: Completed=false when no profile row exists yet
  - error: ErrUnavailable on query failures
*/
func (store *PostgresStore) OnboardingState(context context.Context, userID string) (OnboardingState, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		schema.UserProfile.OnboardingCompleted,
		schema.UserProfile.Table,
		schema.UserProfile.UserID,
	)

	state := OnboardingState{UserID: userID}
	err := store.pool.QueryRow(context, query, userID).Scan(&state.Completed)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No profile yet means onboarding has not happened.
			return state, nil
		}
		return state, fmt.Errorf("%w: onboarding state: %w", ErrUnavailable, err)
	}

	return state, nil
}

/*
TrainerFlag retrieves the is-trainer flag from users.account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - bool: false when the account row is missing or soft-deleted
  - error: ErrUnavailable on query failures
*/
func (store *PostgresStore) TrainerFlag(context context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.IsTrainer,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
		schema.UserAccount.DeletedAt,
	)

	var isTrainer bool
	err := store.pool.QueryRow(context, query, userID).Scan(&isTrainer)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: trainer flag: %w", ErrUnavailable, err)
	}

	return isTrainer, nil
}

/*
SubscriptionLimits resolves the user's current plan caps.

Description: Reads the newest active/trialing subscription row, starts from
the tier's default caps, and applies any per-row overrides from the billing
columns. Users without a subscription row are on the free tier.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - SubscriptionLimits: Per-request snapshot
  - error: ErrUnavailable on query failures
*/
func (store *PostgresStore) SubscriptionLimits(context context.Context, userID string) (SubscriptionLimits, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IN ('active', 'trialing')
		ORDER BY %s DESC
		LIMIT 1`,
		schema.BillingSubscription.Tier,
		schema.BillingSubscription.WorkoutLimit,
		schema.BillingSubscription.DeviceLimit,
		schema.BillingSubscription.ClientLimit,
		schema.BillingSubscription.Table,
		schema.BillingSubscription.UserID,
		schema.BillingSubscription.Status,
		schema.BillingSubscription.CreatedAt,
	)

	var (
		tier                                   Tier
		workoutLimit, deviceLimit, clientLimit *int
	)
	err := store.pool.QueryRow(context, query, userID).Scan(&tier, &workoutLimit, &deviceLimit, &clientLimit)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LimitsForTier(TierFree), nil
		}
		return SubscriptionLimits{}, fmt.Errorf("%w: subscription limits: %w", ErrUnavailable, err)
	}

	limits := LimitsForTier(tier)

	// Row-level overrides win over tier defaults. A NULL override keeps the
	// default; an explicit value replaces it even on unlimited tiers.
	if workoutLimit != nil {
		limits.WorkoutLimit = workoutLimit
		limits.HasUnlimitedWorkouts = false
	}
	if deviceLimit != nil {
		limits.DeviceLimit = deviceLimit
		limits.HasUnlimitedDevices = false
	}
	if clientLimit != nil {
		limits.ClientLimit = clientLimit
		limits.HasUnlimitedClients = false
	}

	return limits, nil
}

/*
UsageCount counts the user's current consumption of a limited resource.

Description: Snapshot counts with no cross-request consistency guarantee.
Workouts exclude templates; devices count active sync links; clients count
active and pending trainer relationships.

Parameters:
  - context: context.Context
  - userID: string
  - resource: Resource

Returns:
  - int: Current count
  - error: ErrUnavailable on query failures or unknown resources
*/
func (store *PostgresStore) UsageCount(context context.Context, userID string, resource Resource) (int, error) {
	var query string

	switch resource {
	case ResourceWorkouts:
		query = fmt.Sprintf(`
			SELECT COUNT(*)
			FROM %s
			WHERE %s = $1 AND %s = FALSE`,
			schema.CoreWorkout.Table,
			schema.CoreWorkout.UserID,
			schema.CoreWorkout.IsTemplate,
		)
	case ResourceDevices:
		query = fmt.Sprintf(`
			SELECT COUNT(*)
			FROM %s
			WHERE %s = $1 AND %s = 'active'`,
			schema.UserDeviceLink.Table,
			schema.UserDeviceLink.UserID,
			schema.UserDeviceLink.SyncStatus,
		)
	case ResourceClients:
		query = fmt.Sprintf(`
			SELECT COUNT(*)
			FROM %s
			WHERE %s = $1 AND %s IN ('active', 'pending')`,
			schema.TrainerClientLink.Table,
			schema.TrainerClientLink.TrainerID,
			schema.TrainerClientLink.Status,
		)
	default:
		return 0, fmt.Errorf("%w: unknown resource %q", ErrUnavailable, resource)
	}

	var count int
	if err := store.pool.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: usage count for %s: %w", ErrUnavailable, resource, err)
	}

	return count, nil
}
