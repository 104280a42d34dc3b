package schema

// BillingSubscriptionTable represents the 'billing.subscription' table
type BillingSubscriptionTable struct {
	Table        string
	ID           string
	UserID       string
	Tier         string
	Status       string
	WorkoutLimit string
	DeviceLimit  string
	ClientLimit  string
	CreatedAt    string
	UpdatedAt    string
}

var BillingSubscription = BillingSubscriptionTable{
	Table:        "billing.subscription",
	ID:           "id",
	UserID:       "userid",
	Tier:         "tier",
	Status:       "status",
	WorkoutLimit: "workoutlimit",
	DeviceLimit:  "devicelimit",
	ClientLimit:  "clientlimit",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
