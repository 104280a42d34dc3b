package schema

// UserProfileTable represents the 'users.profile' table
type UserProfileTable struct {
	Table               string
	UserID              string
	OnboardingCompleted string
	FitnessGoal         string
	ExperienceLevel     string
	UpdatedAt           string
}

var UserProfile = UserProfileTable{
	Table:               "users.profile",
	UserID:              "userid",
	OnboardingCompleted: "onboardingcompleted",
	FitnessGoal:         "fitnessgoal",
	ExperienceLevel:     "experiencelevel",
	UpdatedAt:           "updatedat",
}
