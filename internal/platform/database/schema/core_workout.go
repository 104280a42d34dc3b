package schema

// CoreWorkoutTable represents the 'core.workout' table
type CoreWorkoutTable struct {
	Table      string
	ID         string
	UserID     string
	Name       string
	IsTemplate string
	CreatedAt  string
	UpdatedAt  string
}

var CoreWorkout = CoreWorkoutTable{
	Table:      "core.workout",
	ID:         "id",
	UserID:     "userid",
	Name:       "name",
	IsTemplate: "istemplate",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}
