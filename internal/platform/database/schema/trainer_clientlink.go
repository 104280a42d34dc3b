package schema

// TrainerClientLinkTable represents the 'trainer.clientlink' table
type TrainerClientLinkTable struct {
	Table     string
	ID        string
	TrainerID string
	ClientID  string
	Status    string
	CreatedAt string
}

var TrainerClientLink = TrainerClientLinkTable{
	Table:     "trainer.clientlink",
	ID:        "id",
	TrainerID: "trainerid",
	ClientID:  "clientid",
	Status:    "status",
	CreatedAt: "createdat",
}
