package schema

// SystemActivityLogTable represents the 'system.activitylog' table
type SystemActivityLogTable struct {
	Table        string
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	UserAgent    string
	Metadata     string
	CreatedAt    string
}

var SystemActivityLog = SystemActivityLogTable{
	Table:        "system.activitylog",
	ID:           "id",
	UserID:       "userid",
	Action:       "action",
	ResourceType: "resourcetype",
	ResourceID:   "resourceid",
	IPAddress:    "ipaddress",
	UserAgent:    "useragent",
	Metadata:     "metadata",
	CreatedAt:    "createdat",
}
