package schema

// UserDeviceLinkTable represents the 'users.devicelink' table
type UserDeviceLinkTable struct {
	Table      string
	ID         string
	UserID     string
	Provider   string
	SyncStatus string
	LinkedAt   string
}

var UserDeviceLink = UserDeviceLinkTable{
	Table:      "users.devicelink",
	ID:         "id",
	UserID:     "userid",
	Provider:   "provider",
	SyncStatus: "syncstatus",
	LinkedAt:   "linkedat",
}
