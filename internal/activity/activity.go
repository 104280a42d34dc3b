// Copyright (c) 2026 RepSet. All rights reserved.

/*
Package activity records best-effort audit events for allowed requests.

The recorder is fire-and-forget by contract: enqueueing never blocks the
response path and never returns an error. Events ride a bounded in-memory
queue drained by a background worker with a context detached from the request
lifecycle, so an event already dispatched survives a client disconnect. Sink
failures are logged and dropped; they must never influence a gate decision.
*/
package activity

import (
	"time"
)

// # Domain Entities

// Event is a single audit/analytics record.
type Event struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// # Well-Known Actions

const (
	// ActionPageView is recorded for every allowed, authenticated page request.
	ActionPageView = "page_view"

	// ResourceTypePage tags events whose resource is a request path.
	ResourceTypePage = "page"
)

// # Event Metadata Keys

const (
	MetaDeviceType = "device_type"
	MetaReferrer   = "referrer"
	MetaTimestamp  = "timestamp"
)
