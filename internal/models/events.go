package models

import "time"

// Event types
const (
	EventTypeDashboardChanged = "DASHBOARD_CHANGED"
)

// Changed entities
const (
	EntityProduct  = "product"
	EntitySettings = "settings"
	EntityCampaign = "campaign"
)

// Change actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// DashboardChangedEvent published after a successful mutation
type DashboardChangedEvent struct {
	BaseEvent
	Entity   string `json:"entity"`
	Action   string `json:"action"`
	EntityID string `json:"entity_id"`
	Origin   string `json:"origin"`
}
