package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSearchStatAdded    EventType = "search_stat_added"
	EventSearchStatReplaced EventType = "search_stat_replaced"
	EventSearchStatDeleted  EventType = "search_stat_deleted"
	EventPluginStatAdded    EventType = "plugin_stat_added"
	EventPluginStatReplaced EventType = "plugin_stat_replaced"
	EventPluginStatDeleted  EventType = "plugin_stat_deleted"
)

// AllEventTypes lists every emitted event type, for blanket subscribers.
var AllEventTypes = []EventType{
	EventSearchStatAdded,
	EventSearchStatReplaced,
	EventSearchStatDeleted,
	EventPluginStatAdded,
	EventPluginStatReplaced,
	EventPluginStatDeleted,
}

// Event represents a record mutation emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Actor     string    `json:"actor"`
	RecordID  string    `json:"record_id,omitempty"`
	Count     int64     `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
