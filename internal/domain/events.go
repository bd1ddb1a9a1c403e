package domain

type EventKind string

const (
	EventSubscribed EventKind = "Subscribed"
	EventChanged    EventKind = "Changed"
)

// SeekUpdate is a lightweight playback-position report for one zone.
type SeekUpdate struct {
	ZoneID             string   `json:"zone_id"`
	SeekPosition       *float64 `json:"seek_position"`
	QueueTimeRemaining int      `json:"queue_time_remaining"`
}

// ZonesEvent is a zone subscription notification. On Changed, a nil
// slice means the field was absent, a non-nil empty slice means it was
// present but empty.
type ZonesEvent struct {
	Kind        EventKind
	Zones       []Zone
	Changed     []Zone
	Added       []Zone
	Removed     []string
	SeekChanged []SeekUpdate
}

type QueueEvent struct {
	Kind    EventKind
	Items   []QueueItem
	Changes []QueueChange
}
