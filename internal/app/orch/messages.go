package orch

import (
	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/goccy/go-json"
)

const (
	cmdWelcome          = "welcome"
	cmdZonesChanged     = "zones_changed"
	cmdZonesSeekChanged = "zones_seek_changed"
	cmdQueueChanged     = "queue_changed"
	cmdSetImage         = "set_image"
	cmdKeepAlive        = "keep_alive"
)

type WelcomeMessage struct {
	Command     string        `json:"command"`
	Timestamp   int64         `json:"timestamp"`
	ExtensionID string        `json:"extension_id"`
	Version     string        `json:"version"`
	Exception   any           `json:"exception"`
	Zones       []domain.Zone `json:"zones"`
}

type ZonesChangedMessage struct {
	Command      string        `json:"command"`
	Timestamp    int64         `json:"timestamp"`
	Zones        []domain.Zone `json:"zones"`
	ZonesRemoved []string      `json:"zones_removed"`
}

// MarshalJSON leaves zones_removed out only when it is nil; an empty
// list from the upstream is passed through as [].
func (m ZonesChangedMessage) MarshalJSON() ([]byte, error) {
	type wire struct {
		Command      string        `json:"command"`
		Timestamp    int64         `json:"timestamp"`
		Zones        []domain.Zone `json:"zones"`
		ZonesRemoved *[]string     `json:"zones_removed,omitempty"`
	}
	w := wire{Command: m.Command, Timestamp: m.Timestamp, Zones: m.Zones}
	if m.ZonesRemoved != nil {
		w.ZonesRemoved = &m.ZonesRemoved
	}
	return json.Marshal(w)
}

type QueueChangedMessage struct {
	Command       string `json:"command"`
	Timestamp     int64  `json:"timestamp"`
	QueueZoneID   string `json:"queue_zone_id"`
	MaxQueueItems int    `json:"max_queue_items"`
}

// QueueContentMessage answers get_queue with the mirrored items.
type QueueContentMessage struct {
	QueueChangedMessage
	QueueItems []domain.QueueItem `json:"queue_items"`
}

type SetImageMessage struct {
	Command   string       `json:"command"`
	Timestamp int64        `json:"timestamp"`
	Image     ImagePayload `json:"image"`
}

type ImagePayload struct {
	ImageKey    string          `json:"image_key"`
	ContentType string          `json:"content_type,omitempty"`
	Body        domain.Blob     `json:"body,omitempty"`
	Unscaled    domain.Blob     `json:"unscaled,omitempty"`
	ImageTag    json.RawMessage `json:"image_tag,omitempty"`
}

// PingMessage is a bare timestamped command: keep_alive replies and the
// optional zones_seek_changed heartbeat.
type PingMessage struct {
	Command   string `json:"command"`
	Timestamp int64  `json:"timestamp"`
}
