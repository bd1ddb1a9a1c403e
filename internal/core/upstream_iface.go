package core

//go:generate mockgen -source=upstream_iface.go -destination=mocks/upstream_mock.go -package=mocks

import (
	"context"

	"github.com/dkeye/zonebridge/internal/domain"
)

type ImageOptions struct {
	Scale  string `json:"scale"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

type Image struct {
	ContentType string
	Body        []byte
}

// SettingsChange carries only the toggles a client asked to change.
type SettingsChange struct {
	Shuffle   *bool   `json:"shuffle,omitempty"`
	Loop      *string `json:"loop,omitempty"`
	AutoRadio *bool   `json:"auto_radio,omitempty"`
}

// Controller is the fire-and-forget half of the upstream: calls must
// not block the caller on a round trip.
type Controller interface {
	Control(zoneID, control string) error
	ChangeVolume(outputID, how string, value float64) error
	Standby(outputID string) error
	ChangeSettings(zoneID string, change SettingsChange) error
	PlayFromHere(zoneID string, queueItemID int64) error
}

// Upstream is the vendor core the bridge mirrors and drives.
type Upstream interface {
	Controller
	SubscribeZones(ctx context.Context, fn func(domain.ZonesEvent)) error
	SubscribeQueue(ctx context.Context, zoneID string, maxItems int, fn func(domain.QueueEvent)) error
	GetImage(ctx context.Context, imageKey string, opts ImageOptions) (Image, error)
}
