package upstream

import (
	"context"
	"fmt"

	"github.com/dkeye/zonebridge/internal/core"
	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const zonesKey = "zones"

type zonesPayload struct {
	Zones            []domain.Zone       `json:"zones"`
	ZonesChanged     []domain.Zone       `json:"zones_changed"`
	ZonesAdded       []domain.Zone       `json:"zones_added"`
	ZonesRemoved     []string            `json:"zones_removed"`
	ZonesSeekChanged []domain.SeekUpdate `json:"zones_seek_changed"`
}

type queuePayload struct {
	Items   []domain.QueueItem   `json:"items"`
	Changes []domain.QueueChange `json:"changes"`
}

type imageResult struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// SubscribeZones asks the core for zone notifications. fn runs on the
// client read goroutine.
func (c *Client) SubscribeZones(ctx context.Context, fn func(domain.ZonesEvent)) error {
	c.subscribe(zonesKey, func(n notification) {
		var p zonesPayload
		if err := json.Unmarshal(n.Data, &p); err != nil {
			log.Warn().Err(err).Str("module", "upstream").Msg("bad zones payload")
			return
		}
		fn(domain.ZonesEvent{
			Kind:        domain.EventKind(n.Response),
			Zones:       p.Zones,
			Changed:     p.ZonesChanged,
			Added:       p.ZonesAdded,
			Removed:     p.ZonesRemoved,
			SeekChanged: p.ZonesSeekChanged,
		})
	})
	return c.call(ctx, "transport.subscribe_zones", map[string]any{"subscription_key": zonesKey}, nil)
}

// SubscribeQueue does not wait for the core to acknowledge.
func (c *Client) SubscribeQueue(_ context.Context, zoneID string, maxItems int, fn func(domain.QueueEvent)) error {
	key := "queue:" + zoneID
	c.subscribe(key, func(n notification) {
		var p queuePayload
		if err := json.Unmarshal(n.Data, &p); err != nil {
			log.Warn().Err(err).Str("module", "upstream").Str("zone", zoneID).Msg("bad queue payload")
			return
		}
		fn(domain.QueueEvent{Kind: domain.EventKind(n.Response), Items: p.Items, Changes: p.Changes})
	})
	return c.notify("transport.subscribe_queue", map[string]any{
		"subscription_key":  key,
		"zone_or_output_id": zoneID,
		"max_item_count":    maxItems,
	})
}

func (c *Client) Control(zoneID, control string) error {
	return c.notify("transport.control", map[string]any{"zone_or_output_id": zoneID, "control": control})
}

func (c *Client) ChangeVolume(outputID, how string, value float64) error {
	return c.notify("transport.change_volume", map[string]any{"output_id": outputID, "how": how, "value": value})
}

func (c *Client) Standby(outputID string) error {
	return c.notify("transport.standby", map[string]any{"output_id": outputID})
}

func (c *Client) ChangeSettings(zoneID string, change core.SettingsChange) error {
	params := map[string]any{"zone_or_output_id": zoneID}
	if change.Shuffle != nil {
		params["shuffle"] = *change.Shuffle
	}
	if change.Loop != nil {
		params["loop"] = *change.Loop
	}
	if change.AutoRadio != nil {
		params["auto_radio"] = *change.AutoRadio
	}
	return c.notify("transport.change_settings", params)
}

func (c *Client) PlayFromHere(zoneID string, queueItemID int64) error {
	return c.notify("transport.play_from_here", map[string]any{"zone_or_output_id": zoneID, "queue_item_id": queueItemID})
}

// GetImage blocks for the round trip; call it off the event loop.
func (c *Client) GetImage(ctx context.Context, imageKey string, opts core.ImageOptions) (core.Image, error) {
	var res imageResult
	params := map[string]any{
		"image_key": imageKey,
		"scale":     opts.Scale,
		"width":     opts.Width,
		"height":    opts.Height,
		"format":    opts.Format,
	}
	if err := c.call(ctx, "image.get_image", params, &res); err != nil {
		return core.Image{}, fmt.Errorf("get image %s: %w", imageKey, err)
	}
	return core.Image{ContentType: res.ContentType, Body: res.Body}, nil
}

var _ core.Upstream = (*Client)(nil)
