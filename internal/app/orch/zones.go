package orch

import (
	"time"

	"github.com/dkeye/zonebridge/internal/app/overlay"
	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/rs/zerolog/log"
)

// OnZones handles one zone subscription notification.
func (o *Orchestrator) OnZones(ev domain.ZonesEvent) {
	now := o.now()
	switch ev.Kind {
	case domain.EventSubscribed:
		o.Timers.Reset()
		o.subscribeQueues(o.Detector.Subscribed(ev.Zones, now))
		if !o.running.Swap(true) {
			log.Info().Str("module", "orch").Int("zones", o.Zones.Len()).Msg("service running")
		}
	case domain.EventChanged:
		dec := o.Detector.Changed(ev, now)
		o.subscribeQueues(dec.Subscribe)
		if dec.Broadcast {
			o.broadcast(cmdZonesChanged, ZonesChangedMessage{
				Command:      cmdZonesChanged,
				Timestamp:    now.UnixMilli(),
				Zones:        o.snapshot(now),
				ZonesRemoved: dec.Removed,
			})
		}
	default:
		log.Warn().Str("module", "orch").Str("kind", string(ev.Kind)).Msg("unknown zone event")
	}
}

// OnQueue handles one queue notification for zoneID.
func (o *Orchestrator) OnQueue(zoneID string, ev domain.QueueEvent) {
	if !o.Queues.Subscribed(zoneID) {
		log.Debug().Str("module", "orch").Str("zone", zoneID).Msg("queue event for dropped zone")
		return
	}
	switch ev.Kind {
	case domain.EventSubscribed:
		o.Queues.Init(zoneID, ev.Items)
	case domain.EventChanged:
		if !o.Queues.Apply(zoneID, ev.Changes) {
			return
		}
		o.broadcast(cmdQueueChanged, QueueChangedMessage{
			Command:       cmdQueueChanged,
			Timestamp:     o.now().UnixMilli(),
			QueueZoneID:   zoneID,
			MaxQueueItems: o.Queues.MaxItems(),
		})
	}
}

func (o *Orchestrator) subscribeQueues(zoneIDs []string) {
	for _, zoneID := range zoneIDs {
		err := o.Upstream.SubscribeQueue(o.ctx, zoneID, o.Queues.MaxItems(), func(ev domain.QueueEvent) {
			o.Post(func() { o.OnQueue(zoneID, ev) })
		})
		o.call("subscribe_queue", err)
	}
}

// snapshot decorates every known zone in registry order.
func (o *Orchestrator) snapshot(now time.Time) []domain.Zone {
	out := make([]domain.Zone, 0, o.Zones.Len())
	for _, z := range o.Zones.Zones() {
		out = append(out, o.decorate(z, now))
	}
	return out
}

// decorate copies z and applies the timestamp, feed overlay and sleep
// timer views. The stored snapshot is never modified.
func (o *Orchestrator) decorate(z *domain.Zone, now time.Time) domain.Zone {
	c := z.Clone()
	c.Timestamp = now.UnixMilli()
	o.Overlay.Apply(&c)
	o.Timers.Decorate(&c)
	return c
}

// broadcastTuned pushes the zones playing feed after its payload changed.
func (o *Orchestrator) broadcastTuned(feed overlay.Feed) {
	now := o.now()
	var zones []domain.Zone
	for _, z := range o.Zones.Zones() {
		if o.Overlay.Tuned(z, feed) {
			zones = append(zones, o.decorate(z, now))
		}
	}
	if len(zones) == 0 {
		return
	}
	o.broadcast(cmdZonesChanged, ZonesChangedMessage{
		Command:   cmdZonesChanged,
		Timestamp: now.UnixMilli(),
		Zones:     zones,
	})
}
