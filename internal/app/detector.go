package app

import (
	"math"
	"time"

	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// SeekJump is the position delta, in seconds, that counts as a user seek.
	SeekJump = 1.0
	// SeekRefresh is the longest a playing zone goes without a broadcast.
	SeekRefresh = 1500 * time.Millisecond
)

// Decision is what one zone notification requires of the caller.
type Decision struct {
	Broadcast bool
	Removed   []string
	Subscribe []string
}

// Detector folds zone notifications into the registry and decides
// whether clients need a zones_changed broadcast.
type Detector struct {
	Zones  *ZoneRegistry
	Queues *QueueTracker
}

// Subscribed handles the initial zone list. Every zone needs a queue
// subscription afterwards.
func (d *Detector) Subscribed(zones []domain.Zone, now time.Time) []string {
	d.Zones.Reset(zones)
	d.Queues.Reset()
	var subscribe []string
	for _, id := range d.Zones.IDs() {
		if d.Queues.MarkSubscribed(id) {
			subscribe = append(subscribe, id)
		}
	}
	d.Zones.RefreshSamples(now)
	return subscribe
}

// Changed applies an incremental notification. Field presence, not
// emptiness, triggers the changed/added/removed rules.
func (d *Detector) Changed(ev domain.ZonesEvent, now time.Time) Decision {
	var dec Decision

	if ev.Changed != nil {
		dec.Broadcast = true
		for _, z := range ev.Changed {
			if !d.Zones.Replace(z) {
				log.Debug().Str("module", "app.detector").Str("zone", z.ZoneID).Msg("change for unknown zone")
			}
		}
	}

	if ev.Added != nil {
		dec.Broadcast = true
		for _, z := range ev.Added {
			d.Zones.Add(z)
			if d.Queues.MarkSubscribed(z.ZoneID) {
				dec.Subscribe = append(dec.Subscribe, z.ZoneID)
			}
		}
	}

	if ev.Removed != nil {
		dec.Broadcast = true
		dec.Removed = ev.Removed
		for _, id := range ev.Removed {
			d.Zones.Remove(id)
			d.Queues.Drop(id)
		}
	}

	if ev.SeekChanged != nil && ev.Changed == nil {
		for _, u := range ev.SeekChanged {
			if d.seekWorthy(u, now) {
				dec.Broadcast = true
				break
			}
		}
	}
	for _, u := range ev.SeekChanged {
		d.Zones.ApplySeek(u)
	}

	d.Zones.RefreshSamples(now)
	return dec
}

// seekWorthy reports whether a seek update is a jump or the zone has
// gone too long without a refresh. Zones with no sample are skipped.
func (d *Detector) seekWorthy(u domain.SeekUpdate, now time.Time) bool {
	s, ok := d.Zones.Sample(u.ZoneID)
	if !ok {
		return false
	}
	var seek float64
	if u.SeekPosition != nil {
		seek = *u.SeekPosition
	}
	if math.Abs(seek-s.SeekPosition) > SeekJump {
		log.Debug().Str("module", "app.detector").Str("zone", u.ZoneID).Float64("from", s.SeekPosition).Float64("to", seek).Msg("seek jump")
		return true
	}
	return now.Sub(s.At) >= SeekRefresh
}
