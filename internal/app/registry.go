package app

import (
	"time"

	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/rs/zerolog/log"
)

// SeekSample is the last recorded playback position of a zone.
type SeekSample struct {
	At                 time.Time
	SeekPosition       float64
	QueueTimeRemaining int
}

// ZoneRegistry holds the known zones in insertion order with their latest
// snapshot and seek sample. Owned by the event loop; not safe for
// concurrent use.
type ZoneRegistry struct {
	ids     []string
	zones   map[string]*domain.Zone
	samples map[string]SeekSample
}

func NewZoneRegistry() *ZoneRegistry {
	return &ZoneRegistry{
		zones:   make(map[string]*domain.Zone),
		samples: make(map[string]SeekSample),
	}
}

// Reset replaces the whole registry with zones, in the given order.
func (r *ZoneRegistry) Reset(zones []domain.Zone) {
	r.Clear()
	for _, z := range zones {
		r.Add(z)
	}
	log.Info().Str("module", "app.registry").Int("zones", len(r.ids)).Msg("registry reset")
}

// Add stores the snapshot, appending the id when it is new. Reports
// whether the zone was new.
func (r *ZoneRegistry) Add(z domain.Zone) bool {
	_, known := r.zones[z.ZoneID]
	snap := z.Clone()
	r.zones[z.ZoneID] = &snap
	if known {
		return false
	}
	r.ids = append(r.ids, z.ZoneID)
	log.Debug().Str("module", "app.registry").Str("zone", z.ZoneID).Msg("zone added")
	return true
}

// Replace updates the snapshot of a known zone only.
func (r *ZoneRegistry) Replace(z domain.Zone) bool {
	if _, ok := r.zones[z.ZoneID]; !ok {
		return false
	}
	snap := z.Clone()
	r.zones[z.ZoneID] = &snap
	return true
}

func (r *ZoneRegistry) Remove(id string) bool {
	if _, ok := r.zones[id]; !ok {
		return false
	}
	delete(r.zones, id)
	delete(r.samples, id)
	for i, known := range r.ids {
		if known == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	log.Debug().Str("module", "app.registry").Str("zone", id).Msg("zone removed")
	return true
}

// Get returns the stored snapshot. Callers must Clone before decorating it.
func (r *ZoneRegistry) Get(id string) (*domain.Zone, bool) {
	z, ok := r.zones[id]
	return z, ok
}

func (r *ZoneRegistry) Len() int { return len(r.ids) }

func (r *ZoneRegistry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// Zones returns the stored snapshots in registry order.
func (r *ZoneRegistry) Zones() []*domain.Zone {
	out := make([]*domain.Zone, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.zones[id])
	}
	return out
}

// ZoneOfOutput finds the zone currently containing outputID.
func (r *ZoneRegistry) ZoneOfOutput(outputID string) (*domain.Zone, bool) {
	for _, id := range r.ids {
		if z := r.zones[id]; z.HasOutput(outputID) {
			return z, true
		}
	}
	return nil, false
}

// ApplySeek folds a seek update into the stored snapshot.
func (r *ZoneRegistry) ApplySeek(u domain.SeekUpdate) bool {
	z, ok := r.zones[u.ZoneID]
	if !ok {
		return false
	}
	z.QueueTimeRemaining = u.QueueTimeRemaining
	if z.NowPlaying != nil {
		if u.SeekPosition == nil {
			z.NowPlaying.SeekPosition = nil
		} else {
			seek := *u.SeekPosition
			z.NowPlaying.SeekPosition = &seek
		}
	}
	return true
}

func (r *ZoneRegistry) Sample(id string) (SeekSample, bool) {
	s, ok := r.samples[id]
	return s, ok
}

// RefreshSamples records the current position of every zone that is
// playing something.
func (r *ZoneRegistry) RefreshSamples(now time.Time) {
	for _, id := range r.ids {
		z := r.zones[id]
		if z.NowPlaying == nil {
			continue
		}
		r.samples[id] = SeekSample{
			At:                 now,
			SeekPosition:       z.NowPlaying.Seek(),
			QueueTimeRemaining: z.QueueTimeRemaining,
		}
	}
}

func (r *ZoneRegistry) Clear() {
	r.ids = nil
	r.zones = make(map[string]*domain.Zone)
	r.samples = make(map[string]SeekSample)
}
