package app

import (
	"slices"

	"github.com/dkeye/zonebridge/internal/domain"
	"github.com/rs/zerolog/log"
)

// QueueTracker mirrors the upstream queue of each subscribed zone.
// Owned by the event loop.
type QueueTracker struct {
	maxItems   int
	mirrors    map[string][]domain.QueueItem
	subscribed map[string]struct{}
}

func NewQueueTracker(maxItems int) *QueueTracker {
	return &QueueTracker{
		maxItems:   maxItems,
		mirrors:    make(map[string][]domain.QueueItem),
		subscribed: make(map[string]struct{}),
	}
}

func (q *QueueTracker) MaxItems() int { return q.maxItems }

// MarkSubscribed records a queue subscription for zoneID. Returns false
// when one already exists.
func (q *QueueTracker) MarkSubscribed(zoneID string) bool {
	if _, ok := q.subscribed[zoneID]; ok {
		return false
	}
	q.subscribed[zoneID] = struct{}{}
	return true
}

func (q *QueueTracker) Subscribed(zoneID string) bool {
	_, ok := q.subscribed[zoneID]
	return ok
}

// Init replaces the mirror with the initial item list.
func (q *QueueTracker) Init(zoneID string, items []domain.QueueItem) {
	q.mirrors[zoneID] = append(make([]domain.QueueItem, 0, len(items)), items...)
	log.Debug().Str("module", "app.queue").Str("zone", zoneID).Int("items", len(items)).Msg("queue initialised")
}

// Apply runs the splice operations in order. Returns false when the zone
// has no mirror yet.
func (q *QueueTracker) Apply(zoneID string, changes []domain.QueueChange) bool {
	items, ok := q.mirrors[zoneID]
	if !ok {
		return false
	}
	for _, ch := range changes {
		switch ch.Operation {
		case domain.QueueRemove:
			start := clampIndex(ch.Index, len(items))
			end := start + max(ch.Count, 0)
			if end > len(items) {
				end = len(items)
			}
			items = slices.Delete(items, start, end)
		case domain.QueueInsert:
			start := clampIndex(ch.Index, len(items))
			items = slices.Insert(items, start, ch.Items...)
		default:
			log.Warn().Str("module", "app.queue").Str("zone", zoneID).Str("op", string(ch.Operation)).Msg("unknown queue operation")
		}
	}
	q.mirrors[zoneID] = items
	return true
}

// Items returns a copy of the mirror.
func (q *QueueTracker) Items(zoneID string) ([]domain.QueueItem, bool) {
	items, ok := q.mirrors[zoneID]
	if !ok {
		return nil, false
	}
	return append([]domain.QueueItem(nil), items...), true
}

// Drop forgets the mirror and the subscription marker of a removed zone.
func (q *QueueTracker) Drop(zoneID string) {
	delete(q.mirrors, zoneID)
	delete(q.subscribed, zoneID)
}

func (q *QueueTracker) Reset() {
	q.mirrors = make(map[string][]domain.QueueItem)
	q.subscribed = make(map[string]struct{})
}

// clampIndex resolves a splice start: negative counts from the end,
// anything out of range is pinned to the bounds.
func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}
