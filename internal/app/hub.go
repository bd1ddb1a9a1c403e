package app

import (
	"fmt"
	"sync/atomic"

	"github.com/dkeye/zonebridge/internal/core"
	"github.com/dkeye/zonebridge/internal/metrics"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Hub is the set of live client sessions. Membership and fan-out are
// owned by the event loop; Len may be read from any goroutine.
type Hub struct {
	sessions map[core.SessionID]core.SignalConnection
	live     atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[core.SessionID]core.SignalConnection),
	}
}

func (h *Hub) Add(sid core.SessionID, conn core.SignalConnection) {
	h.sessions[sid] = conn
	h.live.Store(int64(len(h.sessions)))
	metrics.Sessions.Set(float64(len(h.sessions)))
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Int("sessions", len(h.sessions)).Msg("session added")
}

func (h *Hub) Remove(sid core.SessionID) bool {
	if _, ok := h.sessions[sid]; !ok {
		return false
	}
	delete(h.sessions, sid)
	h.live.Store(int64(len(h.sessions)))
	metrics.Sessions.Set(float64(len(h.sessions)))
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Int("sessions", len(h.sessions)).Msg("session removed")
	return true
}

func (h *Hub) Has(sid core.SessionID) bool {
	_, ok := h.sessions[sid]
	return ok
}

func (h *Hub) Len() int { return int(h.live.Load()) }

// Broadcast encodes v once and hands it to every session. Sessions
// queue without bound, so only one whose transport already closed
// refuses the frame; it stays listed until the transport's disconnect
// removes it.
func (h *Hub) Broadcast(v any) (core.PublishResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return core.PublishResult{}, fmt.Errorf("encode broadcast: %w", err)
	}
	res := core.PublishResult{}
	for sid, conn := range h.sessions {
		if err := conn.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			h.refused(sid, err)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "app.hub").Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res, nil
}

// Send delivers v to a single session.
func (h *Hub) Send(sid core.SessionID, v any) error {
	conn, ok := h.sessions[sid]
	if !ok {
		return fmt.Errorf("session %s: not connected", sid)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}
	if err := conn.TrySend(data); err != nil {
		h.refused(sid, err)
		return fmt.Errorf("send to %s: %w", sid, err)
	}
	return nil
}

// CloseAll closes and forgets every session.
func (h *Hub) CloseAll() {
	for sid, conn := range h.sessions {
		conn.Close()
		delete(h.sessions, sid)
	}
	h.live.Store(0)
	metrics.Sessions.Set(0)
}

func (h *Hub) refused(sid core.SessionID, err error) {
	metrics.DroppedFrames.Inc()
	log.Debug().Err(err).Str("module", "app.hub").Str("sid", string(sid)).Msg("frame refused by closing session")
}
