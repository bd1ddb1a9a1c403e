package orch

import (
	"github.com/dkeye/zonebridge/internal/core"
	"github.com/rs/zerolog/log"
)

// Connect registers a session and sends it the welcome snapshot.
func (o *Orchestrator) Connect(sid core.SessionID, conn core.SignalConnection) {
	o.Hub.Add(sid, conn)

	var exception any = struct{}{}
	if o.crash != nil {
		exception = o.crash
	}
	now := o.now()
	o.reply(sid, WelcomeMessage{
		Command:     cmdWelcome,
		Timestamp:   now.UnixMilli(),
		ExtensionID: o.identity.ExtensionID,
		Version:     o.identity.Version,
		Exception:   exception,
		Zones:       o.snapshot(now),
	})
	log.Info().Str("module", "orch").Str("sid", string(sid)).Int("zones", o.Zones.Len()).Msg("welcome sent")
}

func (o *Orchestrator) Disconnect(sid core.SessionID) {
	o.Hub.Remove(sid)
}
