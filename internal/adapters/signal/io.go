package signal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/zonebridge/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ping := time.NewTicker(ctl.pingPeriod)
	defer func() {
		ping.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-c.done:
			log.Debug().Str("module", "signal").Msg("writePump connection closed")
			return
		case <-c.ready:
			for _, data := range c.take() {
				if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
					return
				}
				if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
					log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
					return
				}
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping failed")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		cancel()
		ctl.Orch.Post(func() { ctl.Orch.Disconnect(sid) })
		c.Close()
	}()

	pongWait := ctl.pingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
			ctl.handleSignal(sid, data)
		}
	}
}

// handleSignal decodes one client frame and hands it to the loop.
// Unknown commands are ignored; malformed ones are a fault.
func (ctl *SignalWSController) handleSignal(sid core.SessionID, data []byte) {
	cmd, err := decodeCommand(data, ctl.validate)
	if errors.Is(err, errUnknownCommand) {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("ignored")
		return
	}
	if err != nil {
		fault := fmt.Errorf("session %s: %w", sid, err)
		ctl.Orch.Post(func() { ctl.Orch.Fault(fault) })
		return
	}
	ctl.Orch.Post(func() { ctl.Orch.Dispatch(sid, cmd) })
}
