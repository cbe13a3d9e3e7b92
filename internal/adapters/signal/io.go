package signal

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/stats"
)

func (ctl *SignalWSController) writePump(ctx context.Context, cid domain.ConnectionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("cid", string(cid)).Msg("writePump ctx done")
			ctl.writeClose(c.conn)
			return
		case data, ok := <-c.send:
			if !ok {
				ctl.writeClose(c.conn)
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := ctl.writePing(c.conn); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("writePump ping failed")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cid domain.ConnectionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		ctl.Orch.Disconnect(cid)
		ctl.limiter.Forget(cid)
		c.Close()
	}()

	ctl.keepAlive(c.conn)
	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
			}
			return
		}
		ctl.handleFrame(cid, data)
	}
}

func (ctl *SignalWSController) handleFrame(cid domain.ConnectionID, data []byte) {
	if !ctl.limiter.Allow(cid) {
		log.Debug().Str("module", "signal").Str("cid", string(cid)).Msg("rate limited, frame dropped")
		ctl.Orch.Stats.Incr(stats.InvalidMessages)
		return
	}

	cmd, err := core.DecodeCommand(data)
	if err != nil {
		ev := log.Warn()
		if errors.Is(err, core.ErrUnknownType) {
			ev = log.Debug()
		}
		ev.Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("frame dropped")
		ctl.Orch.Stats.Incr(stats.InvalidMessages)
		return
	}
	ctl.Orch.Dispatch(cid, cmd)
}
