package signal

import (
	"time"

	"github.com/gorilla/websocket"
)

// keepAlive arms the read deadline and extends it on every pong.
func (ctl *SignalWSController) keepAlive(ws *websocket.Conn) {
	ws.SetReadLimit(ctl.cfg.ReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	})
}

func (ctl *SignalWSController) writePing(ws *websocket.Conn) error {
	if err := ws.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait)); err != nil {
		return err
	}
	return ws.WriteMessage(websocket.PingMessage, nil)
}

func (ctl *SignalWSController) writeClose(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
