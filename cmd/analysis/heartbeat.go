package main

import (
	"time"

	"github.com/gorilla/websocket"
)

var (
	wsPingInterval = 30 * time.Second
	// wsPongWait bounds the silence tolerated from a client. It must stay
	// above wsPingInterval plus the longest analysis, because pongs are
	// only read between requests.
	wsPongWait  = 60 * time.Second
	wsWriteWait = 10 * time.Second
)

// keepAlive arms the read deadline and pushes it back on every pong, so a
// peer that stops answering pings fails the next read.
func keepAlive(conn *websocket.Conn) {
	rearm(conn)
	conn.SetPongHandler(func(string) error {
		rearm(conn)
		return nil
	})
}

func rearm(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
}

// writeLoop writes queued messages until send is closed and pings the
// client with control frames in between.
func writeLoop(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return err
			}
		}
	}
}
