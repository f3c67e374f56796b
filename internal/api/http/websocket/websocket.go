package websocket

import (
	"net/http"
	"time"

	"musical-chairs/internal/service/game"

	"github.com/gorilla/websocket"
)

// 事件流只下行，读缓冲只需容纳控制帧
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// NOTE: 暂时允许所有来源
		return true
	},
	ReadBufferSize:  256,
	WriteBufferSize: 4096,
}

const (
	HEARTBEAT_INTERVAL = 30 * time.Second
	HEARTBEAT_TIMEOUT  = 45 * time.Second
	WRITE_TIMEOUT      = 10 * time.Second
)

func extendReadDeadline(conn *websocket.Conn) func(string) error {
	return func(string) error {
		return conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
	}
}

func writeEvent(conn *websocket.Conn, evt game.Event) error {
	conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
	return conn.WriteJSON(evt)
}

func writePing(conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WRITE_TIMEOUT))
}

func writeClose(conn *websocket.Conn, reason string) error {
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(WRITE_TIMEOUT),
	)
}
