package websocket

import (
	"errors"
	"time"

	"musical-chairs/internal/service"
	"musical-chairs/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// WatchGame 把一局游戏的事件流推送给客户端，游戏结束后以正常关闭帧断开
func WatchGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		gameID := ctx.Params().Get("id")

		events, unsubscribe, err := appState.GameSvc.Subscribe(gameID)
		if err != nil {
			status := iris.StatusInternalServerError
			if errors.Is(err, service.ErrGameNotFound) {
				status = iris.StatusNotFound
			}

			ctx.StatusCode(status)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		defer unsubscribe()

		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			return
		}

		defer conn.Close()

		clientIP := ctx.RemoteAddr()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(extendReadDeadline(conn))

		// 读取协程只负责处理控制帧和感知客户端断开
		readDoneCh := make(chan struct{})

		go func() {
			defer close(readDoneCh)

			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(
						err,
						websocket.CloseGoingAway,
						websocket.CloseNormalClosure,
					) {
						zap.L().Debug(
							"读取消息失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
					}
					return
				}
			}
		}()

		ticker := time.NewTicker(HEARTBEAT_INTERVAL)
		defer ticker.Stop()

		for {
			select {
			case <-readDoneCh:
				zap.L().Info(
					"客户端断开连接",
					zap.String("client_ip", clientIP),
					zap.String("game_id", gameID),
				)
				return

			case <-ticker.C:
				if err := writePing(conn); err != nil {
					zap.L().Error(
						"发送心跳失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
					return
				}

			case evt, ok := <-events:
				if !ok {
					writeClose(conn, "游戏结束")
					zap.L().Info(
						"游戏事件流结束",
						zap.String("client_ip", clientIP),
						zap.String("game_id", gameID),
					)
					return
				}

				if err := writeEvent(conn, evt); err != nil {
					zap.L().Error(
						"发送事件失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
					return
				}

				zap.L().Debug(
					"发送事件",
					zap.String("client_ip", clientIP),
					zap.String("event_type", evt.EventType),
				)
			}
		}
	}
}
