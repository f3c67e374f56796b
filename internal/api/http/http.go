package http

import (
	"fmt"

	"musical-chairs/internal/api/http/websocket"
	"musical-chairs/internal/state"

	"github.com/kataras/iris/v12"
)

// NewApp 注册所有路由，调用方负责 Build 或 Listen
func NewApp(appState *state.AppState) *iris.Application {
	app := iris.Default()

	api := app.Party("/api/v1")

	api.Post("/games", CreateGame(appState))
	api.Get("/games/{id}", GetGame(appState))

	api.Get("/ws/games/{id}", websocket.WatchGame(appState))

	return app
}

func RunServer(appState *state.AppState) error {
	app := NewApp(appState)

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	return app.Listen(addr, iris.WithoutServerError(iris.ErrServerClosed))
}
