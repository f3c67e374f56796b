package http

import (
	"errors"

	"musical-chairs/internal/service"
	"musical-chairs/internal/service/dto"
	"musical-chairs/internal/state"

	"github.com/kataras/iris/v12"
)

func CreateGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.CreateGameRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		resp, err := appState.GameSvc.CreateGame(req)
		if err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(resp)
	}
}

func GetGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		summary, err := appState.GameSvc.GetGame(ctx.Params().Get("id"))
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

		ctx.JSON(summary)
	}
}
