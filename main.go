package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"musical-chairs/internal/api/http"
	"musical-chairs/internal/config"
	"musical-chairs/internal/logger"
	"musical-chairs/internal/service"
	"musical-chairs/internal/service/game"
	"musical-chairs/internal/state"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.InitConfig(os.Args[1:])

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel, cfg.LogFormat)
	defer zap.L().Sync()

	opts := gameOptions(cfg)

	if cfg.Mode == config.MODE_SERVE {
		runServer(cfg, opts)
		return
	}

	runConsole(opts)
}

func gameOptions(cfg *config.AppConfig) game.Options {
	return game.Options{
		Players:     cfg.Players,
		MusicMin:    time.Duration(cfg.MusicMinMs) * time.Millisecond,
		MusicJitter: time.Duration(cfg.MusicJitterMs) * time.Millisecond,
		SettlePause: time.Duration(cfg.SettlePauseMs) * time.Millisecond,
	}
}

func runConsole(opts game.Options) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, err := game.NewGame(opts, game.NewConsoleAnnouncer(os.Stdout))
	if err != nil {
		zap.L().Fatal("创建游戏失败", zap.Error(err))
	}

	if _, err := g.Run(ctx); err != nil {
		zap.L().Fatal("游戏中止", zap.String("game_id", g.ID), zap.Error(err))
	}
}

func runServer(cfg *config.AppConfig, opts game.Options) {
	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		service.NewGameService(
			opts,
			cfg.MaxPlayers,
			time.Duration(cfg.GameRetentionSeconds)*time.Second,
		),
	)
	defer appState.GameSvc.Close()

	// 启动服务器
	if err := http.RunServer(appState); err != nil {
		zap.L().Error("服务器异常退出", zap.Error(err))
	}
}
