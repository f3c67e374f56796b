package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"musical-chairs/internal/service/dto"
	"musical-chairs/internal/service/game"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

var ErrGameNotFound = errors.New("游戏不存在")

// GameService 在进程内托管多局游戏，每局游戏运行在独立的协程中
type GameService struct {
	state *gameServiceState

	baseOpts   game.Options
	maxPlayers int
	retention  time.Duration
}

type gameServiceState struct {
	mu sync.RWMutex

	// 从游戏 ID 到托管游戏的映射
	games map[string]*hostedGame

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	cleanUpDone chan struct{}
	closeOnce   sync.Once
}

type hostedGame struct {
	game      *game.Game
	hub       *eventHub
	createdAt time.Time

	mu         sync.Mutex
	finishedAt time.Time
	result     *game.Result
	err        error
}

func NewGameService(baseOpts game.Options, maxPlayers int, retention time.Duration) *GameService {
	ctx, cancel := context.WithCancel(context.Background())

	state := &gameServiceState{
		games:       make(map[string]*hostedGame),
		ctx:         ctx,
		cancel:      cancel,
		cleanUpDone: make(chan struct{}),
	}

	gs := &GameService{
		state:      state,
		baseOpts:   baseOpts,
		maxPlayers: maxPlayers,
		retention:  retention,
	}

	// 启动一个 goroutine 定期清理已结束的游戏
	go gs.startCleanupLoop(time.Minute)

	return gs
}

func (gs *GameService) startCleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gs.state.cleanUpDone:
			return

		case now := <-ticker.C:
			gs.cleanupExpired(now)
		}
	}
}

// cleanupExpired 移除结束时间早于保留窗口的游戏，返回被移除的数量
func (gs *GameService) cleanupExpired(now time.Time) int {
	gs.state.mu.Lock()
	defer gs.state.mu.Unlock()

	removed := 0

	for gameID, hg := range gs.state.games {
		if !hg.expired(now, gs.retention) {
			continue
		}

		zap.S().Infof("游戏 %s 已过期，开始清理", gameID)

		delete(gs.state.games, gameID)
		removed++
	}

	return removed
}

// Close 停止清理协程，取消所有仍在进行的游戏并等待其退出
func (gs *GameService) Close() {
	gs.state.closeOnce.Do(func() {
		close(gs.state.cleanUpDone)
		gs.state.cancel()
		gs.state.wg.Wait()
	})
}

func (gs *GameService) CreateGame(req dto.CreateGameRequest) (dto.CreateGameResponse, error) {
	if req.Players < 2 {
		return dto.CreateGameResponse{}, errors.New("玩家数量至少为 2")
	}
	if req.Players > gs.maxPlayers {
		return dto.CreateGameResponse{}, fmt.Errorf("玩家数量不能超过 %d", gs.maxPlayers)
	}

	if gs.state.ctx.Err() != nil {
		return dto.CreateGameResponse{}, errors.New("服务已关闭")
	}

	opts := gs.baseOpts
	opts.Players = req.Players

	hub := newEventHub()

	g, err := game.NewGame(opts, hub)
	if err != nil {
		return dto.CreateGameResponse{}, err
	}

	hg := &hostedGame{
		game:      g,
		hub:       hub,
		createdAt: time.Now(),
	}

	gs.state.mu.Lock()
	gs.state.games[g.ID] = hg
	gs.state.mu.Unlock()

	gs.state.wg.Go(func() {
		defer hub.close()

		result, err := g.Run(gs.state.ctx)
		hg.finish(result, err)

		if err != nil {
			zap.S().Warnf("游戏 %s 异常结束：%v", g.ID, err)
			return
		}

		zap.S().Infof("游戏 %s 结束，胜者为玩家 %d", g.ID, result.Winner)
	})

	zap.S().Infof("游戏 %s 已创建，共 %d 名玩家", g.ID, req.Players)

	return dto.CreateGameResponse{
		GameID:  g.ID,
		Players: req.Players,
	}, nil
}

func (gs *GameService) GetGame(gameID string) (dto.GameSummary, error) {
	hg, err := gs.lookup(gameID)
	if err != nil {
		return dto.GameSummary{}, err
	}

	return hg.summary(), nil
}

// Subscribe 返回游戏事件流，游戏结束后通道关闭
func (gs *GameService) Subscribe(gameID string) (<-chan game.Event, func(), error) {
	hg, err := gs.lookup(gameID)
	if err != nil {
		return nil, nil, err
	}

	ch, unsubscribe := hg.hub.subscribe()

	return ch, unsubscribe, nil
}

func (gs *GameService) lookup(gameID string) (*hostedGame, error) {
	gs.state.mu.RLock()
	defer gs.state.mu.RUnlock()

	hg := gs.state.games[gameID]
	if hg == nil {
		return nil, ErrGameNotFound
	}

	return hg, nil
}

func (hg *hostedGame) finish(result game.Result, err error) {
	hg.mu.Lock()
	defer hg.mu.Unlock()

	hg.finishedAt = time.Now()
	if err != nil {
		hg.err = err
		return
	}

	hg.result = &result
}

func (hg *hostedGame) expired(now time.Time, retention time.Duration) bool {
	hg.mu.Lock()
	defer hg.mu.Unlock()

	if hg.finishedAt.IsZero() {
		return false
	}

	return now.Sub(hg.finishedAt) >= retention
}

func (hg *hostedGame) summary() dto.GameSummary {
	snapshot := hg.game.Snapshot()

	players := make([]dto.PlayerStatus, 0, len(hg.game.Players()))
	for _, p := range hg.game.Players() {
		players = append(players, dto.PlayerStatus{
			ID:     p.ID,
			Status: p.Status(),
		})
	}

	summary := dto.GameSummary{
		GameID:          hg.game.ID,
		Stage:           hg.game.Stage(),
		Round:           snapshot.Round,
		ActivePlayers:   snapshot.ActivePlayers,
		ChairsTotal:     snapshot.ChairsTotal,
		ChairsRemaining: snapshot.ChairsRemaining,
		Players:         players,
	}

	hg.mu.Lock()
	defer hg.mu.Unlock()

	summary.Finished = !hg.finishedAt.IsZero()

	if hg.result != nil {
		summary.Winner = hg.result.Winner
		summary.Rounds = hg.result.Rounds
		summary.Eliminations = hg.result.Eliminations
	}

	if hg.err != nil {
		summary.ErrMsg = hg.err.Error()
	}

	return summary
}
