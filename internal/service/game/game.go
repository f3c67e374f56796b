package game

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

type Options struct {
	Players     int
	MusicMin    time.Duration
	MusicJitter time.Duration
	SettlePause time.Duration
}

func DefaultOptions() Options {
	return Options{
		Players:     4,
		MusicMin:    500 * time.Millisecond,
		MusicJitter: 1000 * time.Millisecond,
		SettlePause: 200 * time.Millisecond,
	}
}

type Result struct {
	GameID       string `json:"game_id"`
	Winner       int    `json:"winner"`
	Rounds       int    `json:"rounds"`
	Eliminations []int  `json:"eliminations"`
}

// Game 组装一局游戏：共享状态、回合信号、玩家和协调者
type Game struct {
	ID   string
	opts Options

	state   *GameState
	signal  *RoundSignal
	players []*Player
	acks    chan RoundAck

	coord *coordinator
}

func NewGame(opts Options, announcer Announcer) (*Game, error) {
	if opts.Players < 2 {
		return nil, fmt.Errorf("%w: 当前为 %d", ErrTooFewPlayers, opts.Players)
	}

	id := GenID()

	g := &Game{
		ID:      id,
		opts:    opts,
		state:   NewGameState(id, opts.Players, announcer),
		signal:  NewRoundSignal(),
		players: make([]*Player, 0, opts.Players),
		// 每回合最多收到 Players 个确认，协调者中途退出时玩家也不会阻塞
		acks: make(chan RoundAck, opts.Players),
	}

	for i := 1; i <= opts.Players; i++ {
		g.players = append(g.players, NewPlayer(i))
	}

	g.coord = newCoordinator(g.state, g.signal, g.players, g.acks, opts)

	return g, nil
}

// Run 启动所有玩家协程和协调者协程，阻塞直到全部退出。
// 任何协程 panic 都会取消整局游戏并以错误形式返回。
func (g *Game) Run(ctx context.Context) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	zap.L().Info(
		"游戏开始",
		zap.String("game_id", g.ID),
		zap.Int("players", g.opts.Players),
	)

	var (
		wg     conc.WaitGroup
		result Result
		runErr error
	)

	for _, p := range g.players {
		actor := newPlayerActor(p, g.state, g.signal, g.acks, g.opts.SettlePause)
		wg.Go(func() {
			finished := false
			defer func() {
				if !finished {
					cancel()
				}
			}()

			actor.Run()
			finished = true
		})
	}

	wg.Go(func() {
		result, runErr = g.coord.Run(ctx)
	})

	if r := wg.WaitAndRecover(); r != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvariantViolation, r.AsError())
	}

	if runErr != nil {
		zap.L().Error(
			"游戏异常中止",
			zap.String("game_id", g.ID),
			zap.Error(runErr),
		)
		return Result{}, runErr
	}

	zap.L().Info(
		"游戏结束",
		zap.String("game_id", g.ID),
		zap.Int("winner", result.Winner),
		zap.Int("rounds", result.Rounds),
	)

	return result, nil
}

func (g *Game) Players() []*Player {
	return g.players
}

func (g *Game) Snapshot() StateSnapshot {
	return g.state.Snapshot()
}

func (g *Game) Stage() string {
	return g.coord.Stage()
}
