package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// coordinator 负责回合节奏：放音乐、停音乐、等待玩家确认、移除椅子
type coordinator struct {
	state   *GameState
	signal  *RoundSignal
	players []*Player
	acks    <-chan RoundAck

	musicMin    time.Duration
	musicJitter time.Duration

	stage        atomic.Value
	eliminations []int
}

func newCoordinator(
	state *GameState,
	signal *RoundSignal,
	players []*Player,
	acks <-chan RoundAck,
	opts Options,
) *coordinator {
	c := &coordinator{
		state:       state,
		signal:      signal,
		players:     players,
		acks:        acks,
		musicMin:    opts.MusicMin,
		musicJitter: opts.MusicJitter,
	}
	c.stage.Store(STAGE_INIT)

	return c
}

func (c *coordinator) Stage() string {
	return c.stage.Load().(string)
}

func (c *coordinator) switchStage(stage string, round int) {
	c.stage.Store(stage)

	zap.L().Debug(
		"协调者切换阶段",
		zap.String("game_id", c.state.gameID),
		zap.Int("round", round),
		zap.String("stage", stage),
	)
}

// Run 驱动所有回合直到只剩一名玩家，返回时回合信号一定已关闭
func (c *coordinator) Run(ctx context.Context) (Result, error) {
	defer c.signal.Close()

	rounds := 0

	for !c.state.GameOver() {
		if err := c.playRound(ctx); err != nil {
			return Result{}, err
		}
		rounds++
	}

	c.switchStage(STAGE_FINISHED, rounds)

	var winners []*Player
	for _, p := range c.players {
		if !p.Eliminated() {
			winners = append(winners, p)
		}
	}

	if len(winners) != 1 {
		return Result{}, fmt.Errorf("%w: 剩余 %d 名玩家", ErrNoWinner, len(winners))
	}

	winner := winners[0]

	c.state.emit(EVENT_WINNER, WinnerEvent{
		PlayerID: winner.ID,
		Rounds:   rounds,
	})
	c.state.emit(EVENT_GAME_FINISHED, GameFinishedEvent{
		Rounds: rounds,
	})

	return Result{
		GameID:       c.state.gameID,
		Winner:       winner.ID,
		Rounds:       rounds,
		Eliminations: c.eliminations,
	}, nil
}

func (c *coordinator) playRound(ctx context.Context) error {
	c.switchStage(STAGE_ROUND_START, c.state.Snapshot().Round+1)

	start, err := c.state.StartRound()
	if err != nil {
		return err
	}

	c.switchStage(STAGE_MUSIC_PLAYING, start.Round)
	c.signal.Reset(start.Round)

	if err := sleepCtx(ctx, c.musicDuration()); err != nil {
		return err
	}

	c.switchStage(STAGE_MUSIC_STOPPED, start.Round)
	c.signal.Stop()

	c.switchStage(STAGE_SETTLING, start.Round)

	acks, err := c.collectAcks(ctx, start)
	if err != nil {
		return err
	}

	if err := c.audit(start, acks); err != nil {
		return err
	}

	c.switchStage(STAGE_ROUND_END, start.Round)

	for _, p := range c.players {
		if !p.Eliminated() {
			p.ResetSeat()
		}
	}

	return c.state.ShrinkChairs()
}

// collectAcks 等待回合开始时每名存活玩家的确认
func (c *coordinator) collectAcks(ctx context.Context, start RoundStartEvent) ([]RoundAck, error) {
	acks := make([]RoundAck, 0, start.Players)

	for len(acks) < start.Players {
		select {
		case ack := <-c.acks:
			acks = append(acks, ack)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return acks, nil
}

// audit 检查本回合结算结果，所有问题合并成一个错误返回
func (c *coordinator) audit(start RoundStartEvent, acks []RoundAck) error {
	var errs error

	seated, eliminated := 0, 0

	for _, ack := range acks {
		if ack.Err != nil {
			errs = multierr.Append(errs, ack.Err)
			continue
		}

		if ack.Round != start.Round {
			errs = multierr.Append(errs, fmt.Errorf(
				"%w: 玩家 %d 确认了第 %d 回合，当前为第 %d 回合",
				ErrInvariantViolation, ack.PlayerID, ack.Round, start.Round,
			))
		}

		if ack.Seated {
			seated++
		}

		if ack.Eliminated {
			eliminated++
			c.eliminations = append(c.eliminations, ack.PlayerID)
		}
	}

	if seated != start.Chairs {
		errs = multierr.Append(errs, fmt.Errorf(
			"%w: 第 %d 回合有 %d 把椅子，却有 %d 名玩家坐下",
			ErrInvariantViolation, start.Round, start.Chairs, seated,
		))
	}

	if want := start.Players - start.Chairs; eliminated != want {
		errs = multierr.Append(errs, fmt.Errorf(
			"%w: 第 %d 回合应淘汰 %d 名玩家，实际淘汰 %d 名",
			ErrInvariantViolation, start.Round, want, eliminated,
		))
	}

	if active := c.state.ActivePlayers(); active != start.Players-eliminated {
		errs = multierr.Append(errs, fmt.Errorf(
			"%w: 第 %d 回合结束后活跃玩家为 %d，应为 %d",
			ErrInvariantViolation, start.Round, active, start.Players-eliminated,
		))
	}

	return errs
}

func (c *coordinator) musicDuration() time.Duration {
	if c.musicJitter <= 0 {
		return c.musicMin
	}

	return c.musicMin + rand.N(c.musicJitter)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
