package game

import (
	"time"

	"go.uber.org/zap"
)

// playerActor 是每个玩家独立运行的协程
type playerActor struct {
	player *Player

	state  *GameState
	signal *RoundSignal
	acks   chan<- RoundAck

	settlePause time.Duration
}

func newPlayerActor(
	player *Player,
	state *GameState,
	signal *RoundSignal,
	acks chan<- RoundAck,
	settlePause time.Duration,
) *playerActor {
	return &playerActor{
		player:      player,
		state:       state,
		signal:      signal,
		acks:        acks,
		settlePause: settlePause,
	}
}

// Run 在玩家被淘汰或游戏结束时返回
func (pa *playerActor) Run() {
	lastRound := 0

	for {
		round, ok := pa.signal.Wait(lastRound)
		if !ok {
			zap.L().Debug(
				"回合信号已关闭，玩家退出",
				zap.String("game_id", pa.state.gameID),
				zap.Int("player_id", pa.player.ID),
			)
			return
		}
		lastRound = round

		ack := pa.react(round)
		pa.acks <- ack

		if ack.Eliminated || ack.Err != nil {
			return
		}

		time.Sleep(pa.settlePause)

		if pa.state.GameOver() {
			zap.L().Debug(
				"游戏已结束，玩家退出",
				zap.String("game_id", pa.state.gameID),
				zap.Int("player_id", pa.player.ID),
			)
			return
		}
	}
}

// react 处理一次音乐停止：抢座一次，抢不到则淘汰自己
func (pa *playerActor) react(round int) RoundAck {
	p := pa.player

	zap.L().Debug(
		"玩家开始抢座",
		zap.String("game_id", pa.state.gameID),
		zap.Int("round", round),
		zap.Int("player_id", p.ID),
		zap.String("status", PLAYER_CLAIMING),
	)

	if !p.Eliminated() && !p.Seated() && pa.state.TryClaimSeat() {
		p.seated.Store(true)
		pa.state.emit(EVENT_SEAT_CLAIMED, SeatClaimedEvent{
			Round:    round,
			PlayerID: p.ID,
		})
	}

	ack := RoundAck{
		PlayerID: p.ID,
		Round:    round,
		Seated:   p.Seated(),
	}

	if !p.Seated() && !p.Eliminated() {
		if err := pa.state.Eliminate(p.ID); err != nil {
			ack.Err = err
			return ack
		}
		p.eliminated.Store(true)
	}

	ack.Eliminated = p.Eliminated()

	return ack
}
