package game

import "sync/atomic"

// 玩家状态
const (
	PLAYER_WAITING    = "WaitingForMusicStop"
	PLAYER_CLAIMING   = "Claiming"
	PLAYER_SEATED     = "Seated"
	PLAYER_ELIMINATED = "Eliminated"
)

// 协调者（主持人）状态
//  1. 开始回合（RoundStart）：重置可用椅子数量
//  2. 音乐播放（MusicPlaying）：随机时长
//  3. 音乐停止（MusicStopped）：唤醒所有等待中的玩家
//  4. 结算（Settling）：等待所有存活玩家确认本回合
//  5. 回合结束（RoundEnd）：重置座位标记，移除一把椅子
//  6. 结束（Finished）：宣布胜者
const (
	STAGE_INIT          = "Init"
	STAGE_ROUND_START   = "RoundStart"
	STAGE_MUSIC_PLAYING = "MusicPlaying"
	STAGE_MUSIC_STOPPED = "MusicStopped"
	STAGE_SETTLING      = "Settling"
	STAGE_ROUND_END     = "RoundEnd"
	STAGE_FINISHED      = "Finished"
)

// Player 是参与游戏的玩家，游戏结束后仍然保留用于结果统计
type Player struct {
	ID int

	eliminated atomic.Bool
	seated     atomic.Bool
}

func NewPlayer(id int) *Player {
	return &Player{ID: id}
}

// Eliminated 只会从 false 变为 true
func (p *Player) Eliminated() bool {
	return p.eliminated.Load()
}

func (p *Player) Seated() bool {
	return p.seated.Load()
}

// ResetSeat 由协调者在所有玩家确认后调用
func (p *Player) ResetSeat() {
	p.seated.Store(false)
}

func (p *Player) Status() string {
	switch {
	case p.Eliminated():
		return PLAYER_ELIMINATED
	case p.Seated():
		return PLAYER_SEATED
	default:
		return PLAYER_WAITING
	}
}

// RoundAck 是玩家在每回合结束反应后发给协调者的确认
type RoundAck struct {
	PlayerID   int
	Round      int
	Seated     bool
	Eliminated bool
	Err        error
}
