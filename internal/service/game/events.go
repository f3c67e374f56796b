package game

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// 事件类型
const (
	EVENT_ROUND_START   = "RoundStart"
	EVENT_SEAT_CLAIMED  = "SeatClaimed"
	EVENT_ELIMINATED    = "Eliminated"
	EVENT_WINNER        = "Winner"
	EVENT_GAME_FINISHED = "GameFinished"
)

type Event struct {
	EventType string `json:"event_type"`
	GameID    string `json:"game_id"`
	Data      any    `json:"data"`
}

type RoundStartEvent struct {
	Round   int `json:"round"`
	Chairs  int `json:"chairs"`
	Players int `json:"players"`
}

type SeatClaimedEvent struct {
	Round    int `json:"round"`
	PlayerID int `json:"player_id"`
}

type EliminatedEvent struct {
	Round     int `json:"round"`
	PlayerID  int `json:"player_id"`
	Remaining int `json:"remaining"`
}

type WinnerEvent struct {
	PlayerID int `json:"player_id"`
	Rounds   int `json:"rounds"`
}

type GameFinishedEvent struct {
	Rounds int `json:"rounds"`
}

// Announcer 接收游戏过程中的旁白事件，实现必须是并发安全的
type Announcer interface {
	Announce(evt Event)
}

type AnnouncerFunc func(evt Event)

func (f AnnouncerFunc) Announce(evt Event) {
	f(evt)
}

// MultiAnnouncer 将事件依次分发给多个 Announcer
type MultiAnnouncer []Announcer

func (ma MultiAnnouncer) Announce(evt Event) {
	for _, a := range ma {
		a.Announce(evt)
	}
}

// ConsoleAnnouncer 把事件渲染成人类可读的旁白
type ConsoleAnnouncer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleAnnouncer(w io.Writer) *ConsoleAnnouncer {
	return &ConsoleAnnouncer{w: w}
}

func (ca *ConsoleAnnouncer) Announce(evt Event) {
	line := Narrate(evt)
	if line == "" {
		return
	}

	ca.mu.Lock()
	defer ca.mu.Unlock()

	if _, err := fmt.Fprintln(ca.w, line); err != nil {
		zap.L().Warn("输出旁白失败", zap.Error(err))
	}
}

// Narrate 返回事件对应的旁白文本，未知事件返回空字符串
func Narrate(evt Event) string {
	switch data := evt.Data.(type) {
	case RoundStartEvent:
		return fmt.Sprintf(
			"第 %d 回合开始：%d 把椅子，剩余 %d 名玩家。",
			data.Round, data.Chairs, data.Players,
		)
	case SeatClaimedEvent:
		return fmt.Sprintf("玩家 %d 抢到了一把椅子。", data.PlayerID)
	case EliminatedEvent:
		return fmt.Sprintf("玩家 %d 被淘汰了。", data.PlayerID)
	case WinnerEvent:
		return fmt.Sprintf("胜者是玩家 %d！", data.PlayerID)
	case GameFinishedEvent:
		return "抢椅子游戏结束。"
	default:
		return ""
	}
}
