package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// GameState 保存回合的权威状态，所有计数器由同一把锁保护
type GameState struct {
	mu sync.Mutex

	gameID    string
	announcer Announcer

	round           int
	activePlayers   int
	chairsTotal     int
	chairsRemaining int
	seatsClaimed    int
	eliminated      map[int]bool
}

type StateSnapshot struct {
	Round           int `json:"round"`
	ActivePlayers   int `json:"active_players"`
	ChairsTotal     int `json:"chairs_total"`
	ChairsRemaining int `json:"chairs_remaining"`
	SeatsClaimed    int `json:"seats_claimed"`
}

// NewGameState 创建 players 名玩家、players-1 把椅子的初始状态
func NewGameState(gameID string, players int, announcer Announcer) *GameState {
	if announcer == nil {
		announcer = MultiAnnouncer(nil)
	}

	return &GameState{
		gameID:        gameID,
		announcer:     announcer,
		activePlayers: players,
		chairsTotal:   players - 1,
		eliminated:    make(map[int]bool, players),
	}
}

// StartRound 只能由协调者在没有玩家抢座时调用
func (gs *GameState) StartRound() (RoundStartEvent, error) {
	gs.mu.Lock()

	if gs.chairsTotal != gs.activePlayers-1 {
		err := fmt.Errorf(
			"%w: 第 %d 回合开始前有 %d 把椅子、%d 名玩家",
			ErrInvariantViolation, gs.round+1, gs.chairsTotal, gs.activePlayers,
		)
		gs.mu.Unlock()
		return RoundStartEvent{}, err
	}

	gs.round++
	gs.chairsRemaining = gs.chairsTotal
	gs.seatsClaimed = 0

	evt := RoundStartEvent{
		Round:   gs.round,
		Chairs:  gs.chairsRemaining,
		Players: gs.activePlayers,
	}

	gs.mu.Unlock()

	gs.emit(EVENT_ROUND_START, evt)

	return evt, nil
}

// TryClaimSeat 是每回合唯一的竞争点，谁先拿到锁谁先坐下
func (gs *GameState) TryClaimSeat() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.chairsRemaining <= 0 {
		return false
	}

	gs.chairsRemaining--
	gs.seatsClaimed++

	return true
}

// Eliminate 将活跃玩家数减一，同一玩家重复淘汰会返回 ErrAlreadyEliminated
func (gs *GameState) Eliminate(playerID int) error {
	gs.mu.Lock()

	if gs.eliminated[playerID] {
		gs.mu.Unlock()
		return fmt.Errorf("%w: 玩家 %d", ErrAlreadyEliminated, playerID)
	}

	if gs.activePlayers <= 0 {
		gs.mu.Unlock()
		return fmt.Errorf("%w: 没有可以淘汰的玩家", ErrInvariantViolation)
	}

	gs.eliminated[playerID] = true
	gs.activePlayers--

	evt := EliminatedEvent{
		Round:     gs.round,
		PlayerID:  playerID,
		Remaining: gs.activePlayers,
	}

	gs.mu.Unlock()

	gs.emit(EVENT_ELIMINATED, evt)

	return nil
}

func (gs *GameState) GameOver() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return gs.activePlayers <= 1
}

// ShrinkChairs 在本回合淘汰结算完成后移除一把椅子
func (gs *GameState) ShrinkChairs() error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.chairsTotal <= 0 {
		return fmt.Errorf("%w: 椅子数量已经为 0", ErrInvariantViolation)
	}

	gs.chairsTotal--

	return nil
}

func (gs *GameState) ActivePlayers() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return gs.activePlayers
}

func (gs *GameState) Snapshot() StateSnapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return StateSnapshot{
		Round:           gs.round,
		ActivePlayers:   gs.activePlayers,
		ChairsTotal:     gs.chairsTotal,
		ChairsRemaining: gs.chairsRemaining,
		SeatsClaimed:    gs.seatsClaimed,
	}
}

func (gs *GameState) emit(eventType string, data any) {
	zap.L().Debug(
		"游戏事件",
		zap.String("game_id", gs.gameID),
		zap.String("event_type", eventType),
		zap.Any("data", data),
	)

	gs.announcer.Announce(Event{
		EventType: eventType,
		GameID:    gs.gameID,
		Data:      data,
	})
}
