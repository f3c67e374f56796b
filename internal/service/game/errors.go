package game

import "errors"

var (
	// ErrInvariantViolation 表示游戏内部状态不一致，属于程序错误，游戏会立即中止
	ErrInvariantViolation = errors.New("游戏状态不变量被破坏")
	ErrAlreadyEliminated  = errors.New("玩家已经被淘汰")
	ErrNoWinner           = errors.New("游戏结束时没有唯一的胜者")
	ErrTooFewPlayers      = errors.New("玩家数量至少为 2")
)
