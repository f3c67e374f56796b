package dto

type CreateGameRequest struct {
	Players int `json:"players"`
}

type CreateGameResponse struct {
	GameID  string `json:"game_id"`
	Players int    `json:"players"`
}

type GameSummary struct {
	GameID   string `json:"game_id"`
	Stage    string `json:"stage"`
	Finished bool   `json:"finished"`

	Round           int `json:"round"`
	ActivePlayers   int `json:"active_players"`
	ChairsTotal     int `json:"chairs_total"`
	ChairsRemaining int `json:"chairs_remaining"`

	Players []PlayerStatus `json:"players"`

	// 仅在游戏正常结束后有值
	Winner       int   `json:"winner,omitempty"`
	Rounds       int   `json:"rounds,omitempty"`
	Eliminations []int `json:"eliminations,omitempty"`

	ErrMsg string `json:"error_message,omitempty"`
}
