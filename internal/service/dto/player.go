package dto

// 对局中玩家的当前状态，被淘汰的玩家也会保留
type PlayerStatus struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}
