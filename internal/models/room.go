// internal/models/room.go
package models

// Room is the lobby-phase roster for one room code.
type Room struct {
	Code        string   `json:"code"`
	HostID      string   `json:"hostId"`
	Players     []Player `json:"players"`
	PlayerCount int      `json:"playerCount"`
}
