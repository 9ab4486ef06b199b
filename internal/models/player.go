// internal/models/player.go
package models

// Player is one seat at the table as described by a server snapshot or
// room roster. TableCardsUp[i] conceals TableCardsDown[i]: the down card
// at an index only becomes playable once the up card at the same index
// is gone.
type Player struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Hand           []Card `json:"hand"`
	TableCardsUp   []Card `json:"tableCardsUp"`
	TableCardsDown []Card `json:"tableCardsDown"`
	RoundScore     int    `json:"roundScore"`
	TotalScore     int    `json:"totalScore"`
}

// PlayerRef identifies a player without carrying card state, e.g. the
// winner field of a round-end message.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerScore is one scoreboard row of a round result.
type PlayerScore struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RoundScore int    `json:"roundScore"`
	TotalScore int    `json:"totalScore"`
}
