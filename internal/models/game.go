// internal/models/game.go
package models

// GameSnapshot is one complete server-pushed description of game state.
// The server is the sole source of truth: a snapshot always replaces the
// previous one wholesale and is never mutated locally.
type GameSnapshot struct {
	Players            []Player `json:"players"`
	CenterPile         []Card   `json:"centerPile"` // bottom-to-top
	CurrentPlayerIndex int      `json:"currentPlayerIndex"`
	DealerIndex        int      `json:"dealerIndex"`
	DiscardCount       int      `json:"discardCount"` // cards cleared out of play
	Round              int      `json:"round"`
}

// RoundResult is present only between a round-end and the next
// round-start; its presence gates the scoreboard overlay.
type RoundResult struct {
	Winner      PlayerRef     `json:"winner"`
	Players     []PlayerScore `json:"players"`
	RoundNumber int           `json:"roundNumber"`
}
