// internal/state/view.go
package state

import "github.com/thben/clearthedeck-client/internal/models"

// View is the UI-consumable projection of room and game state. The
// fields below the marker are derived: pure functions of the snapshot
// and the local player id, recomputed wholesale on every change and
// never patched incrementally.
type View struct {
	PlayerName  string
	PlayerID    string
	RoomCode    string
	Room        *models.Room
	Game        *models.GameSnapshot
	IsHost      bool
	GameStarted bool
	RoundResult *models.RoundResult // non-nil only between round end and next round start
	ErrorText   string              // advisory server-reported error

	// Derived.
	IsPlayerTurn        bool
	CurrentTurnPlayerID string
	Hand                []models.Card
	TableUp             []models.Card
	TableDown           []models.Card
	CenterPile          []models.Card
	CanFlip             bool
}
