// internal/protocol/intents.go
package protocol

import "strings"

// CreateRoomIntent asks the server to open a new room hosted by the
// named player.
type CreateRoomIntent struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName"`
}

// JoinRoomIntent asks to join an existing room by code.
type JoinRoomIntent struct {
	Type       string `json:"type"`
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// LeaveRoomIntent removes the player from the room.
type LeaveRoomIntent struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// StartGameIntent starts the game; the server only honors it from the
// host.
type StartGameIntent struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// NextRoundIntent deals the next round; host only.
type NextRoundIntent struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// PlayCardsIntent submits a play by card ids. AfterPickup marks a play
// made immediately after taking the center pile into hand.
type PlayCardsIntent struct {
	Type        string   `json:"type"`
	CardIDs     []string `json:"cardIds"`
	AfterPickup bool     `json:"afterPickup"`
}

// FlipFaceDownIntent reveals one face-down table card.
type FlipFaceDownIntent struct {
	Type   string `json:"type"`
	CardID string `json:"cardId"`
}

// CreateRoom builds a CREATE_ROOM intent.
func CreateRoom(playerName string) CreateRoomIntent {
	return CreateRoomIntent{Type: TypeCreateRoom, PlayerName: playerName}
}

// JoinRoom builds a JOIN_ROOM intent. Room codes are uppercased on the
// wire so entry is case-insensitive for the player.
func JoinRoom(roomCode, playerName string) JoinRoomIntent {
	return JoinRoomIntent{
		Type:       TypeJoinRoom,
		RoomCode:   strings.ToUpper(roomCode),
		PlayerName: playerName,
	}
}

// LeaveRoom builds a LEAVE_ROOM intent.
func LeaveRoom(roomCode, playerID string) LeaveRoomIntent {
	return LeaveRoomIntent{Type: TypeLeaveRoom, RoomCode: roomCode, PlayerID: playerID}
}

// StartGame builds a START_GAME intent.
func StartGame(roomCode, playerID string) StartGameIntent {
	return StartGameIntent{Type: TypeStartGame, RoomCode: roomCode, PlayerID: playerID}
}

// NextRound builds a NEXT_ROUND intent.
func NextRound(roomCode, playerID string) NextRoundIntent {
	return NextRoundIntent{Type: TypeNextRound, RoomCode: roomCode, PlayerID: playerID}
}

// PlayCards builds a PLAY_CARDS intent from the selected cards' ids.
func PlayCards(cardIDs []string, afterPickup bool) PlayCardsIntent {
	return PlayCardsIntent{Type: TypePlayCards, CardIDs: cardIDs, AfterPickup: afterPickup}
}

// FlipFaceDown builds a FLIP_FACE_DOWN intent.
func FlipFaceDown(cardID string) FlipFaceDownIntent {
	return FlipFaceDownIntent{Type: TypeFlipFaceDown, CardID: cardID}
}
