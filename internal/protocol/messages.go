// internal/protocol/messages.go

// Package protocol defines the JSON wire messages exchanged with the
// Clear the Deck game server and the normalization applied to inbound
// payloads.
package protocol

// Wire message type discriminators. Every frame is a JSON object with a
// "type" field holding one of these literals.
const (
	TypeCreateRoom   = "CREATE_ROOM"
	TypeRoomCreated  = "ROOM_CREATED"
	TypeJoinRoom     = "JOIN_ROOM"
	TypeRoomJoined   = "ROOM_JOINED"
	TypeLeaveRoom    = "LEAVE_ROOM"
	TypePlayerJoined = "PLAYER_JOINED"
	TypePlayerLeft   = "PLAYER_LEFT"
	TypeStartGame    = "START_GAME"
	TypeGameStarted  = "GAME_STARTED"
	TypePlayCards    = "PLAY_CARDS"
	TypeFlipFaceDown = "FLIP_FACE_DOWN"
	TypeGameUpdate   = "GAME_UPDATE"
	TypeRoundEnd     = "ROUND_END"
	TypeNextRound    = "NEXT_ROUND"
	TypeRoundStarted = "ROUND_STARTED"
	TypeGameEnd      = "GAME_END" // reserved; the current server never emits it
	TypeError        = "ERROR"
)
