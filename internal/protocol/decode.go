// internal/protocol/decode.go
package protocol

import (
	"encoding/json"
	"errors"

	"github.com/thben/clearthedeck-client/internal/models"
)

// ErrMissingType is returned for frames without a "type" discriminator.
var ErrMissingType = errors.New("protocol: message has no type")

// ServerMessage is a decoded inbound frame. Only the fields relevant to
// the message's Type are populated; the rest stay at their zero values.
type ServerMessage struct {
	Type     string
	PlayerID string
	RoomCode string
	Message  string // error text for ERROR messages

	Room   *models.Room
	Game   *models.GameSnapshot
	Winner *models.PlayerRef
	Scores []models.PlayerScore
	Round  int
}

type rawMessage struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"playerId"`
	RoomCode string          `json:"roomCode"`
	Message  string          `json:"message"`
	Room     json.RawMessage `json:"room"`
	Game     json.RawMessage `json:"game"`
	Winner   json.RawMessage `json:"winner"`
	Scores   json.RawMessage `json:"scores"`
	Round    int             `json:"round"`
}

// Decode parses one inbound frame. Payload sections are normalized as
// they are decoded; sections that fail to parse are left nil rather
// than failing the whole frame.
func Decode(data []byte) (*ServerMessage, error) {
	var raw rawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Type == "" {
		return nil, ErrMissingType
	}

	msg := &ServerMessage{
		Type:     raw.Type,
		PlayerID: raw.PlayerID,
		RoomCode: raw.RoomCode,
		Message:  raw.Message,
		Round:    raw.Round,
	}
	if len(raw.Room) > 0 && string(raw.Room) != "null" {
		msg.Room = decodeRoom(raw.Room)
	}
	if len(raw.Game) > 0 && string(raw.Game) != "null" {
		msg.Game = decodeGame(raw.Game)
	}
	if len(raw.Winner) > 0 && string(raw.Winner) != "null" {
		if p, ok := NormalizePlayer(raw.Winner); ok {
			msg.Winner = &models.PlayerRef{ID: p.ID, Name: p.Name}
		}
	}
	if len(raw.Scores) > 0 && string(raw.Scores) != "null" {
		msg.Scores = decodeScores(raw.Scores)
	}
	return msg, nil
}

func decodeRoom(raw json.RawMessage) *models.Room {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	room := &models.Room{
		Code:        pickString(fields, "code", "Code"),
		HostID:      pickString(fields, "hostId", "HostID"),
		PlayerCount: pickInt(fields, "playerCount", "PlayerCount"),
	}
	if roster, ok := pickRaw(fields, "players", "Players"); ok {
		room.Players = NormalizeRoster(roster)
	} else {
		room.Players = []models.Player{}
	}
	if room.PlayerCount == 0 {
		room.PlayerCount = len(room.Players)
	}
	return room
}

func decodeGame(raw json.RawMessage) *models.GameSnapshot {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	game := &models.GameSnapshot{
		CurrentPlayerIndex: pickInt(fields, "currentPlayerIndex", "CurrentPlayerIndex"),
		DealerIndex:        pickInt(fields, "dealerIndex", "DealerIndex"),
		DiscardCount:       pickInt(fields, "discardCount", "DiscardCount"),
		Round:              pickInt(fields, "round", "Round"),
	}
	if roster, ok := pickRaw(fields, "players", "Players"); ok {
		game.Players = NormalizeRoster(roster)
	} else {
		game.Players = []models.Player{}
	}
	game.CenterPile = pickCards(fields, "centerPile", "CenterPile")
	return game
}

func decodeScores(raw json.RawMessage) []models.PlayerScore {
	players := NormalizeRoster(raw)
	scores := make([]models.PlayerScore, 0, len(players))
	for _, p := range players {
		scores = append(scores, models.PlayerScore{
			ID:         p.ID,
			Name:       p.Name,
			RoundScore: p.RoundScore,
			TotalScore: p.TotalScore,
		})
	}
	return scores
}
