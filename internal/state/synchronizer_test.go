// internal/state/synchronizer_test.go
package state

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thben/clearthedeck-client/internal/models"
	"github.com/thben/clearthedeck-client/internal/protocol"
	"github.com/thben/clearthedeck-client/internal/rules"
)

// fakeSender records every intent instead of writing to a socket.
type fakeSender struct {
	mu   sync.Mutex
	sent []interface{}
	err  error
}

func (f *fakeSender) Send(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, v)
	return nil
}

func (f *fakeSender) last() interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestSynchronizer() (*Synchronizer, *fakeSender) {
	sender := &fakeSender{}
	return New(sender, quietLogger(), nil), sender
}

// handle decodes a wire frame and applies it, so tests exercise the
// same path as live traffic.
func handle(t *testing.T, s *Synchronizer, frame string) {
	t.Helper()
	msg, err := protocol.Decode([]byte(frame))
	require.NoError(t, err)
	s.HandleMessage(msg)
}

const roomCreatedFrame = `{
	"type": "ROOM_CREATED",
	"playerId": "p1",
	"roomCode": "ROOM1",
	"room": {"code": "ROOM1", "hostId": "p1", "players": [{"id": "p1", "name": "Alice"}]}
}`

func TestRoomCreated(t *testing.T) {
	s, _ := newTestSynchronizer()
	handle(t, s, `{"type":"ERROR","message":"stale"}`)
	handle(t, s, roomCreatedFrame)

	v := s.View()
	assert.Equal(t, "p1", v.PlayerID)
	assert.Equal(t, "ROOM1", v.RoomCode)
	assert.True(t, v.IsHost)
	require.NotNil(t, v.Room)
	assert.Equal(t, "ROOM1", v.Room.Code)
	assert.Empty(t, v.ErrorText, "room creation clears the error")
}

func TestRoomJoinedHostFlag(t *testing.T) {
	s, _ := newTestSynchronizer()
	handle(t, s, `{
		"type": "ROOM_JOINED",
		"playerId": "p2",
		"room": {"code": "ROOM1", "hostId": "p1", "players": [
			{"id": "p1", "name": "Alice"}, {"id": "p2", "name": "Bob"}
		]}
	}`)

	v := s.View()
	assert.Equal(t, "p2", v.PlayerID)
	assert.False(t, v.IsHost)
	assert.Equal(t, "ROOM1", v.RoomCode)

	// The host joining their own room gets the flag.
	s2, _ := newTestSynchronizer()
	handle(t, s2, `{
		"type": "ROOM_JOINED",
		"playerId": "p1",
		"room": {"code": "ROOM1", "hostId": "p1", "players": [{"id": "p1", "name": "Alice"}]}
	}`)
	assert.True(t, s2.View().IsHost)
}

func TestRosterReplacement(t *testing.T) {
	s, _ := newTestSynchronizer()
	handle(t, s, roomCreatedFrame)
	handle(t, s, `{
		"type": "PLAYER_JOINED",
		"room": {"code": "ROOM1", "hostId": "p1", "players": [
			{"id": "p1", "name": "Alice"}, {"id": "p2", "name": "Bob"}
		]}
	}`)
	require.Len(t, s.View().Room.Players, 2)

	handle(t, s, `{
		"type": "PLAYER_LEFT",
		"room": {"code": "ROOM1", "hostId": "p1", "players": [{"id": "p1", "name": "Alice"}]}
	}`)
	require.Len(t, s.View().Room.Players, 1)
	assert.Equal(t, "p1", s.View().Room.Players[0].ID)
}

func TestGameStartedAndTurnDerivation(t *testing.T) {
	s, _ := newTestSynchronizer()
	handle(t, s, roomCreatedFrame)
	handle(t, s, `{
		"type": "GAME_STARTED",
		"game": {
			"players": [{"id": "p1", "name": "Alice"}, {"id": "p2", "name": "Bob"}],
			"centerPile": [],
			"currentPlayerIndex": 0
		}
	}`)

	v := s.View()
	assert.True(t, v.GameStarted)
	assert.True(t, v.IsPlayerTurn)
	assert.Equal(t, "p1", v.CurrentTurnPlayerID)

	handle(t, s, `{
		"type": "GAME_UPDATE",
		"game": {
			"players": [{"id": "p1"}, {"id": "p2"}],
			"centerPile": [{"id": "c1", "suit": "Hearts", "value": "5"}],
			"currentPlayerIndex": 1
		}
	}`)
	v = s.View()
	assert.False(t, v.IsPlayerTurn)
	assert.Equal(t, "p2", v.CurrentTurnPlayerID)
	require.Len(t, v.CenterPile, 1)

	// Out-of-range turn pointer derives no current player.
	handle(t, s, `{
		"type": "GAME_UPDATE",
		"game": {"players": [{"id": "p1"}], "centerPile": [], "currentPlayerIndex": 7}
	}`)
	v = s.View()
	assert.False(t, v.IsPlayerTurn)
	assert.Empty(t, v.CurrentTurnPlayerID)
}

func TestLocalPlayerShortcutsAndCanFlip(t *testing.T) {
	s, _ := newTestSynchronizer()
	handle(t, s, roomCreatedFrame)
	handle(t, s, `{
		"type": "GAME_UPDATE",
		"game": {
			"players": [{
				"id": "p1",
				"hand": [],
				"tableCardsUp": [],
				"tableCardsDown": [{"id": "d1", "hidden": true}]
			}],
			"centerPile": [],
			"currentPlayerIndex": 0
		}
	}`)

	v := s.View()
	assert.Empty(t, v.Hand)
	assert.Empty(t, v.TableUp)
	require.Len(t, v.TableDown, 1)
	assert.True(t, v.CanFlip, "hand and table-up exhausted, face-down remains")

	handle(t, s, `{
		"type": "GAME_UPDATE",
		"game": {
			"players": [{
				"id": "p1",
				"hand": [{"id": "c9", "suit": "Clubs", "value": "9"}],
				"tableCardsDown": [{"id": "d1", "hidden": true}]
			}],
			"centerPile": [],
			"currentPlayerIndex": 0
		}
	}`)
	assert.False(t, s.View().CanFlip, "a card still in hand blocks flipping")
}

func TestRoundEndThenRoundStarted(t *testing.T) {
	s, _ := newTestSynchronizer()
	handle(t, s, roomCreatedFrame)
	handle(t, s, `{
		"type": "ROUND_END",
		"winner": {"id": "p1", "name": "Alice"},
		"scores": [
			{"id": "p1", "name": "Alice", "roundScore": 0, "totalScore": 0},
			{"id": "p2", "name": "Bob", "roundScore": 24, "totalScore": 24}
		],
		"round": 1,
		"game": {"players": [{"id": "p1"}, {"id": "p2"}], "centerPile": [], "currentPlayerIndex": 0}
	}`)

	v := s.View()
	require.NotNil(t, v.RoundResult)
	assert.Equal(t, 1, v.RoundResult.RoundNumber)
	assert.Equal(t, "p1", v.RoundResult.Winner.ID)
	require.Len(t, v.RoundResult.Players, 2)
	assert.Equal(t, 24, v.RoundResult.Players[1].TotalScore)
	require.NotNil(t, v.Game)

	handle(t, s, `{
		"type": "ROUND_STARTED",
		"game": {"players": [{"id": "p1"}, {"id": "p2"}], "centerPile": [], "currentPlayerIndex": 1, "round": 2}
	}`)
	v = s.View()
	assert.Nil(t, v.RoundResult, "round start dismisses the scoreboard")
	assert.Equal(t, 2, v.Game.Round)
}

func TestServerErrorIsNonFatal(t *testing.T) {
	s, _ := newTestSynchronizer()
	handle(t, s, roomCreatedFrame)
	handle(t, s, `{"type":"ERROR","message":"Only host can start the game"}`)

	v := s.View()
	assert.Equal(t, "Only host can start the game", v.ErrorText)
	assert.NotNil(t, v.Room, "error messages leave room state untouched")

	s.ClearError()
	assert.Empty(t, s.View().ErrorText)
}

func TestUnrecognizedKindIgnored(t *testing.T) {
	s, _ := newTestSynchronizer()
	handle(t, s, roomCreatedFrame)
	before := s.View()
	handle(t, s, `{"type":"SOMETHING_NEW","payload":123}`)
	assert.Equal(t, before, s.View())

	// GAME_END is reserved but unhandled today.
	handle(t, s, `{"type":"GAME_END"}`)
	assert.Equal(t, before, s.View())
}

func TestIntents(t *testing.T) {
	s, sender := newTestSynchronizer()

	s.CreateRoom("Alice")
	require.Equal(t, protocol.CreateRoom("Alice"), sender.last())
	assert.Equal(t, "Alice", s.View().PlayerName)

	s.JoinRoom("room1", "Bob")
	join, ok := sender.last().(protocol.JoinRoomIntent)
	require.True(t, ok)
	assert.Equal(t, "ROOM1", join.RoomCode)

	s.PlayCards([]string{"c1", "c2"}, true)
	play, ok := sender.last().(protocol.PlayCardsIntent)
	require.True(t, ok)
	assert.Equal(t, []string{"c1", "c2"}, play.CardIDs)
	assert.True(t, play.AfterPickup)

	n := sender.count()
	s.PlayCards(nil, false)
	assert.Equal(t, n, sender.count(), "empty selection sends nothing")

	s.FlipFaceDown("d1")
	assert.Equal(t, protocol.FlipFaceDown("d1"), sender.last())
}

func TestStartGameIsHostGated(t *testing.T) {
	s, sender := newTestSynchronizer()
	handle(t, s, `{
		"type": "ROOM_JOINED",
		"playerId": "p2",
		"room": {"code": "ROOM1", "hostId": "p1", "players": [{"id": "p1"}, {"id": "p2"}]}
	}`)

	s.StartGame()
	s.StartNextRound()
	assert.Equal(t, 0, sender.count(), "non-host intents are suppressed")

	s2, sender2 := newTestSynchronizer()
	handle(t, s2, roomCreatedFrame)
	s2.StartGame()
	require.Equal(t, 1, sender2.count())
	assert.Equal(t, protocol.StartGame("ROOM1", "p1"), sender2.last())
	s2.StartNextRound()
	assert.Equal(t, protocol.NextRound("ROOM1", "p1"), sender2.last())
}

func TestLeaveRoomResetsEverything(t *testing.T) {
	s, sender := newTestSynchronizer()
	handle(t, s, roomCreatedFrame)
	handle(t, s, `{
		"type": "GAME_STARTED",
		"game": {"players": [{"id": "p1"}], "centerPile": [], "currentPlayerIndex": 0}
	}`)
	handle(t, s, `{"type":"ERROR","message":"x"}`)

	s.LeaveRoom()
	assert.Equal(t, protocol.LeaveRoom("ROOM1", "p1"), sender.last())
	assert.Equal(t, View{}, s.View(), "leave resets the entire view atomically")

	// Without a room there is nothing to leave.
	n := sender.count()
	s.LeaveRoom()
	assert.Equal(t, n, sender.count())
}

func TestValidatePlay(t *testing.T) {
	s, _ := newTestSynchronizer()
	selected := []models.Card{{ID: "c1", Suit: models.SuitHearts, Value: "10"}}

	res := s.ValidatePlay(selected, false)
	assert.False(t, res.Valid, "no game installed yet")

	handle(t, s, roomCreatedFrame)
	handle(t, s, `{
		"type": "GAME_STARTED",
		"game": {
			"players": [{"id": "p1", "hand": [{"id": "c1", "suit": "Hearts", "value": "10"}]}],
			"centerPile": [{"id": "c2", "suit": "Clubs", "value": "K"}],
			"currentPlayerIndex": 0
		}
	}`)

	res = s.ValidatePlay(selected, false)
	assert.True(t, res.Valid)
	assert.True(t, res.Clear, "wild ten clears")
	assert.True(t, res.KeepTurn)

	res = s.ValidatePlay([]models.Card{{ID: "nope", Value: "2"}}, false)
	assert.Equal(t, rules.ReasonUnavailable, res.Reason)
}

func TestOnChangeDeliversCopies(t *testing.T) {
	var mu sync.Mutex
	var seen []View
	sender := &fakeSender{}
	s := New(sender, quietLogger(), func(v View) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	handle(t, s, roomCreatedFrame)
	handle(t, s, `{"type":"ERROR","message":"x"}`)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsHost)
	assert.Empty(t, seen[0].ErrorText)
	assert.Equal(t, "x", seen[1].ErrorText)
}

func TestSendFailureLeavesStateUsable(t *testing.T) {
	sender := &fakeSender{err: assert.AnError}
	s := New(sender, quietLogger(), nil)

	s.CreateRoom("Alice")
	assert.Equal(t, "Alice", s.View().PlayerName, "a dropped intent does not corrupt the view")
}
