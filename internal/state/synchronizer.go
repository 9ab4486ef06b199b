// internal/state/synchronizer.go

// Package state owns the canonical local view of room and game state,
// reduced from the server's message stream. Messages are applied one at
// a time to completion, so observers never see a partially updated
// view.
package state

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/thben/clearthedeck-client/internal/models"
	"github.com/thben/clearthedeck-client/internal/protocol"
	"github.com/thben/clearthedeck-client/internal/rules"
)

// Sender delivers serialized intents to the server. Satisfied by
// *transport.Manager.
type Sender interface {
	Send(v interface{}) error
}

// Synchronizer reduces inbound server messages into a View and builds
// the outbound intents. It never mutates a received snapshot; every
// update replaces state wholesale.
type Synchronizer struct {
	log      *logrus.Logger
	sender   Sender
	onChange func(View)

	mu   sync.Mutex
	view View
}

// New builds a synchronizer. onChange, when non-nil, receives a copy of
// the view after every state-affecting message or intent.
func New(sender Sender, logger *logrus.Logger, onChange func(View)) *Synchronizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Synchronizer{log: logger, sender: sender, onChange: onChange}
}

// SetSender installs the outbound channel after construction. The
// synchronizer and the transport reference each other, so one of the
// two is wired late.
func (s *Synchronizer) SetSender(sender Sender) {
	s.mu.Lock()
	s.sender = sender
	s.mu.Unlock()
}

// View returns a copy of the current view.
func (s *Synchronizer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// HandleMessage applies one inbound message. Unrecognized kinds are
// ignored; nothing here ever tears down the connection or panics over a
// bad message.
func (s *Synchronizer) HandleMessage(msg *protocol.ServerMessage) {
	if msg == nil {
		return
	}

	s.mu.Lock()
	switch msg.Type {
	case protocol.TypeRoomCreated:
		s.view.PlayerID = msg.PlayerID
		s.view.RoomCode = msg.RoomCode
		s.view.Room = msg.Room
		s.view.IsHost = true
		s.view.ErrorText = ""

	case protocol.TypeRoomJoined:
		s.view.PlayerID = msg.PlayerID
		s.view.Room = msg.Room
		s.view.IsHost = msg.Room != nil && msg.Room.HostID == msg.PlayerID
		if msg.Room != nil {
			s.view.RoomCode = msg.Room.Code
		}
		s.view.ErrorText = ""

	case protocol.TypePlayerJoined, protocol.TypePlayerLeft:
		s.view.Room = msg.Room

	case protocol.TypeGameStarted:
		s.view.GameStarted = true
		s.view.Game = msg.Game

	case protocol.TypeGameUpdate:
		s.view.Game = msg.Game

	case protocol.TypeRoundEnd:
		result := &models.RoundResult{
			Players:     msg.Scores,
			RoundNumber: msg.Round,
		}
		if msg.Winner != nil {
			result.Winner = *msg.Winner
		}
		s.view.RoundResult = result
		s.view.Game = msg.Game

	case protocol.TypeRoundStarted:
		s.view.RoundResult = nil
		s.view.Game = msg.Game

	case protocol.TypeError:
		s.view.ErrorText = msg.Message

	default:
		s.log.Debugf("ignoring message type %q", msg.Type)
		s.mu.Unlock()
		return
	}
	s.recomputeLocked()
	v := s.view
	s.mu.Unlock()

	s.emit(v)
}

// CreateRoom asks the server to open a room hosted by the named player.
func (s *Synchronizer) CreateRoom(playerName string) {
	s.mu.Lock()
	s.view.PlayerName = playerName
	s.view.ErrorText = ""
	v := s.view
	s.mu.Unlock()

	s.emit(v)
	s.send(protocol.CreateRoom(playerName))
}

// JoinRoom joins an existing room by code.
func (s *Synchronizer) JoinRoom(roomCode, playerName string) {
	s.mu.Lock()
	s.view.PlayerName = playerName
	s.view.RoomCode = strings.ToUpper(roomCode)
	s.view.ErrorText = ""
	v := s.view
	s.mu.Unlock()

	s.emit(v)
	s.send(protocol.JoinRoom(roomCode, playerName))
}

// LeaveRoom notifies the server and resets the whole view in one step:
// player id, room, host flag, game, round result and error all clear
// together.
func (s *Synchronizer) LeaveRoom() {
	s.mu.Lock()
	roomCode, playerID := s.view.RoomCode, s.view.PlayerID
	if roomCode == "" || playerID == "" {
		s.mu.Unlock()
		return
	}
	s.view = View{}
	v := s.view
	s.mu.Unlock()

	s.send(protocol.LeaveRoom(roomCode, playerID))
	s.emit(v)
}

// StartGame starts the game. Host only; ignored otherwise.
func (s *Synchronizer) StartGame() {
	s.mu.Lock()
	roomCode, playerID, isHost := s.view.RoomCode, s.view.PlayerID, s.view.IsHost
	s.mu.Unlock()
	if roomCode == "" || playerID == "" || !isHost {
		return
	}
	s.send(protocol.StartGame(roomCode, playerID))
}

// StartNextRound deals the next round. Host only; ignored otherwise.
func (s *Synchronizer) StartNextRound() {
	s.mu.Lock()
	roomCode, playerID, isHost := s.view.RoomCode, s.view.PlayerID, s.view.IsHost
	s.mu.Unlock()
	if roomCode == "" || playerID == "" || !isHost {
		return
	}
	s.send(protocol.NextRound(roomCode, playerID))
}

// PlayCards submits a play by card ids. The selection must be
// non-empty; legality is ultimately the server's call.
func (s *Synchronizer) PlayCards(cardIDs []string, afterPickup bool) {
	if len(cardIDs) == 0 {
		s.log.Warn("play intent without cards ignored")
		return
	}
	s.send(protocol.PlayCards(cardIDs, afterPickup))
}

// FlipFaceDown reveals one face-down table card.
func (s *Synchronizer) FlipFaceDown(cardID string) {
	if cardID == "" {
		return
	}
	s.send(protocol.FlipFaceDown(cardID))
}

// ClearError dismisses the advisory error text.
func (s *Synchronizer) ClearError() {
	s.mu.Lock()
	s.view.ErrorText = ""
	v := s.view
	s.mu.Unlock()
	s.emit(v)
}

// ValidatePlay runs the rule engine against the current snapshot for
// the local player. Advisory only; the server remains authoritative.
func (s *Synchronizer) ValidatePlay(selected []models.Card, afterPickup bool) rules.PlayResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view.Game == nil {
		return rules.PlayResult{Reason: rules.ReasonUnavailable}
	}
	for _, p := range s.view.Game.Players {
		if p.ID == s.view.PlayerID {
			return rules.CanPlayCards(p, selected, s.view.Game.CenterPile, afterPickup)
		}
	}
	return rules.PlayResult{Reason: rules.ReasonUnavailable}
}

// recomputeLocked rebuilds every derived field from the canonical
// snapshot. Derivation is total and idempotent; it never carries state
// over from the previous snapshot.
func (s *Synchronizer) recomputeLocked() {
	v := &s.view
	v.IsPlayerTurn = false
	v.CurrentTurnPlayerID = ""
	v.Hand = nil
	v.TableUp = nil
	v.TableDown = nil
	v.CenterPile = nil
	v.CanFlip = false

	game := v.Game
	if game == nil {
		return
	}
	if current, ok := rules.CurrentPlayer(game); ok {
		v.CurrentTurnPlayerID = current.ID
		v.IsPlayerTurn = v.PlayerID != "" && current.ID == v.PlayerID
	}
	v.CenterPile = game.CenterPile
	for _, p := range game.Players {
		if p.ID == v.PlayerID {
			v.Hand = p.Hand
			v.TableUp = p.TableCardsUp
			v.TableDown = p.TableCardsDown
			v.CanFlip = rules.CanFlipFaceDown(p)
			break
		}
	}
}

func (s *Synchronizer) emit(v View) {
	if s.onChange != nil {
		s.onChange(v)
	}
}

func (s *Synchronizer) send(v interface{}) {
	s.mu.Lock()
	sender := s.sender
	s.mu.Unlock()
	if sender == nil {
		s.log.Warn("intent dropped: no transport attached")
		return
	}
	if err := sender.Send(v); err != nil {
		// Dropped intents are not retried; the player re-issues once the
		// link is back.
		s.log.WithError(err).Warn("intent not sent")
	}
}
