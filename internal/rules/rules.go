// internal/rules/rules.go

// Package rules implements the card-play legality checks for Clear the
// Deck. Everything here is stateless and advisory: the server remains
// the authority on every play, these helpers only drive optimistic
// validation and control enabling on the client.
package rules

import (
	"fmt"

	"github.com/thben/clearthedeck-client/internal/models"
)

// WildValue is the face of the wild card: a ten is always legal to play
// and always clears the pile, granting the acting player another turn.
const WildValue = "10"

// setSize is the minimum contiguous same-face run that clears the pile.
const setSize = 4

// Rejection reasons returned in PlayResult.Reason. These are shown to
// the player verbatim, so they are phrased as user-facing text.
const (
	ReasonNoSelection = "No cards selected"
	ReasonMixedValues = "Cards must have the same value"
	ReasonUnavailable = "Selected cards not available"
)

// PlayResult reports the outcome of a legality check. Rule violations
// are results, never errors: callers decide whether to block the action
// or merely warn.
type PlayResult struct {
	Valid    bool   // the play may be submitted
	Reason   string // rejection reason when !Valid
	Clear    bool   // the play clears the center pile
	KeepTurn bool   // the acting player plays again
	Message  string // announcement text for a clearing play

	// TableOverplay marks a legal play sourced from face-up table cards
	// while the hand still holds cards, going over the pile's top value.
	// Informational only; it never affects legality.
	TableOverplay bool
}

// Rank maps a card's face token to its ordinal: A=1 through K=13.
// Unknown or absent faces (concealed face-down cards) rank 0.
func Rank(c models.Card) int {
	switch c.Value {
	case "A":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	case "10":
		return 10
	case "J":
		return 11
	case "Q":
		return 12
	case "K":
		return 13
	default:
		return 0
	}
}

// Points returns the end-of-round point value of a card. Equal to Rank
// for every face except the wild ten, which scores 20.
func Points(c models.Card) int {
	if c.Value == WildValue {
		return 20
	}
	return Rank(c)
}

// HandPoints sums Points over a sequence of cards.
func HandPoints(cards []models.Card) int {
	total := 0
	for _, c := range cards {
		total += Points(c)
	}
	return total
}

// PlayerPoints sums Points over everything a player still holds: hand,
// face-up and face-down table cards.
func PlayerPoints(p models.Player) int {
	return HandPoints(p.Hand) + HandPoints(p.TableCardsUp) + HandPoints(p.TableCardsDown)
}

// SameValue reports whether all cards share one face token. Vacuously
// true for zero or one cards.
func SameValue(cards []models.Card) bool {
	if len(cards) <= 1 {
		return true
	}
	first := cards[0].Value
	for _, c := range cards[1:] {
		if c.Value != first {
			return false
		}
	}
	return true
}

// topRunLength counts how many cards from the top of the pile downward
// share the top card's face.
func topRunLength(pile []models.Card) int {
	if len(pile) == 0 {
		return 0
	}
	top := pile[len(pile)-1].Value
	run := 1
	for i := len(pile) - 2; i >= 0; i-- {
		if pile[i].Value != top {
			break
		}
		run++
	}
	return run
}

// IsValidPlay checks whether the selected cards may be played onto the
// center pile. Any single-face selection is legal: a higher-than-top
// play simply stays on the pile and ends the turn without clearing.
// Wild tens and plays completing a four-of-a-kind run clear the pile and
// keep the turn. afterPickup relaxes nothing further since every
// selection is already accepted; it is kept so callers can thread the
// server's play mode through unchanged.
func IsValidPlay(selected, centerPile []models.Card, afterPickup bool) PlayResult {
	if len(selected) == 0 {
		return PlayResult{Reason: ReasonNoSelection}
	}
	if !SameValue(selected) {
		return PlayResult{Reason: ReasonMixedValues}
	}

	if selected[0].Value == WildValue {
		return PlayResult{
			Valid:    true,
			Clear:    true,
			KeepTurn: true,
			Message:  "Wild ten clears the pile",
		}
	}

	// Hypothetical pile after the play; a completed run of four or more
	// clears it.
	combined := make([]models.Card, 0, len(centerPile)+len(selected))
	combined = append(combined, centerPile...)
	combined = append(combined, selected...)
	if run := topRunLength(combined); run >= setSize {
		return PlayResult{
			Valid:    true,
			Clear:    true,
			KeepTurn: true,
			Message:  fmt.Sprintf("%d %ss clear the pile", run, selected[0].Value),
		}
	}

	return PlayResult{Valid: true}
}

// DetectSet reports whether the top four or more cards of the pile,
// contiguous from the top, share one face.
func DetectSet(centerPile []models.Card) bool {
	if len(centerPile) < setSize {
		return false
	}
	return topRunLength(centerPile) >= setSize
}

// CanPlayCards checks a selection against what the player actually
// holds before delegating to IsValidPlay. Selected ids must all be
// present across the player's hand and table cards.
func CanPlayCards(player models.Player, selected, centerPile []models.Card, afterPickup bool) PlayResult {
	if len(selected) == 0 {
		return PlayResult{Reason: ReasonNoSelection}
	}

	available := make(map[string]bool, len(player.Hand)+len(player.TableCardsUp)+len(player.TableCardsDown))
	for _, c := range player.Hand {
		available[c.ID] = true
	}
	for _, c := range player.TableCardsUp {
		available[c.ID] = true
	}
	for _, c := range player.TableCardsDown {
		available[c.ID] = true
	}
	for _, c := range selected {
		if !available[c.ID] {
			return PlayResult{Reason: ReasonUnavailable}
		}
	}

	res := IsValidPlay(selected, centerPile, afterPickup)
	if res.Valid && !res.Clear && len(player.Hand) > 0 &&
		allFromTableUp(player, selected) && overValue(selected, centerPile) {
		res.TableOverplay = true
	}
	return res
}

func allFromTableUp(player models.Player, selected []models.Card) bool {
	up := make(map[string]bool, len(player.TableCardsUp))
	for _, c := range player.TableCardsUp {
		up[c.ID] = true
	}
	for _, c := range selected {
		if !up[c.ID] {
			return false
		}
	}
	return len(selected) > 0
}

func overValue(selected, centerPile []models.Card) bool {
	if len(centerPile) == 0 || len(selected) == 0 {
		return false
	}
	return Rank(selected[0]) > Rank(centerPile[len(centerPile)-1])
}

// CanFlipFaceDown reports whether the player may flip a face-down table
// card: only once both the hand and the face-up table cards are
// exhausted, and a face-down card remains.
func CanFlipFaceDown(player models.Player) bool {
	return len(player.Hand) == 0 &&
		len(player.TableCardsUp) == 0 &&
		len(player.TableCardsDown) > 0
}

// IsPlayerTurn reports whether playerID is the snapshot's current
// player.
func IsPlayerTurn(game *models.GameSnapshot, playerID string) bool {
	if playerID == "" {
		return false
	}
	current, ok := CurrentPlayer(game)
	return ok && current.ID == playerID
}

// CurrentPlayer returns the player the snapshot's turn pointer
// designates, if the index is in range.
func CurrentPlayer(game *models.GameSnapshot) (models.Player, bool) {
	if game == nil || game.CurrentPlayerIndex < 0 || game.CurrentPlayerIndex >= len(game.Players) {
		return models.Player{}, false
	}
	return game.Players[game.CurrentPlayerIndex], true
}
