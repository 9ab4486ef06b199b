// internal/models/card.go
package models

import "strconv"

// Suit names as emitted by the server.
const (
	SuitHearts   = "Hearts"
	SuitDiamonds = "Diamonds"
	SuitClubs    = "Clubs"
	SuitSpades   = "Spades"
)

// Card is a single playing card. Identity is the ID, which is unique
// within a game; Value and Suit are absent on concealed face-down cards,
// which arrive from the server as {id, hidden}.
type Card struct {
	ID     string `json:"id"`
	Suit   string `json:"suit,omitempty"`   // Hearts, Diamonds, Clubs, Spades
	Value  string `json:"value,omitempty"`  // A, 2-10, J, Q, K
	Hidden bool   `json:"hidden,omitempty"` // true for concealed face-down cards
}

var valueNames = map[string]string{
	"A": "Ace", "2": "Two", "3": "Three", "4": "Four", "5": "Five",
	"6": "Six", "7": "Seven", "8": "Eight", "9": "Nine", "10": "Ten",
	"J": "Jack", "Q": "Queen", "K": "King",
}

var suitSymbols = map[string]string{
	SuitHearts:   "♥",
	SuitDiamonds: "♦",
	SuitClubs:    "♣",
	SuitSpades:   "♠",
}

// DisplayName returns the long form of a card, e.g. "Ace of Hearts".
func (c Card) DisplayName() string {
	name, ok := valueNames[c.Value]
	if !ok {
		name = c.Value
	}
	return name + " of " + c.Suit
}

// ShortName returns the compact form of a card, e.g. "A♥".
func (c Card) ShortName() string {
	return c.Value + suitSymbols[c.Suit]
}

// Color returns "red" for hearts and diamonds, "black" otherwise.
func (c Card) Color() string {
	if c.Suit == SuitHearts || c.Suit == SuitDiamonds {
		return "red"
	}
	return "black"
}

// FormatCardCount renders a card count for display ("No cards", "1 card",
// "5 cards").
func FormatCardCount(count int) string {
	switch count {
	case 0:
		return "No cards"
	case 1:
		return "1 card"
	default:
		return strconv.Itoa(count) + " cards"
	}
}
