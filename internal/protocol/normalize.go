// internal/protocol/normalize.go
package protocol

import (
	"encoding/json"
	"sort"

	"github.com/thben/clearthedeck-client/internal/models"
)

// Upstream payloads arrive with two field-naming conventions for the
// same entities: the lowercase JSON tags the server's serializer emits
// ("id", "hand") and the capitalized Go field names produced when a
// struct is marshaled without tags ("ID", "Hand"). Normalization
// coalesces both in one place on ingestion so nothing downstream has to
// care.

// NormalizePlayer maps one raw roster entry to a Player. Returns false
// for entries without a resolvable id, which are excluded from rosters.
// Missing card arrays default to empty and missing scores to zero.
func NormalizePlayer(raw json.RawMessage) (models.Player, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Player{}, false
	}

	id := pickString(fields, "id", "ID")
	if id == "" {
		return models.Player{}, false
	}

	return models.Player{
		ID:             id,
		Name:           pickString(fields, "name", "Name"),
		Hand:           pickCards(fields, "hand", "Hand"),
		TableCardsUp:   pickCards(fields, "tableCardsUp", "TableCardsUp"),
		TableCardsDown: pickCards(fields, "tableCardsDown", "TableCardsDown"),
		RoundScore:     pickInt(fields, "roundScore", "RoundScore"),
		TotalScore:     pickInt(fields, "totalScore", "TotalScore"),
	}, true
}

// NormalizeRoster maps a raw roster to an ordered player sequence.
// Rosters arrive either as JSON arrays (game snapshots, lobby
// broadcasts) or as objects keyed by player id (the server's room map);
// map-shaped rosters are ordered by id so repeated updates stay
// deterministic.
func NormalizeRoster(raw json.RawMessage) []models.Player {
	players := []models.Player{}
	if len(raw) == 0 {
		return players
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		for _, entry := range arr {
			if p, ok := NormalizePlayer(entry); ok {
				players = append(players, p)
			}
		}
		return players
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byID); err != nil {
		return players
	}
	keys := make([]string, 0, len(byID))
	for k := range byID {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if p, ok := NormalizePlayer(byID[k]); ok {
			players = append(players, p)
		}
	}
	return players
}

func normalizeCard(raw json.RawMessage) (models.Card, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.Card{}, false
	}
	id := pickString(fields, "id", "ID")
	if id == "" {
		return models.Card{}, false
	}
	return models.Card{
		ID:     id,
		Suit:   pickString(fields, "suit", "Suit"),
		Value:  pickString(fields, "value", "Value"),
		Hidden: pickBool(fields, "hidden", "Hidden"),
	}, true
}

func normalizeCards(raw json.RawMessage) []models.Card {
	cards := []models.Card{}
	if len(raw) == 0 {
		return cards
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return cards
	}
	for _, entry := range arr {
		if c, ok := normalizeCard(entry); ok {
			cards = append(cards, c)
		}
	}
	return cards
}

func pickRaw(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func pickString(fields map[string]json.RawMessage, keys ...string) string {
	raw, ok := pickRaw(fields, keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func pickInt(fields map[string]json.RawMessage, keys ...string) int {
	raw, ok := pickRaw(fields, keys...)
	if !ok {
		return 0
	}
	// JSON numbers may carry a fraction; tolerate it.
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return int(f)
}

func pickBool(fields map[string]json.RawMessage, keys ...string) bool {
	raw, ok := pickRaw(fields, keys...)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

func pickCards(fields map[string]json.RawMessage, keys ...string) []models.Card {
	raw, ok := pickRaw(fields, keys...)
	if !ok {
		return []models.Card{}
	}
	return normalizeCards(raw)
}
