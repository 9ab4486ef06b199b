// internal/rules/cards.go
package rules

import (
	"sort"

	"github.com/thben/clearthedeck-client/internal/models"
)

var suitOrder = map[string]int{
	models.SuitHearts:   0,
	models.SuitDiamonds: 1,
	models.SuitClubs:    2,
	models.SuitSpades:   3,
}

// SortCards returns a copy sorted by rank low to high, then by suit.
func SortCards(cards []models.Card) []models.Card {
	sorted := make([]models.Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := Rank(sorted[i]), Rank(sorted[j])
		if ri != rj {
			return ri < rj
		}
		return suitOrder[sorted[i].Suit] < suitOrder[sorted[j].Suit]
	})
	return sorted
}

// GroupByValue buckets cards by face token, preserving order within each
// bucket.
func GroupByValue(cards []models.Card) map[string][]models.Card {
	groups := make(map[string][]models.Card)
	for _, c := range cards {
		groups[c.Value] = append(groups[c.Value], c)
	}
	return groups
}

// ClearingPlays returns the same-value groups among the available cards
// that would clear the center pile if played whole: any group of wild
// tens, and any group completing a run of four or more on top of the
// pile. Every group is legal to play; these are the ones worth
// suggesting.
func ClearingPlays(available, centerPile []models.Card) [][]models.Card {
	var plays [][]models.Card
	for _, group := range GroupByValue(available) {
		res := IsValidPlay(group, centerPile, false)
		if res.Valid && res.Clear {
			plays = append(plays, SortCards(group))
		}
	}
	sort.Slice(plays, func(i, j int) bool {
		return Rank(plays[i][0]) < Rank(plays[j][0])
	})
	return plays
}
