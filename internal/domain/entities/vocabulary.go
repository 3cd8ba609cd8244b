// Package entities contains domain entities used across the application.
package entities

// itemKeySeparator joins both sides of a pair into its statistics key.
const itemKeySeparator = "|"

// VocabularyItem is one Russian/French pair from the catalog.
// Items are loaded once at startup and never mutated.
type VocabularyItem struct {
	Russian string `json:"russian"` // Cyrillic side of the pair
	French  string `json:"french"`  // Latin side of the pair
}

// NewVocabularyItem creates a new pair.
func NewVocabularyItem(russian, french string) VocabularyItem {
	return VocabularyItem{Russian: russian, French: french}
}

// Key returns the statistics identity of the pair ("russian|french").
// The key does not depend on the drill direction.
func (v VocabularyItem) Key() string {
	return v.Russian + itemKeySeparator + v.French
}

// Prompt returns the side shown to the learner for the given direction.
func (v VocabularyItem) Prompt(d Direction) string {
	if d == DirectionRuFr {
		return v.Russian
	}
	return v.French
}

// Answer returns the side the learner is expected to produce.
func (v VocabularyItem) Answer(d Direction) string {
	if d == DirectionRuFr {
		return v.French
	}
	return v.Russian
}
