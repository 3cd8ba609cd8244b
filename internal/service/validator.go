package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks is the Combining Diacritical Marks block (U+0300..U+036F).
var combiningMarks = runes.In(&unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
})

// Normalize prepares a string for comparison: lowercase, decompose, drop
// combining diacritics, trim and collapse whitespace runs to one space.
// Cyrillic letters without diacritics pass through unchanged.
func Normalize(s string) string {
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFD, runes.Remove(combiningMarks))
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	return strings.Join(strings.Fields(s), " ")
}

// AnswerEvaluator decides whether an answer matches the expected text.
// Comparison is exact equality of normalized forms.
type AnswerEvaluator struct{}

// NewAnswerEvaluator creates a new AnswerEvaluator.
func NewAnswerEvaluator() *AnswerEvaluator {
	return &AnswerEvaluator{}
}

// IsCorrect checks a free-text answer (translation or missing word).
func (e *AnswerEvaluator) IsCorrect(input, expected string) bool {
	return Normalize(input) == Normalize(expected)
}

// IsCorrectOption checks a multiple choice selection. The option text is
// compared, not its position.
func (e *AnswerEvaluator) IsCorrectOption(options []string, selected int, expected string) bool {
	if selected < 0 || selected >= len(options) {
		return false
	}
	return Normalize(options[selected]) == Normalize(expected)
}

// IsSubmittable reports whether the input carries anything to evaluate.
func IsSubmittable(input string) bool {
	return strings.TrimSpace(input) != ""
}
