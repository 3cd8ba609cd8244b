package service

import (
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Blank replaces the hidden word in a missing-word prompt.
const Blank = "_____"

// MissingWord is a sentence with one word blanked out.
type MissingWord struct {
	Display string // sentence shown to the learner
	Hidden  string // word the learner has to type, empty if the sentence has no words
}

// MissingWordGenerator hides one word of a sentence.
type MissingWordGenerator struct {
	rng *rand.Rand
}

// NewMissingWordGenerator creates a new MissingWordGenerator.
func NewMissingWordGenerator(rng *rand.Rand) *MissingWordGenerator {
	return &MissingWordGenerator{rng: rng}
}

// Generate picks a random eligible word (longer than one character, no
// punctuation) or the first word when none is eligible, and blanks its
// first case-insensitive whole-word occurrence.
func (g *MissingWordGenerator) Generate(sentence string) MissingWord {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return MissingWord{Display: sentence}
	}

	eligible := make([]string, 0, len(words))
	for _, w := range words {
		if isEligibleWord(w) {
			eligible = append(eligible, w)
		}
	}

	hidden := words[0]
	if len(eligible) > 0 {
		hidden = eligible[g.rng.Intn(len(eligible))]
	}

	return MissingWord{
		Display: blankFirst(sentence, hidden),
		Hidden:  hidden,
	}
}

func isEligibleWord(w string) bool {
	return utf8.RuneCountInString(w) > 1 && !strings.ContainsAny(w, ".,!?;:")
}

// blankFirst replaces the first whole-word occurrence of word, ignoring case.
// Word boundaries are Unicode aware so Cyrillic words are matched too.
func blankFirst(sentence, word string) string {
	re, err := regexp.Compile(`(?i)(^|[^\p{L}\p{N}_])(` + regexp.QuoteMeta(word) + `)($|[^\p{L}\p{N}_])`)
	if err == nil {
		if loc := re.FindStringSubmatchIndex(sentence); loc != nil {
			return sentence[:loc[4]] + Blank + sentence[loc[5]:]
		}
	}

	// The word starts or ends with a non-word character, so there is no
	// boundary to anchor on. It is still a field of the sentence.
	if i := strings.Index(sentence, word); i >= 0 {
		return sentence[:i] + Blank + sentence[i+len(word):]
	}

	return sentence
}
