package service

import (
	"math/rand"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

const (
	// OptionsCount is the number of multiple choice options shown.
	OptionsCount = 4
	distractors  = OptionsCount - 1
)

// OptionGenerator generates multiple choice options for drill questions.
type OptionGenerator struct {
	rng *rand.Rand
}

// NewOptionGenerator creates a new option generator.
func NewOptionGenerator(rng *rand.Rand) *OptionGenerator {
	return &OptionGenerator{rng: rng}
}

// GenerateOptions creates up to 4 options containing the correct answer once.
// Returns the shuffled options and the index of the correct answer.
//
// Distractors are the answer side of other catalog items, drawn uniformly
// without repetition. Texts that normalize to the correct answer or to an
// already chosen distractor are skipped. With fewer than 3 usable items in
// the catalog the option list is shorter.
func (g *OptionGenerator) GenerateOptions(
	correct entities.VocabularyItem,
	direction entities.Direction,
	catalog []entities.VocabularyItem,
) ([]string, int) {
	correctAnswer := correct.Answer(direction)

	wrongOptions := g.generateWrongOptions(correctAnswer, direction, catalog, distractors)

	options := make([]string, 0, len(wrongOptions)+1)
	options = append(options, correctAnswer)
	options = append(options, wrongOptions...)

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, o := range options {
		if o == correctAnswer {
			correctIndex = i
			break
		}
	}

	return options, correctIndex
}

// generateWrongOptions picks distinct distractors different from the correct answer.
func (g *OptionGenerator) generateWrongOptions(
	correctAnswer string,
	direction entities.Direction,
	catalog []entities.VocabularyItem,
	count int,
) []string {
	wrongOptions := make([]string, 0, count)
	used := map[string]struct{}{Normalize(correctAnswer): {}}

	for _, i := range g.rng.Perm(len(catalog)) {
		if len(wrongOptions) >= count {
			break
		}

		text := catalog[i].Answer(direction)
		key := Normalize(text)
		if key == "" {
			continue
		}
		if _, dup := used[key]; dup {
			continue
		}

		used[key] = struct{}{}
		wrongOptions = append(wrongOptions, text)
	}

	return wrongOptions
}
