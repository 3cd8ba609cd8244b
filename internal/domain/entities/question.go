package entities

// Question is the transient per-item scratch state of a drill.
// It is rebuilt for every item and never persisted.
type Question struct {
	Item     VocabularyItem
	Mode     GameMode
	Prompt   string   // text shown to the learner (with a blank in missing-word mode)
	Hint     string   // other side of the pair, shown in missing-word mode
	Expected string   // answer compared against the learner's input
	Options  []string // multiple choice only, already shuffled
	Position int      // zero-based position in the drill sequence
}

// Outcome is the verdict of one validated item.
type Outcome struct {
	Correct  bool
	Given    string
	Expected string
	Record   PerformanceRecord // record after the attempt was applied
}

// SessionSummary reports the running score of a session.
type SessionSummary struct {
	Length   int // items in the drill sequence
	Answered int // validated items
	Correct  int // correctly answered items
}

// Accuracy returns the share of correct answers in percent.
func (s SessionSummary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered) * 100
}
