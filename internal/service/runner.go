package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

var (
	ErrAlreadyValidated = errors.New("item already validated")
	ErrNotValidated     = errors.New("item not validated yet")
	ErrNoNextItem       = errors.New("no next item")
	ErrEmptyAnswer      = errors.New("answer is empty")
	ErrInvalidOption    = errors.New("invalid option")
	ErrModeMismatch     = errors.New("answer kind does not match game mode")
)

// ItemState is the per-item state of a drill.
type ItemState int

const (
	StateUnanswered ItemState = iota
	StateValidated
)

// SessionRunner walks a drill sequence one item at a time.
// Each item moves from StateUnanswered to StateValidated exactly once, and
// every validation is written through to the stats store.
type SessionRunner struct {
	cfg      entities.SessionConfig
	sequence []entities.VocabularyItem
	catalog  []entities.VocabularyItem
	stats    StatsRecorder

	evaluator *AnswerEvaluator
	options   *OptionGenerator
	missing   *MissingWordGenerator
	now       func() time.Time

	mu       sync.Mutex
	position int
	state    ItemState
	question *entities.Question
	outcome  *entities.Outcome
	answered int
	correct  int
}

// NewSessionRunner creates a runner positioned on the first item.
// The catalog is the distractor pool for multiple choice questions.
func NewSessionRunner(
	cfg entities.SessionConfig,
	sequence []entities.VocabularyItem,
	catalog []entities.VocabularyItem,
	stats StatsRecorder,
	rng *rand.Rand,
) *SessionRunner {
	return &SessionRunner{
		cfg:       cfg,
		sequence:  sequence,
		catalog:   catalog,
		stats:     stats,
		evaluator: NewAnswerEvaluator(),
		options:   NewOptionGenerator(rng),
		missing:   NewMissingWordGenerator(rng),
		now:       time.Now,
	}
}

func (r *SessionRunner) Config() entities.SessionConfig {
	return r.cfg
}

// Len returns the length of the drill sequence.
func (r *SessionRunner) Len() int {
	return len(r.sequence)
}

func (r *SessionRunner) Position() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position
}

func (r *SessionRunner) State() ItemState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// HasNext reports whether another item follows the current one.
func (r *SessionRunner) HasNext() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.position+1 < len(r.sequence)
}

// Current returns the question for the current item, preparing its
// scratch state on first access.
func (r *SessionRunner) Current() entities.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.current()
}

// Outcome returns the verdict of the current item once it is validated.
func (r *SessionRunner) Outcome() (entities.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome == nil {
		return entities.Outcome{}, false
	}
	return *r.outcome, true
}

// SubmitText validates a typed answer in translation or missing-word mode.
func (r *SessionRunner) SubmitText(ctx context.Context, input string) (entities.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.GameMode == entities.ModeMultipleChoice {
		return entities.Outcome{}, ErrModeMismatch
	}
	if r.state == StateValidated {
		return entities.Outcome{}, ErrAlreadyValidated
	}
	if !IsSubmittable(input) {
		return entities.Outcome{}, ErrEmptyAnswer
	}

	q := r.current()
	if q.Expected == "" {
		return entities.Outcome{}, ErrEmptyAnswer
	}

	correct := r.evaluator.IsCorrect(input, q.Expected)
	return r.validate(ctx, q, input, correct), nil
}

// SubmitOption validates a multiple choice selection.
func (r *SessionRunner) SubmitOption(ctx context.Context, index int) (entities.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.GameMode != entities.ModeMultipleChoice {
		return entities.Outcome{}, ErrModeMismatch
	}
	if r.state == StateValidated {
		return entities.Outcome{}, ErrAlreadyValidated
	}

	q := r.current()
	if index < 0 || index >= len(q.Options) {
		return entities.Outcome{}, ErrInvalidOption
	}

	correct := r.evaluator.IsCorrectOption(q.Options, index, q.Expected)
	return r.validate(ctx, q, q.Options[index], correct), nil
}

// Next moves to the following item and resets the per-item state.
func (r *SessionRunner) Next() (entities.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateValidated {
		return entities.Question{}, ErrNotValidated
	}
	if r.position+1 >= len(r.sequence) {
		return entities.Question{}, ErrNoNextItem
	}

	r.position++
	r.state = StateUnanswered
	r.question = nil
	r.outcome = nil

	return *r.current(), nil
}

// Finished reports whether the last item has been validated.
func (r *SessionRunner) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateValidated && r.position+1 >= len(r.sequence)
}

func (r *SessionRunner) Summary() entities.SessionSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return entities.SessionSummary{
		Length:   len(r.sequence),
		Answered: r.answered,
		Correct:  r.correct,
	}
}

func (r *SessionRunner) validate(
	ctx context.Context,
	q *entities.Question,
	given string,
	correct bool,
) entities.Outcome {
	record := r.stats.RecordAttempt(ctx, q.Item, correct, r.now())

	r.state = StateValidated
	r.answered++
	if correct {
		r.correct++
	}

	r.outcome = &entities.Outcome{
		Correct:  correct,
		Given:    given,
		Expected: q.Expected,
		Record:   record,
	}

	return *r.outcome
}

func (r *SessionRunner) current() *entities.Question {
	if r.question != nil {
		return r.question
	}

	item := r.sequence[r.position]
	q := &entities.Question{
		Item:     item,
		Mode:     r.cfg.GameMode,
		Prompt:   item.Prompt(r.cfg.Direction),
		Expected: item.Answer(r.cfg.Direction),
		Position: r.position,
	}

	switch r.cfg.GameMode {
	case entities.ModeMultipleChoice:
		q.Options, _ = r.options.GenerateOptions(item, r.cfg.Direction, r.catalog)
	case entities.ModeMissingWord:
		mw := r.missing.Generate(q.Prompt)
		q.Hint = q.Expected
		q.Prompt = mw.Display
		q.Expected = mw.Hidden
	}

	r.question = q
	return q
}
