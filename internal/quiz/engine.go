package quiz

import (
	"sync"
	"time"
)

// Phase is the session state: a question is open, the answer is being
// revealed, or the game is over.
type Phase int

const (
	PhaseAwaitingAnswer Phase = iota
	PhaseRevealing
	PhaseFinished
)

// NoAnswer is the sentinel choice recorded when the countdown expires
// before the player picks an option. It never matches a correct index.
const NoAnswer = -1

type Question struct {
	ID       int
	Prompt   string
	Options  []string
	Correct  int
	Category string
}

type Config struct {
	QuestionTime time.Duration
	RevealDelay  time.Duration
	Points       int
}

// DefaultConfig mirrors the production timings: 15 seconds per question,
// a 2 second reveal window, 10 points per correct answer.
func DefaultConfig() Config {
	return Config{
		QuestionTime: 15 * time.Second,
		RevealDelay:  2 * time.Second,
		Points:       10,
	}
}

// Hooks are invoked outside the engine lock, so they may call back into
// the engine freely.
type Hooks struct {
	// OnQuestion fires when a question becomes active and its countdown starts.
	OnQuestion func(index int, q Question)
	// OnReveal fires when an answer (or timeout) is recorded.
	OnReveal func(index int, q Question, choice int, correct bool)
	// OnFinished fires once, after the last question's reveal.
	OnFinished func(score, correctCount int)
}

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	Index        int
	Total        int
	Choice       int
	Score        int
	CorrectCount int
	Phase        Phase
}

// Engine runs one quiz session as a small state machine:
// AwaitingAnswer -> Revealing -> (AwaitingAnswer | Finished).
// All timer callbacks carry the generation they were armed in and bail
// out if the session has moved on, so a timer firing after Stop or after
// an advance can never mutate state.
type Engine struct {
	mu        sync.Mutex
	questions []Question
	cfg       Config
	hooks     Hooks

	index        int
	choice       int
	score        int
	correctCount int
	phase        Phase

	gen     int
	started bool
	stopped bool

	questionTimer *time.Timer
	revealTimer   *time.Timer
}

func NewEngine(questions []Question, cfg Config, hooks Hooks) *Engine {
	if cfg.QuestionTime <= 0 {
		cfg.QuestionTime = DefaultConfig().QuestionTime
	}
	if cfg.RevealDelay <= 0 {
		cfg.RevealDelay = DefaultConfig().RevealDelay
	}
	if cfg.Points <= 0 {
		cfg.Points = DefaultConfig().Points
	}
	return &Engine{
		questions: questions,
		cfg:       cfg,
		hooks:     hooks,
		choice:    NoAnswer,
	}
}

// Start begins the session at the first question. Calling it again on a
// running session is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.started || e.stopped || len(e.questions) == 0 {
		e.mu.Unlock()
		return
	}
	e.started = true
	fire := e.beginQuestionLocked(0)
	e.mu.Unlock()

	fire()
}

// SubmitAnswer records the player's choice for the open question and
// moves to the reveal. It reports whether the answer was accepted;
// submissions outside AwaitingAnswer are ignored.
func (e *Engine) SubmitAnswer(choice int) bool {
	e.mu.Lock()
	accepted, fire := e.submitLocked(choice)
	e.mu.Unlock()

	if fire != nil {
		fire()
	}
	return accepted
}

// Restart resets a finished session back to the first question.
func (e *Engine) Restart() bool {
	e.mu.Lock()
	if e.stopped || e.phase != PhaseFinished {
		e.mu.Unlock()
		return false
	}
	e.score = 0
	e.correctCount = 0
	fire := e.beginQuestionLocked(0)
	e.mu.Unlock()

	fire()
	return true
}

// Stop tears the session down and cancels all pending timers. No hook
// fires after Stop returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopped = true
	e.gen++
	if e.questionTimer != nil {
		e.questionTimer.Stop()
	}
	if e.revealTimer != nil {
		e.revealTimer.Stop()
	}
}

// Snapshot returns a copy of the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		Index:        e.index,
		Total:        len(e.questions),
		Choice:       e.choice,
		Score:        e.score,
		CorrectCount: e.correctCount,
		Phase:        e.phase,
	}
}

// CurrentQuestion returns the question the session is on.
func (e *Engine) CurrentQuestion() Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.questions[e.index]
}

// beginQuestionLocked activates the question at index and arms its
// countdown. It returns the hook to fire after unlocking.
func (e *Engine) beginQuestionLocked(index int) func() {
	e.index = index
	e.choice = NoAnswer
	e.phase = PhaseAwaitingAnswer
	e.gen++
	gen := e.gen

	if e.questionTimer != nil {
		e.questionTimer.Stop()
	}
	e.questionTimer = time.AfterFunc(e.cfg.QuestionTime, func() {
		e.timeout(gen)
	})

	q := e.questions[index]
	hook := e.hooks.OnQuestion
	return func() {
		if hook != nil {
			hook(index, q)
		}
	}
}

func (e *Engine) submitLocked(choice int) (bool, func()) {
	if e.stopped || !e.started || e.phase != PhaseAwaitingAnswer {
		return false, nil
	}

	if e.questionTimer != nil {
		e.questionTimer.Stop()
	}

	q := e.questions[e.index]
	e.choice = choice
	correct := choice == q.Correct
	if correct {
		e.score += e.cfg.Points
		e.correctCount++
	}

	e.phase = PhaseRevealing
	e.gen++
	gen := e.gen
	e.revealTimer = time.AfterFunc(e.cfg.RevealDelay, func() {
		e.advance(gen)
	})

	index := e.index
	hook := e.hooks.OnReveal
	return true, func() {
		if hook != nil {
			hook(index, q, choice, correct)
		}
	}
}

// timeout is the countdown firing: equivalent to submitting NoAnswer.
func (e *Engine) timeout(gen int) {
	e.mu.Lock()
	if e.stopped || gen != e.gen || e.phase != PhaseAwaitingAnswer {
		e.mu.Unlock()
		return
	}
	_, fire := e.submitLocked(NoAnswer)
	e.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// advance ends the reveal: next question, or Finished after the last one.
func (e *Engine) advance(gen int) {
	e.mu.Lock()
	if e.stopped || gen != e.gen || e.phase != PhaseRevealing {
		e.mu.Unlock()
		return
	}

	if e.index >= len(e.questions)-1 {
		e.phase = PhaseFinished
		e.gen++
		score, correct := e.score, e.correctCount
		hook := e.hooks.OnFinished
		e.mu.Unlock()

		if hook != nil {
			hook(score, correct)
		}
		return
	}

	fire := e.beginQuestionLocked(e.index + 1)
	e.mu.Unlock()

	fire()
}
