package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

// DefaultQuestionSeconds is the per-question countdown budget.
const DefaultQuestionSeconds = 30

const defaultReportTimeout = 10 * time.Second

// QuestionSource supplies the ordered question list for a game.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, gameID int) ([]domain.Question, error)
}

// ResultReporter submits a finished session's final tally. Best-effort: the
// session never blocks on it and never retries.
type ResultReporter interface {
	ReportResult(ctx context.Context, gameID, correctAnswers, questionsAnswered int) error
}

// Phase is the session's lifecycle state.
type Phase int

const (
	// PhaseLoading holds until the question set has been fetched.
	PhaseLoading Phase = iota
	// PhaseAnswering is the countdown window for the current question.
	PhaseAnswering
	// PhaseRevealed shows the outcome of the current question; input locked.
	PhaseRevealed
	// PhaseFinished is terminal: all questions played, result reported.
	PhaseFinished
	// PhaseAbandoned is terminal: the player left; nothing is reported.
	PhaseAbandoned
	// PhaseFailed is terminal: the question set never loaded.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAnswering:
		return "answering"
	case PhaseRevealed:
		return "revealed"
	case PhaseFinished:
		return "finished"
	case PhaseAbandoned:
		return "abandoned"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseAbandoned || p == PhaseFailed
}

// Snapshot is a read-only view of the session, published to subscribers on
// every transition.
type Snapshot struct {
	Phase         Phase
	Index         int
	Total         int
	TimeRemaining int
	Selected      string
	HasSelection  bool
	Tally         int
	Question      domain.Question
}

// Session drives one playthrough of a fixed, ordered question list: countdown
// per question, single answer per question, running tally, and a one-shot
// result report on completion. All events (ticks, selections, advances,
// abandonment) serialize through one mutex, so no two transitions ever race.
type Session struct {
	gameID    int
	source    QuestionSource
	reporter  ResultReporter
	budget    int
	tickEvery time.Duration
	log       zerolog.Logger

	mu           sync.Mutex
	phase        Phase
	questions    []domain.Question
	index        int
	remaining    int
	selected     string
	hasSelection bool
	tally        int
	reported     bool
	timerGen     int
	timerStop    chan struct{}
	subscribers  map[chan Snapshot]struct{}
}

// Option customizes a Session.
type Option func(*Session)

// WithQuestionSeconds overrides the per-question countdown budget.
func WithQuestionSeconds(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.budget = seconds
		}
	}
}

// WithTickInterval overrides how often the countdown decrements. The default
// is one second; tests stretch it so ticks only arrive when injected.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickEvery = d
		}
	}
}

// WithLogger attaches a logger for report failures.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log.With().Str("component", "session").Logger()
	}
}

// New creates a session for one game. It stays in PhaseLoading until Start.
func New(gameID int, source QuestionSource, reporter ResultReporter, opts ...Option) *Session {
	s := &Session{
		gameID:      gameID,
		source:      source,
		reporter:    reporter,
		budget:      DefaultQuestionSeconds,
		tickEvery:   time.Second,
		log:         zerolog.Nop(),
		phase:       PhaseLoading,
		subscribers: make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start fetches the question set and, on success, enters the first question's
// countdown. A fetch failure, an empty list, or corrupt question data leaves
// the session in PhaseFailed and returns a *domain.FetchError.
func (s *Session) Start(ctx context.Context) error {
	questions, err := s.source.FetchQuestions(ctx, s.gameID)
	if err == nil && len(questions) == 0 {
		err = domain.ErrNoQuestions
	}
	if err == nil {
		for _, q := range questions {
			if verr := q.Validate(); verr != nil {
				err = verr
				break
			}
		}
	}

	s.mu.Lock()
	if s.phase != PhaseLoading {
		s.mu.Unlock()
		return domain.ErrSessionOver
	}
	if err != nil {
		s.phase = PhaseFailed
		s.broadcastLocked()
		s.mu.Unlock()
		return &domain.FetchError{GameID: s.gameID, Err: err}
	}
	s.questions = questions
	s.enterQuestionLocked(0)
	s.mu.Unlock()
	return nil
}

// SelectAnswer records the player's choice for the current question, scores it
// by exact string equality, and reveals the outcome. Selections arriving in
// any other phase are silent no-ops; stale UI events must never corrupt the
// tally.
func (s *Session) SelectAnswer(answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAnswering {
		return
	}
	s.selected = answer
	s.hasSelection = true
	if answer == s.questions[s.index].CorrectAnswer {
		s.tally++
	}
	s.revealLocked()
}

// Advance moves past a revealed question: on to the next countdown, or into
// PhaseFinished after the last question. Finishing reports the final tally
// exactly once, asynchronously; a no-op in every other phase.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRevealed {
		return
	}
	if s.index+1 < len(s.questions) {
		s.enterQuestionLocked(s.index + 1)
		return
	}
	s.phase = PhaseFinished
	s.broadcastLocked()
	if !s.reported {
		s.reported = true
		go s.report(s.tally, len(s.questions))
	}
}

// Abandon ends the session without reporting anything. Idempotent; stops the
// countdown deterministically.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Terminal() {
		return
	}
	s.stopTimerLocked()
	s.phase = PhaseAbandoned
	s.broadcastLocked()
}

// Close releases the session's timer resource on external teardown. A session
// that has not finished is abandoned.
func (s *Session) Close() {
	s.Abandon()
}

// Snapshot returns the current read-only view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every transition,
// starting with the current state. The caller must invoke the returned cancel
// function to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// enterQuestionLocked arms question i: full budget, cleared selection, fresh
// timer generation.
func (s *Session) enterQuestionLocked(i int) {
	s.stopTimerLocked()
	s.phase = PhaseAnswering
	s.index = i
	s.remaining = s.budget
	s.selected = ""
	s.hasSelection = false
	s.timerGen++
	s.timerStop = make(chan struct{})
	go s.runTimer(s.timerGen, s.timerStop)
	s.broadcastLocked()
}

// revealLocked freezes the countdown and shows the outcome.
func (s *Session) revealLocked() {
	s.stopTimerLocked()
	s.phase = PhaseRevealed
	s.broadcastLocked()
}

func (s *Session) stopTimerLocked() {
	if s.timerStop != nil {
		close(s.timerStop)
		s.timerStop = nil
	}
}

func (s *Session) runTimer(gen int, stop <-chan struct{}) {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick(gen)
		}
	}
}

// tick decrements the countdown. A tick stamped with a stale generation, or
// arriving outside PhaseAnswering, changes nothing: the timer goroutine may
// already have a tick queued when a selection flips the phase.
func (s *Session) tick(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAnswering || gen != s.timerGen {
		return
	}
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		// Expiry: revealed with no selection, tally untouched.
		s.revealLocked()
		return
	}
	s.broadcastLocked()
}

func (s *Session) report(tally, total int) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultReportTimeout)
	defer cancel()
	if err := s.reporter.ReportResult(ctx, s.gameID, tally, total); err != nil {
		rerr := &domain.ReportError{GameID: s.gameID, Err: err}
		s.log.Error().Err(rerr).Int("tally", tally).Int("total", total).
			Msg("result report failed; score already shown to player")
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:         s.phase,
		Index:         s.index,
		Total:         len(s.questions),
		TimeRemaining: s.remaining,
		Selected:      s.selected,
		HasSelection:  s.hasSelection,
		Tally:         s.tally,
	}
	if s.phase == PhaseAnswering || s.phase == PhaseRevealed {
		snap.Question = s.questions[s.index]
	}
	return snap
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
