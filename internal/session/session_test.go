package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

// quietTick keeps the real ticker from firing so tests inject ticks directly.
const quietTick = time.Hour

func TestPlaythroughScoresAndReportsOnce(t *testing.T) {
	reporter := newRecordingReporter()
	s := New(7, staticSource(threeQuestions()), reporter, WithTickInterval(quietTick))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	s.SelectAnswer("Right 1") // correct
	s.Advance()
	s.SelectAnswer("Right 2") // correct
	s.Advance()
	s.SelectAnswer("Wrong 3") // wrong
	s.Advance()

	snap := s.Snapshot()
	if snap.Phase != PhaseFinished {
		t.Fatalf("expected finished, got %s", snap.Phase)
	}
	if snap.Tally != 2 {
		t.Fatalf("expected tally 2, got %d", snap.Tally)
	}

	call := reporter.wait(t)
	if call.gameID != 7 || call.correct != 2 || call.total != 3 {
		t.Fatalf("unexpected report %+v", call)
	}
	if n := reporter.count(); n != 1 {
		t.Fatalf("expected exactly one report, got %d", n)
	}
}

func TestExpiryRevealsWithoutSelection(t *testing.T) {
	reporter := newRecordingReporter()
	s := New(1, staticSource(threeQuestions()[:1]), reporter,
		WithTickInterval(quietTick), WithQuestionSeconds(2))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	drain(s, 2)

	snap := s.Snapshot()
	if snap.Phase != PhaseRevealed {
		t.Fatalf("expected revealed after expiry, got %s", snap.Phase)
	}
	if snap.HasSelection || snap.Selected != "" {
		t.Fatalf("expected no selection recorded, got %+v", snap)
	}
	if snap.Tally != 0 {
		t.Fatalf("expected tally 0, got %d", snap.Tally)
	}

	s.Advance()
	call := reporter.wait(t)
	if call.correct != 0 || call.total != 1 {
		t.Fatalf("unexpected report %+v", call)
	}
}

func TestAbandonNeverReports(t *testing.T) {
	reporter := newRecordingReporter()
	s := New(2, staticSource(threeQuestions()[:2]), reporter, WithTickInterval(quietTick))

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.SelectAnswer("Right 1")
	s.Advance()
	s.Abandon()

	if got := s.Snapshot().Phase; got != PhaseAbandoned {
		t.Fatalf("expected abandoned, got %s", got)
	}

	// Advancing or selecting after the end must change nothing.
	s.Advance()
	s.SelectAnswer("Right 2")
	if got := s.Snapshot(); got.Phase != PhaseAbandoned || got.Tally != 1 {
		t.Fatalf("terminal state mutated: %+v", got)
	}

	time.Sleep(20 * time.Millisecond)
	if n := reporter.count(); n != 0 {
		t.Fatalf("abandoned session reported %d times", n)
	}
}

func TestEmptyQuestionListFailsLoading(t *testing.T) {
	reporter := newRecordingReporter()
	s := New(3, staticSource(nil), reporter, WithTickInterval(quietTick))

	err := s.Start(context.Background())
	var ferr *domain.FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions cause, got %v", err)
	}
	if got := s.Snapshot().Phase; got != PhaseFailed {
		t.Fatalf("expected failed, got %s", got)
	}
	// No timer was ever armed.
	s.mu.Lock()
	armed := s.timerStop != nil
	s.mu.Unlock()
	if armed {
		t.Fatal("timer armed for a failed session")
	}
}

func TestFetchFailureFailsLoading(t *testing.T) {
	boom := errors.New("backend down")
	s := New(4, sourceFunc(func(context.Context, int) ([]domain.Question, error) {
		return nil, boom
	}), newRecordingReporter(), WithTickInterval(quietTick))

	err := s.Start(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch cause, got %v", err)
	}
	if got := s.Snapshot().Phase; got != PhaseFailed {
		t.Fatalf("expected failed, got %s", got)
	}
}

func TestInvalidQuestionDataRejected(t *testing.T) {
	bad := threeQuestions()[:1]
	bad[0].CorrectAnswer = "not a choice"
	s := New(5, staticSource(bad), newRecordingReporter(), WithTickInterval(quietTick))

	if err := s.Start(context.Background()); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestStaleTickAfterSelectionIsNoOp(t *testing.T) {
	s := New(6, staticSource(threeQuestions()[:1]), newRecordingReporter(), WithTickInterval(quietTick))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	staleGen := currentGen(s)
	s.SelectAnswer("Right 1")
	before := s.Snapshot()

	// The queued tick fires after the selection already revealed the result.
	s.tick(staleGen)

	after := s.Snapshot()
	if after.TimeRemaining != before.TimeRemaining || after.Tally != before.Tally {
		t.Fatalf("stale tick mutated state: before %+v after %+v", before, after)
	}
	if after.Phase != PhaseRevealed {
		t.Fatalf("expected revealed, got %s", after.Phase)
	}
}

func TestStaleTickFromPreviousQuestionIsNoOp(t *testing.T) {
	s := New(6, staticSource(threeQuestions()), newRecordingReporter(), WithTickInterval(quietTick))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	staleGen := currentGen(s)
	s.SelectAnswer("Right 1")
	s.Advance()

	full := s.Snapshot().TimeRemaining
	s.tick(staleGen)
	if got := s.Snapshot().TimeRemaining; got != full {
		t.Fatalf("stale tick decremented new question: %d != %d", got, full)
	}
}

func TestCountdownResetsOnAdvance(t *testing.T) {
	s := New(8, staticSource(threeQuestions()), newRecordingReporter(),
		WithTickInterval(quietTick), WithQuestionSeconds(10))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	drain(s, 3)
	if got := s.Snapshot().TimeRemaining; got != 7 {
		t.Fatalf("expected 7 remaining, got %d", got)
	}

	s.SelectAnswer("Wrong 1")
	s.Advance()

	snap := s.Snapshot()
	if snap.Index != 1 || snap.TimeRemaining != 10 {
		t.Fatalf("expected fresh budget on question 2, got %+v", snap)
	}
	if snap.HasSelection {
		t.Fatal("selection carried over into next question")
	}
}

func TestSelectionLockedOnceRevealed(t *testing.T) {
	s := New(9, staticSource(threeQuestions()[:1]), newRecordingReporter(), WithTickInterval(quietTick))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	s.SelectAnswer("Wrong 1")
	s.SelectAnswer("Right 1") // too late
	snap := s.Snapshot()
	if snap.Selected != "Wrong 1" || snap.Tally != 0 {
		t.Fatalf("revealed selection mutated: %+v", snap)
	}
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	s := New(10, staticSource(threeQuestions()[:1]), newRecordingReporter(), WithTickInterval(quietTick))
	ch, cancel := s.Subscribe()
	defer cancel()

	<-ch // initial loading snapshot

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap := <-ch
	if snap.Phase != PhaseAnswering || snap.TimeRemaining != DefaultQuestionSeconds {
		t.Fatalf("unexpected first transition %+v", snap)
	}

	s.SelectAnswer("Right 1")
	snap = <-ch
	if snap.Phase != PhaseRevealed || snap.Tally != 1 {
		t.Fatalf("unexpected reveal snapshot %+v", snap)
	}
}

func TestTickerDrivesCountdown(t *testing.T) {
	s := New(11, staticSource(threeQuestions()[:1]), newRecordingReporter(),
		WithTickInterval(time.Millisecond), WithQuestionSeconds(3))
	ch, cancel := s.Subscribe()
	defer cancel()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.Phase == PhaseRevealed {
				if snap.TimeRemaining != 0 || snap.HasSelection {
					t.Fatalf("unexpected expiry snapshot %+v", snap)
				}
				return
			}
		case <-deadline:
			t.Fatal("countdown never expired")
		}
	}
}

// drain injects n ticks stamped with the current generation.
func drain(s *Session, n int) {
	for i := 0; i < n; i++ {
		s.tick(currentGen(s))
	}
}

func currentGen(s *Session) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timerGen
}

func threeQuestions() []domain.Question {
	qs := make([]domain.Question, 3)
	for i := range qs {
		n := i + 1
		qs[i] = domain.Question{
			ID:             n,
			QuestionText:   "Which song is playing?",
			SongName:       "Song",
			ArtistName:     "Artist",
			SpotifyTrackID: "track",
			AnswerChoices:  []string{choice("Right", n), choice("Wrong", n), "Other A", "Other B"},
			CorrectAnswer:  choice("Right", n),
			QuizGameID:     99,
		}
	}
	return qs
}

func choice(prefix string, n int) string {
	return prefix + " " + string(rune('0'+n))
}

type sourceFunc func(ctx context.Context, gameID int) ([]domain.Question, error)

func (f sourceFunc) FetchQuestions(ctx context.Context, gameID int) ([]domain.Question, error) {
	return f(ctx, gameID)
}

func staticSource(qs []domain.Question) sourceFunc {
	return func(context.Context, int) ([]domain.Question, error) {
		return qs, nil
	}
}

type reportCall struct {
	gameID  int
	correct int
	total   int
}

type recordingReporter struct {
	mu    sync.Mutex
	calls []reportCall
	ch    chan reportCall
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{ch: make(chan reportCall, 4)}
}

func (r *recordingReporter) ReportResult(_ context.Context, gameID, correct, total int) error {
	call := reportCall{gameID: gameID, correct: correct, total: total}
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	r.ch <- call
	return nil
}

func (r *recordingReporter) wait(t *testing.T) reportCall {
	t.Helper()
	select {
	case call := <-r.ch:
		return call
	case <-time.After(time.Second):
		t.Fatal("result report never arrived")
		return reportCall{}
	}
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
