package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/session"
)

type fixedSource []domain.Question

func (f fixedSource) FetchQuestions(context.Context, int) ([]domain.Question, error) {
	return f, nil
}

type tallyReporter struct {
	mu       sync.Mutex
	calls    int
	correct  int
	answered int
	done     chan struct{}
}

func newTallyReporter() *tallyReporter {
	return &tallyReporter{done: make(chan struct{})}
}

func (r *tallyReporter) ReportResult(_ context.Context, _, correct, answered int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.correct = correct
	r.answered = answered
	if r.calls == 1 {
		close(r.done)
	}
	return nil
}

func (r *tallyReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func oneQuestion() fixedSource {
	return fixedSource{{
		ID:             1,
		QuestionText:   "Which song is playing?",
		SongName:       "Take On Me",
		ArtistName:     "a-ha",
		SpotifyTrackID: "2WfaOiMkCvy7F5fcp2zZ8L",
		AnswerChoices:  []string{"Take On Me", "Africa", "Hungry Like the Wolf", "Sweet Dreams"},
		CorrectAnswer:  "Take On Me",
	}}
}

func TestPlayLoopPlaysThrough(t *testing.T) {
	reporter := newTallyReporter()
	sess := session.New(7, oneQuestion(), reporter, session.WithTickInterval(time.Hour))
	defer sess.Close()

	updates, cancel := sess.Subscribe()
	defer cancel()
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	lines := make(chan string, 2)
	lines <- "1" // the correct choice
	lines <- ""  // advance past the reveal

	if err := playLoop(nil, sess, updates, lines); err != nil {
		t.Fatalf("play loop: %v", err)
	}

	select {
	case <-reporter.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the result report")
	}
	if reporter.correct != 1 || reporter.answered != 1 {
		t.Fatalf("unexpected report %d/%d", reporter.correct, reporter.answered)
	}
}

func TestPlayLoopStopsOnContextCancel(t *testing.T) {
	reporter := newTallyReporter()
	sess := session.New(7, oneQuestion(), reporter, session.WithTickInterval(time.Hour))
	defer sess.Close()

	updates, cancel := sess.Subscribe()
	defer cancel()
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan struct{})
	close(done)

	finished := make(chan error, 1)
	go func() { finished <- playLoop(done, sess, updates, nil) }()

	select {
	case err := <-finished:
		if err != nil {
			t.Fatalf("play loop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("play loop did not stop after cancellation")
	}
	if got := reporter.count(); got != 0 {
		t.Fatalf("abandoning must not report a result, got %d reports", got)
	}
}
