package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/session"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <game-id>",
		Short: "Play one quiz game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("game id must be a number: %q", args[0])
			}

			app, err := buildApp(configPath)
			if err != nil {
				return err
			}
			return runPlay(cmd, app, gameID)
		},
	}
}

func runPlay(cmd *cobra.Command, app *app, gameID int) error {
	opts := []session.Option{session.WithLogger(app.log)}
	if s := app.cfg.Game.QuestionSeconds; s > 0 {
		opts = append(opts, session.WithQuestionSeconds(s))
	}
	if d, err := time.ParseDuration(app.cfg.Game.TickInterval); err == nil && d > 0 {
		opts = append(opts, session.WithTickInterval(d))
	}

	sess := session.New(gameID, app.client, app.client, opts...)
	defer sess.Close()

	updates, cancel := sess.Subscribe()
	defer cancel()

	fmt.Println("Loading quiz questions...")
	if err := sess.Start(cmd.Context()); err != nil {
		var ferr *domain.FetchError
		if errors.As(err, &ferr) && errors.Is(err, domain.ErrNoQuestions) {
			fmt.Println("No questions found for this game.")
			return nil
		}
		return err
	}

	return playLoop(cmd.Context().Done(), sess, updates, readLines(cmd.Context().Done()))
}

func playLoop(done <-chan struct{}, sess *session.Session, updates <-chan session.Snapshot, lines <-chan string) error {
	var lastIndex, lastShown = -1, -1
	for {
		select {
		case snap := <-updates:
			switch snap.Phase {
			case session.PhaseAnswering:
				if snap.Index != lastIndex {
					lastIndex = snap.Index
					lastShown = -1
					printQuestion(snap)
				}
				if remaining := snap.TimeRemaining; remaining != lastShown && remaining <= 5 && remaining > 0 {
					lastShown = remaining
					fmt.Printf("  %ds left...\n", remaining)
				}
			case session.PhaseRevealed:
				printReveal(snap)
			case session.PhaseFinished:
				fmt.Printf("\nGame over! Your final score: %d/%d\n", snap.Tally, snap.Total)
				return nil
			case session.PhaseAbandoned:
				fmt.Println("\nLeft the quiz. No score was reported.")
				return nil
			}
		case line, ok := <-lines:
			if !ok {
				lines = nil
				sess.Abandon()
				continue
			}
			handleInput(sess, line)
		case <-done:
			// A closed done channel stays ready; disarm the case so the
			// loop blocks until the abandoned snapshot arrives.
			sess.Abandon()
			done = nil
		}
	}
}

func handleInput(sess *session.Session, line string) {
	line = strings.TrimSpace(line)
	snap := sess.Snapshot()

	switch {
	case line == "q":
		sess.Abandon()
	case snap.Phase == session.PhaseAnswering:
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(snap.Question.AnswerChoices) {
			fmt.Printf("Pick 1-%d, or q to leave.\n", len(snap.Question.AnswerChoices))
			return
		}
		sess.SelectAnswer(snap.Question.AnswerChoices[n-1])
	case snap.Phase == session.PhaseRevealed:
		sess.Advance()
	}
}

func printQuestion(snap session.Snapshot) {
	q := snap.Question
	fmt.Printf("\nQuestion %d/%d  (score %d, %ds on the clock)\n",
		snap.Index+1, snap.Total, snap.Tally, snap.TimeRemaining)
	fmt.Println(q.QuestionText)
	fmt.Printf("Now playing: https://open.spotify.com/track/%s\n", q.SpotifyTrackID)
	for i, choice := range q.AnswerChoices {
		fmt.Printf("  %d) %s\n", i+1, choice)
	}
	fmt.Print("Answer (1-4): ")
}

func printReveal(snap session.Snapshot) {
	q := snap.Question
	switch {
	case !snap.HasSelection:
		fmt.Printf("\nTime's up! The answer was: %s\n", q.CorrectAnswer)
	case snap.Selected == q.CorrectAnswer:
		fmt.Printf("\nCorrect! %s — %s\n", q.SongName, q.ArtistName)
	default:
		fmt.Printf("\nWrong — the answer was: %s\n", q.CorrectAnswer)
	}
	if snap.Index+1 < snap.Total {
		fmt.Print("Press enter for the next question, q to leave: ")
	} else {
		fmt.Print("Press enter to finish: ")
	}
}

// readLines feeds stdin lines to a channel, closing it on EOF or done.
func readLines(done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}
