// Package cli runs a quiz in line mode over plain reader and writer streams.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/sals/internal/quiz"
	"github.com/abhisek/sals/internal/session"
)

const maxAttempts = 3

// ErrNoAnswer is returned when a question is left unanswered after
// maxAttempts invalid entries or the input ends.
var ErrNoAnswer = errors.New("no answer given")

// Run prompts for a topic when topic is empty, generates a quiz, reads one
// letter per question from in, submits the answers and prints the analysis.
func Run(ctx context.Context, r *session.Runner, topic string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	if strings.TrimSpace(topic) == "" {
		fmt.Fprint(out, "Topic: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read topic: %w", err)
		}
		topic = line
	}

	sess := r.Session
	if err := r.Generate(ctx, strings.TrimSpace(topic)); err != nil {
		if session.IsValidation(err) {
			return errors.New(sess.Err)
		}
		return err
	}
	if sess.Err != "" {
		return errors.New(sess.Err)
	}

	fmt.Fprintf(out, "\nQuiz on %q: %d questions\n", strings.TrimSpace(sess.Topic), sess.Quiz.Len())
	for i, q := range sess.Quiz.Questions {
		printQuestion(out, i+1, q)
		option, ok := getAnswer(reader, out, q.Options)
		if !ok {
			return fmt.Errorf("question %d: %w", i+1, ErrNoAnswer)
		}
		if err := r.Select(i, option); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nSubmitting...")
	if err := r.Submit(ctx); err != nil {
		return err
	}
	if sess.Err != "" {
		return errors.New(sess.Err)
	}

	printAnalysis(out, sess)
	return nil
}

func printQuestion(out io.Writer, number int, q quiz.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d: %s\n", number, q.Text)
	if q.Concept != "" {
		fmt.Fprintf(out, "    [%s]\n", q.Concept)
	}
	fmt.Fprintln(out)
	for _, option := range q.Options {
		fmt.Fprintln(out, option)
	}
	fmt.Fprint(out, "\nAnswer: ")
}

// getAnswer reads a letter and maps it to the full option text.
func getAnswer(reader *bufio.Reader, out io.Writer, options []string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", false
		}

		letter := strings.ToUpper(strings.TrimSpace(line))
		if len(letter) == 1 {
			for _, option := range options {
				if quiz.AnswerLetter(option) == letter {
					return option, true
				}
			}
		}

		if attempt < maxAttempts {
			fmt.Fprintf(out, "Invalid input. Please enter a letter A-%c: ", 'A'+len(options)-1)
		}
	}
	return "", false
}

func printAnalysis(out io.Writer, sess *session.Session) {
	fmt.Fprintln(out)
	if s := sess.Score; s != nil {
		fmt.Fprintf(out, "Score: %.1f%% (%d/%d)\n", s.Percent, s.Correct, s.Total)
		fmt.Fprintln(out, sess.Feedback())
	}

	if a := sess.Analysis; a != nil {
		fmt.Fprintln(out)
		if len(a.WeakConcepts) == 0 {
			fmt.Fprintln(out, "Concepts to review: none")
		} else {
			fmt.Fprintln(out, "Concepts to review:")
			for _, c := range a.WeakConcepts {
				fmt.Fprintf(out, "  - %s\n", c)
			}
		}
		if len(a.AllConcepts) > 0 {
			fmt.Fprintf(out, "Covered: %s\n", strings.Join(a.AllConcepts, ", "))
		}
	}

	fmt.Fprintln(out)
	for i, item := range sess.Review() {
		mark := "correct"
		if !item.Correct {
			mark = "wrong"
		}
		selected := item.Selected
		if selected == "" {
			selected = "(no answer)"
		}
		fmt.Fprintf(out, "%d. %s [%s]\n   Your answer: %s\n", i+1, item.Question.Text, mark, selected)
		if !item.Correct && item.CorrectOption != "" {
			fmt.Fprintf(out, "   Correct answer: %s\n", item.CorrectOption)
		}
		if meta := reviewMeta(item.Question); meta != "" {
			fmt.Fprintf(out, "   %s\n", meta)
		}
	}
}

// reviewMeta joins the concept and difficulty labels of q.
func reviewMeta(q quiz.Question) string {
	var parts []string
	if q.Concept != "" {
		parts = append(parts, "Concept: "+q.Concept)
	}
	if q.Difficulty != "" {
		parts = append(parts, "Difficulty: "+q.Difficulty)
	}
	return strings.Join(parts, "  ")
}
