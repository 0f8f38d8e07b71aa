package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sals/internal/quiz"
	"github.com/abhisek/sals/internal/session"
	"github.com/abhisek/sals/internal/ui/components"
	"github.com/abhisek/sals/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *QuizScreen) View(width, height int) string {
	var body string
	switch s.sess.Phase {
	case session.PhaseIdle:
		body = s.renderTopic(width)
	case session.PhaseLoading:
		body = s.renderBusy(fmt.Sprintf("Generating a quiz on %q…", strings.TrimSpace(s.sess.Topic)))
	case session.PhaseInProgress:
		body = s.renderQuestion(width)
	case session.PhaseSubmitting:
		body = s.renderBusy("Analyzing your answers…")
	case session.PhaseAnalyzed:
		body = s.renderAnalysis(width, height)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (s *QuizScreen) renderTopic(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Generate a quiz"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Enter a topic and the service will build a multiple-choice quiz for it."))
	b.WriteString("\n\n")
	b.WriteString(theme.Card.Width(min(width-6, 70)).Render(s.input.View()))
	b.WriteString("\n")
	s.writeError(&b)
	return b.String()
}

func (s *QuizScreen) renderBusy(label string) string {
	frame := spinnerFrames[s.spinner%len(spinnerFrames)]
	return "\n" + theme.Selected.Render(frame) + " " + theme.Body.Render(label)
}

func (s *QuizScreen) renderQuestion(width int) string {
	set := s.sess.Quiz
	q, ok := set.Question(s.current)
	if !ok || s.current >= len(s.choices) {
		return ""
	}

	var b strings.Builder

	answered := len(s.sess.Answers)
	bar := components.NewProgressBar("Answered", float64(answered)/float64(set.Len()),
		fmt.Sprintf("%d/%d", answered, set.Len()), min(width-6, 60))
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	meta := fmt.Sprintf("Question %d of %d", s.current+1, set.Len())
	if q.Concept != "" {
		meta += "  ·  " + theme.Concept.Render(q.Concept)
	}
	if q.Difficulty != "" {
		meta += "  ·  " + q.Difficulty
	}
	b.WriteString(theme.Subtitle.Render(meta))
	b.WriteString("\n")
	b.WriteString(theme.Body.Bold(true).Width(min(width-6, 90)).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choices[s.current].View())
	b.WriteString("\n")

	b.WriteString(components.NewButton("Submit answers (Ctrl+S)", s.sess.CanSubmit()).View())
	if !s.sess.CanSubmit() {
		b.WriteString("  ")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d unanswered", len(s.sess.Answers.Missing(set)))))
	}
	b.WriteString("\n")
	s.writeError(&b)
	return b.String()
}

func (s *QuizScreen) renderAnalysis(width, height int) string {
	var b strings.Builder

	if score := s.sess.Score; score != nil {
		b.WriteString(theme.Title.Render(fmt.Sprintf("Your score: %.1f%%  (%d/%d)", score.Percent, score.Correct, score.Total)))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(s.sess.Feedback()))
		b.WriteString("\n\n")
	}

	if a := s.sess.Analysis; a != nil {
		b.WriteString(theme.Body.Bold(true).Render("Concepts to review"))
		b.WriteString("\n")
		if len(a.WeakConcepts) == 0 {
			b.WriteString(theme.Correct.Render("  None, great work!"))
			b.WriteString("\n")
		}
		for _, c := range a.WeakConcepts {
			b.WriteString("  " + theme.Weak.Render("• "+c) + "\n")
		}
		if len(a.AllConcepts) > 0 {
			b.WriteString(theme.Subtitle.Render("Covered: " + strings.Join(a.AllConcepts, ", ")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(s.menu.View())
	b.WriteString("\n")

	for i, item := range s.sess.Review() {
		b.WriteString(renderReviewItem(i, item, width))
		b.WriteString("\n")
	}

	lines := strings.Split(b.String(), "\n")
	maxScroll := max(0, len(lines)-max(1, height-2))
	s.scroll = min(s.scroll, maxScroll)
	return strings.Join(lines[s.scroll:], "\n")
}

func renderReviewItem(i int, item quiz.ReviewItem, width int) string {
	var b strings.Builder
	mark := theme.Correct.Render("✓")
	if !item.Correct {
		mark = theme.Incorrect.Render("✗")
	}
	b.WriteString(fmt.Sprintf("%s %s\n", mark, theme.Body.Width(min(width-8, 90)).Render(fmt.Sprintf("%d. %s", i+1, item.Question.Text))))

	selected := item.Selected
	if selected == "" {
		selected = "(no answer)"
	}
	style := theme.Correct
	if !item.Correct {
		style = theme.Incorrect
	}
	b.WriteString("    Your answer: " + style.Render(selected) + "\n")

	if !item.Correct && item.CorrectOption != "" {
		b.WriteString("    Correct answer: " + theme.Correct.Render(item.CorrectOption) + "\n")
	}
	var meta []string
	if item.Question.Concept != "" {
		meta = append(meta, theme.Concept.Render(item.Question.Concept))
	}
	if item.Question.Difficulty != "" {
		meta = append(meta, theme.Hint.Render(item.Question.Difficulty))
	}
	if len(meta) > 0 {
		b.WriteString("    " + strings.Join(meta, "  ·  ") + "\n")
	}
	return b.String()
}

func (s *QuizScreen) writeError(b *strings.Builder) {
	if s.sess.Err == "" {
		return
	}
	b.WriteString("\n")
	b.WriteString(theme.ErrorText.Render(s.sess.Err))
	b.WriteString("\n")
}
