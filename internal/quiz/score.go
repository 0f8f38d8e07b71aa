package quiz

import (
	"errors"
	"strings"
)

// ErrEmptyQuiz is returned when scoring a quiz with no questions.
var ErrEmptyQuiz = errors.New("quiz has no questions")

// optionDelimiter separates the letter label from the option text.
const optionDelimiter = "."

// AnswerLetter extracts the letter label from a full option string:
// "B. n-1" yields "B". A string without the delimiter is returned trimmed.
func AnswerLetter(selected string) string {
	letter, _, _ := strings.Cut(selected, optionDelimiter)
	return strings.TrimSpace(letter)
}

// IsCorrect reports whether selected is the correct option for q.
// The comparison is exact and case-sensitive.
func IsCorrect(q Question, selected string) bool {
	if selected == "" {
		return false
	}
	return AnswerLetter(selected) == q.Answer
}

// CorrectOption returns the option of q labelled with q.Answer.
// It returns false when no option starts with "<answer>.".
func CorrectOption(q Question) (string, bool) {
	if q.Answer == "" {
		return "", false
	}
	prefix := q.Answer + optionDelimiter
	for _, opt := range q.Options {
		if strings.HasPrefix(opt, prefix) {
			return opt, true
		}
	}
	return "", false
}

// Score counts the correct answers in answers against set.
// Unanswered questions count as incorrect.
func Score(set *QuizSet, answers AnswerMap) (ScoreSummary, error) {
	total := set.Len()
	if total == 0 {
		return ScoreSummary{}, ErrEmptyQuiz
	}

	correct := 0
	for i, q := range set.Questions {
		if IsCorrect(q, answers[i]) {
			correct++
		}
	}

	return ScoreSummary{
		Correct: correct,
		Total:   total,
		Percent: 100 * float64(correct) / float64(total),
	}, nil
}

// Feedback returns the encouragement line shown next to a score.
func Feedback(percent float64) string {
	switch {
	case percent >= 90:
		return "Excellent! You have a strong understanding of the topic."
	case percent >= 70:
		return "Good job! You have a good grasp of the topic."
	case percent >= 50:
		return "Keep practicing! You're making progress."
	default:
		return "Don't worry! This is a learning opportunity."
	}
}

// ReviewItem is one row of the per-question analysis.
type ReviewItem struct {
	Question Question
	Selected string
	Correct  bool

	// CorrectOption is the full text of the right option. Empty when the
	// service's answer letter matches none of the options.
	CorrectOption string
}

// Review builds the per-question analysis rows in question order.
func Review(set *QuizSet, answers AnswerMap) []ReviewItem {
	items := make([]ReviewItem, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		q := set.Questions[i]
		selected := answers[i]
		item := ReviewItem{
			Question: q,
			Selected: selected,
			Correct:  IsCorrect(q, selected),
		}
		if opt, ok := CorrectOption(q); ok {
			item.CorrectOption = opt
		}
		items = append(items, item)
	}
	return items
}
