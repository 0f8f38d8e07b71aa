package quiz

// Question is a single multiple-choice question as served by the quiz service.
type Question struct {
	// Index is the ordinal position of the question within its QuizSet.
	Index int

	// Text is the question prompt.
	Text string

	// Concept is the topic-area label used to aggregate weak areas.
	Concept string

	// Difficulty is the service's difficulty label, e.g. "easy".
	Difficulty string

	// Options are the labelled choices, each formatted "<Letter>. <text>".
	Options []string

	// Answer is the bare letter of the correct option, e.g. "B".
	Answer string
}

// QuizSet is one generated quiz.
type QuizSet struct {
	ID        ID
	Questions []Question
}

// Len returns the number of questions.
func (s *QuizSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Questions)
}

// Question returns the question at index i, or false if out of range.
func (s *QuizSet) Question(i int) (Question, bool) {
	if s == nil || i < 0 || i >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[i], true
}

// AnswerMap maps a question index to the full selected option string.
type AnswerMap map[int]string

// Complete reports whether m holds exactly one entry per question of set.
func (m AnswerMap) Complete(set *QuizSet) bool {
	n := set.Len()
	if n == 0 || len(m) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if _, ok := m[i]; !ok {
			return false
		}
	}
	return true
}

// Missing returns the question indices of set that have no answer, in order.
func (m AnswerMap) Missing(set *QuizSet) []int {
	var missing []int
	for i := 0; i < set.Len(); i++ {
		if _, ok := m[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// AnswerEntry is one submitted answer. Concept is copied from the
// question so the service does not have to look it up.
type AnswerEntry struct {
	QuestionIndex  int
	SelectedOption string
	Concept        string
}

// AnalysisResult is the service's verdict on a submitted attempt.
type AnalysisResult struct {
	WeakConcepts []string
	AllConcepts  []string
	AttemptID    string
}

// ScoreSummary is computed locally from a QuizSet and its AnswerMap.
type ScoreSummary struct {
	Correct int
	Total   int
	Percent float64 // 0-100
}
