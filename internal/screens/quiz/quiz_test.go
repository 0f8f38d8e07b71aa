package quiz

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/quiz"
	"github.com/abhisek/sals/internal/quizsvc"
	"github.com/abhisek/sals/internal/router"
	"github.com/abhisek/sals/internal/screen"
	"github.com/abhisek/sals/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func testQuiz() *quiz.QuizSet {
	return &quiz.QuizSet{
		ID: quiz.ID{Value: "7"},
		Questions: []quiz.Question{
			{Index: 0, Text: "What stops recursion?", Concept: "base case", Options: []string{"A. Base case", "B. Loop"}, Answer: "A"},
			{Index: 1, Text: "Factorial step?", Concept: "recurrence", Difficulty: "medium", Options: []string{"A. 1", "B. n-1", "C. n"}, Answer: "B"},
		},
	}
}

// drain runs cmd and feeds every resulting screen message back into s,
// skipping spinner ticks.
func drain(t *testing.T, s *QuizScreen, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinnerTickMsg:
		case completionMsg, persistedMsg, resetMsg:
			_, next := s.Update(msg)
			queue = append(queue, next)
		default:
			out = append(out, msg)
		}
	}
	return out
}

func typeTopic(t *testing.T, s *QuizScreen, topic string) {
	t.Helper()
	for _, r := range topic {
		s.Update(keyPress(r))
	}
}

func TestQuizScreen_Title(t *testing.T) {
	s := New(Options{Service: quizsvc.NewMockClient()})
	if s.Title() != "Quiz" {
		t.Errorf("Title = %q", s.Title())
	}
	var _ screen.Screen = s
}

func TestQuizScreen_EmptyTopicShowsError(t *testing.T) {
	svc := quizsvc.NewMockClient()
	s := New(Options{Service: svc})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("no command expected for an empty topic")
	}
	if svc.CallCount() != 0 {
		t.Error("no request expected")
	}
	if s.Session().Err != session.MsgTopicRequired {
		t.Errorf("Err = %q", s.Session().Err)
	}
	if !strings.Contains(s.View(80, 24), session.MsgTopicRequired) {
		t.Error("error not rendered")
	}
}

func TestQuizScreen_FullFlow(t *testing.T) {
	svc := quizsvc.NewMockClient(
		quizsvc.MockResult{Quiz: testQuiz()},
		quizsvc.MockResult{Analysis: &quiz.AnalysisResult{
			WeakConcepts: []string{"recurrence"},
			AllConcepts:  []string{"base case", "recurrence"},
			AttemptID:    "99",
		}},
	)
	store := kv.NewMemory()
	s := New(Options{Service: svc, Store: store})

	typeTopic(t, s, "recursion")
	if s.Session().Topic != "recursion" {
		t.Fatalf("Topic = %q", s.Session().Topic)
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if s.Session().Phase != session.PhaseLoading {
		t.Fatalf("Phase = %v, want loading", s.Session().Phase)
	}
	if !strings.Contains(s.View(80, 24), "Generating") {
		t.Error("loading view missing")
	}

	// Keys are ignored while loading.
	s.Update(keyPress('x'))

	drain(t, s, cmd)
	if s.Session().Phase != session.PhaseInProgress {
		t.Fatalf("Phase = %v, want in-progress", s.Session().Phase)
	}
	if len(s.choices) != 2 {
		t.Fatalf("choices = %d", len(s.choices))
	}

	// Submitting early is rejected and jumps to the missing question.
	_, cmd = s.Update(ctrlKey('s'))
	if cmd != nil || svc.CallCount() != 1 {
		t.Fatal("incomplete submit must not send a request")
	}

	s.Update(keyPress('a')) // Q1 -> A, advances
	if s.current != 1 {
		t.Fatalf("current = %d, want auto-advance to 1", s.current)
	}
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyEnter)) // Q2 -> B

	if got := s.Session().Answers; got[0] != "A. Base case" || got[1] != "B. n-1" {
		t.Fatalf("Answers = %v", got)
	}
	if !s.Session().CanSubmit() {
		t.Fatal("expected submittable")
	}

	_, cmd = s.Update(ctrlKey('s'))
	if s.Session().Phase != session.PhaseSubmitting {
		t.Fatalf("Phase = %v, want submitting", s.Session().Phase)
	}
	drain(t, s, cmd)

	if s.Session().Phase != session.PhaseAnalyzed {
		t.Fatalf("Phase = %v, want analyzed", s.Session().Phase)
	}
	view := s.View(100, 60)
	for _, want := range []string{"100.0%", "recurrence", "medium", "Take another quiz"} {
		if !strings.Contains(view, want) {
			t.Errorf("analysis view missing %q", want)
		}
	}

	last, err := session.LoadLastAttempt(context.Background(), store)
	if err != nil || last.AttemptID != "99" {
		t.Errorf("last attempt = %+v, %v", last, err)
	}
	if s.Status() != "score 100.0%" {
		t.Errorf("Status = %q", s.Status())
	}

	// "Take another quiz" resets and keeps the topic.
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	drain(t, s, cmd)
	if s.Session().Phase != session.PhaseIdle {
		t.Fatalf("Phase = %v, want idle", s.Session().Phase)
	}
	if s.input.Value() != "recursion" {
		t.Errorf("input = %q, want topic kept", s.input.Value())
	}
}

func TestQuizScreen_GenerationFailure(t *testing.T) {
	svc := quizsvc.NewMockClient(quizsvc.MockResult{Err: &quiz.ServiceError{Op: quizsvc.OpGenerate, Message: "quiz service unavailable"}})
	s := New(Options{Service: svc, Topic: "graphs"})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	drain(t, s, cmd)

	if s.Session().Phase != session.PhaseIdle {
		t.Fatalf("Phase = %v, want idle", s.Session().Phase)
	}
	if s.input.Value() != "graphs" {
		t.Errorf("input = %q, want topic retained", s.input.Value())
	}
	if !strings.Contains(s.View(80, 24), session.MsgGenerateFailed) {
		t.Error("failure message not rendered")
	}
}

func TestQuizScreen_ResetWhileLoadingDropsResult(t *testing.T) {
	svc := quizsvc.NewMockClient(quizsvc.MockResult{Quiz: testQuiz()})
	s := New(Options{Service: svc, Topic: "recursion"})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	s.Update(ctrlKey('r'))
	if s.Session().Phase != session.PhaseIdle {
		t.Fatalf("Phase = %v, want idle after reset", s.Session().Phase)
	}

	drain(t, s, cmd)
	if s.Session().Phase != session.PhaseIdle || s.Session().Quiz != nil {
		t.Errorf("stale generation applied: phase=%v", s.Session().Phase)
	}
}

func TestQuizScreen_AutoStart(t *testing.T) {
	svc := quizsvc.NewMockClient(quizsvc.MockResult{Quiz: testQuiz()})
	s := New(Options{Service: svc, Topic: "recursion", AutoStart: true})

	cmd := s.Init()
	if s.Session().Phase != session.PhaseLoading {
		t.Fatalf("Phase = %v, want loading", s.Session().Phase)
	}
	drain(t, s, cmd)
	if s.Session().Phase != session.PhaseInProgress {
		t.Errorf("Phase = %v, want in-progress", s.Session().Phase)
	}
}

func TestQuizScreen_AnalysisMenuPushesLastAttempt(t *testing.T) {
	svc := quizsvc.NewMockClient(
		quizsvc.MockResult{Quiz: testQuiz()},
		quizsvc.MockResult{Analysis: &quiz.AnalysisResult{AllConcepts: []string{"x"}}},
	)
	s := New(Options{Service: svc, Store: kv.NewMemory(), Topic: "recursion"})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	drain(t, s, cmd)
	s.Update(keyPress('a'))
	s.Update(keyPress('c'))
	_, cmd = s.Update(ctrlKey('s'))
	drain(t, s, cmd)

	s.Update(specialKey(tea.KeyDown))
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	out := drain(t, s, cmd)
	if len(out) != 1 {
		t.Fatalf("messages = %v", out)
	}
	push, ok := out[0].(router.PushScreenMsg)
	if !ok || push.Screen.Title() != "Last Attempt" {
		t.Errorf("msg = %#v, want push of last attempt screen", out[0])
	}
}

func TestQuizScreen_KeyHintsPerPhase(t *testing.T) {
	s := New(Options{Service: quizsvc.NewMockClient()})
	if len(s.KeyHints()) == 0 {
		t.Error("expected idle hints")
	}
}

func TestQuizScreen_StatusShowsOneDecimal(t *testing.T) {
	s := New(Options{Service: quizsvc.NewMockClient()})
	s.sess.Phase = session.PhaseAnalyzed
	s.sess.Score = &quiz.ScoreSummary{Correct: 2, Total: 3, Percent: 200.0 / 3}

	if s.Status() != "score 66.7%" {
		t.Errorf("Status = %q, want score 66.7%%", s.Status())
	}
}

func TestQuizScreen_SpinnerIgnoresTicksOfEarlierRequest(t *testing.T) {
	svc := quizsvc.NewMockClient()
	s := New(Options{Service: svc, Topic: "recursion"})

	s.Update(specialKey(tea.KeyEnter))
	first := s.Session().Pending()
	s.Update(ctrlKey('r'))
	s.Update(specialKey(tea.KeyEnter))
	second := s.Session().Pending()
	if first == second {
		t.Fatalf("tickets should differ, both %d", first)
	}

	_, cmd := s.Update(spinnerTickMsg{Ticket: first})
	if cmd != nil || s.spinner != 0 {
		t.Errorf("tick of the cancelled request re-armed: spinner=%d", s.spinner)
	}

	_, cmd = s.Update(spinnerTickMsg{Ticket: second})
	if cmd == nil || s.spinner != 1 {
		t.Errorf("tick of the pending request not applied: spinner=%d", s.spinner)
	}
}
