package quiz

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/quizsvc"
	"github.com/abhisek/sals/internal/router"
	"github.com/abhisek/sals/internal/screen"
	"github.com/abhisek/sals/internal/screens/history"
	"github.com/abhisek/sals/internal/screens/last"
	"github.com/abhisek/sals/internal/session"
	"github.com/abhisek/sals/internal/store"
	"github.com/abhisek/sals/internal/ui/components"
	"github.com/abhisek/sals/internal/ui/layout"
)

const (
	spinnerInterval = 100 * time.Millisecond
	topicCharLimit  = 120
)

// Options configures a QuizScreen.
type Options struct {
	Service   quizsvc.Service
	Store     kv.Store        // may be nil
	EventRepo store.EventRepo // may be nil

	// Topic pre-fills the topic input. With AutoStart the quiz is
	// requested as soon as the screen starts.
	Topic     string
	AutoStart bool
}

// QuizScreen drives one session.Session: topic entry, answering,
// submission and the analysis view.
type QuizScreen struct {
	sess      *session.Session
	svc       quizsvc.Service
	store     kv.Store
	eventRepo store.EventRepo
	autoStart bool

	input   components.TextInput
	choices []components.MultiChoice
	current int
	menu    components.Menu
	spinner int
	scroll  int
	saveErr error
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a QuizScreen in the topic-entry phase.
func New(opts Options) *QuizScreen {
	s := &QuizScreen{
		sess:      session.New(),
		svc:       opts.Service,
		store:     opts.Store,
		eventRepo: opts.EventRepo,
		autoStart: opts.AutoStart,
		input:     components.NewTextInput("e.g. recursion, binary trees, TCP handshake", topicCharLimit),
	}
	if opts.Topic != "" {
		s.input.SetValue(opts.Topic)
		_ = s.sess.SetTopic(opts.Topic)
	}
	return s
}

// Session exposes the underlying session.
func (s *QuizScreen) Session() *session.Session {
	return s.sess
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.autoStart {
		s.autoStart = false
		return s.startGeneration()
	}
	return s.input.Init()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) Status() string {
	switch s.sess.Phase {
	case session.PhaseLoading:
		return "generating…"
	case session.PhaseInProgress:
		return fmt.Sprintf("%d/%d answered", len(s.sess.Answers), s.sess.Quiz.Len())
	case session.PhaseSubmitting:
		return "analyzing…"
	case session.PhaseAnalyzed:
		if s.sess.Score != nil {
			return fmt.Sprintf("score %.1f%%", s.sess.Score.Percent)
		}
	}
	return ""
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.sess.Phase {
	case session.PhaseIdle:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate quiz"},
			{Key: "Ctrl+L", Description: "Last attempt"},
		}
	case session.PhaseLoading, session.PhaseSubmitting:
		return []layout.KeyHint{
			{Key: "Ctrl+R", Description: "Cancel"},
		}
	case session.PhaseInProgress:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter/A-D", Description: "Select"},
			{Key: "←→", Description: "Question"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+R", Description: "Start over"},
		}
	case session.PhaseAnalyzed:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "Enter", Description: "Select"},
		}
	}
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case completionMsg:
		return s.handleCompletion(msg.Completion)

	case persistedMsg:
		s.saveErr = msg.Err
		return s, nil

	case spinnerTickMsg:
		if !s.sess.Busy() || msg.Ticket != s.sess.Pending() {
			return s, nil
		}
		s.spinner++
		return s, s.tick()

	case resetMsg:
		return s, s.reset()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.sess.Phase == session.PhaseIdle {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+r" && s.sess.Phase != session.PhaseIdle {
		return s, s.reset()
	}

	switch s.sess.Phase {
	case session.PhaseIdle:
		if key == "enter" {
			return s, s.startGeneration()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		_ = s.sess.SetTopic(s.input.Value())
		return s, cmd

	case session.PhaseInProgress:
		return s, s.handleAnswerKey(key, msg)

	case session.PhaseAnalyzed:
		switch key {
		case "pgup":
			s.scroll = max(0, s.scroll-5)
			return s, nil
		case "pgdown":
			s.scroll += 5
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}

	// Loading and Submitting accept no input.
	return s, nil
}

func (s *QuizScreen) handleAnswerKey(key string, msg tea.KeyMsg) tea.Cmd {
	switch key {
	case "left", "shift+tab":
		if s.current > 0 {
			s.current--
		}
		return nil
	case "right", "tab":
		if s.current < len(s.choices)-1 {
			s.current++
		}
		return nil
	case "ctrl+s":
		return s.submit()
	}

	if s.current >= len(s.choices) {
		return nil
	}
	mc, chose := s.choices[s.current].Update(msg)
	s.choices[s.current] = mc
	if !chose {
		return nil
	}

	if err := s.sess.SelectAnswer(s.current, mc.Selection()); err != nil {
		s.sess.Err = err.Error()
		return nil
	}
	s.sess.Err = ""
	if s.current < len(s.choices)-1 {
		s.current++
	}
	return nil
}

func (s *QuizScreen) startGeneration() tea.Cmd {
	eff, err := s.sess.StartGeneration(s.input.Value())
	if err != nil {
		return nil
	}
	s.input.Blur()
	s.spinner = 0
	return tea.Batch(s.dispatch(eff), s.tick())
}

func (s *QuizScreen) submit() tea.Cmd {
	eff, err := s.sess.Submit()
	if err != nil {
		if missing := s.sess.Answers.Missing(s.sess.Quiz); len(missing) > 0 {
			s.current = missing[0]
		}
		return nil
	}
	s.spinner = 0
	return tea.Batch(s.dispatch(eff), s.tick())
}

func (s *QuizScreen) reset() tea.Cmd {
	s.sess.Reset()
	s.choices = nil
	s.current = 0
	s.scroll = 0
	s.saveErr = nil
	s.input.SetValue(s.sess.Topic)
	return s.input.Focus()
}

func (s *QuizScreen) handleCompletion(c session.Completion) (screen.Screen, tea.Cmd) {
	eff, ok := s.sess.Complete(c)
	if !ok {
		return s, nil
	}

	switch s.sess.Phase {
	case session.PhaseIdle:
		return s, s.input.Focus()

	case session.PhaseInProgress:
		if c.Op == quizsvc.OpGenerate {
			s.choices = make([]components.MultiChoice, 0, s.sess.Quiz.Len())
			for _, q := range s.sess.Quiz.Questions {
				s.choices = append(s.choices, components.NewMultiChoice(q.Options, ""))
			}
			s.current = 0
		}
		return s, nil

	case session.PhaseAnalyzed:
		s.scroll = 0
		s.menu = s.analysisMenu()
		return s, s.persist(eff.Writes)
	}
	return s, nil
}

func (s *QuizScreen) analysisMenu() components.Menu {
	return components.NewMenu([]components.MenuItem{
		{Label: "Take another quiz", Action: func() tea.Cmd {
			return func() tea.Msg { return resetMsg{} }
		}},
		{Label: "View last attempt", Disabled: s.store == nil, Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: last.New(s.store)} }
		}},
		{Label: "View request log", Disabled: s.eventRepo == nil, Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(s.eventRepo)} }
		}},
	})
}

// dispatch runs the network call of eff off the update loop.
func (s *QuizScreen) dispatch(eff session.Effect) tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		c, _ := session.Dispatch(context.Background(), svc, eff)
		return completionMsg{Completion: c}
	}
}

// persist writes the last attempt; failures are kept but not shown.
func (s *QuizScreen) persist(writes []session.Write) tea.Cmd {
	if len(writes) == 0 || s.store == nil {
		return nil
	}
	st := s.store
	return func() tea.Msg {
		return persistedMsg{Err: session.Persist(context.Background(), st, writes)}
	}
}

// tick schedules the next spinner frame for the pending request.
func (s *QuizScreen) tick() tea.Cmd {
	ticket := s.sess.Pending()
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg{Ticket: ticket, At: t}
	})
}
