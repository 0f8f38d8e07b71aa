package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sals/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

// countingScreen records the messages it receives.
type countingScreen struct {
	stubScreen
	keys   int
	others int
}

func (c *countingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		c.keys++
	} else {
		c.others++
	}
	return c, nil
}

type pingMsg struct{}

func TestUpdate_KeysToActiveOthersToAll(t *testing.T) {
	bottom := &countingScreen{stubScreen: stubScreen{title: "bottom"}}
	r := New(bottom)
	top := &countingScreen{stubScreen: stubScreen{title: "top"}}
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	r.Update(pingMsg{})

	if top.keys != 1 || bottom.keys != 0 {
		t.Errorf("keys: top=%d bottom=%d, want 1/0", top.keys, bottom.keys)
	}
	if top.others != 1 || bottom.others != 1 {
		t.Errorf("other msgs: top=%d bottom=%d, want 1/1", top.others, bottom.others)
	}
}
