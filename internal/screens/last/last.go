package last

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/screen"
	"github.com/abhisek/sals/internal/session"
	"github.com/abhisek/sals/internal/ui/layout"
	"github.com/abhisek/sals/internal/ui/theme"
)

type lastLoadedMsg struct {
	Last session.LastAttempt
	Err  error
}

// LastScreen shows the last attempt recalled from the key-value store.
type LastScreen struct {
	store  kv.Store
	last   session.LastAttempt
	loaded bool
	errMsg string
}

var _ screen.Screen = (*LastScreen)(nil)
var _ screen.KeyHintProvider = (*LastScreen)(nil)

// New creates a LastScreen reading from store.
func New(store kv.Store) *LastScreen {
	return &LastScreen{store: store}
}

func (s *LastScreen) Init() tea.Cmd {
	st := s.store
	return func() tea.Msg {
		last, err := session.LoadLastAttempt(context.Background(), st)
		return lastLoadedMsg{Last: last, Err: err}
	}
}

func (s *LastScreen) Title() string {
	return "Last Attempt"
}

func (s *LastScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LastScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(lastLoadedMsg); ok {
		s.last = msg.Last
		if msg.Err != nil && msg.Last.Empty() {
			s.errMsg = msg.Err.Error()
		}
		s.loaded = true
	}
	return s, nil
}

func (s *LastScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading last attempt...")
	case s.last.Empty():
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  No quiz submitted yet.")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(Render(s.last))
}

// Render formats a LastAttempt as styled text.
func Render(a session.LastAttempt) string {
	var b strings.Builder

	id := a.AttemptID
	if id == "" {
		id = "unknown"
	}
	b.WriteString(theme.Title.Render("Attempt " + id))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Bold(true).Render("Weak concepts"))
	b.WriteString("\n")
	switch {
	case a.WeakConcepts == nil:
		b.WriteString(theme.Hint.Render("  not recorded") + "\n")
	case len(a.WeakConcepts) == 0:
		b.WriteString(theme.Correct.Render("  none") + "\n")
	default:
		for _, c := range a.WeakConcepts {
			b.WriteString("  " + theme.Weak.Render("• "+c) + "\n")
		}
	}

	if len(a.AllConcepts) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Body.Bold(true).Render("All concepts"))
		b.WriteString("\n  " + theme.Concept.Render(strings.Join(a.AllConcepts, ", ")) + "\n")
	}

	if len(a.Answers) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Body.Bold(true).Render("Answers"))
		b.WriteString("\n")
		indices := make([]int, 0, len(a.Answers))
		for i := range a.Answers {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		for _, i := range indices {
			b.WriteString(fmt.Sprintf("  Q%d  %s\n", i+1, a.Answers[i]))
		}
	}
	return b.String()
}
