package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sals/internal/router"
	"github.com/abhisek/sals/internal/screen"
	"github.com/abhisek/sals/internal/store"
	"github.com/abhisek/sals/internal/ui/layout"
	"github.com/abhisek/sals/internal/ui/theme"
)

// pageSize is how many recent requests are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Events []store.ServiceRequestEvent
	Err    error
}

// HistoryScreen lists recent quiz service requests from the event log.
type HistoryScreen struct {
	eventRepo store.EventRepo
	events    []store.ServiceRequestEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QueryServiceEvents(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Request Log"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading request log...")
	}
	if len(s.events) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  No requests yet. Generate a quiz!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		outcome := theme.Correct.Render("ok")
		if !e.Success {
			outcome = theme.Incorrect.Render("failed")
		}
		status := "-"
		if e.Status != 0 {
			status = fmt.Sprintf("%d", e.Status)
		}

		line := fmt.Sprintf("%s%s  %-8s  %-24s  %4s  %5dms  ",
			prefix, e.Timestamp.Format("Jan 02 15:04:05"), e.Op, truncate(e.Subject, 24), status, e.LatencyMs)

		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + outcome)
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(theme.Hint.Render("      request " + e.RequestID))
			b.WriteString("\n")
			if e.ErrorMessage != "" {
				b.WriteString(theme.ErrorText.Render("      " + e.ErrorMessage))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
