package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/quizsvc"
	"github.com/abhisek/sals/internal/router"
	"github.com/abhisek/sals/internal/screen"
	"github.com/abhisek/sals/internal/screens/history"
	"github.com/abhisek/sals/internal/screens/last"
	"github.com/abhisek/sals/internal/screens/quiz"
	"github.com/abhisek/sals/internal/store"
	"github.com/abhisek/sals/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Service   quizsvc.Service
	Store     kv.Store
	EventRepo store.EventRepo

	// Topic pre-fills the topic input and starts generation right away.
	Topic string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router    *router.Router
	store     kv.Store
	eventRepo store.EventRepo
	width     int
	height    int
}

// newAppModel creates an AppModel with the quiz screen at the bottom of
// the stack.
func newAppModel(opts Options) AppModel {
	quizScreen := quiz.New(quiz.Options{
		Service:   opts.Service,
		Store:     opts.Store,
		EventRepo: opts.EventRepo,
		Topic:     opts.Topic,
		AutoStart: opts.Topic != "",
	})
	return AppModel{
		router:    router.New(quizScreen),
		store:     opts.Store,
		eventRepo: opts.EventRepo,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "ctrl+l":
			if m.store != nil && m.router.Depth() == 1 {
				return m, m.router.Push(last.New(m.store))
			}
			return m, nil
		case "ctrl+e":
			if m.eventRepo != nil && m.router.Depth() == 1 {
				return m, m.router.Push(history.New(m.eventRepo))
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render draws the frame; empty until the first WindowSizeMsg.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if hp, ok := active.(screen.KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}

	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	} else if m.eventRepo != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+E", Description: "Requests"})
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
