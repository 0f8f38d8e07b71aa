package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sals/internal/ui/layout"
)

// Screen is one view on the router stack.
type Screen interface {
	// Init returns an initial command when the screen is pushed.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content between header and footer.
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens that supply their own
// footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status line in
// the header, e.g. the current quiz phase.
type StatusProvider interface {
	Status() string
}
