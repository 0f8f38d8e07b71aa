package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sals/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are shown verbatim
// ("A. text") with a cursor and a marker on the chosen one. It does not
// grade; the caller decides what a choice means.
type MultiChoice struct {
	Options []string
	Cursor  int
	Chosen  int // -1 when nothing is chosen
}

// NewMultiChoice creates a selector; chosen may be "" for no choice yet.
func NewMultiChoice(options []string, chosen string) MultiChoice {
	m := MultiChoice{Options: options, Chosen: -1}
	for i, opt := range options {
		if opt == chosen && chosen != "" {
			m.Chosen = i
			m.Cursor = i
		}
	}
	return m
}

// Update moves the cursor and chooses on enter/space or a letter key.
// It reports whether a choice was made.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Options) == 0 {
		return m, false
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space", " ":
		m.Chosen = m.Cursor
		return m, true
	default:
		if i := m.indexOfLetter(key); i >= 0 {
			m.Cursor = i
			m.Chosen = i
			return m, true
		}
	}
	return m, false
}

// indexOfLetter finds the option labelled with key ("b" matches "B. ...").
func (m MultiChoice) indexOfLetter(key string) int {
	if len(key) != 1 {
		return -1
	}
	upper := strings.ToUpper(key)
	for i, opt := range m.Options {
		if strings.HasPrefix(opt, upper+".") {
			return i
		}
	}
	return -1
}

// Selection returns the chosen option, or "" if none.
func (m MultiChoice) Selection() string {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.Chosen]
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "    "
		if i == m.Cursor {
			prefix = "  ▸ "
		}
		marker := "( ) "
		if i == m.Chosen {
			marker = "(•) "
		}

		style := theme.Unselected
		switch {
		case i == m.Cursor:
			style = theme.Selected
		case i == m.Chosen:
			style = theme.Chosen
		}
		b.WriteString(style.Render(prefix + marker + opt))
		b.WriteString("\n")
	}
	return b.String()
}
