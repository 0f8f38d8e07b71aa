package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sals/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a fraction in [0, 1].
type ProgressBar struct {
	Label    string
	Fraction float64
	Caption  string // shown after the bar, e.g. "2/3"
	Width    int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, fraction float64, caption string, width int) ProgressBar {
	return ProgressBar{Label: label, Fraction: fraction, Caption: caption, Width: width}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	caption := ""
	if p.Caption != "" {
		caption = fmt.Sprintf("  %s", p.Caption)
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(caption)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction)
	filled = max(0, min(filled, barWidth))

	result += lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	if caption != "" {
		result += theme.Subtitle.Render(caption)
	}
	return result
}
