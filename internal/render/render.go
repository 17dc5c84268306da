// Package render draws board panels as text for the terminal dashboard.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jpalmerr/livestatus/internal/store"
)

// LoadingText is shown for a panel whose source has not answered yet.
const LoadingText = "Loading..."

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("32"))
	panelStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	loadingStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
)

// Renderer writes one frame per call to Render.
type Renderer struct {
	// Color enables lipgloss styling.
	Color bool

	// Clear erases the screen before each frame.
	Clear bool
}

// Render writes title followed by every panel in order. A panel that has not
// loaded shows LoadingText; otherwise each entry is written as an aligned
// "LABEL  value" line.
func (r Renderer) Render(w io.Writer, title string, panels []store.Panel) error {
	var b strings.Builder

	if r.Clear {
		b.WriteString(clearScreen)
	}

	b.WriteString(r.style(titleStyle, title))
	b.WriteString("\n")

	for _, p := range panels {
		b.WriteString("\n")
		b.WriteString(r.style(panelStyle, p.Name))
		b.WriteString("\n")

		if !p.Loaded {
			b.WriteString("  ")
			b.WriteString(r.style(loadingStyle, LoadingText))
			b.WriteString("\n")
			continue
		}

		width := 0
		for _, e := range p.Entries {
			if n := lipgloss.Width(e.Label); n > width {
				width = n
			}
		}

		for _, e := range p.Entries {
			pad := strings.Repeat(" ", width-lipgloss.Width(e.Label))
			b.WriteString("  ")
			b.WriteString(r.style(labelStyle, e.Label))
			b.WriteString(pad)
			b.WriteString("  ")
			b.WriteString(r.style(valueStyle, e.Value))
			b.WriteString("\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}
