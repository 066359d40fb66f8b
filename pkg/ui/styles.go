package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
)

// Theme bundles the renderer and the adaptive colors the host draws with
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Frozen    lipgloss.AdaptiveColor
	Open      lipgloss.AdaptiveColor
}

// DefaultTheme returns the Dracula-flavored theme bound to r. A nil r uses
// lipgloss' default renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: string(ColorPrimary)},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: string(ColorMuted)},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: string(ColorSubtext)},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: string(ColorBgHighlight)},
		Highlight: lipgloss.AdaptiveColor{Light: "#0087AF", Dark: string(ColorInfo)},
		Frozen:    lipgloss.AdaptiveColor{Light: "#D75F00", Dark: string(ColorWarning)},
		Open:      lipgloss.AdaptiveColor{Light: "#008700", Dark: string(ColorSuccess)},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SHEET CHROME
// ══════════════════════════════════════════════════════════════════════════════

// SheetStyle is the rounded panel the sheet is drawn in. Frozen sheets get
// the warning border.
func SheetStyle(t Theme, frozen bool) lipgloss.Style {
	border := t.Primary
	if frozen {
		border = t.Frozen
	}
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

// RenderHandle renders the horizontal grab handle centered in width
func RenderHandle(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	n := min(8, width)
	pad := (width - n) / 2
	bar := t.Renderer.NewStyle().Foreground(t.Secondary).Render(strings.Repeat("━", n))
	return strings.Repeat(" ", pad) + bar + strings.Repeat(" ", width-n-pad)
}

// RenderStepDots renders one dot per sticky point with the current one lit
func RenderStepDots(step, count int, t Theme) string {
	if count <= 0 {
		return ""
	}
	on := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	off := t.Renderer.NewStyle().Foreground(t.Secondary)

	var b strings.Builder
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == step {
			b.WriteString(on.Render("●"))
		} else {
			b.WriteString(off.Render("○"))
		}
	}
	return b.String()
}

// RenderRevealBar renders a mini horizontal bar for a reveal fraction
// between 0 and 1
func RenderRevealBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	value = max(0, min(1, value))

	filled := min(int(value*float64(width)+0.5), width)

	var barColor lipgloss.AdaptiveColor
	if value >= 0.75 {
		barColor = t.Open
	} else if value >= 0.25 {
		barColor = t.Highlight
	} else {
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// RenderBadge renders a small bold label such as FROZEN
func RenderBadge(label string, fg lipgloss.AdaptiveColor, t Theme) string {
	return t.Renderer.NewStyle().
		Foreground(fg).
		Bold(true).
		Render(fmt.Sprintf("[%s]", label))
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}
