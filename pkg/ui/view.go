package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
)

// cellRect is a rectangle snapped to terminal cells
type cellRect struct {
	x, y, w, h int
}

func toCells(r model.Rect) cellRect {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	x1 := int(math.Round(r.X + r.Width))
	y1 := int(math.Round(r.Y + r.Height))
	return cellRect{x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

// bodyWrapWidth is the interior width of the fully revealed sheet
func (m *Model) bodyWrapWidth() int {
	w := m.width - 2
	if !m.sheet.Direction().IsVertical() && m.sheet.ShowsHandle() {
		w--
	}
	return max(w, 1)
}

// renderBody renders the markdown body with glamour and loads it into the
// viewport. It is a no-op when the wrap width has not changed.
func (m *Model) renderBody() {
	width := m.bodyWrapWidth()
	if width == m.bodyWidth {
		return
	}
	m.bodyWidth = width

	rendered := m.body
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.glamourStyle),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		var out string
		out, err = r.Render(m.body)
		if err == nil {
			rendered = strings.Trim(out, "\n")
		}
	}
	if err != nil {
		m.log.Sugar().Warnf("markdown render failed, showing raw body: %v", err)
	}
	m.vp.SetContent(rendered)
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.overlay.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.overlay.View())
	}

	canvasHeight := max(m.height-1, 1)
	rows := make([]string, canvasHeight)

	if vis, ok := m.sheet.Visible(); ok {
		r := toCells(vis)
		for i, line := range m.renderSheet(r.w, r.h) {
			y := r.y + i
			if y < 0 || y >= canvasHeight {
				continue
			}
			rows[y] = strings.Repeat(" ", max(r.x, 0)) + line
		}
	}

	return strings.Join(rows, "\n") + "\n" + m.statusLine()
}

// renderSheet draws the visible part of the sheet as exactly h lines.
func (m *Model) renderSheet(w, h int) []string {
	if w <= 0 || h <= 0 {
		return nil
	}
	style := SheetStyle(m.theme, m.sheet.Frozen())
	if w < 3 || h < 3 {
		// Too thin for a border: draw the leading edge only.
		edge := m.theme.Renderer.NewStyle().Foreground(style.GetBorderTopForeground())
		lines := make([]string, h)
		for i := range lines {
			lines[i] = edge.Render(strings.Repeat("▒", w))
		}
		return lines
	}

	iw, ih := w-2, h-2
	inner := m.renderInterior(iw, ih)
	box := style.Width(iw).Height(ih).Render(strings.Join(inner, "\n"))
	lines := strings.Split(box, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	return lines
}

// renderInterior lays out the handle and the body inside the border.
func (m *Model) renderInterior(iw, ih int) []string {
	dir := m.sheet.Direction()
	handle := m.sheet.ShowsHandle()

	bw, bh := m.bodySize(iw, ih)
	body := m.bodyLines(bw, bh)
	if !handle {
		return body
	}

	switch dir {
	case model.BottomToTop:
		return append([]string{RenderHandle(iw, m.theme)}, body...)
	case model.TopToBottom:
		return append(body, RenderHandle(iw, m.theme))
	}

	grip := m.theme.Renderer.NewStyle().Foreground(m.theme.Secondary)
	mid := ih / 2
	out := make([]string, len(body))
	for i, line := range body {
		cell := " "
		if i >= mid-1 && i <= mid+1 {
			cell = grip.Render("┃")
		}
		if dir == model.LeftToRight {
			out[i] = line + cell
		} else {
			out[i] = cell + line
		}
	}
	return out
}

// bodySize is the body area left inside an iw x ih interior once the
// handle row or column is taken out.
func (m *Model) bodySize(iw, ih int) (w, h int) {
	w, h = iw, ih
	if m.sheet.ShowsHandle() {
		if m.sheet.Direction().IsVertical() {
			h--
		} else {
			w--
		}
	}
	return max(w, 0), max(h, 0)
}

// syncViewport sizes the viewport to the body area currently on screen so
// that scrolling stops at the right place.
func (m *Model) syncViewport() {
	vis, ok := m.sheet.Visible()
	if !ok {
		return
	}
	r := toCells(vis)
	m.vp.Width, m.vp.Height = m.bodySize(r.w-2, r.h-2)
}

// bodyLines returns exactly h body lines, each padded or clipped to w cells.
func (m *Model) bodyLines(w, h int) []string {
	lines := make([]string, h)
	if w <= 0 || h <= 0 {
		return lines
	}

	vp := m.vp
	vp.Width = w
	vp.Height = h
	content := strings.Split(vp.View(), "\n")

	for i := range lines {
		var line string
		if i < len(content) {
			line = truncate.String(content[i], uint(w))
		}
		if pad := w - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		lines[i] = line
	}
	return lines
}

// reveal is the share of the parent's axis the sheet currently covers.
func (m *Model) reveal() float64 {
	vis, ok := m.sheet.Visible()
	if !ok {
		return 0
	}
	parent, _ := m.sheet.Bounds()
	if m.sheet.Direction().IsVertical() {
		if parent.Height <= 0 {
			return 0
		}
		return vis.Height / parent.Height
	}
	if parent.Width <= 0 {
		return 0
	}
	return vis.Width / parent.Width
}

func (m *Model) statusLine() string {
	parts := []string{
		RenderStepDots(m.sheet.Step(), m.sheet.StickyCount(), m.theme),
		RenderRevealBar(m.reveal(), 10, m.theme),
	}
	if m.sheet.Frozen() {
		parts = append(parts, RenderBadge("FROZEN", m.theme.Frozen, m.theme))
	}
	if m.sheet.Manager().HasTapAffordance() {
		parts = append(parts, m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext).Render("click to open"))
	}
	if m.status != "" {
		parts = append(parts, m.theme.Renderer.NewStyle().Foreground(m.theme.Frozen).Render(runewidth.Truncate(m.status, 48, "…")))
	}
	parts = append(parts, m.help.ShortHelpView(m.keys.ShortHelp()))

	return truncate.StringWithTail(strings.Join(parts, "  "), uint(max(m.width, 0)), "…")
}
