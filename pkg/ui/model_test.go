package ui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/config"
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// keyMsg creates a tea.KeyMsg for testing
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

// newTestModel returns a host attached to a 100x40 parent with the
// entrance animation already settled.
func newTestModel(t *testing.T, mutate func(*Options)) *Model {
	t.Helper()
	theme := DefaultTheme(lipgloss.NewRenderer(io.Discard))
	opts := Options{
		Config:       config.Default(),
		Body:         "hello world",
		GlamourStyle: "notty",
		Theme:        &theme,
		Clock:        func() time.Time { return testEpoch },
	}
	if mutate != nil {
		mutate(&opts)
	}
	m := NewModel(opts)
	t.Cleanup(m.Close)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 41})
	settle(m)
	return m
}

// settle delivers one frame far enough in the future to finish any tween
func settle(m *Model) tea.Cmd {
	_, cmd := m.Update(frameMsg(testEpoch.Add(time.Hour)))
	return cmd
}

func TestEntranceAnimation(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(io.Discard))
	m := NewModel(Options{
		Config:       config.Default(),
		GlamourStyle: "notty",
		Theme:        &theme,
		Clock:        func() time.Time { return testEpoch },
	})
	defer m.Close()

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 41})
	if cmd == nil {
		t.Fatal("Expected a frame tick after attach")
	}
	if !m.tween.Active() {
		t.Fatal("Expected entrance tween to be running")
	}
	if got := m.sheet.Frame().Y; got != 40 {
		t.Errorf("Expected entrance to start off-screen at 40, got %v", got)
	}

	m.Update(frameMsg(testEpoch.Add(250 * time.Millisecond)))
	mid := m.sheet.Frame().Y
	if mid <= 32 || mid >= 40 {
		t.Errorf("Expected mid-animation offset between 32 and 40, got %v", mid)
	}

	settle(m)
	if got := m.sheet.Frame().Y; got != 32 {
		t.Errorf("Expected sheet to rest at 32, got %v", got)
	}
}

func TestKeyFlickAndDebounce(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.sheet.Step() != 1 {
		t.Fatalf("Expected up to advance to step 1, got %d", m.sheet.Step())
	}
	if cmd == nil {
		t.Error("Expected a frame tick for the transition")
	}

	// Key flicks are not debounced; a drag flick is.
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.sheet.Step() != 0 {
		t.Errorf("Expected down to return to step 0, got %d", m.sheet.Step())
	}
}

func TestDragFlickSchedulesDebounceTick(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 50, 35))
	m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 50, 34))
	_, cmd := m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 50, 4))
	if cmd == nil {
		t.Fatal("Expected timer and frame commands")
	}
	if m.sheet.Step() != 1 {
		t.Fatalf("Expected fast drag to flick to step 1, got %d", m.sheet.Step())
	}
	if m.sheet.Gestures().Enabled() {
		t.Fatal("Expected input disabled during debounce")
	}
	if m.sched.Len() != 1 {
		t.Fatalf("Expected one pending timer, got %d", m.sched.Len())
	}

	var id uint64
	for k := range m.sched.timers {
		id = k
	}
	m.Update(timerFiredMsg{id: id})
	if !m.sheet.Gestures().Enabled() {
		t.Error("Expected input re-enabled after the debounce tick")
	}
}

func TestDragReleaseSnaps(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 50, 35))
	m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 50, 25))
	if got := m.sheet.Frame().Y; got != 22 {
		t.Fatalf("Expected drag to move the sheet to 22, got %v", got)
	}
	m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 50, 20))
	m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 50, 20))

	if m.sheet.Step() != 1 {
		t.Errorf("Expected release at 17 to rest at step 1, got %d", m.sheet.Step())
	}
	if m.dragging || m.press != nil {
		t.Error("Expected pointer state cleared after release")
	}
}

func TestClickTapsAtFirstStop(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 38))
	m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 10, 38))
	if m.sheet.Step() != 1 {
		t.Fatalf("Expected click at step 0 to advance, got %d", m.sheet.Step())
	}

	settle(m)
	// No tap affordance past step 0.
	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 38))
	m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 10, 38))
	if m.sheet.Step() != 1 {
		t.Errorf("Expected click at step 1 to do nothing, got %d", m.sheet.Step())
	}
}

func TestClickOutsideSheetIgnored(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 5))
	m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 10, 5))
	if m.sheet.Step() != 0 {
		t.Errorf("Expected click above the sheet to be ignored, got step %d", m.sheet.Step())
	}
}

func TestWheelFlicks(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonWheelUp, 10, 38))
	if m.sheet.Step() != 1 {
		t.Errorf("Expected wheel up to advance, got %d", m.sheet.Step())
	}
	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonWheelLeft, 10, 38))
	if m.sheet.Step() != 1 {
		t.Errorf("Expected off-axis wheel to be ignored, got %d", m.sheet.Step())
	}
}

func TestFreezeToggle(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(keyMsg("f"))
	if !m.sheet.Frozen() {
		t.Fatal("Expected f to freeze the sheet")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(keyMsg("3"))
	if m.sheet.Step() != 0 {
		t.Errorf("Expected frozen sheet to ignore input, got step %d", m.sheet.Step())
	}
	if !strings.Contains(m.View(), "FROZEN") {
		t.Error("Expected FROZEN badge in status line")
	}

	m.Update(keyMsg("f"))
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.sheet.Step() != 1 {
		t.Errorf("Expected unfrozen sheet to advance, got %d", m.sheet.Step())
	}
}

func TestRevealKeys(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(keyMsg("3"))
	if m.sheet.Step() != 2 {
		t.Errorf("Expected 3 to go to the third stop, got %d", m.sheet.Step())
	}
	m.Update(keyMsg("9"))
	if m.sheet.Step() != 2 {
		t.Errorf("Expected out-of-range stop to be ignored, got %d", m.sheet.Step())
	}
	m.Update(keyMsg("0"))
	settle(m)
	if _, ok := m.sheet.Visible(); ok {
		t.Error("Expected 0 to hide the sheet")
	}
}

func TestQuitRunsOutAnimation(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(keyMsg("q"))
	if !m.Quitting() {
		t.Fatal("Expected q to start dismissal")
	}
	if !m.tween.Active() {
		t.Fatal("Expected out animation to be running")
	}

	cmd := settle(m)
	if cmd == nil {
		t.Fatal("Expected quit command once the sheet is gone")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected tea.QuitMsg, got %T", cmd())
	}
	if got := m.sheet.Frame().Y; got != 40 {
		t.Errorf("Expected sheet off-screen at 40, got %v", got)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(keyMsg("?"))
	if !strings.Contains(m.View(), "Sticky Sheet Help") {
		t.Fatal("Expected help overlay")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.sheet.Step() != 0 {
		t.Error("Expected key that closes help not to flick")
	}
	if m.overlay.IsVisible() {
		t.Error("Expected any key to close help")
	}
}

func TestViewDrawsSheet(t *testing.T) {
	m := newTestModel(t, nil)

	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 41 {
		t.Fatalf("Expected 41 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[32], "╭") {
		t.Errorf("Expected top border at row 32, got %q", lines[32])
	}
	if !strings.Contains(lines[33], "━") {
		t.Errorf("Expected grab handle below the border, got %q", lines[33])
	}
	if strings.TrimSpace(lines[10]) != "" {
		t.Errorf("Expected empty canvas above the sheet, got %q", lines[10])
	}
	if !strings.Contains(view, "hello world") {
		t.Error("Expected rendered body in view")
	}
}

func TestResizeRelayouts(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(keyMsg("2"))
	settle(m)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 21})
	f := m.sheet.Frame()
	if f.Height != 20 || f.Width != 80 {
		t.Errorf("Expected frame resized to 80x20, got %v", f)
	}
	if f.Y != 10 {
		t.Errorf("Expected step 1 to rest at 10 after resize, got %v", f.Y)
	}
}

func TestContentReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SHEET.md")
	if err := os.WriteFile(path, []byte("first body"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, func(o *Options) {
		o.ContentPath = path
		o.Body = "first body"
	})

	if err := os.WriteFile(path, []byte("second body"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, cmd := m.Update(FilesChangedMsg{Paths: []string{path}})
	if cmd == nil {
		t.Fatal("Expected a reload command")
	}
	m.Update(cmd())

	if !strings.Contains(m.View(), "second body") {
		t.Error("Expected reloaded body in view")
	}
}

func TestConfigReloadReplacesStickyPoints(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(keyMsg("3"))
	settle(m)

	cfg := config.Default()
	cfg.Sheet.StickyPoints = []float64{0.4}
	m.Update(configLoadedMsg{cfg: cfg})

	if m.sheet.StickyCount() != 1 || m.sheet.ShowsHandle() {
		t.Errorf("Expected a single stop without handle, got %d", m.sheet.StickyCount())
	}
	if m.sheet.Step() != 0 {
		t.Errorf("Expected step clamped to 0, got %d", m.sheet.Step())
	}
	if got := m.sheet.Frame().Y; got != 24 {
		t.Errorf("Expected sheet to rest at 24, got %v", got)
	}
}

func TestConfigReloadKeepsRuntimeFreeze(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(keyMsg("f"))

	cfg := config.Default()
	cfg.Sheet.StickyPoints = []float64{0.3, 0.6}
	m.Update(configLoadedMsg{cfg: cfg})
	if !m.sheet.Frozen() {
		t.Fatal("Expected reload without a frozen change to keep the freeze")
	}

	cfg.Sheet.Frozen = true
	m.Update(configLoadedMsg{cfg: cfg})
	m.Update(keyMsg("f"))
	if m.sheet.Frozen() {
		t.Fatal("Expected f to unfreeze")
	}

	cfg.Sheet.Frozen = false
	m.Update(configLoadedMsg{cfg: cfg})
	if m.sheet.Frozen() {
		t.Error("Expected frozen=false in the file to apply")
	}

	cfg.Sheet.Frozen = true
	m.Update(configLoadedMsg{cfg: cfg})
	if !m.sheet.Frozen() {
		t.Error("Expected frozen=true in the file to apply once it changes")
	}
}

func TestHorizontalSheetUsesHorizontalFlicks(t *testing.T) {
	m := newTestModel(t, func(o *Options) {
		o.Config.Sheet.Direction = "right_to_left"
	})

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.sheet.Step() != 0 {
		t.Errorf("Expected vertical flick to be ignored, got %d", m.sheet.Step())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.sheet.Step() != 1 {
		t.Errorf("Expected left flick to advance a right-to-left sheet, got %d", m.sheet.Step())
	}
}
