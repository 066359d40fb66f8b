// Package ui hosts a sticky sheet in a terminal. Mouse drags and clicks
// become gestures, arrow keys and the wheel become flicks, and the sheet's
// timers and animation frames are driven by bubbletea ticks so that every
// state change happens inside Update.
package ui

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/anim"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/config"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/loader"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/sheet"
)

// FilesChangedMsg tells the host that watched files changed on disk
type FilesChangedMsg struct {
	Paths []string
}

type contentLoadedMsg struct {
	body string
	err  error
}

type configLoadedMsg struct {
	cfg config.Config
	err error
}

// Options configures the host model
type Options struct {
	Config      config.Config
	ConfigPath  string
	ContentPath string
	Body        string

	// GlamourStyle is a glamour standard style name ("dark", "light",
	// "notty"). Empty selects "dark".
	GlamourStyle string

	Theme  *Theme
	Keys   *KeyMap
	Logger *zap.Logger
	Clock  func() time.Time
}

// Model is the bubbletea model hosting one sheet
type Model struct {
	cfg         config.Config
	configPath  string
	contentPath string

	sheet *sheet.Sheet
	tween *anim.Tween
	sched *teaScheduler

	keys    KeyMap
	help    help.Model
	overlay HelpOverlayModel
	theme   Theme

	body         string
	bodyWidth    int
	glamourStyle string
	vp           viewport.Model

	width, height int
	framePending  bool

	press    *model.Point
	dragging bool

	quitting bool
	done     bool
	status   string

	log *zap.Logger
}

// tweenAnimator lets the sheet be built before the tween that animates it
type tweenAnimator struct {
	tween *anim.Tween
}

func (a *tweenAnimator) Animate(d time.Duration, mutate func(), done func()) {
	a.tween.Animate(d, mutate, done)
}

// NewModel builds the host and its sheet. The sheet is attached on the
// first window size message.
func NewModel(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = "dark"
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	theme := DefaultTheme(nil)
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	m := &Model{
		cfg:          opts.Config,
		configPath:   absPath(opts.ConfigPath),
		contentPath:  absPath(opts.ContentPath),
		sched:        newTeaScheduler(),
		keys:         keys,
		help:         help.New(),
		overlay:      NewHelpOverlayModel(keys, theme),
		theme:        theme,
		body:         opts.Body,
		glamourStyle: opts.GlamourStyle,
		vp:           viewport.New(0, 0),
		log:          opts.Logger.Named("ui"),
	}

	animator := &tweenAnimator{}
	sopts := opts.Config.SheetOptions()
	sopts.Animator = animator
	sopts.Scheduler = m.sched
	sopts.Logger = opts.Logger
	m.sheet = sheet.New(sopts)
	animator.tween = anim.NewTween(m.sheet, anim.WithClock(opts.Clock))
	m.tween = animator.tween

	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Sheet returns the hosted sheet
func (m *Model) Sheet() *sheet.Sheet {
	return m.sheet
}

// Quitting reports whether the dismissal animation has started
func (m *Model) Quitting() bool {
	return m.quitting
}

// Close releases the sheet's timers
func (m *Model) Close() {
	m.sheet.Close()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := m.handle(msg)
	cmds = append(cmds, m.sched.drain()...)
	if m.tween.Active() && !m.framePending && !m.done {
		m.framePending = true
		cmds = append(cmds, tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg {
			return frameMsg(t)
		}))
	}
	if m.done {
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handle(msg tea.Msg) []tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case timerFiredMsg:
		m.sched.fire(msg.id)

	case frameMsg:
		m.framePending = false
		m.tween.Step(time.Time(msg))

	case FilesChangedMsg:
		return m.reloadCmds(msg.Paths)

	case contentLoadedMsg:
		if msg.err != nil {
			m.status = "reload failed: " + msg.err.Error()
			m.log.Warn("content reload failed", zap.Error(msg.err))
		} else {
			m.status = ""
		}
		m.body = msg.body
		m.bodyWidth = 0
		m.renderBody()

	case configLoadedMsg:
		if msg.err != nil {
			m.status = "config reload failed: " + msg.err.Error()
			m.log.Warn("config reload failed", zap.Error(msg.err))
			return nil
		}
		m.status = ""
		m.applyConfig(msg.cfg)
	}
	return nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	parent := model.Rect{Width: float64(width), Height: float64(max(height-1, 1))}

	if !m.sheet.Attached() {
		m.sheet.Attach(parent)
	} else {
		// Layout places the frame directly; a running tween would
		// overwrite it on the next frame.
		m.tween.Finish()
		m.sheet.Layout(parent)
	}
	m.renderBody()
}

func (m *Model) handleKey(msg tea.KeyMsg) []tea.Cmd {
	if m.overlay.IsVisible() {
		m.overlay, _ = m.overlay.Update(msg)
		return nil
	}
	if m.quitting {
		return nil
	}

	g := m.sheet.Gestures()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.dismiss()
	case key.Matches(msg, m.keys.Help):
		m.overlay.Toggle()
	case key.Matches(msg, m.keys.Freeze):
		m.sheet.SetFrozen(!m.sheet.Frozen())
		m.log.Debug("freeze toggled", zap.Bool("frozen", m.sheet.Frozen()))
	case key.Matches(msg, m.keys.Up):
		g.Flick(model.SwipeUp)
	case key.Matches(msg, m.keys.Down):
		g.Flick(model.SwipeDown)
	case key.Matches(msg, m.keys.Left):
		g.Flick(model.SwipeLeft)
	case key.Matches(msg, m.keys.Right):
		g.Flick(model.SwipeRight)
	case key.Matches(msg, m.keys.Reveal):
		if m.sheet.Frozen() {
			return nil
		}
		n, err := strconv.Atoi(msg.String())
		if err != nil || n < 1 || n > m.sheet.StickyCount() {
			return nil
		}
		m.sheet.Manager().AnimateTo(m.sheet.StickyPoints().At(n - 1))
	case key.Matches(msg, m.keys.Hide):
		if !m.sheet.Frozen() {
			m.sheet.Manager().AnimateTo(0)
		}
	case key.Matches(msg, m.keys.ScrollUp):
		m.syncViewport()
		m.vp.ScrollUp(max(m.vp.Height/2, 1))
	case key.Matches(msg, m.keys.ScrollDown):
		m.syncViewport()
		m.vp.ScrollDown(max(m.vp.Height/2, 1))
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.quitting || m.overlay.IsVisible() || !m.sheet.Attached() {
		return
	}
	p := model.Point{X: float64(msg.X), Y: float64(msg.Y)}
	g := m.sheet.Gestures()

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			// Grab the sheet where it is headed, not where it is drawn.
			m.tween.Finish()
			if !m.sheet.Contains(p) {
				return
			}
			m.press = &p
			m.dragging = false
		case tea.MouseButtonWheelUp:
			g.Flick(model.SwipeUp)
		case tea.MouseButtonWheelDown:
			g.Flick(model.SwipeDown)
		case tea.MouseButtonWheelLeft:
			g.Flick(model.SwipeLeft)
		case tea.MouseButtonWheelRight:
			g.Flick(model.SwipeRight)
		}

	case tea.MouseActionMotion:
		if m.press == nil {
			return
		}
		if !m.dragging {
			g.Begin(*m.press)
			m.dragging = true
		}
		g.Move(m.translation(p))

	case tea.MouseActionRelease:
		if m.press == nil {
			return
		}
		if m.dragging {
			g.End(m.translation(p))
		} else {
			m.sheet.Manager().Tap()
		}
		m.press = nil
		m.dragging = false
	}
}

func (m *Model) translation(p model.Point) model.Point {
	return model.Point{X: p.X - m.press.X, Y: p.Y - m.press.Y}
}

// dismiss slides the sheet out and quits once it is gone.
func (m *Model) dismiss() {
	m.quitting = true
	m.press = nil
	m.dragging = false
	m.sheet.Gestures().Cancel()
	if !m.sheet.Attached() {
		m.done = true
		return
	}
	m.log.Debug("dismissing")
	m.sheet.Manager().DoOutAnimation(func() {
		m.done = true
	})
}

func (m *Model) reloadCmds(paths []string) []tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range paths {
		p = absPath(p)
		switch {
		case p != "" && p == m.contentPath:
			path := m.contentPath
			cmds = append(cmds, func() tea.Msg {
				body, err := loader.LoadContentOrDefault(path)
				return contentLoadedMsg{body: body, err: err}
			})
		case p != "" && p == m.configPath:
			path := m.configPath
			cmds = append(cmds, func() tea.Msg {
				cfg, err := config.Load(path)
				return configLoadedMsg{cfg: cfg, err: err}
			})
		}
	}
	return cmds
}

// applyConfig takes over the settings that can change on a live sheet.
// Direction and durations only apply on the next start.
func (m *Model) applyConfig(cfg config.Config) {
	if cfg.Direction() != m.cfg.Direction() {
		m.status = "direction change applies on restart"
	}
	m.sheet.SetStickyPoints(cfg.Sheet.StickyPoints)
	m.sheet.Manager().SetForceBackToZero(cfg.Sheet.ForceBackToZero)
	// A freeze toggled at runtime survives reloads that leave the key alone.
	if cfg.Sheet.Frozen != m.cfg.Sheet.Frozen {
		m.sheet.SetFrozen(cfg.Sheet.Frozen)
	}
	m.sheet.Manager().SetLayoutFromStep(true)
	m.tween.Finish()
	m.sheet.Manager().DidLayoutSubviews()

	m.cfg.Sheet.StickyPoints = cfg.Sheet.StickyPoints
	m.cfg.Sheet.ForceBackToZero = cfg.Sheet.ForceBackToZero
	m.cfg.Sheet.Frozen = cfg.Sheet.Frozen
	m.cfg.Animation.FPS = cfg.Animation.FPS
	m.log.Info("config reloaded", zap.Float64s("sticky_points", cfg.Sheet.StickyPoints))
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
