package term

import (
	"context"
	"errors"
	"sync/atomic"

	ui "github.com/atdiar/entityui"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// Event types dispatched by Run.
const (
	ClickEvent    = "click"
	KeypressEvent = "keypress"
)

// Screen paints a Box tree on a tcell.Screen and feeds the input events of
// the terminal to a Scene.
type Screen struct {
	screen tcell.Screen
	root   *Box
	logger *zap.Logger

	lines    []Line
	focus    *Box
	released atomic.Bool
}

// NewScreen returns a Screen painting root on s. s must be initialized.
func NewScreen(s tcell.Screen, root *Box, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Screen{screen: s, root: root, logger: logger}
}

// Draw lays the tree out and paints it.
func (s *Screen) Draw() {
	s.lines = Layout(s.root)
	s.screen.Clear()
	for y, line := range s.lines {
		x := 0
		for _, run := range line {
			for _, r := range run.Text {
				s.screen.SetContent(x, y, r, nil, run.Style)
				x += runewidth.RuneWidth(r)
			}
		}
	}
	s.screen.Show()
}

// Lines returns the lines painted by the last Draw.
func (s *Screen) Lines() []Line { return s.lines }

// HitTest returns the element painted at x, y by the last Draw.
func (s *Screen) HitTest(x, y int) (*Box, bool) {
	if y < 0 || y >= len(s.lines) {
		return nil, false
	}
	start := 0
	for _, run := range s.lines[y] {
		end := start + runewidth.StringWidth(run.Text)
		if x >= start && x < end {
			return run.Box, true
		}
		start = end
	}
	return nil, false
}

// Focus returns the element keypresses are dispatched to. It is the last
// element clicked, or the first child of the root.
func (s *Screen) Focus() *Box {
	if s.focus != nil && s.attached(s.focus) {
		return s.focus
	}
	if len(s.root.children) > 0 {
		return s.root.children[0]
	}
	return s.root
}

func (s *Screen) attached(b *Box) bool {
	for n := b; n != nil; n = n.parent {
		if n == s.root {
			return true
		}
	}
	return false
}

// Attach redraws the screen after every reconciliation pass of scene. The
// input events Run feeds to scene are registered with its Interactions, so
// removing the scene makes Run return.
func (s *Screen) Attach(scene *ui.Scene) {
	scene.Do(func() {
		scene.OnUpdate(s.Draw)
		events := scene.Renderer().Interactions()
		events.Listen(ClickEvent, s.release)
		events.Listen(KeypressEvent, s.release)
		s.Draw()
	})
}

// release stops Run. It may be called more than once.
func (s *Screen) release() {
	if s.released.Swap(true) {
		return
	}
	if err := s.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		s.logger.Warn("cannot interrupt event polling", zap.Error(err))
	}
}

// Run polls terminal events until ctx is done, the attached scene is removed
// or the user hits Escape or Ctrl-C. Left clicks are dispatched to scene as
// click events on the element under the pointer, keys as keypress events on
// the focused element. Event handlers run on the goroutine of the frame loop
// of scene.
func (s *Screen) Run(ctx context.Context, scene *ui.Scene) error {
	stop := context.AfterFunc(ctx, func() {
		if err := s.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
			s.logger.Warn("cannot interrupt event polling", zap.Error(err))
		}
	})
	defer stop()

	var pressed bool
	for {
		ev := s.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return errors.New("terminal screen finalized")

		case *tcell.EventInterrupt:
			if ctx.Err() != nil || s.released.Load() {
				return nil
			}

		case *tcell.EventResize:
			s.screen.Sync()
			scene.Do(s.Draw)

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			scene.Do(func() {
				target := s.Focus()
				scene.Dispatch(ui.NewEvent(KeypressEvent, true, target, ev))
			})

		case *tcell.EventMouse:
			down := ev.Buttons()&tcell.Button1 != 0
			if down && !pressed {
				x, y := ev.Position()
				scene.Do(func() {
					target, ok := s.HitTest(x, y)
					if !ok {
						return
					}
					s.focus = target
					handled := scene.Dispatch(ui.NewEvent(ClickEvent, true, target, ev))
					s.logger.Debug("click", zap.Int("x", x), zap.Int("y", y), zap.String("tag", target.Tag), zap.Bool("handled", handled))
				})
			}
			pressed = down
		}
	}
}
