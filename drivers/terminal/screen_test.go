package term

import (
	"context"
	"strings"
	"testing"
	"time"

	ui "github.com/atdiar/entityui"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newSimulation(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(30, 6)
	t.Cleanup(s.Fini)
	return s
}

func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for _, c := range cells[y*w : (y+1)*w] {
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

type counter struct {
	ui.Base
	keys *[]string
}

func (c *counter) Render(dom ui.Dom, state ui.State, props ui.Props) *ui.Node {
	n := state["n"].(int)
	return dom.Element("div", ui.Attrs{
		"onKeypress": func(evt ui.Event, state ui.State, props ui.Props) {
			*c.keys = append(*c.keys, string(evt.Native().(*tcell.EventKey).Rune()))
		},
	},
		dom.Element("p", nil, props.String("title")),
		dom.Element("button", ui.Attrs{"onClick": func(ui.Event, ui.State, ui.Props) {
			_ = c.SetState(ui.State{"n": n + 1}, nil)
		}}, "[+]"),
		dom.Element("span", nil, " count ", n),
	)
}

func TestScreenDraw(t *testing.T) {
	sim := newSimulation(t)
	root := el("screen", nil,
		el("h1", nil, txt("héllo")),
		el("p", nil, el("b", nil, txt("x")), txt("y")),
	)
	s := NewScreen(sim, root, nil)
	s.Draw()

	assert.Equal(t, "héllo", row(sim, 0))
	assert.Equal(t, "xy", row(sim, 1))
	assert.Equal(t, "", row(sim, 2))

	b, ok := s.HitTest(0, 1)
	require.True(t, ok)
	assert.Equal(t, "b", b.Tag)
	p, ok := s.HitTest(1, 1)
	require.True(t, ok)
	assert.Equal(t, "p", p.Tag)
	_, ok = s.HitTest(2, 1)
	assert.False(t, ok)
	_, ok = s.HitTest(0, 5)
	assert.False(t, ok)
}

func TestScreenRun(t *testing.T) {
	sim := newSimulation(t)
	var keys []string
	ct := ui.Define("counter", func() ui.Component { return &counter{keys: &keys} }).State("n", 0)

	root := NewContainer()
	loop := ui.NewManualLoop()
	scene, err := ui.Mount(root, Host{}, ct, ui.Props{"title": "Counter"}, ui.WithLoop(loop))
	require.NoError(t, err)

	s := NewScreen(sim, root, zaptest.NewLogger(t))
	s.Attach(scene)
	assert.Equal(t, "Counter", row(sim, 0))
	assert.Equal(t, "[+] count 0", row(sim, 1))

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), scene) }()

	sim.InjectMouse(1, 1, tcell.Button1, tcell.ModNone)
	sim.InjectMouse(1, 1, tcell.ButtonNone, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'k', tcell.ModNone)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}

	assert.Equal(t, []string{"k"}, keys)
	assert.True(t, scene.Dirty())
	loop.Tick()
	require.NoError(t, scene.Err())
	assert.Equal(t, "[+] count 1", row(sim, 1))
	assert.Equal(t, "button", s.Focus().Tag)
}

func TestScreenRunStopsWithContext(t *testing.T) {
	sim := newSimulation(t)
	root := NewContainer()
	scene, err := ui.Mount(root, Host{}, ui.Noscript, nil, ui.WithLoop(ui.NewManualLoop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewScreen(sim, root, nil).Run(ctx, scene) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestScreenRunStopsWhenSceneIsRemoved(t *testing.T) {
	sim := newSimulation(t)
	root := NewContainer()
	scene, err := ui.Mount(root, Host{}, ui.Noscript, nil, ui.WithLoop(ui.NewManualLoop()))
	require.NoError(t, err)

	s := NewScreen(sim, root, nil)
	s.Attach(scene)
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), scene) }()
	require.NoError(t, scene.Remove())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Empty(t, root.Children())
}
