package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe is a component implementing every hook. It records the hooks it runs
// in log, prefixed by name.
type probe struct {
	name string
	log  *[]string

	render        func(dom Dom, state State, props Props) *Node
	initial       State
	beforeUpdate  func(state State, props Props, nextState State, nextProps Props)
	afterUpdate   func(state State, props Props, prevState State, prevProps Props)
	afterMount    func(n NativeNode, state State, props Props)
	beforeUnmount func(n NativeNode)
	propsChanged  func(next Props)
}

func (p *probe) record(hook string) {
	if p.log != nil {
		*p.log = append(*p.log, p.name+"."+hook)
	}
}

func (p *probe) Render(dom Dom, state State, props Props) *Node {
	p.record("render")
	if p.render == nil {
		return dom.Element("div", nil)
	}
	return p.render(dom, state, props)
}

func (p *probe) InitialState(props Props) State { return p.initial.Clone() }

func (p *probe) BeforeMount(state State, props Props) { p.record("beforeMount") }

func (p *probe) AfterMount(n NativeNode, state State, props Props) {
	p.record("afterMount")
	if p.afterMount != nil {
		p.afterMount(n, state, props)
	}
}

func (p *probe) BeforeUnmount(n NativeNode, state State, props Props) {
	p.record("beforeUnmount")
	if p.beforeUnmount != nil {
		p.beforeUnmount(n)
	}
}

func (p *probe) AfterUnmount(state State, props Props) { p.record("afterUnmount") }

func (p *probe) BeforeUpdate(state State, props Props, nextState State, nextProps Props) {
	p.record("beforeUpdate")
	if p.beforeUpdate != nil {
		p.beforeUpdate(state, props, nextState, nextProps)
	}
}

func (p *probe) AfterUpdate(state State, props Props, prevState State, prevProps Props) {
	p.record("afterUpdate")
	if p.afterUpdate != nil {
		p.afterUpdate(state, props, prevState, prevProps)
	}
}

func (p *probe) PropsChanged(next Props) {
	p.record("propsChanged")
	if p.propsChanged != nil {
		p.propsChanged(next)
	}
}

// probeType defines a component type whose every instance is p.
func probeType(p *probe) *ComponentType {
	return Define(p.name, func() Component { return p })
}

func TestNewEntityRendersWithDefaults(t *testing.T) {
	ct := probeType(&probe{name: "p", initial: State{"count": 1}}).
		Prop("color", "red").
		Prop("size", "s").
		State("count", 0).
		State("open", false)

	e, err := NewEntity(ct, Props{"size": "l"})
	require.NoError(t, err)

	assert.Equal(t, Props{"color": "red", "size": "l"}, e.Props())
	assert.Equal(t, State{"count": 1, "open": false}, e.State())
	require.NotNil(t, e.Current())
	assert.Equal(t, "div", e.Current().Root.Tag)
	assert.Nil(t, e.Previous())
	assert.False(t, e.Dirty())
}

func TestEntityIDsIncrease(t *testing.T) {
	a, err := NewEntity(Noscript, nil)
	require.NoError(t, err)
	b, err := NewEntity(Noscript, nil)
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)
}

func TestRenderWithoutNodeFails(t *testing.T) {
	empty := DefineFunc("empty", func(Dom, State, Props) *Node { return nil })
	_, err := NewEntity(empty, nil)
	assert.ErrorIs(t, err, ErrNoNode)
}

func TestUpdateWithoutChangeIsNoop(t *testing.T) {
	e, err := NewEntity(probeType(&probe{name: "p", initial: State{"n": 1}}), Props{"a": "x"})
	require.NoError(t, err)
	tree := e.Current()

	e.SetProps(Props{"a": "x"}, nil)
	require.NoError(t, e.SetState(State{"n": 1}, nil))
	assert.True(t, e.Dirty())

	assert.False(t, e.Update())
	assert.Same(t, tree, e.Current())
	assert.Equal(t, Props{"a": "x"}, e.Props())
	assert.Equal(t, State{"n": 1}, e.State())

	// The pending values are kept for the next update.
	props, state := e.Pending()
	assert.Equal(t, Props{"a": "x"}, props)
	assert.Equal(t, State{"n": 1}, state)
}

func TestPendingStateIsMerged(t *testing.T) {
	e, err := NewEntity(probeType(&probe{name: "p", initial: State{"a": 1, "b": 1, "c": 1}}), nil)
	require.NoError(t, err)

	require.NoError(t, e.SetState(State{"a": 2, "b": 2}, nil))
	require.NoError(t, e.SetState(State{"b": 3}, nil))

	require.True(t, e.Update())
	assert.Equal(t, State{"a": 2, "b": 3, "c": 1}, e.State())
	props, state := e.Pending()
	assert.Nil(t, props)
	assert.Nil(t, state)
}

func TestPendingPropsAreReplaced(t *testing.T) {
	e, err := NewEntity(probeType(&probe{name: "p"}), Props{"a": 1})
	require.NoError(t, err)

	e.SetProps(Props{"a": 2, "b": 2}, nil)
	e.SetProps(Props{"c": 3}, nil)

	require.True(t, e.Update())
	assert.Equal(t, Props{"c": 3}, e.Props())
}

func TestForceUpdate(t *testing.T) {
	e, err := NewEntity(probeType(&probe{name: "p", initial: State{"n": 1}}), nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, e.ForceUpdate(nil))
		_, pending := e.Pending()
		assert.Contains(t, pending, ForceKey)

		assert.True(t, e.Update(), "update %d", i)
		assert.NotContains(t, e.State(), ForceKey)
		assert.Equal(t, State{"n": 1}, e.State())
	}
}

func TestSetStateInBeforeUpdateFails(t *testing.T) {
	var hookErr error
	var e *Entity
	p := &probe{name: "p"}
	p.beforeUpdate = func(state State, props Props, nextState State, nextProps Props) {
		hookErr = e.SetState(State{"x": 1}, nil)
	}
	e, err := NewEntity(probeType(p), nil)
	require.NoError(t, err)

	e.SetProps(Props{"a": 1}, nil)
	require.True(t, e.Update())

	assert.ErrorIs(t, hookErr, ErrSetStateInBeforeUpdate)
	assert.Equal(t, Idle, e.Lifecycle())
	_, pending := e.Pending()
	assert.Nil(t, pending)

	// Outside of the hook, SetState works again.
	assert.NoError(t, e.SetState(State{"x": 1}, nil))
}

func TestBeforeUpdateMayRewriteNextValues(t *testing.T) {
	p := &probe{name: "p", initial: State{"n": 0}}
	p.beforeUpdate = func(state State, props Props, nextState State, nextProps Props) {
		nextState["n"] = 10
	}
	e, err := NewEntity(probeType(p), nil)
	require.NoError(t, err)

	require.NoError(t, e.SetState(State{"n": 1}, nil))
	require.True(t, e.Update())
	assert.Equal(t, State{"n": 10}, e.State())
}

func TestBeforeUpdateMayRewriteCommittedProps(t *testing.T) {
	p := &probe{name: "p", initial: State{"n": 0}}
	p.beforeUpdate = func(state State, props Props, nextState State, nextProps Props) {
		nextProps["x"] = "rewritten"
	}
	e, err := NewEntity(probeType(p), Props{"x": "orig"})
	require.NoError(t, err)
	committed := e.Props()

	require.NoError(t, e.SetState(State{"n": 0}, nil))
	require.True(t, e.Update())
	assert.Equal(t, Props{"x": "rewritten"}, e.Props())
	assert.Equal(t, Props{"x": "orig"}, committed)
}

func TestNoopUpdateLeavesPropsAlone(t *testing.T) {
	var seen Props
	p := &probe{name: "p"}
	p.beforeUpdate = func(state State, props Props, nextState State, nextProps Props) {
		seen = nextProps
	}
	e, err := NewEntity(probeType(p), Props{"x": "orig"})
	require.NoError(t, err)

	require.NoError(t, e.SetState(State{}, nil))
	assert.False(t, e.Update())
	seen["x"] = "changed later"
	assert.Equal(t, Props{"x": "orig"}, e.Props())

	e.SetProps(Props{"x": "orig"}, nil)
	assert.False(t, e.Update())
	seen["x"] = "changed later"
	pending, _ := e.Pending()
	assert.Equal(t, Props{"x": "orig"}, pending)
	assert.Equal(t, Props{"x": "orig"}, e.Props())
}

func TestSetPropsCopiesItsArgument(t *testing.T) {
	e, err := NewEntity(probeType(&probe{name: "p"}), nil)
	require.NoError(t, err)

	next := Props{"title": "b"}
	e.SetProps(next, nil)
	require.True(t, e.Update())

	next["title"] = "c"
	assert.Equal(t, Props{"title": "b"}, e.Props())

	e.SetProps(next, nil)
	require.True(t, e.Update())
	assert.Equal(t, Props{"title": "c"}, e.Props())
}

func TestBeforeUpdateReceivesCommittedAndNextValues(t *testing.T) {
	var got []string
	p := &probe{name: "p", initial: State{"n": 0}}
	p.beforeUpdate = func(state State, props Props, nextState State, nextProps Props) {
		got = append(got, fmt.Sprint(state["n"], props["a"], nextState["n"], nextProps["a"]))
	}
	e, err := NewEntity(probeType(p), Props{"a": "x"})
	require.NoError(t, err)

	require.NoError(t, e.SetState(State{"n": 1}, nil))
	e.Update()
	e.SetProps(Props{"a": "y"}, nil)
	e.Update()

	assert.Equal(t, []string{"0 x 1 x", "1 x 1 y"}, got)
}

func TestSetPropsCallsPropsChangedSynchronously(t *testing.T) {
	var seen Props
	p := &probe{name: "p"}
	p.propsChanged = func(next Props) { seen = next }
	e, err := NewEntity(probeType(p), Props{"a": 1})
	require.NoError(t, err)

	e.SetProps(Props{"a": 2}, nil)
	assert.Equal(t, Props{"a": 2}, seen)
	assert.Equal(t, Props{"a": 1}, e.Props())
}

func TestOnAppliedRunsOnceAfterCommit(t *testing.T) {
	e, err := NewEntity(probeType(&probe{name: "p"}), nil)
	require.NoError(t, err)

	calls := 0
	e.SetProps(Props{"a": 1}, func() { calls++ })
	require.NoError(t, e.SetState(State{"b": 1}, func() { calls++ }))

	require.True(t, e.Update())
	assert.Zero(t, calls)
	e.AfterUpdate(nil, nil)
	assert.Equal(t, 2, calls)
	e.AfterUpdate(nil, nil)
	assert.Equal(t, 2, calls)
}

func TestCommitKeepsPreviousTree(t *testing.T) {
	e, err := NewEntity(probeType(&probe{name: "p"}), nil)
	require.NoError(t, err)
	first := e.Current()

	e.SetProps(Props{"a": 1}, nil)
	require.True(t, e.Update())
	next, err := e.Render()
	require.NoError(t, err)
	e.Commit(next)

	assert.Same(t, first, e.Previous())
	assert.Same(t, next, e.Current())
	assert.False(t, e.Dirty())
}

func TestRemoveClearsChildrenAndListeners(t *testing.T) {
	e, err := NewEntity(probeType(&probe{name: "p"}), nil)
	require.NoError(t, err)
	child, err := e.addChild("0.0", Noscript, nil)
	require.NoError(t, err)
	_, err = child.addChild("0", Noscript, nil)
	require.NoError(t, err)

	calls := 0
	e.SetProps(Props{"a": 1}, func() { calls++ })

	e.Remove()
	assert.Empty(t, e.Children())
	assert.Empty(t, child.Children())
	assert.Equal(t, Unmounted, e.Lifecycle())

	e.AfterUpdate(nil, nil)
	assert.Zero(t, calls)
}

type sceneProbe struct{ invalidations int }

func (s *sceneProbe) invalidate() { s.invalidations++ }

func TestInvalidationBubblesToScene(t *testing.T) {
	s := &sceneProbe{}
	e, err := NewEntity(probeType(&probe{name: "p"}), nil)
	require.NoError(t, err)
	e.addToScene(s)
	child, err := e.addChild("0.0", Noscript, nil)
	require.NoError(t, err)

	require.NoError(t, child.SetState(State{"a": 1}, nil))
	assert.Equal(t, 1, s.invalidations)
	assert.True(t, child.Dirty())
	assert.False(t, e.Dirty())

	removed := e.removeChild("0.0")
	require.Same(t, child, removed)
	require.NoError(t, child.SetState(State{"a": 2}, nil))
	assert.Equal(t, 1, s.invalidations)
}
