package ui

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrSetStateInBeforeUpdate is returned by SetState while the BeforeUpdate
// hook of the same entity is running.
var ErrSetStateInBeforeUpdate = errors.New("SetState cannot be called in the BeforeUpdate hook, use the PropsChanged hook instead")

const updateEvent = "update"

var (
	lastEntityID uint64
	lastForce    uint64
)

func newEntityID() uint64 { return atomic.AddUint64(&lastEntityID, 1) }

// Lifecycle marks the hook an entity is currently running.
type Lifecycle uint8

const (
	Idle Lifecycle = iota
	InBeforeUpdate
	InBeforeUnmount
	Unmounted
)

func (l Lifecycle) String() string {
	switch l {
	case Idle:
		return "idle"
	case InBeforeUpdate:
		return "beforeUpdate"
	case InBeforeUnmount:
		return "beforeUnmount"
	case Unmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}

// invalidator is notified when an entity becomes dirty. A Scene implements it.
type invalidator interface {
	invalidate()
}

// Entity is a rendered component instance. It manages the lifecycle, props
// and state of the component and owns the entities of the components it
// renders, keyed by their path in its tree.
type Entity struct {
	ID        uint64
	Type      *ComponentType
	Component Component

	props        Props
	state        State
	pendingProps Props
	pendingState State

	children map[string]*Entity
	scene    invalidator

	current  *Tree
	previous *Tree

	dirty     bool
	lifecycle Lifecycle
	listeners *Listeners
}

// NewEntity instantiates a component of type t. Props start from the type's
// default props, state from its default state overridden by InitialState.
// The first tree is rendered right away.
func NewEntity(t *ComponentType, props Props) (*Entity, error) {
	e := &Entity{
		ID:        newEntityID(),
		Type:      t,
		Component: t.New(),
		props:     MergeProps(t.DefaultProps(), props),
		children:  make(map[string]*Entity),
		listeners: NewListeners(),
	}
	if b, ok := e.Component.(entityBinder); ok {
		b.bind(e)
	}
	e.state = t.DefaultState()
	if is, ok := e.Component.(InitialStater); ok {
		e.state = MergeState(e.state, is.InitialState(e.props))
	}
	tree, err := e.Render()
	if err != nil {
		return nil, err
	}
	e.current = tree
	return e, nil
}

// Props returns the committed props.
func (e *Entity) Props() Props { return e.props }

// State returns the committed state.
func (e *Entity) State() State { return e.state }

// Current returns the last tree produced by Render and committed.
func (e *Entity) Current() *Tree { return e.current }

// Previous returns the tree that was live before the last commit.
func (e *Entity) Previous() *Tree { return e.previous }

// Dirty reports whether the entity has changes waiting for an update.
func (e *Entity) Dirty() bool { return e.dirty }

// Lifecycle returns the hook the entity is running.
func (e *Entity) Lifecycle() Lifecycle { return e.lifecycle }

// Pending returns the props and state waiting to be committed.
func (e *Entity) Pending() (Props, State) { return e.pendingProps, e.pendingState }

// Render calls the component's render function with the committed state and
// props.
func (e *Entity) Render() (*Tree, error) {
	n := e.Component.Render(DefaultDom, e.state, e.props)
	if n == nil {
		return nil, fmt.Errorf("%s: %w", e.Type, ErrNoNode)
	}
	return NewTree(n), nil
}

// SetProps replaces the pending props. The PropsChanged hook is called
// synchronously with next. onApplied, if any, runs once after the next
// successful commit.
func (e *Entity) SetProps(next Props, onApplied func()) {
	if onApplied != nil {
		e.listeners.Add(updateEvent, NewListener(onApplied).RunOnce())
	}
	e.queueProps(next)
	e.invalidate()
}

// queueProps stores a copy of next as the pending props and marks the entity
// dirty without notifying the scene. The renderer uses it for the props it
// hands down during a pass, before reconciling the child in the same pass.
func (e *Entity) queueProps(next Props) {
	e.pendingProps = next.Clone()
	if e.pendingProps == nil {
		e.pendingProps = make(Props)
	}
	e.PropsChanged(e.pendingProps.Clone())
	e.dirty = true
}

// SetState merges partial into the pending state. onApplied, if any, runs
// once after the next successful commit.
func (e *Entity) SetState(partial State, onApplied func()) error {
	if e.lifecycle == InBeforeUpdate {
		return fmt.Errorf("entity %d: %w", e.ID, ErrSetStateInBeforeUpdate)
	}
	if onApplied != nil {
		e.listeners.Add(updateEvent, NewListener(onApplied).RunOnce())
	}
	e.pendingState = MergeState(e.pendingState, partial)
	e.invalidate()
	return nil
}

// ForceUpdate makes the next update render even if props and state are
// unchanged.
func (e *Entity) ForceUpdate(onApplied func()) error {
	return e.SetState(State{ForceKey: atomic.AddUint64(&lastForce, 1)}, onApplied)
}

// invalidate schedules the entity for the next reconciliation pass.
func (e *Entity) invalidate() {
	e.dirty = true
	if e.scene != nil {
		e.scene.invalidate()
	}
}

// ShouldUpdate reports whether committing nextState and nextProps would
// change the entity.
func (e *Entity) ShouldUpdate(nextState State, nextProps Props) bool {
	if nextProps != nil && !Equal(nextProps, e.props) {
		return true
	}
	return !Equal(nextState, e.state)
}

// Update commits the pending props and state if they differ from the
// committed ones and reports whether a render is needed.
//
// When nothing differs the pending values stay queued: the next update sees
// them again.
func (e *Entity) Update() bool {
	nextState := MergeState(e.state, e.pendingState)
	nextProps := e.pendingProps.Clone()
	if nextProps == nil {
		nextProps = e.props.Clone()
	}

	e.BeforeUpdate(nextState, nextProps)

	if !e.ShouldUpdate(nextState, nextProps) {
		return false
	}

	e.state = nextState
	e.props = nextProps
	e.pendingState = nil
	e.pendingProps = nil
	delete(e.state, ForceKey)
	return true
}

// Commit makes tree the current tree of the entity and marks it clean. It is
// called once tree is live.
func (e *Entity) Commit(tree *Tree) {
	e.previous = e.current
	e.current = tree
	e.dirty = false
}

// Child returns the entity rendered at path.
func (e *Entity) Child(path string) (*Entity, bool) {
	c, ok := e.children[path]
	return c, ok
}

// Children returns the child entities sorted by path.
func (e *Entity) Children() []*Entity {
	paths := e.childPaths()
	list := make([]*Entity, 0, len(paths))
	for _, p := range paths {
		list = append(list, e.children[p])
	}
	return list
}

func (e *Entity) childPaths() []string {
	paths := make([]string, 0, len(e.children))
	for p := range e.children {
		paths = append(paths, p)
	}
	sortPaths(paths)
	return paths
}

func (e *Entity) addChild(path string, t *ComponentType, props Props) (*Entity, error) {
	child, err := NewEntity(t, props)
	if err != nil {
		return nil, err
	}
	e.children[path] = child
	child.addToScene(e.scene)
	return child, nil
}

func (e *Entity) removeChild(path string) *Entity {
	child, ok := e.children[path]
	if !ok {
		return nil
	}
	child.scene = nil
	delete(e.children, path)
	return child
}

func (e *Entity) addToScene(s invalidator) {
	e.scene = s
}

// Remove detaches every listener of the entity, removes its children
// recursively and clears them. It does not touch the live tree.
func (e *Entity) Remove() {
	e.listeners.Clear()
	for _, c := range e.children {
		c.Remove()
	}
	e.children = make(map[string]*Entity)
	e.lifecycle = Unmounted
}

// BeforeUpdate calls the BeforeUpdate hook. SetState fails while it runs.
func (e *Entity) BeforeUpdate(nextState State, nextProps Props) {
	h, ok := e.Component.(BeforeUpdater)
	if !ok {
		return
	}
	e.lifecycle = InBeforeUpdate
	defer func() { e.lifecycle = Idle }()
	h.BeforeUpdate(e.state, e.props, nextState, nextProps)
}

// AfterUpdate notifies the callbacks waiting on the commit, then the
// component.
func (e *Entity) AfterUpdate(prevState State, prevProps Props) {
	e.listeners.Emit(updateEvent)
	if h, ok := e.Component.(AfterUpdater); ok {
		h.AfterUpdate(e.state, e.props, prevState, prevProps)
	}
}

// BeforeMount calls the BeforeMount hook.
func (e *Entity) BeforeMount() {
	if h, ok := e.Component.(BeforeMounter); ok {
		h.BeforeMount(e.state, e.props)
	}
}

// AfterMount calls the AfterMount hook with the live node of the entity.
func (e *Entity) AfterMount(n NativeNode) {
	if h, ok := e.Component.(AfterMounter); ok {
		h.AfterMount(n, e.state, e.props)
	}
}

// BeforeUnmount calls the BeforeUnmount hook while n is still attached.
func (e *Entity) BeforeUnmount(n NativeNode) {
	h, ok := e.Component.(BeforeUnmounter)
	if !ok {
		return
	}
	e.lifecycle = InBeforeUnmount
	defer func() { e.lifecycle = Idle }()
	h.BeforeUnmount(n, e.state, e.props)
}

// AfterUnmount calls the AfterUnmount hook.
func (e *Entity) AfterUnmount() {
	if h, ok := e.Component.(AfterUnmounter); ok {
		h.AfterUnmount(e.state, e.props)
	}
}

// PropsChanged calls the PropsChanged hook with the incoming props.
func (e *Entity) PropsChanged(next Props) {
	if h, ok := e.Component.(PropsChanger); ok {
		h.PropsChanged(next)
	}
}
