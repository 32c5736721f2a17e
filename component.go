package ui

// Component renders the declarative description of a piece of UI. Render
// must always return a Node, even a placeholder (see Noscript).
//
// Lifecycle hooks are optional: a component implements the hook interfaces
// below for the ones it cares about.
type Component interface {
	Render(dom Dom, state State, props Props) *Node
}

// InitialStater provides the state a component starts with.
type InitialStater interface {
	InitialState(props Props) State
}

type BeforeMounter interface {
	BeforeMount(state State, props Props)
}

type AfterMounter interface {
	AfterMount(n NativeNode, state State, props Props)
}

type BeforeUnmounter interface {
	BeforeUnmount(n NativeNode, state State, props Props)
}

type AfterUnmounter interface {
	AfterUnmount(state State, props Props)
}

// BeforeUpdater may mutate nextState and nextProps in place before they are
// compared with the committed values. SetState fails while it runs.
type BeforeUpdater interface {
	BeforeUpdate(state State, props Props, nextState State, nextProps Props)
}

type AfterUpdater interface {
	AfterUpdate(state State, props Props, prevState State, prevProps Props)
}

// PropsChanger is notified synchronously when new props are set, before they
// are committed.
type PropsChanger interface {
	PropsChanged(next Props)
}

// Base gives a component access to the entity managing it. Components
// embedding it can update their own state from event handlers.
//
//	type counter struct{ ui.Base }
//
//	func (c *counter) Render(dom ui.Dom, state ui.State, props ui.Props) *ui.Node {
//		return dom.Element("button", ui.Attrs{"onClick": func(ui.Event, ui.State, ui.Props) {
//			c.SetState(ui.State{"n": state["n"].(int) + 1}, nil)
//		}})
//	}
type Base struct {
	entity *Entity
}

func (b *Base) bind(e *Entity) { b.entity = e }

// Entity returns the entity the component belongs to.
func (b *Base) Entity() *Entity { return b.entity }

// SetState sets state on the entity of the component.
func (b *Base) SetState(partial State, onApplied func()) error {
	return b.entity.SetState(partial, onApplied)
}

// ForceUpdate forces an update of the entity of the component.
func (b *Base) ForceUpdate(onApplied func()) error {
	return b.entity.ForceUpdate(onApplied)
}

type entityBinder interface {
	bind(e *Entity)
}

// Func turns a render function into a Component.
type Func func(dom Dom, state State, props Props) *Node

func (f Func) Render(dom Dom, state State, props Props) *Node { return f(dom, state, props) }

// Plugin installs behavior or defaults on a ComponentType.
type Plugin func(*ComponentType)

// ComponentType describes a kind of component: how to build an instance and
// which defaults it starts from. Component nodes are compared by
// ComponentType identity.
type ComponentType struct {
	Name string
	New  func() Component

	defaultProps Props
	defaultState State
}

// Define registers a new ComponentType.
func Define(name string, constructor func() Component) *ComponentType {
	return &ComponentType{
		Name:         name,
		New:          constructor,
		defaultProps: make(Props),
		defaultState: make(State),
	}
}

// DefineFunc registers a ComponentType whose instances are the render
// function f.
func DefineFunc(name string, f Func) *ComponentType {
	return Define(name, func() Component { return f })
}

// Prop sets a default prop value.
func (t *ComponentType) Prop(name string, value any) *ComponentType {
	t.defaultProps[name] = value
	return t
}

// State sets a default initial state value.
func (t *ComponentType) State(name string, value any) *ComponentType {
	t.defaultState[name] = value
	return t
}

// Use installs plugins in order.
func (t *ComponentType) Use(plugins ...Plugin) *ComponentType {
	for _, p := range plugins {
		p(t)
	}
	return t
}

// DefaultProps returns a copy of the default props.
func (t *ComponentType) DefaultProps() Props { return t.defaultProps.Clone() }

// DefaultState returns a copy of the default initial state.
func (t *ComponentType) DefaultState() State { return t.defaultState.Clone() }

func (t *ComponentType) String() string { return t.Name }

// Noscript renders an empty noscript element. Components with nothing to
// show use it as a placeholder.
var Noscript = DefineFunc("noscript", func(dom Dom, state State, props Props) *Node {
	return dom.Element("noscript", nil)
})
