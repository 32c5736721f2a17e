package ui

import (
	"go.uber.org/zap"
)

// Handler handles an event dispatched to an element. It receives the state
// and props of the owning entity as they are when the event fires.
type Handler func(evt Event, state State, props Props)

type Event interface {
	Type() string
	Target() NativeNode
	CurrentTarget() NativeNode

	PreventDefault()
	StopPropagation()
	SetCurrentTarget(NativeNode)

	Bubbles() bool
	DefaultPrevented() bool
	Stopped() bool

	Native() any // returns the native event object
}

type eventObject struct {
	typ           string
	target        NativeNode
	currentTarget NativeNode

	defaultPrevented bool
	bubbles          bool
	stopped          bool

	nativeObject any
}

type defaultPreventer interface {
	PreventDefault()
}

func (e *eventObject) Type() string              { return e.typ }
func (e *eventObject) Target() NativeNode        { return e.target }
func (e *eventObject) CurrentTarget() NativeNode { return e.currentTarget }
func (e *eventObject) PreventDefault() {
	if v, ok := e.nativeObject.(defaultPreventer); ok {
		v.PreventDefault()
	}
	e.defaultPrevented = true
}
func (e *eventObject) StopPropagation()                { e.stopped = true }
func (e *eventObject) SetCurrentTarget(t NativeNode)   { e.currentTarget = t }
func (e *eventObject) Bubbles() bool                   { return e.bubbles }
func (e *eventObject) DefaultPrevented() bool          { return e.defaultPrevented }
func (e *eventObject) Stopped() bool                   { return e.stopped }
func (e *eventObject) Native() any                     { return e.nativeObject }

func NewEvent(typ string, bubbles bool, target NativeNode, nativeEvent any) Event {
	return &eventObject{typ, target, target, false, bubbles, false, nativeEvent}
}

type bindingKey struct {
	path string
	typ  string
}

type nodeRef struct {
	entity uint64
	path   string
}

// Interactions delegates events for every element of a container. Handlers
// are registered per (entity id, path, event type); native nodes are tracked
// back to the (entity id, path) that rendered them.
type Interactions struct {
	bindings map[uint64]map[bindingKey]func(Event)
	owners   map[NativeNode]nodeRef

	unlisteners hostListeners
	logger      *zap.Logger
}

// NewInteractions returns an empty delegation table.
func NewInteractions(logger *zap.Logger) *Interactions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactions{
		bindings:    make(map[uint64]map[bindingKey]func(Event)),
		owners:      make(map[NativeNode]nodeRef),
		unlisteners: make(hostListeners),
		logger:      logger,
	}
}

// Bind registers fn for events of type typ reaching the element at path in
// the tree of entity id. A previous binding for the same key is replaced.
func (i *Interactions) Bind(id uint64, path, typ string, fn func(Event)) {
	b, ok := i.bindings[id]
	if !ok {
		b = make(map[bindingKey]func(Event))
		i.bindings[id] = b
	}
	b[bindingKey{path, typ}] = fn
}

// Unbind removes every binding of entity id.
func (i *Interactions) Unbind(id uint64) {
	delete(i.bindings, id)
}

// Len returns the number of bindings held for entity id.
func (i *Interactions) Len(id uint64) int {
	return len(i.bindings[id])
}

// Track records that n renders the element at path in the tree of entity id.
func (i *Interactions) Track(n NativeNode, id uint64, path string) {
	i.owners[n] = nodeRef{id, path}
}

// Untrack forgets n and its descendants.
func (i *Interactions) Untrack(n NativeNode) {
	if n == nil {
		return
	}
	delete(i.owners, n)
	for _, c := range n.ChildNodes() {
		i.Untrack(c)
	}
}

// Listen records how to remove a native listener installed by a host for
// event. Remove calls it.
func (i *Interactions) Listen(event string, unlisten func()) {
	i.unlisteners.add(event, unlisten)
}

// Dispatch delivers evt to the handlers bound on its target and, if the event
// bubbles, on the target's ancestors until one stops propagation.
// It reports whether at least one handler ran.
func (i *Interactions) Dispatch(evt Event) bool {
	handled := false
	for n := evt.Target(); n != nil; n = n.Parent() {
		if ref, ok := i.owners[n]; ok {
			if fn, ok := i.bindings[ref.entity][bindingKey{ref.path, evt.Type()}]; ok {
				evt.SetCurrentTarget(n)
				fn(evt)
				handled = true
			}
		}
		if evt.Stopped() || !evt.Bubbles() {
			break
		}
	}
	i.logger.Debug("event dispatched", zap.String("type", evt.Type()), zap.Bool("handled", handled))
	return handled
}

// Remove drops every binding and removes the native listeners registered
// with Listen.
func (i *Interactions) Remove() {
	i.unlisteners.removeAll()
	i.bindings = make(map[uint64]map[bindingKey]func(Event))
	i.owners = make(map[NativeNode]nodeRef)
}
