package ui

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ErrTreeMismatch is returned when the live tree of an entity does not have
// the shape of its current declarative tree.
var ErrTreeMismatch = errors.New("live tree does not match the declarative tree")

// Renderer renders an entity tree into a container by diffing the current
// tree of each entity with its next one and patching the live tree.
//
// Each entity maps to a single live node: its root. The Renderer is not safe
// for concurrent use.
type Renderer struct {
	container NativeNode
	host      Host
	events    *Interactions
	nodes     map[uint64]NativeNode
	rendered  *Entity

	pool    *patchPool
	logger  *zap.Logger
	metrics *Metrics
}

// NewRenderer returns a Renderer appending its root entity to container.
func NewRenderer(container NativeNode, host Host, opts ...Option) (*Renderer, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return newRenderer(container, host, o), nil
}

func newRenderer(container NativeNode, host Host, o *options) *Renderer {
	return &Renderer{
		container: container,
		host:      host,
		events:    NewInteractions(o.logger),
		nodes:     make(map[uint64]NativeNode),
		pool:      newPatchPool(4, 64, 4, newPatchBuffer),
		logger:    o.logger,
		metrics:   o.metrics,
	}
}

// Render renders the root entity. A root different from the previous one
// replaces it entirely; otherwise dirty entities of the tree are updated.
func (r *Renderer) Render(e *Entity) error {
	if r.rendered != e {
		if err := r.Clear(); err != nil {
			return err
		}
		if _, err := r.mountEntity(e, r.container.AppendChild); err != nil {
			return err
		}
		r.rendered = e
		return nil
	}
	return r.update(e)
}

// Clear unmounts the root entity, if any.
func (r *Renderer) Clear() error {
	if r.rendered == nil {
		return nil
	}
	err := r.unmountEntity(r.rendered)
	r.rendered = nil
	return err
}

// Node returns the live root node of the entity with the given id.
func (r *Renderer) Node(id uint64) (NativeNode, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Interactions returns the event delegation table of the container.
func (r *Renderer) Interactions() *Interactions { return r.events }

// Dispatch delivers evt through the delegated handlers.
func (r *Renderer) Dispatch(evt Event) bool {
	return r.events.Dispatch(evt)
}

// node returns the live node of e. An entity whose tree starts with a
// component shares the node of that child.
func (r *Renderer) node(e *Entity) (NativeNode, error) {
	if root := e.Current().Root; root != nil && root.Type == ComponentNode {
		if c, ok := e.Child(RootPath); ok {
			return r.node(c)
		}
	}
	n, ok := r.nodes[e.ID]
	if !ok {
		return nil, fmt.Errorf("entity %d is not mounted: %w", e.ID, ErrUnknownPath)
	}
	return n, nil
}

func (r *Renderer) update(e *Entity) error {
	if !e.Dirty() {
		return r.updateChildren(e)
	}

	prevState, prevProps := e.State(), e.Props()
	if !e.Update() {
		return r.updateChildren(e)
	}

	next, err := e.Render()
	if err != nil {
		return err
	}
	r.metrics.Renders.Inc()

	if err := r.patch(e, next); err != nil {
		return err
	}

	e.Commit(next)
	e.AfterUpdate(prevState, prevProps)
	r.updateEvents(e)
	return r.updateChildren(e)
}

func (r *Renderer) updateChildren(e *Entity) error {
	for _, c := range e.Children() {
		if err := r.update(c); err != nil {
			return err
		}
	}
	return nil
}

// patch applies the diff between the current tree of e and next to the live
// tree, then hands new props to the child entities that survived.
func (r *Renderer) patch(e *Entity, next *Tree) error {
	root, err := r.node(e)
	if err != nil {
		return err
	}
	index, err := r.resolve(e, root)
	if err != nil {
		return err
	}

	patches := DiffInto(r.pool.Get(), e.Current(), next)
	defer func() { r.pool.Put(patches) }()

	for _, p := range patches {
		if err := r.apply(e, index, p); err != nil {
			return fmt.Errorf("entity %d: %s: %w", e.ID, p, err)
		}
		r.metrics.Patches.WithLabelValues(p.Op.String()).Inc()
		r.logger.Debug("patch applied", zap.Uint64("entity", e.ID), zap.Stringer("patch", p))
	}

	r.refreshChildProps(e, next)
	return nil
}

// resolve maps every path of the current tree of e to its live node.
func (r *Renderer) resolve(e *Entity, root NativeNode) (map[string]NativeNode, error) {
	index := make(map[string]NativeNode, e.Current().Len())
	var walk func(path string, n *Node, live NativeNode) error
	walk = func(path string, n *Node, live NativeNode) error {
		index[path] = live
		if n.Type != ElementNode {
			return nil
		}
		kids := live.ChildNodes()
		if len(kids) != len(n.Children) {
			return fmt.Errorf("%w: %d live children at %s, %d declared", ErrTreeMismatch, len(kids), path, len(n.Children))
		}
		for i, c := range n.Children {
			if err := walk(ChildPath(path, i), c, kids[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return index, walk(RootPath, e.Current().Root, root)
}

func lookup(index map[string]NativeNode, path string) (NativeNode, error) {
	n, ok := index[path]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPath, path)
	}
	return n, nil
}

func (r *Renderer) apply(e *Entity, index map[string]NativeNode, p Patch) error {
	switch p.Op {
	case OpSetAttribute:
		n, err := lookup(index, p.Path)
		if err != nil {
			return err
		}
		n.SetAttribute(p.Name, p.Value)

	case OpRemoveAttribute:
		n, err := lookup(index, p.Path)
		if err != nil {
			return err
		}
		n.RemoveAttribute(p.Name)

	case OpReplaceText:
		n, err := lookup(index, p.Path)
		if err != nil {
			return err
		}
		n.SetText(p.Value)

	case OpInsert:
		parent, err := lookup(index, ParentPath(p.Path))
		if err != nil {
			return err
		}
		at := PathIndex(p.Path)
		n, err := r.create(e, p.Node, p.Path, func(n NativeNode) { parent.InsertChild(n, at) })
		if err != nil {
			return err
		}
		index[p.Path] = n

	case OpRemove:
		old, err := lookup(index, p.Path)
		if err != nil {
			return err
		}
		if err := r.detach(e, p.Path, old); err != nil {
			return err
		}
		delete(index, p.Path)

	case OpReplace:
		old, err := lookup(index, p.Path)
		if err != nil {
			return err
		}
		parent := old.Parent()
		at := nodeIndex(parent, old)
		if at < 0 {
			return fmt.Errorf("%w: node at %s is detached", ErrTreeMismatch, p.Path)
		}
		if err := r.detach(e, p.Path, old); err != nil {
			return err
		}
		n, err := r.create(e, p.Node, p.Path, func(n NativeNode) { parent.InsertChild(n, at) })
		if err != nil {
			return err
		}
		index[p.Path] = n
		if p.Path == RootPath {
			r.nodes[e.ID] = n
		}

	default:
		return fmt.Errorf("unknown patch operation %s", p.Op)
	}
	return nil
}

// detach unmounts the child entities rendered at or below path, then removes
// the live node from its parent.
func (r *Renderer) detach(e *Entity, path string, n NativeNode) error {
	for _, cp := range e.childPaths() {
		if !IsWithin(cp, path) {
			continue
		}
		if err := r.unmountEntity(e.removeChild(cp)); err != nil {
			return err
		}
	}
	if parent := n.Parent(); parent != nil {
		parent.RemoveChild(n)
	}
	r.events.Untrack(n)
	return nil
}

// create builds the live rendition of n, found at path in the tree of e, and
// attaches it with attach. Component nodes become new child entities.
func (r *Renderer) create(e *Entity, n *Node, path string, attach func(NativeNode)) (NativeNode, error) {
	switch n.Type {
	case TextNode:
		t := r.host.CreateText(n.Data)
		attach(t)
		return t, nil

	case ElementNode:
		el := r.host.CreateElement(n.Tag)
		names := make([]string, 0, len(n.Attributes))
		for name := range n.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			el.SetAttribute(name, n.Attributes[name])
		}
		r.events.Track(el, e.ID, path)
		for i, c := range n.Children {
			if _, err := r.create(e, c, ChildPath(path, i), el.AppendChild); err != nil {
				return nil, err
			}
		}
		attach(el)
		return el, nil

	case ComponentNode:
		child, err := e.addChild(path, n.Component, n.Props)
		if err != nil {
			return nil, err
		}
		return r.mountEntity(child, attach)
	}
	return nil, fmt.Errorf("%w: unknown node type %s at %s", ErrTreeMismatch, n.Type, path)
}

// mountEntity builds the live tree of e and attaches it. Hooks run in this
// order: BeforeMount, attach, events bound, AfterMount.
func (r *Renderer) mountEntity(e *Entity, attach func(NativeNode)) (NativeNode, error) {
	n, err := r.create(e, e.Current().Root, RootPath, func(NativeNode) {})
	if err != nil {
		return nil, err
	}
	r.nodes[e.ID] = n
	e.BeforeMount()
	attach(n)
	r.updateEvents(e)
	e.AfterMount(n)
	r.metrics.Mounts.Inc()
	r.logger.Debug("entity mounted", zap.Uint64("entity", e.ID), zap.Stringer("type", e.Type))
	return n, nil
}

// unmountEntity tears e down. Hooks run in this order: BeforeUnmount, node
// detached, children unmounted, events unbound, AfterUnmount, entity removed.
func (r *Renderer) unmountEntity(e *Entity) error {
	n, err := r.node(e)
	if err != nil {
		return err
	}
	e.BeforeUnmount(n)
	if parent := n.Parent(); parent != nil {
		parent.RemoveChild(n)
	}
	if err := r.unmountChildren(e); err != nil {
		return err
	}
	r.events.Unbind(e.ID)
	r.events.Untrack(n)
	e.AfterUnmount()
	e.Remove()
	delete(r.nodes, e.ID)
	r.metrics.Unmounts.Inc()
	r.logger.Debug("entity unmounted", zap.Uint64("entity", e.ID), zap.Stringer("type", e.Type))
	return nil
}

func (r *Renderer) unmountChildren(e *Entity) error {
	for _, path := range e.childPaths() {
		if err := r.unmountEntity(e.removeChild(path)); err != nil {
			return err
		}
	}
	return nil
}

// updateEvents drops every binding of e and binds the handlers of its current
// tree, so that handlers always come from the last render.
func (r *Renderer) updateEvents(e *Entity) {
	r.events.Unbind(e.ID)
	tree := e.Current()
	for _, path := range tree.Paths() {
		n, _ := tree.Get(path)
		if n.Type != ElementNode {
			continue
		}
		for typ, fn := range n.Events {
			fn := fn
			r.events.Bind(e.ID, path, typ, func(evt Event) {
				fn(evt, e.State(), e.Props())
			})
		}
	}
}

// refreshChildProps passes the props found in next to the child entities
// whose props changed.
func (r *Renderer) refreshChildProps(e *Entity, next *Tree) {
	for _, path := range e.childPaths() {
		child := e.children[path]
		n, ok := next.Get(path)
		if !ok || n.Type != ComponentNode || n.Component != child.Type {
			continue
		}
		props := MergeProps(child.Type.DefaultProps(), n.Props)
		current := child.Props()
		if child.pendingProps != nil {
			current = child.pendingProps
		}
		if Equal(props, current) {
			continue
		}
		child.queueProps(props)
	}
}
