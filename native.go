// Package ui is a library of functions for component-based gui development.
package ui

// Host creates native nodes for a platform (a DOM, a terminal screen...).
// The Renderer composes these primitives to apply patches.
type Host interface {
	CreateElement(tag string) NativeNode
	CreateText(data string) NativeNode
}

// NativeNode is a node of the live tree.
//
// InsertChild with an index equal to the number of children appends.
// Implementations must be comparable (typically pointers) since the
// Renderer uses them as map keys for event delegation.
type NativeNode interface {
	AppendChild(child NativeNode)
	InsertChild(child NativeNode, index int)
	RemoveChild(child NativeNode)
	Parent() NativeNode
	ChildNodes() []NativeNode

	SetAttribute(name, value string)
	RemoveAttribute(name string)
	// SetText replaces the content of a text node.
	SetText(data string)
}

// hostListeners keeps, per event type, the function removing the native
// listener a host installed on the container. The first registration for a
// type wins.
type hostListeners map[string]func()

func (h hostListeners) add(event string, remove func()) {
	if _, ok := h[event]; !ok {
		h[event] = remove
	}
}

// removeAll calls every registered function once and forgets them.
func (h hostListeners) removeAll() {
	for event, remove := range h {
		delete(h, event)
		remove()
	}
}

// nodeIndex returns the position of child among the children of parent, or -1.
func nodeIndex(parent, child NativeNode) int {
	if parent == nil {
		return -1
	}
	for i, c := range parent.ChildNodes() {
		if c == child {
			return i
		}
	}
	return -1
}
