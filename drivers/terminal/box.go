// Package term binds the reconciliation engine to a terminal screen. Element
// and text nodes form a tree of Boxes which is laid out as rows of styled
// text and painted on a tcell.Screen.
package term

import (
	ui "github.com/atdiar/entityui"
)

// Box is a node of the terminal live tree.
type Box struct {
	Tag    string
	Text   string
	IsText bool
	Attrs  map[string]string

	parent   *Box
	children []*Box
}

// Host creates Boxes.
type Host struct{}

func (Host) CreateElement(tag string) ui.NativeNode {
	return &Box{Tag: tag, Attrs: make(map[string]string)}
}

func (Host) CreateText(data string) ui.NativeNode {
	return &Box{Text: data, IsText: true}
}

// NewContainer returns a detached element to mount a Scene into.
func NewContainer() *Box {
	return Host{}.CreateElement("screen").(*Box)
}

func (b *Box) AppendChild(child ui.NativeNode) {
	b.InsertChild(child, len(b.children))
}

func (b *Box) InsertChild(child ui.NativeNode, index int) {
	c := child.(*Box)
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	if index > len(b.children) || index < 0 {
		index = len(b.children)
	}
	c.parent = b
	b.children = append(b.children, nil)
	copy(b.children[index+1:], b.children[index:])
	b.children[index] = c
}

func (b *Box) RemoveChild(child ui.NativeNode) {
	c := child.(*Box)
	for i, v := range b.children {
		if v == c {
			b.children = append(b.children[:i], b.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Parent returns the parent Box, or an untyped nil when b is detached.
func (b *Box) Parent() ui.NativeNode {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

func (b *Box) ChildNodes() []ui.NativeNode {
	list := make([]ui.NativeNode, len(b.children))
	for i, c := range b.children {
		list[i] = c
	}
	return list
}

func (b *Box) SetAttribute(name, value string) {
	if b.Attrs == nil {
		b.Attrs = make(map[string]string)
	}
	b.Attrs[name] = value
}

func (b *Box) RemoveAttribute(name string) { delete(b.Attrs, name) }

func (b *Box) SetText(data string) { b.Text = data }

// Children returns the child Boxes of b.
func (b *Box) Children() []*Box { return b.children }
