package ui

import (
	"sort"
	"strings"
)

// memHost is an in-memory live tree used by the tests of this package.
type memHost struct {
	elements int
	texts    int
}

func (h *memHost) CreateElement(tag string) NativeNode {
	h.elements++
	return &memNode{tag: tag, attrs: make(map[string]string)}
}

func (h *memHost) CreateText(data string) NativeNode {
	h.texts++
	return &memNode{text: data, isText: true}
}

type memNode struct {
	tag      string
	attrs    map[string]string
	text     string
	isText   bool
	parent   *memNode
	children []*memNode
}

func newContainer() *memNode {
	return &memNode{tag: "main", attrs: make(map[string]string)}
}

func (n *memNode) AppendChild(child NativeNode) {
	n.InsertChild(child, len(n.children))
}

func (n *memNode) InsertChild(child NativeNode, index int) {
	c := child.(*memNode)
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	if index > len(n.children) {
		index = len(n.children)
	}
	c.parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = c
}

func (n *memNode) RemoveChild(child NativeNode) {
	c := child.(*memNode)
	for i, v := range n.children {
		if v == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (n *memNode) Parent() NativeNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *memNode) ChildNodes() []NativeNode {
	list := make([]NativeNode, len(n.children))
	for i, c := range n.children {
		list[i] = c
	}
	return list
}

func (n *memNode) SetAttribute(name, value string) { n.attrs[name] = value }
func (n *memNode) RemoveAttribute(name string)     { delete(n.attrs, name) }
func (n *memNode) SetText(data string)             { n.text = data }

// OuterHTML renders n with its attributes sorted by name.
func (n *memNode) OuterHTML() string {
	if n.isText {
		return n.text
	}
	var sb strings.Builder
	sb.WriteString("<" + n.tag)
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(" " + name + `="` + n.attrs[name] + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(n.InnerHTML())
	sb.WriteString("</" + n.tag + ">")
	return sb.String()
}

func (n *memNode) InnerHTML() string {
	var sb strings.Builder
	for _, c := range n.children {
		sb.WriteString(c.OuterHTML())
	}
	return sb.String()
}

// find returns the first element with the given tag in document order.
func (n *memNode) find(tag string) *memNode {
	if !n.isText && n.tag == tag {
		return n
	}
	for _, c := range n.children {
		if f := c.find(tag); f != nil {
			return f
		}
	}
	return nil
}
