// Package doc binds the reconciliation engine to golang.org/x/net/html
// nodes. It is the server side rendition of a UI: a live tree that can be
// patched in memory and written out as HTML at any time.
package doc

import (
	"bytes"
	"strings"

	ui "github.com/atdiar/entityui"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is a live HTML node. It shares its memory layout with html.Node so
// that the parent and sibling links of the html tree can be handed out as
// Nodes without any lookup.
type Node html.Node

// Host creates Nodes.
type Host struct{}

func (Host) CreateElement(tag string) ui.NativeNode {
	return &Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

func (Host) CreateText(data string) ui.NativeNode {
	return &Node{Type: html.TextNode, Data: data}
}

// NewContainer returns a detached element to mount a Scene into.
func NewContainer(tag string) *Node {
	return Host{}.CreateElement(tag).(*Node)
}

// Wrap returns the Node sharing the memory of n.
func Wrap(n *html.Node) *Node { return (*Node)(n) }

// Raw returns the html.Node sharing the memory of n.
func (n *Node) Raw() *html.Node { return (*html.Node)(n) }

func (n *Node) AppendChild(child ui.NativeNode) {
	c := detach(child)
	n.Raw().AppendChild(c)
}

func (n *Node) InsertChild(child ui.NativeNode, index int) {
	c := detach(child)
	ref := n.FirstChild
	for i := 0; i < index && ref != nil; i++ {
		ref = ref.NextSibling
	}
	if ref == nil {
		n.Raw().AppendChild(c)
		return
	}
	n.Raw().InsertBefore(c, ref)
}

func (n *Node) RemoveChild(child ui.NativeNode) {
	c := child.(*Node).Raw()
	if c.Parent != n.Raw() {
		return
	}
	n.Raw().RemoveChild(c)
}

// Parent returns the parent Node, or an untyped nil when n is detached.
func (n *Node) Parent() ui.NativeNode {
	if n.Raw().Parent == nil {
		return nil
	}
	return Wrap(n.Raw().Parent)
}

func (n *Node) ChildNodes() []ui.NativeNode {
	var list []ui.NativeNode
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		list = append(list, Wrap(c))
	}
	return list
}

func (n *Node) SetAttribute(name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func (n *Node) RemoveAttribute(name string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// Attribute returns the value of the attribute name.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) SetText(data string) { n.Data = data }

// GetElementById returns the first element of the subtree of n whose id
// attribute is id.
func (n *Node) GetElementById(id string) (*Node, bool) {
	if n.Type == html.ElementNode {
		if v, ok := n.Attribute("id"); ok && v == id {
			return n, true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f, ok := Wrap(c).GetElementById(id); ok {
			return f, true
		}
	}
	return nil, false
}

// OuterHTML renders n and its subtree.
func (n *Node) OuterHTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n.Raw()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// InnerHTML renders the children of n.
func (n *Node) InnerHTML() (string, error) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func detach(child ui.NativeNode) *html.Node {
	c := child.(*Node).Raw()
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	return c
}
