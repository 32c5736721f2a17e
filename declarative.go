package ui

import (
	"fmt"
	"strings"
)

// Attrs holds the attributes passed to Elem. A value is either a string, a
// Handler registered under an "on<Event>" key, or anything fmt can print.
type Attrs map[string]any

// Dom is the node construction capability handed to every Render call.
type Dom interface {
	Element(tag string, attrs Attrs, children ...any) *Node
	Text(data string) *Node
	Component(t *ComponentType, props Props) *Node
}

// DefaultDom builds Nodes with the package level constructors.
var DefaultDom Dom = dom{}

type dom struct{}

func (dom) Element(tag string, attrs Attrs, children ...any) *Node {
	return Elem(tag, attrs, children...)
}
func (dom) Text(data string) *Node                         { return Text(data) }
func (dom) Component(t *ComponentType, props Props) *Node { return Comp(t, props) }

// Text returns a text Node.
func Text(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// Comp returns a component Node referencing t.
func Comp(t *ComponentType, props Props) *Node {
	return &Node{Type: ComponentNode, Component: t, Props: props}
}

// Elem returns an element Node.
//
// Children may be *Node, []*Node, string (turned into a text node) or nil
// (skipped). Any other value is printed into a text node.
func Elem(tag string, attrs Attrs, children ...any) *Node {
	n := &Node{
		Type:       ElementNode,
		Tag:        tag,
		Attributes: make(map[string]string, len(attrs)),
	}
	for name, v := range attrs {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			n.Attributes[name] = t
		case Handler:
			n.on(name, t)
		case func(Event, State, Props):
			n.on(name, t)
		default:
			n.Attributes[name] = fmt.Sprint(t)
		}
	}
	for _, c := range children {
		switch t := c.(type) {
		case nil:
			continue
		case *Node:
			if t != nil {
				n.Children = append(n.Children, t)
			}
		case []*Node:
			for _, cn := range t {
				if cn != nil {
					n.Children = append(n.Children, cn)
				}
			}
		case string:
			n.Children = append(n.Children, Text(t))
		default:
			n.Children = append(n.Children, Text(fmt.Sprint(t)))
		}
	}
	return n
}

func (n *Node) on(name string, h Handler) {
	typ := strings.ToLower(strings.TrimPrefix(name, "on"))
	if typ == "" {
		return
	}
	if n.Events == nil {
		n.Events = make(map[string]Handler)
	}
	n.Events[typ] = h
}
