// Package ui is a library of functions for component-based gui development.
//
// Components render an immutable description of the UI (a Tree of Nodes).
// Each rendered component instance is managed by an Entity. A Renderer diffs
// successive trees of an Entity and patches a live tree made of NativeNodes.
// A Scene owns the root Entity and reconciles it once per frame when dirty.
package ui

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNoNode is returned when a component render yields no Node.
	ErrNoNode = errors.New("component render must return a Node")
	// ErrUnknownPath is returned when a path does not exist in a tree snapshot.
	ErrUnknownPath = errors.New("path does not exist in tree")
)

// RootPath is the path of the root Node of every Tree.
const RootPath = "0"

// NodeType discriminates the three kinds of Node.
type NodeType uint8

const (
	TextNode NodeType = iota
	ElementNode
	ComponentNode
)

func (t NodeType) String() string {
	switch t {
	case TextNode:
		return "text"
	case ElementNode:
		return "element"
	case ComponentNode:
		return "component"
	default:
		return "unknown"
	}
}

// Node is one node of a declarative tree. A Node must not be mutated once it
// is part of a Tree.
type Node struct {
	Type NodeType

	// Data is the payload of a text node.
	Data string

	// Tag, Attributes, Events and Children describe an element node.
	Tag        string
	Attributes map[string]string
	Events     map[string]Handler
	Children   []*Node

	// Component and Props describe a component node.
	Component *ComponentType
	Props     Props
}

// Tree is a path-addressable snapshot of a rendered Node.
// The root has path "0" and the i-th child of the node at path p has path p.i
type Tree struct {
	Root *Node

	nodes map[string]*Node
	paths map[*Node]string
	order []string
}

// NewTree indexes root by walking it once, depth first.
func NewTree(root *Node) *Tree {
	t := &Tree{
		Root:  root,
		nodes: make(map[string]*Node),
		paths: make(map[*Node]string),
	}
	if root != nil {
		t.index(root, RootPath)
	}
	return t
}

func (t *Tree) index(n *Node, path string) {
	t.nodes[path] = n
	// A node reused at two positions keeps its first path.
	if _, ok := t.paths[n]; !ok {
		t.paths[n] = path
	}
	t.order = append(t.order, path)
	if n.Type != ElementNode {
		return
	}
	for i, c := range n.Children {
		t.index(c, ChildPath(path, i))
	}
}

// Get returns the Node found at path.
func (t *Tree) Get(path string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.nodes[path]
	return n, ok
}

// Path returns the path of n in the tree.
func (t *Tree) Path(n *Node) (string, bool) {
	if t == nil {
		return "", false
	}
	p, ok := t.paths[n]
	return p, ok
}

// Paths lists every path of the tree in depth-first order.
func (t *Tree) Paths() []string {
	if t == nil {
		return nil
	}
	return t.order
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// ChildPath returns the path of the i-th child of the node at parent.
func ChildPath(parent string, i int) string {
	return parent + "." + strconv.Itoa(i)
}

// ParentPath returns the path of the parent of the node at path. The root has
// no parent and yields "".
func ParentPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// PathIndex returns the sibling index encoded as the last segment of path.
func PathIndex(path string) int {
	i, err := strconv.Atoi(path[strings.LastIndexByte(path, '.')+1:])
	if err != nil {
		return -1
	}
	return i
}

// IsWithin reports whether path designates prefix itself or one of its
// descendants.
func IsWithin(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+".")
}

// sortPaths orders paths segment by segment, numerically, so that "0.10"
// comes after "0.9".
func sortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return comparePaths(paths[i], paths[j]) < 0
	})
}

func comparePaths(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		x, _ := strconv.Atoi(as[i])
		y, _ := strconv.Atoi(bs[i])
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return len(as) - len(bs)
}
