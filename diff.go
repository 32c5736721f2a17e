package ui

import (
	"fmt"
	"sort"
	"strconv"
)

// PatchOp is the kind of live tree mutation a Patch describes.
type PatchOp uint8

const (
	// OpInsert inserts Node at Path. The parent already exists.
	OpInsert PatchOp = iota
	// OpRemove removes the node at Path.
	OpRemove
	// OpReplace replaces the node at Path by a freshly built Node.
	OpReplace
	// OpSetAttribute sets attribute Name to Value on the element at Path.
	OpSetAttribute
	// OpRemoveAttribute removes attribute Name from the element at Path.
	OpRemoveAttribute
	// OpReplaceText sets the content of the text node at Path to Value.
	OpReplaceText
)

func (op PatchOp) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpSetAttribute:
		return "setAttribute"
	case OpRemoveAttribute:
		return "removeAttribute"
	case OpReplaceText:
		return "replaceText"
	default:
		return "op(" + strconv.Itoa(int(op)) + ")"
	}
}

// Patch describes one mutation of the live tree. Paths are those of the old
// tree, which the positional diff keeps valid for every node it does not
// insert.
type Patch struct {
	Op   PatchOp
	Path string

	// Node is the new node for OpInsert and OpReplace.
	Node *Node
	// Old is the node being removed or replaced.
	Old *Node

	Name  string
	Value string
}

func (p Patch) String() string {
	switch p.Op {
	case OpSetAttribute:
		return fmt.Sprintf("%s %s %s=%q", p.Op, p.Path, p.Name, p.Value)
	case OpRemoveAttribute:
		return fmt.Sprintf("%s %s %s", p.Op, p.Path, p.Name)
	case OpReplaceText:
		return fmt.Sprintf("%s %s %q", p.Op, p.Path, p.Value)
	default:
		return fmt.Sprintf("%s %s", p.Op, p.Path)
	}
}

// Diff compares two trees position by position and returns the patches
// turning the live rendition of old into new, in the order they must be
// applied.
//
// Children are matched by index only: a node inserted in front of its
// siblings shifts them, and each shifted sibling is patched (or replaced)
// instead of moved.
func Diff(old, new *Tree) []Patch {
	return DiffInto(nil, old, new)
}

// DiffInto is Diff appending to buf.
func DiffInto(buf []Patch, old, new *Tree) []Patch {
	var o, n *Node
	if old != nil {
		o = old.Root
	}
	if new != nil {
		n = new.Root
	}
	return diffNode(buf, RootPath, o, n)
}

func diffNode(patches []Patch, path string, old, new *Node) []Patch {
	switch {
	case old == nil && new == nil:
		return patches
	case old == nil:
		return append(patches, Patch{Op: OpInsert, Path: path, Node: new})
	case new == nil:
		return append(patches, Patch{Op: OpRemove, Path: path, Old: old})
	case old.Type != new.Type:
		return append(patches, Patch{Op: OpReplace, Path: path, Node: new, Old: old})
	}

	switch new.Type {
	case TextNode:
		if old.Data != new.Data {
			patches = append(patches, Patch{Op: OpReplaceText, Path: path, Value: new.Data})
		}
		return patches

	case ComponentNode:
		// The child entity at path updates itself; the renderer hands it
		// the new props.
		if old.Component != new.Component {
			patches = append(patches, Patch{Op: OpReplace, Path: path, Node: new, Old: old})
		}
		return patches
	}

	if old.Tag != new.Tag {
		return append(patches, Patch{Op: OpReplace, Path: path, Node: new, Old: old})
	}

	patches = diffAttributes(patches, path, old.Attributes, new.Attributes)

	oc, nc := len(old.Children), len(new.Children)
	common := oc
	if nc < common {
		common = nc
	}
	for i := 0; i < common; i++ {
		patches = diffNode(patches, ChildPath(path, i), old.Children[i], new.Children[i])
	}
	for i := common; i < nc; i++ {
		patches = append(patches, Patch{Op: OpInsert, Path: ChildPath(path, i), Node: new.Children[i]})
	}
	for i := common; i < oc; i++ {
		patches = append(patches, Patch{Op: OpRemove, Path: ChildPath(path, i), Old: old.Children[i]})
	}
	return patches
}

func diffAttributes(patches []Patch, path string, old, new map[string]string) []Patch {
	var removed, set []string
	for name := range old {
		if _, ok := new[name]; !ok {
			removed = append(removed, name)
		}
	}
	for name, v := range new {
		if ov, ok := old[name]; !ok || ov != v {
			set = append(set, name)
		}
	}
	sort.Strings(removed)
	sort.Strings(set)
	for _, name := range removed {
		patches = append(patches, Patch{Op: OpRemoveAttribute, Path: path, Name: name})
	}
	for _, name := range set {
		patches = append(patches, Patch{Op: OpSetAttribute, Path: path, Name: name, Value: new[name]})
	}
	return patches
}
