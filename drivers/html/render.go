package doc

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	ui "github.com/atdiar/entityui"
	"github.com/yosssi/gohtml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InnerHTMLAttr is the attribute whose value is written as raw markup in
// place of the children of an element.
const InnerHTMLAttr = "innerHTML"

type renderOptions struct {
	pretty bool
}

// RenderOption configures RenderString.
type RenderOption func(*renderOptions)

// Pretty indents the output.
func Pretty() RenderOption {
	return func(o *renderOptions) { o.pretty = true }
}

// RenderString renders a component of type t with props to HTML without
// mounting it: no live tree, no frame loop, no AfterMount. Nested components
// are instantiated and rendered the same way.
func RenderString(t *ui.ComponentType, props ui.Props, opts ...RenderOption) (string, error) {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}
	var buf bytes.Buffer
	if err := Render(&buf, t, props); err != nil {
		return "", err
	}
	if o.pretty {
		return gohtml.Format(buf.String()), nil
	}
	return buf.String(), nil
}

// Render writes the HTML of a component of type t with props to w.
func Render(w io.Writer, t *ui.ComponentType, props ui.Props) error {
	n, err := renderEntity(t, props)
	if err != nil {
		return err
	}
	return html.Render(w, n)
}

func renderEntity(t *ui.ComponentType, props ui.Props) (*html.Node, error) {
	e, err := ui.NewEntity(t, props)
	if err != nil {
		return nil, err
	}
	e.BeforeMount()
	tree, err := e.Render()
	if err != nil {
		return nil, err
	}
	return toHTML(tree.Root)
}

func toHTML(n *ui.Node) (*html.Node, error) {
	switch n.Type {
	case ui.TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}, nil

	case ui.ElementNode:
		el := &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
		names := make([]string, 0, len(n.Attributes))
		for name := range n.Attributes {
			if name == InnerHTMLAttr {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			el.Attr = append(el.Attr, html.Attribute{Key: name, Val: n.Attributes[name]})
		}
		if raw, ok := n.Attributes[InnerHTMLAttr]; ok && raw != "" {
			el.AppendChild(&html.Node{Type: html.RawNode, Data: raw})
			return el, nil
		}
		for _, c := range n.Children {
			hc, err := toHTML(c)
			if err != nil {
				return nil, err
			}
			el.AppendChild(hc)
		}
		return el, nil

	case ui.ComponentNode:
		return renderEntity(n.Component, n.Props)
	}
	return nil, fmt.Errorf("cannot serialize %s node", n.Type)
}
