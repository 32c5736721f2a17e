package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// inline elements do not break lines.
var inline = map[string]bool{
	"a":      true,
	"b":      true,
	"button": true,
	"code":   true,
	"em":     true,
	"i":      true,
	"label":  true,
	"span":   true,
	"strong": true,
	"u":      true,
}

// Run is a piece of text of one style. Box is the element holding the text.
type Run struct {
	Text  string
	Style tcell.Style
	Box   *Box
}

// Line is one row of the screen.
type Line []Run

// String returns the text of the line.
func (l Line) String() string {
	var s string
	for _, r := range l {
		s += r.Text
	}
	return s
}

// Width returns the number of cells the line occupies.
func (l Line) Width() int {
	w := 0
	for _, r := range l {
		w += runewidth.StringWidth(r.Text)
	}
	return w
}

// Layout lays the subtree of root out as lines. Block elements start and end
// a line, inline elements and text flow. An element with a "hidden"
// attribute is skipped along with its subtree.
//
// Styles come from the attributes color, background, bold, underline and
// reverse and are inherited.
func Layout(root *Box) []Line {
	l := &layout{}
	for _, c := range root.children {
		l.walk(c, tcell.StyleDefault, root)
	}
	l.flush()
	return l.lines
}

type layout struct {
	lines []Line
	cur   Line
}

func (l *layout) flush() {
	if len(l.cur) == 0 {
		return
	}
	l.lines = append(l.lines, l.cur)
	l.cur = nil
}

func (l *layout) walk(b *Box, style tcell.Style, owner *Box) {
	if b.IsText {
		if b.Text != "" {
			l.cur = append(l.cur, Run{Text: b.Text, Style: style, Box: owner})
		}
		return
	}
	if _, hidden := b.Attrs["hidden"]; hidden {
		return
	}
	style = boxStyle(b, style)
	block := !inline[b.Tag]
	if block {
		l.flush()
	}
	for _, c := range b.children {
		l.walk(c, style, b)
	}
	if block {
		l.flush()
	}
}

func boxStyle(b *Box, style tcell.Style) tcell.Style {
	if v, ok := b.Attrs["color"]; ok {
		style = style.Foreground(tcell.GetColor(v))
	}
	if v, ok := b.Attrs["background"]; ok {
		style = style.Background(tcell.GetColor(v))
	}
	if _, ok := b.Attrs["bold"]; ok {
		style = style.Bold(true)
	}
	if _, ok := b.Attrs["underline"]; ok {
		style = style.Underline(true)
	}
	if _, ok := b.Attrs["reverse"]; ok {
		style = style.Reverse(true)
	}
	return style
}
