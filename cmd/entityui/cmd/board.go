package cmd

import (
	"fmt"

	ui "github.com/atdiar/entityui"
)

// board lists the items of its props. Clicking an item selects it.
type board struct {
	ui.Base
}

var Board = ui.Define("board", func() ui.Component { return &board{} }).
	Prop("title", "").
	State("selected", -1).
	State("clicks", 0)

func (b *board) Render(dom ui.Dom, state ui.State, props ui.Props) *ui.Node {
	selected, _ := state["selected"].(int)
	clicks, _ := state["clicks"].(int)

	var items []*ui.Node
	list, _ := props["items"].([]any)
	for i, item := range list {
		i := i
		attrs := ui.Attrs{
			"class": "item",
			"onClick": func(ui.Event, ui.State, ui.Props) {
				_ = b.SetState(ui.State{"selected": i, "clicks": clicks + 1}, nil)
			},
		}
		if i == selected {
			attrs["class"] = "item selected"
			attrs["reverse"] = ""
		}
		items = append(items, dom.Element("li", attrs, fmt.Sprint(item)))
	}

	status := "nothing selected"
	if selected >= 0 && selected < len(list) {
		status = fmt.Sprintf("selected %v", list[selected])
	}
	return dom.Element("div", ui.Attrs{"id": "board"},
		dom.Element("h1", ui.Attrs{"bold": ""}, props.String("title")),
		dom.Element("ul", nil, items),
		dom.Element("p", ui.Attrs{"color": "gray"}, status, fmt.Sprintf(" (%d clicks)", clicks)),
	)
}
