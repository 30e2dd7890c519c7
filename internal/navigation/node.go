package navigation

import "fmt"

// NodeKind identifies a help screen.
type NodeKind int

const (
	NodeMain NodeKind = iota
	NodeCategoryList
	NodeCommandList
	NodeCommandDetail
)

func (k NodeKind) String() string {
	switch k {
	case NodeMain:
		return "main"
	case NodeCategoryList:
		return "category_list"
	case NodeCommandList:
		return "command_list"
	case NodeCommandDetail:
		return "command_detail"
	default:
		return fmt.Sprintf("node(%d)", int(k))
	}
}

// Node is a position in the catalog. Category is set on CommandList and
// CommandDetail, Command only on CommandDetail.
type Node struct {
	Kind     NodeKind
	Category string
	Command  string
}

// Main is the entry screen.
var Main = Node{Kind: NodeMain}

func (n Node) String() string {
	switch n.Kind {
	case NodeCommandList:
		return fmt.Sprintf("%s(%s)", n.Kind, n.Category)
	case NodeCommandDetail:
		return fmt.Sprintf("%s(%s,%s)", n.Kind, n.Category, n.Command)
	default:
		return n.Kind.String()
	}
}

// EventKind is a navigation input.
type EventKind int

const (
	EventOpenCatalog EventKind = iota
	EventPickCategory
	EventPickCommand
	EventBack
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventOpenCatalog:
		return "open"
	case EventPickCategory:
		return "category"
	case EventPickCommand:
		return "command"
	case EventBack:
		return "back"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Input is one navigation event. Value carries the picked category key or
// command name.
type Input struct {
	Kind  EventKind
	Value string
}

// Transition is one option offered by a node.
type Transition struct {
	Label  string
	Input  Input
	Target Node
	// Terminal transitions end the session instead of moving to Target.
	Terminal bool
}

// Transitions lists what the node offers, in display order. Back and close
// are accepted on every node even when not listed.
func (c *Catalog) Transitions(n Node) []Transition {
	switch n.Kind {
	case NodeMain:
		return []Transition{
			{Label: "Commands", Input: Input{Kind: EventOpenCatalog}, Target: Node{Kind: NodeCategoryList}},
			{Label: "Close", Input: Input{Kind: EventClose}, Target: n, Terminal: true},
		}
	case NodeCategoryList:
		out := make([]Transition, 0, len(c.Categories)+1)
		for _, cat := range c.Categories {
			out = append(out, Transition{
				Label:  cat.Name,
				Input:  Input{Kind: EventPickCategory, Value: cat.Key},
				Target: Node{Kind: NodeCommandList, Category: cat.Key},
			})
		}
		return append(out, Transition{Label: "Back to Main", Input: Input{Kind: EventBack}, Target: Main})
	case NodeCommandList, NodeCommandDetail:
		cat, ok := c.Category(n.Category)
		if !ok {
			return []Transition{{Label: "Back to Main", Input: Input{Kind: EventBack}, Target: Main}}
		}
		out := make([]Transition, 0, len(cat.Commands)+1)
		for _, e := range cat.Commands {
			out = append(out, Transition{
				Label:  e.Name,
				Input:  Input{Kind: EventPickCommand, Value: e.Name},
				Target: Node{Kind: NodeCommandDetail, Category: cat.Key, Command: e.Name},
			})
		}
		return append(out, Transition{Label: "Back to Main", Input: Input{Kind: EventBack}, Target: Main})
	}
	return nil
}

// Next resolves the node reached from n on input in. closed reports that the
// input ends the session.
func (c *Catalog) Next(n Node, in Input) (next Node, closed bool, err error) {
	switch in.Kind {
	case EventBack:
		return Main, false, nil
	case EventClose:
		return n, true, nil
	case EventPickCommand:
		if n.Category == "" {
			return n, false, ErrCategoryRequired
		}
	}

	for _, t := range c.Transitions(n) {
		if t.Input.Kind != in.Kind {
			continue
		}
		if t.Input.Value == in.Value {
			return t.Target, t.Terminal, nil
		}
	}

	if c.offers(n, in.Kind) {
		return n, false, fmt.Errorf("%w: %s %q", ErrUnknownOption, in.Kind, in.Value)
	}
	return n, false, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, in.Kind, n)
}

func (c *Catalog) offers(n Node, kind EventKind) bool {
	switch kind {
	case EventPickCategory:
		return n.Kind == NodeCategoryList
	case EventPickCommand:
		return n.Kind == NodeCommandList || n.Kind == NodeCommandDetail
	case EventOpenCatalog:
		return n.Kind == NodeMain
	}
	return false
}
