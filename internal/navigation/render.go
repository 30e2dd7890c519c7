package navigation

import (
	"fmt"

	"ippo/internal/platform"
)

const (
	maxOptionDescription = 100
	closedFooter         = "Help menu closed"
)

// Render builds the full screen for n. Controls are regenerated from the
// catalog on every call so they always match the node.
func (c *Catalog) Render(n Node, owner platform.User) platform.Content {
	screen := c.frame(owner)

	switch n.Kind {
	case NodeMain:
		screen.Title = c.Title + " - Introduction"
		screen.Description = c.Intro
		screen.Controls = []platform.ControlRow{c.mainButtons(n)}
	case NodeCategoryList:
		screen.Title = c.Title + " - Commands"
		screen.Description = c.CommandsIntro
		screen.Controls = c.selectRows(n, IDCategory, "Choose a command category")
	case NodeCommandList, NodeCommandDetail:
		screen.Title = c.Title + " - Commands"
		cat, ok := c.Category(n.Category)
		if !ok {
			screen.Description = c.CommandsIntro
			screen.Controls = []platform.ControlRow{{backButton()}}
			break
		}
		if n.Kind == NodeCommandDetail {
			entry, _ := cat.Lookup(n.Command)
			screen.Description = fmt.Sprintf("**Command:** %s\n**Description:** %s", entry.Name, entry.Description)
		} else {
			screen.Description = fmt.Sprintf("Category: **%s**\nSelect a command below to see its description.", cat.Name)
		}
		screen.Controls = c.selectRows(n, IDCommand, "Choose a command from "+cat.Name)
	}
	return screen
}

// RenderClosed is the last screen of a closed session, without controls.
func (c *Catalog) RenderClosed(n Node, owner platform.User) platform.Content {
	screen := c.Render(n, owner)
	screen.Controls = nil
	screen.Footer = closedFooter
	return screen
}

func (c *Catalog) frame(owner platform.User) platform.Content {
	return platform.Content{
		Color:      c.Color,
		Image:      c.Image,
		Footer:     "Requested by " + owner.Tag(),
		FooterIcon: owner.AvatarURL,
		Timestamp:  true,
	}
}

func (c *Catalog) mainButtons(n Node) platform.ControlRow {
	row := platform.ControlRow{}
	for _, t := range c.Transitions(n) {
		switch t.Input.Kind {
		case EventOpenCatalog:
			row = append(row, platform.Control{Kind: platform.ControlButton, ID: IDOpen, Label: t.Label, Style: platform.StylePrimary})
			row = append(row, platform.Control{Kind: platform.ControlLink, Label: "Support Server", URL: c.SupportURL})
		case EventClose:
			row = append(row, platform.Control{Kind: platform.ControlButton, ID: IDClose, Label: t.Label, Style: platform.StyleDanger})
		}
	}
	return row
}

func (c *Catalog) selectRows(n Node, id, placeholder string) []platform.ControlRow {
	menu := platform.Control{Kind: platform.ControlSelect, ID: id, Placeholder: placeholder}
	var back bool
	for _, t := range c.Transitions(n) {
		if t.Input.Kind == EventBack {
			back = true
			continue
		}
		opt := platform.Option{Label: t.Label, Value: t.Input.Value}
		if t.Input.Kind == EventPickCommand {
			entry, _ := c.entry(n.Category, t.Input.Value)
			opt.Description = truncate(entry.Description, maxOptionDescription)
			opt.Default = n.Kind == NodeCommandDetail && t.Input.Value == n.Command
		}
		menu.Options = append(menu.Options, opt)
	}

	rows := []platform.ControlRow{{menu}}
	if back {
		rows = append(rows, platform.ControlRow{backButton()})
	}
	return rows
}

func (c *Catalog) entry(category, name string) (Entry, bool) {
	cat, ok := c.Category(category)
	if !ok {
		return Entry{}, false
	}
	return cat.Lookup(name)
}

func backButton() platform.Control {
	return platform.Control{Kind: platform.ControlButton, ID: IDBack, Label: "Back to Main", Style: platform.StyleSecondary}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
