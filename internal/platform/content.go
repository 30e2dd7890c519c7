package platform

// Colors used across moderation embeds.
const (
	ColorBan     = 0x990000
	ColorUnban   = 0x00FF00
	ColorKick    = 0xFFA500
	ColorWarn    = 0xFFCC00
	ColorDenied  = 0xFF0000
	ColorDefault = 0x36366a
)

// Field is one name/value pair of rich content.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// ControlKind is the kind of an interactive control.
type ControlKind int

const (
	ControlButton ControlKind = iota
	ControlLink
	ControlSelect
)

// ButtonStyle is the visual style of a button.
type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota
	StyleSecondary
	StyleDanger
	StyleSuccess
)

// Option is one entry of a select control.
type Option struct {
	Label       string
	Value       string
	Description string
	Default     bool
}

// Control is a button, link button or select list.
type Control struct {
	Kind        ControlKind
	ID          string
	Label       string
	URL         string
	Style       ButtonStyle
	Placeholder string
	Options     []Option
}

// ControlRow is one horizontal row of controls.
type ControlRow []Control

// Content is structured display content. Text is sent outside the embed;
// the embed part is rendered when any of its fields is set.
type Content struct {
	Text        string
	Title       string
	Description string
	Color       int
	Fields      []Field
	Footer      string
	FooterIcon  string
	Image       string
	Timestamp   bool
	Controls    []ControlRow
}

// Text builds plain text content.
func Text(s string) Content {
	return Content{Text: s}
}

// HasEmbed reports whether any rich part is set.
func (c Content) HasEmbed() bool {
	return c.Title != "" || c.Description != "" || len(c.Fields) > 0 || c.Image != "" || c.Footer != ""
}
