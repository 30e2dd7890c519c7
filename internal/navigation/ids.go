package navigation

import "strings"

// Prefix marks control ids owned by the help menu.
const Prefix = "nav:"

// Control ids carried by the help menu components.
const (
	IDOpen     = Prefix + "open"
	IDCategory = Prefix + "category"
	IDCommand  = Prefix + "command"
	IDBack     = Prefix + "back"
	IDClose    = Prefix + "close"
)

// IsControl reports whether id belongs to the help menu.
func IsControl(id string) bool {
	return strings.HasPrefix(id, Prefix)
}

// ParseControl maps a control id and its selected value to an input.
func ParseControl(id, value string) (Input, bool) {
	switch id {
	case IDOpen:
		return Input{Kind: EventOpenCatalog}, true
	case IDCategory:
		return Input{Kind: EventPickCategory, Value: value}, true
	case IDCommand:
		return Input{Kind: EventPickCommand, Value: value}, true
	case IDBack:
		return Input{Kind: EventBack}, true
	case IDClose:
		return Input{Kind: EventClose}, true
	}
	return Input{}, false
}
