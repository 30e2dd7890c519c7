package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ActionPrefix marks control ids of one-shot actions.
const ActionPrefix = "act:"

// maxCustomID is the platform limit for component ids.
const maxCustomID = 100

var ErrMalformedActionID = errors.New("malformed action id")

// ActionID identifies a one-shot action and its target. It is encoded as a
// query string so ids containing separators survive the round trip.
type ActionID struct {
	Name string
	// User is the target the action applies to.
	User string
	// By restricts the control to one actor when set.
	By string
}

// Encode returns the component id for a.
func (a ActionID) Encode() (string, error) {
	if a.Name == "" {
		return "", fmt.Errorf("%w: missing name", ErrMalformedActionID)
	}
	v := url.Values{}
	v.Set("name", a.Name)
	if a.User != "" {
		v.Set("user", a.User)
	}
	if a.By != "" {
		v.Set("by", a.By)
	}
	id := ActionPrefix + v.Encode()
	if len(id) > maxCustomID {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrMalformedActionID, len(id), maxCustomID)
	}
	return id, nil
}

// IsAction reports whether a component id carries a one-shot action.
func IsAction(id string) bool {
	return strings.HasPrefix(id, ActionPrefix)
}

// ParseActionID decodes a component id produced by Encode.
func ParseActionID(id string) (ActionID, error) {
	if !IsAction(id) {
		return ActionID{}, fmt.Errorf("%w: %q", ErrMalformedActionID, id)
	}
	v, err := url.ParseQuery(strings.TrimPrefix(id, ActionPrefix))
	if err != nil {
		return ActionID{}, fmt.Errorf("%w: %v", ErrMalformedActionID, err)
	}
	a := ActionID{Name: v.Get("name"), User: v.Get("user"), By: v.Get("by")}
	if a.Name == "" {
		return ActionID{}, fmt.Errorf("%w: missing name", ErrMalformedActionID)
	}
	return a, nil
}
