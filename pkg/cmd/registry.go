package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidDescriptor is returned for a nil command or an unusable name.
	ErrInvalidDescriptor = errors.New("invalid command descriptor")
	// ErrDuplicateCommand is returned when a name is already taken, ignoring case.
	ErrDuplicateCommand = errors.New("duplicate command")
)

// Registry stores commands by lower-cased name. It does not perform dispatch;
// each adapter looks up commands and invokes them with its own context.
// A registry is filled once at startup and only read afterwards.
type Registry struct {
	commands map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command.
func (r *Registry) Register(c Command) error {
	if c == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidDescriptor)
	}
	name := c.Name()
	if !validName(name) {
		return fmt.Errorf("%w: name %q", ErrInvalidDescriptor, name)
	}
	key := strings.ToLower(name)
	if existing, ok := r.commands[key]; ok {
		return fmt.Errorf("%w: %q collides with %q", ErrDuplicateCommand, name, existing.Name())
	}
	r.commands[key] = c
	return nil
}

// Build registers every command the source yields. Entries that fail
// validation are logged and skipped so one bad module cannot abort startup.
func (r *Registry) Build(src Source) int {
	registered := 0
	for _, c := range src.Commands() {
		if err := r.Register(c); err != nil {
			log.Warn().Err(err).Msg("Skipped command")
			continue
		}
		log.Debug().Str("command", c.Name()).Msg("Loaded command")
		registered++
	}
	return registered
}

// Lookup returns the command registered under name, ignoring case.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.commands[strings.ToLower(name)]
	return c, ok
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name()) < strings.ToLower(list[j].Name())
	})
	return list
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.commands)
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, ch := range name {
		if unicode.IsSpace(ch) {
			return false
		}
	}
	return true
}
