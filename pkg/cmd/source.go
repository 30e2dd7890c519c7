package cmd

import "sync"

// Source yields candidate commands for Registry.Build without the registry
// knowing where they came from.
type Source interface {
	Commands() []Command
}

// List is a static Source.
type List []Command

// Commands returns the list itself.
func (l List) Commands() []Command { return l }

// Collector is a Source filled at program start, usually from init() functions
// of blank-imported command packages.
type Collector struct {
	mu       sync.Mutex
	commands []Command
}

// Add appends commands to the collector in order.
func (c *Collector) Add(cmds ...Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = append(c.commands, cmds...)
}

// Commands returns a copy of everything collected so far.
func (c *Collector) Commands() []Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Command, len(c.commands))
	copy(out, c.commands)
	return out
}
