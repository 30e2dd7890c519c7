// Package navigation implements the interactive help menu: a static catalog
// of categories and commands, the screens derived from it, and the
// timeout-bounded sessions that walk through them.
package navigation

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is returned when catalog data fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Entry is one command described in the catalog.
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Category groups catalog entries.
type Category struct {
	Key      string  `yaml:"key"`
	Name     string  `yaml:"name"`
	Commands []Entry `yaml:"commands"`
}

// Lookup returns the entry named name.
func (c *Category) Lookup(name string) (Entry, bool) {
	for _, e := range c.Commands {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Catalog is the read-only tree driving the help menu. It is shared by every
// session and never mutated after loading.
type Catalog struct {
	Title         string     `yaml:"title"`
	Color         int        `yaml:"color"`
	Image         string     `yaml:"image"`
	SupportURL    string     `yaml:"support_url"`
	Intro         string     `yaml:"intro"`
	CommandsIntro string     `yaml:"commands_intro"`
	Categories    []Category `yaml:"categories"`
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog from path, or the embedded one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates YAML catalog data.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// MaxOptions is the most entries one select menu can carry.
const MaxOptions = 25

func (c *Catalog) validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidCatalog)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidCatalog)
	}
	if len(c.Categories) > MaxOptions {
		return fmt.Errorf("%w: %d categories, at most %d fit a menu", ErrInvalidCatalog, len(c.Categories), MaxOptions)
	}
	keys := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Key == "" || cat.Name == "" {
			return fmt.Errorf("%w: category needs key and name", ErrInvalidCatalog)
		}
		if keys[cat.Key] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, cat.Key)
		}
		keys[cat.Key] = true
		if len(cat.Commands) == 0 || len(cat.Commands) > MaxOptions {
			return fmt.Errorf("%w: category %q needs 1 to %d commands, has %d", ErrInvalidCatalog, cat.Key, MaxOptions, len(cat.Commands))
		}

		names := make(map[string]bool, len(cat.Commands))
		for _, e := range cat.Commands {
			if e.Name == "" || e.Description == "" {
				return fmt.Errorf("%w: category %q has an entry without name or description", ErrInvalidCatalog, cat.Key)
			}
			if names[e.Name] {
				return fmt.Errorf("%w: duplicate command %q in %q", ErrInvalidCatalog, e.Name, cat.Key)
			}
			names[e.Name] = true
		}
	}
	return nil
}

// Category returns the category with the given key.
func (c *Catalog) Category(key string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].Key == key {
			return &c.Categories[i], true
		}
	}
	return nil, false
}
