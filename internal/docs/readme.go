package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"

	"ippo/internal/command"
	"ippo/pkg/cmd"

	"github.com/rs/zerolog/log"
)

// Sections renders the command reference as markdown, grouped by category.
// categoryWeights maps category name to sort order (lower first).
func Sections(registry *cmd.Registry, prefix string, categoryWeights map[string]int) string {
	commands := registry.All()
	sort.SliceStable(commands, func(i, j int) bool {
		wi := categoryWeights[categoryOf(commands[i])]
		wj := categoryWeights[categoryOf(commands[j])]
		if wi == wj {
			return commands[i].Name() < commands[j].Name()
		}
		return wi < wj
	})

	var buf bytes.Buffer
	currentCategory := ""
	for i, c := range commands {
		cat := categoryOf(c)
		if i == 0 || cat != currentCategory {
			if i != 0 {
				buf.WriteString("\n")
			}
			currentCategory = cat
			fmt.Fprintf(&buf, "### %s\n\n", heading(cat))
		}

		usage := ""
		if meta, ok := command.MetaOf(c); ok && meta.Usage() != "" {
			usage = " " + meta.Usage()
		}
		fmt.Fprintf(&buf, "- **`%s%s%s`** %s\n", prefix, c.Name(), usage, c.Description())
	}
	return buf.String()
}

// Write renders the reference to w, through the template at tmplPath when set.
// The template receives CommandSections.
func Write(w io.Writer, registry *cmd.Registry, prefix string, categoryWeights map[string]int, tmplPath string) error {
	sections := Sections(registry, prefix, categoryWeights)
	if tmplPath == "" {
		_, err := io.WriteString(w, sections)
		return err
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	data := struct {
		CommandSections string
	}{
		CommandSections: sections,
	}
	return tmpl.Execute(w, data)
}

// UpdateReadme regenerates outPath from tmplPath.
func UpdateReadme(registry *cmd.Registry, prefix string, categoryWeights map[string]int, tmplPath, outPath string) error {
	var buf bytes.Buffer
	if err := Write(&buf, registry, prefix, categoryWeights, tmplPath); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return err
	}
	log.Info().Str("path", outPath).Int("commands", registry.Len()).Msg("README updated with current commands")
	return nil
}

func categoryOf(c cmd.Command) string {
	if meta, ok := command.MetaOf(c); ok {
		return meta.Category()
	}
	return ""
}

func heading(cat string) string {
	if cat == "" {
		return "Other"
	}
	return cat
}
