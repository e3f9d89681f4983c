package main

import (
	"fmt"

	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/theme"
)

type colorsCmd struct {
	sub
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	cmd := &colorsCmd{sub: newSub(r, "colors")}
	cmd.fs.Usage = usageFunc(cmd)
	if err := cmd.fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

// palette is the configured annotation palette, or the built-in one.
func (c *colorsCmd) palette() []string {
	if c.config != nil && len(c.config.Palette) > 0 {
		return c.config.Palette
	}
	return editor.DefaultPalette
}

func (c *colorsCmd) Run() error {
	palette := c.palette()
	fmt.Fprintln(c.stdout, "annotation palette (* marks the color of the first annotation):")
	first := 1 % len(palette)
	for idx, name := range palette {
		marker := " "
		if idx == first {
			marker = "*"
		}
		col, err := theme.ParseColor(name)
		if err != nil {
			fmt.Fprintf(c.stdout, "%s %2d: %-12s (invalid: %v)\n", marker, idx, name, err)
			continue
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", col.R, col.G, col.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker, idx, name, theme.Hex(col), block)
	}
	return nil
}

type themesCmd struct {
	sub
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	cmd := &themesCmd{sub: newSub(r, "themes")}
	cmd.fs.Usage = usageFunc(cmd)
	if err := cmd.fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	active := ""
	if c.activeTheme != nil {
		active = c.activeTheme.Name
	}
	fmt.Fprintln(c.stdout, "available themes (* marks the active theme):")
	seen := map[string]bool{}
	list := func(name, origin string) {
		if seen[name] {
			return
		}
		seen[name] = true
		marker := " "
		t, err := c.config.LoadTheme(name)
		if err == nil && t.Name == active {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %-16s %s\n", marker, name, origin)
	}
	for _, name := range theme.Names() {
		list(name, "built-in")
	}
	for name := range c.config.Themes {
		list(name, "config")
	}
	return nil
}
