package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/example/regionmark/internal/theme"
)

// ThemeEnv names the environment variable that selects a theme.
const ThemeEnv = "REGIONMARK_THEME"

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
	Misuse bool
}

// Config holds the application configuration. Zero numeric values mean
// "use the editor default".
type Config struct {
	Theme        string
	ScaleStep    float64
	HandleSize   float64
	ButtonRadius float64
	Containment  string
	OutputDir    string
	Notify       Notify
	Palette      []string
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Notify: Notify{Misuse: true},
		Themes: make(map[string]*theme.Theme),
	}
}

// ResolveTheme picks the theme name by precedence: flag, environment,
// config file.
func (c *Config) ResolveTheme(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(ThemeEnv); env != "" {
		return env
	}
	return c.Theme
}

// LoadTheme resolves name against the config's [theme.NAME] sections first
// and then the theme loader.
func (c *Config) LoadTheme(name string) (*theme.Theme, error) {
	if t, ok := c.Themes[name]; ok {
		return t, nil
	}
	return theme.NewLoader().Load(name)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.ScaleStep != 0 {
		fmt.Fprintf(&sb, "scale_step = %s\n", formatFloat(c.ScaleStep))
	}
	if c.HandleSize != 0 {
		fmt.Fprintf(&sb, "handle_size = %s\n", formatFloat(c.HandleSize))
	}
	if c.ButtonRadius != 0 {
		fmt.Fprintf(&sb, "button_radius = %s\n", formatFloat(c.ButtonRadius))
	}
	if c.Containment != "" {
		fmt.Fprintf(&sb, "containment = %s\n", c.Containment)
	}
	if c.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir = %s\n", c.OutputDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "misuse = %v\n", c.Notify.Misuse)
	sb.WriteString("\n")

	if len(c.Palette) > 0 {
		sb.WriteString("[palette]\n")
		fmt.Fprintf(&sb, "colors = %s\n", strings.Join(c.Palette, ", "))
		sb.WriteString("\n")
	}

	var names []string
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.String()), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
