package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
output_dir = /tmp/tasks
scale_step = 0.25
handle_size = 16
containment = release

[notify]
export = true
copy = false
misuse = false

[palette]
colors = red, #00FF00, steelblue

[theme.my_custom_theme]
Background = #111111
AnswerInside: lime
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.OutputDir != "/tmp/tasks" {
		t.Errorf("Expected output_dir '/tmp/tasks', got '%s'", cfg.OutputDir)
	}
	if cfg.ScaleStep != 0.25 || cfg.HandleSize != 16 || cfg.ButtonRadius != 0 {
		t.Errorf("unexpected sizes: %+v", cfg)
	}
	if cfg.Containment != "release" {
		t.Errorf("Expected containment 'release', got %q", cfg.Containment)
	}
	if want := (Notify{Export: true}); cfg.Notify != want {
		t.Errorf("Notify = %+v, want %+v", cfg.Notify, want)
	}
	if want := []string{"red", "#00FF00", "steelblue"}; !reflect.DeepEqual(cfg.Palette, want) {
		t.Errorf("Palette = %v, want %v", cfg.Palette, want)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
	if th.AnswerInside.G != 0xFF {
		t.Errorf("Unexpected AnswerInside color: %+v", th.AnswerInside)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"scale_step = 1.5":                 "below 1",
		"handle_size = -3":                 "positive",
		"button_radius = big":              "invalid number",
		"containment = sometimes":          "containment",
		"[notify]\nexport = maybe":         "[notify]",
		"[palette]\ncolors = red, nocolor": "palette",
		"[theme.x]\nHandleHot = #12345":    "[theme.x]",
	}
	for input, want := range cases {
		_, err := Parse(strings.NewReader(input))
		if err == nil {
			t.Errorf("%q: expected error", input)
			continue
		}
		if !strings.Contains(err.Error(), want) {
			t.Errorf("%q: error %q does not mention %q", input, err, want)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
output_dir = /home/user/tasks
button_radius = 24
containment = live

[notify]
export = true
copy = true
misuse = false

[palette]
colors = #FF0000, navy

[theme.custom]
Name = custom
Background = #000000
TooltipBackground = #FFFFFF80
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme || cfg.OutputDir != cfg2.OutputDir {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.ButtonRadius != cfg2.ButtonRadius || cfg.Containment != cfg2.Containment {
		t.Errorf("editor settings mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if !reflect.DeepEqual(cfg.Palette, cfg2.Palette) {
		t.Errorf("Palette mismatch: %v vs %v", cfg.Palette, cfg2.Palette)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestResolveTheme(t *testing.T) {
	cfg := New()
	cfg.Theme = "from-config"

	t.Setenv(ThemeEnv, "")
	if got := cfg.ResolveTheme(""); got != "from-config" {
		t.Errorf("got %q", got)
	}
	t.Setenv(ThemeEnv, "from-env")
	if got := cfg.ResolveTheme(""); got != "from-env" {
		t.Errorf("got %q", got)
	}
	if got := cfg.ResolveTheme("from-flag"); got != "from-flag" {
		t.Errorf("got %q", got)
	}
}

func TestLoadThemePrefersConfigSection(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[theme.dark]\nName = mine\n"))
	if err != nil {
		t.Fatal(err)
	}
	th, err := cfg.LoadTheme("dark")
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "mine" {
		t.Errorf("expected config theme, got %q", th.Name)
	}
	if th, err = cfg.LoadTheme("high_contrast"); err != nil || th.Name != "High Contrast" {
		t.Errorf("embedded theme: %v %v", th, err)
	}
}

func TestLoaderOverridePathAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.rc")

	cfg := New()
	cfg.Theme = "dark"
	cfg.ScaleStep = 0.2
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := NewLoader("1.0.0", path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Theme != "dark" || got.ScaleStep != 0.2 {
		t.Errorf("loaded %+v", got)
	}

	if err := os.WriteFile(path, []byte("scale_step = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("1.0.0", path).Load(); err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("expected error naming %s, got %v", path, err)
	}
}
