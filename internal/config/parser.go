package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/regionmark/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			current = nil

			if name, ok := strings.CutPrefix(section, "theme."); ok {
				// Start with defaults so missing keys are fine
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		// Key = Value or Key: Value. Colors may contain neither.
		var key, value string
		if k, v, ok := strings.Cut(line, "="); ok {
			key, value = k, v
		} else if k, v, ok := strings.Cut(line, ":"); ok {
			key, value = k, v
		} else {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case current != nil:
			err = theme.SetField(current, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "palette":
			err = setPaletteField(cfg, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "output_dir":
		cfg.OutputDir = value
	case "containment":
		switch strings.ToLower(value) {
		case "", "live", "release", "on-release":
			cfg.Containment = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid containment %q", value)
		}
	case "scale_step":
		f, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		if f >= 1 {
			return fmt.Errorf("%s must be below 1", key)
		}
		cfg.ScaleStep = f
	case "handle_size":
		f, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		cfg.HandleSize = f
	case "button_radius":
		f, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		cfg.ButtonRadius = f
	}
	return nil
}

func parsePositive(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return f, nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	case "misuse":
		n.Misuse = b
	}
	return nil
}

func setPaletteField(cfg *Config, key, value string) error {
	if !strings.EqualFold(key, "colors") {
		return nil
	}
	cfg.Palette = nil
	for _, c := range strings.Split(value, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, err := theme.ParseColor(c); err != nil {
			return fmt.Errorf("invalid palette color %q: %w", c, err)
		}
		cfg.Palette = append(cfg.Palette, c)
	}
	return nil
}
