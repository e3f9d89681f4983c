package main

import (
	"fmt"
	"os"

	"github.com/example/regionmark/internal/config"
)

type configCmd struct {
	sub
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := &configCmd{sub: newSub(r, "config")}
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Fprint(c.stdout, c.config.String())
		return nil
	case "path":
		fmt.Fprintln(c.stdout, c.savePath())
		return nil
	case "save":
		return c.runSave()
	default:
		return &UsageError{of: c, msg: fmt.Sprintf("unknown config command: %s", args[0])}
	}
}

// savePath is the loaded config file, or the default location when none
// was found.
func (c *configCmd) savePath() string {
	loader := config.NewLoader(version, configPathOverride)
	if p := loader.GetConfigPath(); p != "" {
		return p
	}
	if configPathOverride != "" {
		return configPathOverride
	}
	return config.DefaultPath()
}

func (c *configCmd) runSave() error {
	path := c.savePath()
	if path == "" {
		return fmt.Errorf("no config path: home directory unknown")
	}
	if err := c.config.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
