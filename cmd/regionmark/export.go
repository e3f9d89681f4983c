package main

import (
	"fmt"
	"os"

	"github.com/example/regionmark/internal/clipboard"
	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/task"
)

var clipboardWriteText = clipboard.WriteText

// exportCmd normalises a task by passing it through the editor's import
// and export.
type exportCmd struct {
	sub
	format   string
	output   string
	copy     bool
	taskPath string
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	c := &exportCmd{sub: newSub(r, "export")}
	c.fs.StringVar(&c.format, "format", "", "yaml or json (default from -output, else yaml)")
	c.fs.StringVar(&c.output, "output", "", "output file (default stdout)")
	c.fs.BoolVar(&c.copy, "copy", false, "also copy the result to the clipboard")
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.taskPath = c.fs.Arg(0)
	switch c.format {
	case "", "yaml", "yml", "json":
	default:
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unknown format %q", c.format)}
	}
	return c, nil
}

func (c *exportCmd) formatFor() task.Format {
	switch c.format {
	case "json":
		return task.FormatJSON
	case "yaml", "yml":
		return task.FormatYAML
	}
	return task.FormatFor(c.output)
}

// normalise round-trips t through a headless editor.
func normalise(t *task.Task, r *root) *task.Task {
	opts := t.Options()
	opts.Logger = r.log
	opts.Misuse = r.notifier.Misuse
	e := editor.New(opts)
	defer e.Dispose()
	return task.FromEditor(t, e)
}

func (c *exportCmd) Run() error {
	t, err := task.Load(c.taskPath, c.log)
	if err != nil {
		return err
	}
	data, err := normalise(t, c.root).Marshal(c.formatFor())
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	if c.output == "" {
		if _, err := c.stdout.Write(data); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	} else {
		if err := os.WriteFile(c.output, data, 0o644); err != nil {
			return fmt.Errorf("write export %s: %w", c.output, err)
		}
		c.log.WithField("path", c.output).Info("task exported")
		c.notifier.Export(c.output, nil)
	}
	if c.copy {
		if err := clipboardWriteText(string(data)); err != nil {
			return fmt.Errorf("copy export: %w", err)
		}
		c.notifier.Copy("export")
	}
	return nil
}
