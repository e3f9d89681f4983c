package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/example/regionmark/internal/app"
	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/task"
)

// sessionCmd opens the editor window. edit and show differ only in the
// modes they accept.
type sessionCmd struct {
	sub
	mode     string
	image    string
	output   string
	taskPath string
}

func parseSessionCmd(name string, args []string, r *root) (*sessionCmd, error) {
	c := &sessionCmd{sub: newSub(r, name)}
	defMode := string(editor.ModeEditSolution)
	if name == "show" {
		defMode = string(editor.ModeShowSolution)
	}
	c.fs.StringVar(&c.mode, "mode", "", "editor mode (default from the task, then "+defMode+")")
	c.fs.StringVar(&c.image, "image", "", "background image, overrides the task's image")
	if name == "edit" {
		c.fs.StringVar(&c.output, "output", "", "where Ctrl+S saves (default: the task file)")
	}
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.taskPath = c.fs.Arg(0)
	if c.mode != "" {
		m, err := editor.ParseMode(c.mode)
		if err != nil {
			return nil, &UsageError{of: c, msg: err.Error()}
		}
		if err := c.allowed(m); err != nil {
			return nil, &UsageError{of: c, msg: err.Error()}
		}
	}
	return c, nil
}

func (c *sessionCmd) allowed(m editor.Mode) error {
	show := m == editor.ModeShowSolution || m == editor.ModeShowAnnotations
	if c.name == "show" && !show {
		return fmt.Errorf("mode %s is not a display mode", m)
	}
	if c.name == "edit" && (show || m == editor.ModeNone) {
		return fmt.Errorf("mode %s is not an editing mode", m)
	}
	return nil
}

// loadTask reads the task file. A missing file starts an empty task when
// editing with an explicit image.
func (c *sessionCmd) loadTask() (*task.Task, error) {
	t, err := task.Load(c.taskPath, c.log)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, fs.ErrNotExist) && c.name == "edit" && c.image != "" {
		c.log.WithField("task", c.taskPath).Info("starting a new task")
		return &task.Task{}, nil
	}
	return nil, err
}

func (c *sessionCmd) Run() error {
	t, err := c.loadTask()
	if err != nil {
		return err
	}
	if c.image != "" {
		t.Image, t.Dir = c.image, ""
	}
	if c.mode != "" {
		t.Mode = editor.Mode(c.mode)
	}
	if err := c.allowed(t.Mode); err != nil {
		if c.mode != "" || t.Mode != editor.ModeNone {
			return err
		}
		t.Mode = editor.ModeEditSolution
		if c.name == "show" {
			t.Mode = editor.ModeShowSolution
		}
	}
	if t.Image == "" {
		return fmt.Errorf("task %s names no image; pass -image", c.taskPath)
	}

	a := app.New(
		app.WithTask(t, c.taskPath),
		app.WithOutput(c.output),
		app.WithConfig(c.config),
		app.WithTheme(c.activeTheme),
		app.WithNotifier(c.notifier),
		app.WithLogger(c.log),
	)
	a.Run()
	if a.Modified() {
		c.log.WithField("task", c.taskPath).Warn("closed with unsaved changes")
	}
	return nil
}
