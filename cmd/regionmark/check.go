package main

import (
	"errors"
	"fmt"

	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/task"
)

var (
	errNoAnswer   = errors.New("task has no answer")
	errNoSolution = errors.New("task has no closed solution")
)

// checkCmd reports whether a task's answer lies inside its solution.
type checkCmd struct {
	sub
	quiet    bool
	taskPath string
}

func parseCheckCmd(args []string, r *root) (*checkCmd, error) {
	c := &checkCmd{sub: newSub(r, "check")}
	c.fs.BoolVar(&c.quiet, "q", false, "print nothing, only set the exit status")
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.taskPath = c.fs.Arg(0)
	return c, nil
}

func (c *checkCmd) Run() error {
	t, err := task.Load(c.taskPath, c.log)
	if err != nil {
		return err
	}
	opts := t.Options()
	opts.Mode = editor.ModeShowSolution
	opts.Logger = c.log
	e := editor.New(opts)
	defer e.Dispose()

	answer := e.Answer()
	if answer == nil {
		return fmt.Errorf("check %s: %w", c.taskPath, errNoAnswer)
	}
	if s := e.Solution(); s == nil || !s.IsClosed() {
		return fmt.Errorf("check %s: %w", c.taskPath, errNoSolution)
	}
	inside := e.AnswerInside()
	if !c.quiet {
		where := "outside"
		if inside {
			where = "inside"
		}
		fmt.Fprintf(c.stdout, "%s: answer (%g, %g) is %s the solution\n", c.taskPath, answer.X, answer.Y, where)
	}
	if !inside {
		return &exitError{code: 2}
	}
	return nil
}
