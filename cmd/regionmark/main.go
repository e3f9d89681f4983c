package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/regionmark/internal/config"
	"github.com/example/regionmark/internal/notify"
	"github.com/example/regionmark/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	log          *logrus.Logger
	stdout       io.Writer
	exportAlerts bool
	copyAlerts   bool
	misuseAlerts bool
	verbose      bool
	themeName    string
	activeTheme  *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) Template() string {
	return "root.txt"
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

func newRoot() *root {
	log := newLogger()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		log.WithError(err).Warn("failed to load config")
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("regionmark", flag.ExitOnError),
		program:  "regionmark",
		notifier: notify.New(notify.LoadPreferences(), log),
		config:   cfg,
		log:      log,
		stdout:   os.Stdout,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after saving a task or snapshot")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.misuseAlerts, "notify-misuse", cfg.Notify.Misuse, "show a desktop notification for internal errors")
	r.fs.BoolVar(&r.verbose, "v", false, "log debug output")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "overlay color theme ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.verbose {
		r.log.SetLevel(logrus.DebugLevel)
	}
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	r.notifier.Enable(notify.EventMisuse, r.misuseAlerts)

	name := r.config.ResolveTheme(r.themeName)
	t, err := r.config.LoadTheme(name)
	if err != nil {
		if name != "" && name != "default" {
			r.log.WithError(err).WithField("theme", name).Warn("failed to load theme, using default")
		}
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "edit", "show":
		cmd, err = parseSessionCmd(cmdName, subArgs, r)
	case "check":
		cmd, err = parseCheckCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "snapshot":
		cmd, err = parseSnapshotCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// exitError ends the process with a specific status. An empty message
// prints nothing.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		var xerr *exitError
		switch {
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
		case errors.As(err, &xerr):
			if xerr.msg != "" {
				fmt.Fprintln(os.Stderr, xerr.msg)
			}
			os.Exit(xerr.code)
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// sub carries what every subcommand shares: the root settings, its own
// flag set and its help template.
type sub struct {
	*root
	fs   *flag.FlagSet
	name string
}

func newSub(r *root, name string) sub {
	return sub{root: r, fs: flag.NewFlagSet(name, flag.ExitOnError), name: name}
}

func (s sub) Program() string {
	return strings.TrimSpace(s.root.program + " " + s.name)
}

func (s sub) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s sub) Template() string {
	return s.name + ".txt"
}
