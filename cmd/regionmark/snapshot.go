package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/example/regionmark/internal/clipboard"
	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/geom"
	"github.com/example/regionmark/internal/imageload"
	"github.com/example/regionmark/internal/overlay"
	"github.com/example/regionmark/internal/task"
)

var clipboardWriteImage = clipboard.WriteImage

// snapshotCmd renders a task's overlay to a PNG without opening a window.
type snapshotCmd struct {
	sub
	output      string
	stdout      bool
	toClipboard bool
	mode        string
	size        string
	controls    bool
	taskPath    string
}

func parseSnapshotCmd(args []string, r *root) (*snapshotCmd, error) {
	s := &snapshotCmd{sub: newSub(r, "snapshot")}
	s.fs.StringVar(&s.output, "output", "snapshot.png", "write the PNG to this file path")
	s.fs.BoolVar(&s.stdout, "stdout", false, "write PNG data to stdout")
	s.fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the snapshot to the clipboard")
	s.fs.StringVar(&s.mode, "mode", "", "editor mode to render (default from the task)")
	s.fs.StringVar(&s.size, "size", "", "viewport WxH (default: the image size)")
	s.fs.BoolVar(&s.controls, "controls", false, "draw the on-canvas buttons")
	s.fs.Usage = usageFunc(s)
	if err := s.fs.Parse(args); err != nil {
		return nil, err
	}
	if s.toClipboard && s.stdout {
		return nil, fmt.Errorf("-stdout cannot be used with -to-clipboard")
	}
	if s.fs.NArg() != 1 {
		return nil, &UsageError{of: s}
	}
	s.taskPath = s.fs.Arg(0)
	if s.mode != "" {
		if _, err := editor.ParseMode(s.mode); err != nil {
			return nil, &UsageError{of: s, msg: err.Error()}
		}
	}
	if s.size != "" {
		if _, err := parseSize(s.size); err != nil {
			return nil, &UsageError{of: s, msg: err.Error()}
		}
	}
	return s, nil
}

func parseSize(val string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(val), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid size %q", val)
	}
	x, errW := strconv.Atoi(strings.TrimSpace(w))
	y, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil || x <= 0 || y <= 0 {
		return image.Point{}, fmt.Errorf("invalid size %q", val)
	}
	return image.Pt(x, y), nil
}

// render draws the task over its image. The viewport defaults to the image
// size so the image appears at 1:1.
func (s *snapshotCmd) render(t *task.Task) (*image.RGBA, error) {
	var bg image.Image
	viewport := geom.Sz(1024, 768)
	var natural geom.Size
	if p := t.ImagePath(); p != "" {
		img, err := imageload.Load(p)
		if err != nil {
			return nil, err
		}
		bg = img.RGBA
		natural = img.Size()
		viewport = natural
	}
	if s.size != "" {
		p, _ := parseSize(s.size)
		viewport = geom.Sz(float64(p.X), float64(p.Y))
	}

	opts := t.Options()
	if s.mode != "" {
		opts.Mode = editor.Mode(s.mode)
	}
	opts.Viewport = viewport
	opts.Logger = s.log
	opts.Misuse = s.notifier.Misuse
	e := editor.New(opts)
	defer e.Dispose()
	if natural.Known() {
		e.ImageReady(natural)
	}

	scene := e.Scene()
	if !s.controls {
		scene.Controls = nil
		scene.Tooltip = ""
	}
	return overlay.New(s.activeTheme, bg).Snapshot(scene), nil
}

func (s *snapshotCmd) Run() error {
	t, err := task.Load(s.taskPath, s.log)
	if err != nil {
		return err
	}
	img, err := s.render(t)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", s.taskPath, err)
	}
	switch {
	case s.stdout:
		if err := png.Encode(s.root.stdout, img); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
	case s.toClipboard:
		if err := clipboardWriteImage(img); err != nil {
			return fmt.Errorf("copy snapshot: %w", err)
		}
		s.notifier.Copy("snapshot")
	default:
		f, err := os.Create(s.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", s.output, err)
		}
		if err := png.Encode(f, img); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", s.output, err)
		}
		s.log.WithField("path", s.output).Info("snapshot saved")
		s.notifier.Export(s.output, img)
	}
	return nil
}
