// Package app hosts an editor session in a shiny window.
package app

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/regionmark/internal/config"
	"github.com/example/regionmark/internal/display"
	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/geom"
	"github.com/example/regionmark/internal/imageload"
	"github.com/example/regionmark/internal/notify"
	"github.com/example/regionmark/internal/overlay"
	"github.com/example/regionmark/internal/task"
	"github.com/example/regionmark/internal/theme"
)

// frameDropThreshold is how many consecutive rendered frames may be replaced
// by a newer one before a frame is forced through to the window.
const frameDropThreshold = 10

// DefaultOutput is the file name used when neither an output path nor a
// task path is known.
const DefaultOutput = "task.yaml"

// App is one editing session. Everything touching the editor or the
// renderer runs with mu held.
type App struct {
	Task     *task.Task
	TaskPath string
	Output   string

	cfg      *config.Config
	theme    *theme.Theme
	notifier *notify.Notifier
	clip     Clipboard
	log      *logrus.Logger
	keys     keymap

	mu       sync.Mutex
	editor   *editor.Editor
	renderer *overlay.Renderer
	modified bool

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithTask sets the task to edit and the path it was loaded from.
func WithTask(t *task.Task, path string) Option {
	return func(a *App) { a.Task, a.TaskPath = t, path }
}

// WithOutput sets the path Save writes to.
func WithOutput(out string) Option { return func(a *App) { a.Output = out } }

// WithConfig supplies editor settings and notification toggles.
func WithConfig(c *config.Config) Option { return func(a *App) { a.cfg = c } }

// WithTheme sets the drawing colors.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.theme = t } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option { return func(a *App) { a.clip = c } }

// WithLogger sets the logger shared with the editor.
func WithLogger(l *logrus.Logger) Option { return func(a *App) { a.log = l } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App with the provided options.
func New(opts ...Option) *App {
	a := &App{
		Task: &task.Task{},
		cfg:  config.New(),
		clip: systemClipboard{},
		log:  logrus.StandardLogger(),
		keys: defaultKeymap(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	return a
}

// editorOptions merges the task with configured editor settings.
func (a *App) editorOptions(viewport geom.Size) editor.Options {
	opts := a.Task.Options()
	opts.Viewport = viewport
	opts.ScaleStep = a.cfg.ScaleStep
	opts.HandleSize = a.cfg.HandleSize
	opts.ButtonRadius = a.cfg.ButtonRadius
	if len(opts.AnnotationColors) == 0 {
		opts.AnnotationColors = a.cfg.Palette
	}
	if c, err := editor.ParseContainment(a.cfg.Containment); err == nil {
		opts.Containment = c
	} else {
		a.log.WithError(err).Warn("ignoring containment setting")
	}
	opts.Logger = a.log
	opts.Misuse = a.notifier.Misuse
	opts.OnSolutionChange = func(pts []geom.Point) {
		a.modified = true
		a.log.WithField("points", len(pts)).Debug("solution changed")
	}
	opts.OnAnnotationChange = func(as []editor.AnnotationData) {
		a.modified = true
		a.log.WithField("annotations", len(as)).Debug("annotations changed")
	}
	opts.OnAnswerChange = func(p *geom.Point) {
		a.modified = true
		a.log.WithField("answer", p).Debug("answer changed")
	}
	return opts
}

// start builds the editor and the renderer for a window of the given size.
func (a *App) start(viewport geom.Size) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.editor = editor.New(a.editorOptions(viewport))
	a.renderer = overlay.New(a.theme, nil)
	if editable(a.editor.Mode()) {
		a.editor.AddControl(&editor.Control{
			Name:    "save",
			Glyph:   "S",
			Tooltip: "Save task (Ctrl+S)",
			Action:  func() { a.save() },
		})
	}
}

func editable(m editor.Mode) bool {
	return m == editor.ModeEditAnswer || m == editor.ModeEditSolution || m == editor.ModeEditAnnotations
}

// Modified reports whether the editor changed anything since the last save.
func (a *App) Modified() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.modified
}

// outputPath picks the save target: the explicit output, then the task file,
// then DefaultOutput in the configured output directory.
func (a *App) outputPath() string {
	switch {
	case a.Output != "":
		return a.Output
	case a.TaskPath != "":
		return a.TaskPath
	}
	dir := a.cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, DefaultOutput)
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

type imageReady struct {
	img imageload.Image
	err error
}

// Main runs the window event loop until the window closes.
func (a *App) Main(s screen.Screen) {
	defer a.notifyClose()

	imgPath := a.Task.ImagePath()
	var natural image.Point
	if imgPath != "" {
		if p, err := imageload.Config(imgPath); err == nil {
			natural = p
		}
	}
	var monitor image.Rectangle
	if m, err := display.Primary(); err == nil {
		monitor = m.Rect
	} else {
		a.log.WithError(err).Debug("monitor query failed")
	}
	win := display.WindowSize(natural, monitor)

	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  win.X,
		Height: win.Y,
		Title:  windowTitle(imgPath),
	})
	if err != nil {
		a.log.WithError(err).Error("new window")
		return
	}
	defer w.Release()

	a.start(geom.Sz(float64(win.X), float64(win.Y)))
	defer a.dispose()

	if imgPath != "" {
		imageload.LoadAsync(imgPath, func(img imageload.Image, err error) {
			w.Send(imageReady{img: img, err: err})
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paintCh := make(chan *image.RGBA, 1)
	paintDone := make(chan struct{})
	go func() {
		defer close(paintDone)
		for frame := range paintCh {
			a.upload(s, w, frame)
		}
	}()
	defer func() { <-paintDone }()
	defer close(paintCh)

	var dropCount int
	loop := &overlay.Loop{Renderer: a.renderer, Lock: &a.mu}
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx, a.editor, func(frame *image.RGBA) {
			select {
			case paintCh <- frame:
				dropCount = 0
				return
			default:
			}
			if dropCount >= frameDropThreshold {
				paintCh <- frame
				dropCount = 0
				return
			}
			select {
			case <-paintCh:
				dropCount++
			default:
			}
			paintCh <- frame
		})
	}()
	defer func() { cancel(); <-loopDone }()

	var pointer pointerMapper
	dispatcher := &editor.Dispatcher{}
	a.mu.Lock()
	a.editor.Attach(dispatcher)
	a.mu.Unlock()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			a.mu.Lock()
			a.editor.Resize(geom.Sz(float64(e.WidthPx), float64(e.HeightPx)))
			a.mu.Unlock()
		case paint.Event:
			if e.External {
				a.mu.Lock()
				a.editor.Refresh()
				a.mu.Unlock()
			}
		case imageReady:
			a.imageLoaded(imgPath, e.img, e.err)
		case mouse.Event:
			evs := pointer.Map(e)
			a.mu.Lock()
			for _, ev := range evs {
				dispatcher.Dispatch(ev)
			}
			a.mu.Unlock()
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if a.handleKey(e) {
				return
			}
		case error:
			a.log.WithError(e).Warn("window event")
		}
	}
}

func (a *App) imageLoaded(path string, img imageload.Image, err error) {
	if err != nil {
		a.log.WithError(err).WithField("path", path).Error("image unavailable")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renderer.SetImage(img.RGBA)
	a.editor.ImageReady(img.Size())
	a.log.WithFields(logrus.Fields{"path": path, "format": img.Format}).Debug("image ready")
}

// upload copies a rendered frame into a window buffer and publishes it.
func (a *App) upload(s screen.Screen, w screen.Window, frame *image.RGBA) {
	b, err := s.NewBuffer(frame.Bounds().Size())
	if err != nil {
		a.log.WithError(err).Error("new buffer")
		return
	}
	defer b.Release()
	copy(b.RGBA().Pix, frame.Pix)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// handleKey runs the action bound to e and reports whether the session
// should end.
func (a *App) handleKey(e key.Event) bool {
	action, ok := a.keys.lookup(e)
	if !ok {
		return false
	}
	if action == "quit" {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.run(action)
	return false
}

// run executes a named action. mu must be held.
func (a *App) run(action string) {
	a.log.WithField("action", action).Debug("shortcut")
	switch action {
	case "zoom-in":
		a.editor.ZoomIn()
	case "zoom-out":
		a.editor.ZoomOut()
	case "escape":
		a.editor.Escape()
	case "save":
		a.save()
	case "copy":
		a.copyTask()
	case "copy-image":
		a.copyImage()
	case "paste":
		a.paste()
	}
}

func (a *App) dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.editor != nil {
		a.editor.Dispose()
	}
}

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func windowTitle(imgPath string) string {
	if imgPath == "" {
		return "RegionMark"
	}
	return fmt.Sprintf("RegionMark - %s", strings.TrimSpace(filepath.Base(imgPath)))
}
