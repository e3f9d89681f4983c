package app

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/example/regionmark/internal/clipboard"
	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/task"
)

// Clipboard is the subset of the system clipboard the session uses.
type Clipboard interface {
	WriteText(string) error
	ReadText() (string, error)
	WriteImage(image.Image) error
}

type systemClipboard struct{}

func (systemClipboard) WriteText(s string) error { return clipboard.WriteText(s) }
func (systemClipboard) ReadText() (string, error) { return clipboard.ReadText() }
func (systemClipboard) WriteImage(img image.Image) error { return clipboard.WriteImage(img) }

// current captures the editor state as a task. mu must be held.
func (a *App) current() *task.Task {
	return task.FromEditor(a.Task, a.editor)
}

// save writes the current task to the output path. mu must be held.
func (a *App) save() {
	path := a.outputPath()
	t := a.current()
	if err := t.Save(path); err != nil {
		a.log.WithError(err).Error("save failed")
		return
	}
	a.modified = false
	a.log.WithField("path", path).Info("task saved")
	a.notifier.Export(path, a.renderer.Snapshot(a.editor.Scene()))
}

// copyTask puts the current task on the clipboard as JSON. mu must be held.
func (a *App) copyTask() {
	data, err := a.current().Marshal(task.FormatJSON)
	if err != nil {
		a.log.WithError(err).Error("encode task")
		return
	}
	if err := a.clip.WriteText(string(data)); err != nil {
		a.log.WithError(err).Error("copy failed")
		return
	}
	a.log.Info("task copied to clipboard")
	a.notifier.Copy("task")
}

// copyImage puts a snapshot of the overlay on the clipboard. mu must be held.
func (a *App) copyImage() {
	img := a.renderer.Snapshot(a.editor.Scene())
	if err := a.clip.WriteImage(img); err != nil {
		a.log.WithError(err).Error("copy image failed")
		return
	}
	a.log.WithField("size", img.Bounds().Size()).Info("snapshot copied to clipboard")
	a.notifier.Copy("snapshot")
}

// paste imports task data from the clipboard into whatever the mode edits.
// Annotations are appended; the solution is replaced. mu must be held.
func (a *App) paste() {
	text, err := a.clip.ReadText()
	if err != nil {
		a.log.WithError(err).Warn("paste failed")
		return
	}
	t, err := task.Parse([]byte(text), a.log)
	if err != nil {
		a.log.WithError(err).Warn("clipboard does not hold task data")
		return
	}
	fields := logrus.Fields{"mode": a.editor.Mode()}
	switch a.editor.Mode() {
	case editor.ModeEditAnnotations:
		if len(t.Annotations) == 0 {
			a.log.WithFields(fields).Info("nothing to paste")
			return
		}
		a.editor.ImportAnnotations(t.Annotations)
		fields["annotations"] = len(t.Annotations)
	case editor.ModeEditSolution:
		if len(t.Solution) == 0 {
			a.log.WithFields(fields).Info("nothing to paste")
			return
		}
		a.editor.ImportSolution(t.Solution)
		fields["points"] = len(t.Solution)
	case editor.ModeEditAnswer:
		if t.Answer == nil {
			a.log.WithFields(fields).Info("nothing to paste")
			return
		}
		a.editor.SetAnswer(t.Answer)
		fields["answer"] = fmt.Sprint(*t.Answer)
	default:
		a.log.WithFields(fields).Info("paste ignored in read-only mode")
		return
	}
	a.modified = true
	a.log.WithFields(fields).Info("pasted from clipboard")
}
