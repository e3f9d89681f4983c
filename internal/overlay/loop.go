package overlay

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/example/regionmark/internal/editor"
)

// DefaultInterval is the redraw tick.
const DefaultInterval = 16 * time.Millisecond

// Source yields a scene when something changed since the last call.
type Source interface {
	TakeScene() (editor.Scene, bool)
}

// Loop polls a Source on a ticker and renders at most one frame per tick.
type Loop struct {
	Renderer *Renderer
	Interval time.Duration
	// Lock guards the source and the renderer when they are shared with an
	// event goroutine. It is held for the whole tick.
	Lock sync.Locker
}

// Run blocks until ctx is cancelled or src reports it is done. Each rendered
// frame is handed to present, which owns it afterwards.
func (l *Loop) Run(ctx context.Context, src Source, present func(*image.RGBA)) {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	var done <-chan struct{}
	if d, ok := src.(interface{ Done() <-chan struct{} }); ok {
		done = d.Done()
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-t.C:
			if frame := l.Tick(src); frame != nil {
				present(frame)
			}
		}
	}
}

// Tick takes one scene from src and renders it, or returns nil when nothing
// is pending.
func (l *Loop) Tick(src Source) *image.RGBA {
	if l.Lock != nil {
		l.Lock.Lock()
		defer l.Lock.Unlock()
	}
	scene, ok := src.TakeScene()
	if !ok {
		return nil
	}
	return l.Renderer.Snapshot(scene)
}
