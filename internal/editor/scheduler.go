package editor

import "sync"

// RenderScheduler coalesces any number of MarkDirty calls within one frame
// interval into a single draw. The frame hook is injected: in the GUI it
// defers to the toolkit's frame callback, in tests it is pumped manually.
type RenderScheduler struct {
	mu      sync.Mutex
	dirty   bool
	pending bool

	schedule func(func()) // schedules fn for a future frame, exactly once per call
	draw     func()
}

// NewRenderScheduler wires a scheduler to a frame-scheduling function and a
// draw pass. Both must be non-nil; the draw pass is responsible for
// reconciling the backing raster with the display scale before painting.
func NewRenderScheduler(schedule func(func()), draw func()) *RenderScheduler {
	if schedule == nil || draw == nil {
		panic("editor: render scheduler requires schedule and draw functions")
	}
	return &RenderScheduler{schedule: schedule, draw: draw}
}

// MarkDirty records that a redraw is needed and schedules one frame
// callback if none is outstanding. Safe for concurrent use; completion
// callbacks from background transfers may call it off the UI loop.
func (s *RenderScheduler) MarkDirty() {
	s.mu.Lock()
	s.dirty = true
	if s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()

	s.schedule(s.frame)
}

// frame is the scheduled callback: it clears the pending flag, and draws
// only if a mutation is still unpainted.
func (s *RenderScheduler) frame() {
	s.mu.Lock()
	s.pending = false
	wasDirty := s.dirty
	s.dirty = false
	s.mu.Unlock()

	if wasDirty {
		s.draw()
	}
}
