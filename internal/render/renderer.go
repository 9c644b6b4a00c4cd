package render

import (
	"image"
	"sync"

	"github.com/gogpu/gg"
	log "github.com/sirupsen/logrus"

	"chalkpad/internal/state"
)

// Container is whatever the surface is mounted into. Its layout size is
// measured once, at Initialize.
type Container interface {
	LayoutSize() (width, height int)
}

// Size is a Container with a known layout size.
type Size struct{ Width, Height int }

func (s Size) LayoutSize() (int, int) { return s.Width, s.Height }

// PenSource yields the pen to paint with. It is consulted on every paint.
type PenSource interface {
	Current() state.PenSettings
}

// Renderer owns the drawing surface and turns pointer motion into strokes.
//
// The surface is sized once from its container and never reflows.
// All methods are safe to call from multiple goroutines; they are applied
// one at a time in call order.
type Renderer struct {
	pen PenSource

	dc      *gg.Context
	width   int
	height  int
	mounted bool

	painting bool
	samples  int // samples seen in the current stroke
	previous state.Point
	current  state.Point
	cursor   state.Point

	// OnSegment is called after each painted segment, outside the lock.
	OnSegment func(seg state.Segment)

	mu sync.Mutex
}

func NewRenderer(pen PenSource) *Renderer {
	return &Renderer{pen: pen}
}

// Initialize allocates the surface at the container's size. A nil container
// is ignored and a later call may still mount. Once mounted, further calls
// do nothing.
func (r *Renderer) Initialize(c Container) {
	if c == nil {
		log.Debug("[RENDER] initialize skipped: no container")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mounted {
		return
	}
	w, h := c.LayoutSize()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	r.width, r.height = w, h
	r.mounted = true
	if w == 0 || h == 0 {
		log.Debugf("[RENDER] mounted unusable %dx%d surface", w, h)
		return
	}
	r.dc = gg.NewContext(w, h)
	log.Debugf("[RENDER] mounted %dx%d surface", w, h)
}

// Mounted reports whether Initialize has taken effect.
func (r *Renderer) Mounted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounted
}

// Bounds returns the surface dimensions fixed at mount.
func (r *Renderer) Bounds() image.Rectangle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return image.Rect(0, 0, r.width, r.height)
}

// Painting reports whether a stroke is in progress.
func (r *Renderer) Painting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.painting
}

// Cursor is the last pointer position, tracked whether or not a stroke is in progress.
func (r *Renderer) Cursor() state.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

func (r *Renderer) OnPointerDown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.painting = true
	r.samples = 0
}

func (r *Renderer) OnPointerUp() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.painting = false
}

// OnPointerLeave ends the stroke so it does not continue off the surface.
func (r *Renderer) OnPointerLeave() {
	r.OnPointerUp()
}

// OnPointerMove shifts the current sample into previous and records p.
// While painting, every sample after the first in the stroke paints one
// segment from the previous sample.
func (r *Renderer) OnPointerMove(p state.Point) {
	r.mu.Lock()
	r.previous = r.current
	r.current = p
	r.cursor = p
	var (
		seg     state.Segment
		painted bool
	)
	if r.painting {
		r.samples++
		if r.samples > 1 {
			seg, painted = r.paintLocked()
		}
	}
	cb := r.OnSegment
	r.mu.Unlock()

	if painted && cb != nil {
		cb(seg)
	}
}

// PaintSegment draws from the previous sample to the current one with the
// pen as it is right now.
func (r *Renderer) PaintSegment() {
	r.mu.Lock()
	seg, painted := r.paintLocked()
	cb := r.OnSegment
	r.mu.Unlock()

	if painted && cb != nil {
		cb(seg)
	}
}

// ClearWhiteboard fills the whole surface with opaque white. There is no undo.
func (r *Renderer) ClearWhiteboard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dc == nil {
		log.Debug("[RENDER] clear skipped: surface unavailable")
		return
	}
	r.dc.ClearWithColor(gg.White)
}

// Frame returns a straight-alpha copy of the surface, or nil if there is no surface.
func (r *Renderer) Frame() *image.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dc == nil {
		return nil
	}
	return straight(surfacePixels(r.dc))
}
