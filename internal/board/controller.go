// Package board owns the pen and mediates between the drawing menu, the
// renderer and whoever wants snapshots of the board.
package board

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"chalkpad/internal/render"
	"chalkpad/internal/state"
)

// Snapshot is one encoded capture of the board.
type Snapshot struct {
	ID         string        `json:"id"`
	Seq        uint64        `json:"seq"`
	Image      string        `json:"image"` // data URI
	Format     render.Format `json:"format"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	CapturedAt time.Time     `json:"captured_at"`
}

// Handle is the capability handed to code outside the board: capture and clear, nothing else.
type Handle interface {
	Capture(quality float64) (Snapshot, bool)
	Clear()
}

// Controller owns pen configuration and exposes capture and clear.
//
// Width and color are stored as given. Callers (the size slider, the HTTP
// API) must keep width within 1..50 and colors to hex strings.
type Controller struct {
	pen      *state.Pen
	renderer *render.Renderer
	format   render.Format
	formatMu sync.RWMutex

	OnChange func() // pen changed or board cleared
}

func NewController(initial state.PenSettings) *Controller {
	pen := state.NewPen(initial)
	return &Controller{
		pen:      pen,
		renderer: render.NewRenderer(pen),
		format:   render.PNG,
	}
}

// Renderer is the stroke renderer driven by this controller's pen.
func (c *Controller) Renderer() *render.Renderer { return c.renderer }

// SetFormat sets the encoding Capture uses. It is safe to call while
// snapshots are being taken.
func (c *Controller) SetFormat(f render.Format) {
	c.formatMu.Lock()
	defer c.formatMu.Unlock()
	c.format = f
}

func (c *Controller) Format() render.Format {
	c.formatMu.RLock()
	defer c.formatMu.RUnlock()
	return c.format
}

func (c *Controller) Pen() state.PenSettings { return c.pen.Current() }

func (c *Controller) SetColor(color string) {
	c.pen.SetColor(color)
	c.changed()
}

func (c *Controller) SetWidth(width int) {
	c.pen.SetWidth(width)
	c.changed()
}

func (c *Controller) SetPen(s state.PenSettings) {
	c.pen.Set(s)
	c.changed()
}

// ToggleEraser flips between literal white and literal black. Any other
// color toggles to white; the previous color is not remembered.
func (c *Controller) ToggleEraser() state.PenSettings {
	s := c.pen.Update(func(s *state.PenSettings) {
		if s.Color == state.ColorWhite {
			s.Color = state.ColorBlack
		} else {
			s.Color = state.ColorWhite
		}
	})
	c.changed()
	return s
}

// Erasing reports whether the pen currently paints the background color.
func (c *Controller) Erasing() bool {
	return c.pen.Current().Color == state.ColorWhite
}

func (c *Controller) Initialize(container render.Container) { c.renderer.Initialize(container) }
func (c *Controller) PointerDown()                        { c.renderer.OnPointerDown() }
func (c *Controller) PointerUp()                          { c.renderer.OnPointerUp() }
func (c *Controller) PointerLeave()                       { c.renderer.OnPointerLeave() }
func (c *Controller) PointerMove(p state.Point)           { c.renderer.OnPointerMove(p) }

// PointerDownAt starts a stroke whose first sample is p.
func (c *Controller) PointerDownAt(p state.Point) {
	c.renderer.OnPointerDown()
	c.renderer.OnPointerMove(p)
}

// Capture returns a snapshot of the board, or false if there is nothing to
// capture. Callers treat false as "nothing to send".
func (c *Controller) Capture(quality float64) (Snapshot, bool) {
	return c.CaptureAs(c.Format(), quality)
}

func (c *Controller) CaptureAs(format render.Format, quality float64) (Snapshot, bool) {
	uri, ok := c.renderer.Capture(format, quality)
	if !ok {
		return Snapshot{}, false
	}
	id, seq := state.NextCapture()
	b := c.renderer.Bounds()
	log.Debugf("[BOARD] captured snapshot %d (%s, %dx%d)", seq, format, b.Dx(), b.Dy())
	return Snapshot{
		ID:         id,
		Seq:        seq,
		Image:      uri,
		Format:     format,
		Width:      b.Dx(),
		Height:     b.Dy(),
		CapturedAt: time.Now().UTC(),
	}, true
}

func (c *Controller) Clear() {
	c.renderer.ClearWhiteboard()
	c.changed()
}

// Handle returns the capture/clear capability for this board.
func (c *Controller) Handle() Handle { return handle{c} }

type handle struct{ c *Controller }

func (h handle) Capture(quality float64) (Snapshot, bool) { return h.c.Capture(quality) }
func (h handle) Clear()                                   { h.c.Clear() }

func (c *Controller) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}
