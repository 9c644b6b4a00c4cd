package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"chalkpad/internal/board"
	"chalkpad/internal/render"
	"chalkpad/internal/state"
)

const cursorRadius = 4

// BoardWidget shows the drawing surface and feeds it mouse input.
type BoardWidget struct {
	widget.BaseWidget
	board    *board.Controller
	dragging bool
	hovering bool // pointer is over the board; the cursor ring is shown
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Controller) *BoardWidget {
	w := &BoardWidget{board: b}
	w.ExtendBaseWidget(w)
	return w
}

// Resize mounts the surface the first time the widget is laid out with a
// real size. Later resizes leave the surface as it is.
func (w *BoardWidget) Resize(size fyne.Size) {
	if size.Width > 0 && size.Height > 0 {
		w.board.Initialize(render.Size{Width: int(size.Width), Height: int(size.Height)})
	}
	w.BaseWidget.Resize(size)
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.board.PointerDownAt(toPoint(e.Position))
	w.Refresh()
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.dragging = false
	w.board.PointerUp()
	w.Refresh()
}

func (w *BoardWidget) MouseIn(*desktop.MouseEvent) {
	w.hovering = true
	w.Refresh()
}

func (w *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	w.hovering = true
	if w.dragging {
		return
	}
	w.board.PointerMove(toPoint(e.Position))
	w.Refresh()
}

// MouseOut ends any stroke in progress and hides the cursor ring.
func (w *BoardWidget) MouseOut() {
	w.dragging = false
	w.hovering = false
	w.board.PointerLeave()
	w.Refresh()
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.dragging = true
	w.hovering = true
	w.board.PointerMove(toPoint(e.Position))
	w.Refresh()
}

func (w *BoardWidget) DragEnd() {
	w.dragging = false
	w.board.PointerUp()
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: w}
	r.background = canvas.NewRectangle(color.White)
	r.surface = canvas.NewRaster(r.frame)
	r.cursor = canvas.NewCircle(color.Transparent)
	r.cursor.StrokeWidth = 1.5
	r.cursor.Resize(fyne.NewSize(2*cursorRadius, 2*cursorRadius))
	r.cursor.Hide()
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	surface    *canvas.Raster
	cursor     *canvas.Circle
}

var blank = image.NewUniform(color.White)

func (r *boardWidgetRenderer) frame(w, h int) image.Image {
	if img := r.board.board.Renderer().Frame(); img != nil {
		return img
	}
	return blank
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.surface, r.cursor}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	// The surface keeps its mount size; it is never stretched.
	b := r.board.board.Renderer().Bounds()
	if b.Dx() > 0 && b.Dy() > 0 {
		r.surface.Resize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	} else {
		r.surface.Resize(size)
	}
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	pen := r.board.board.Pen()
	r.cursor.StrokeColor = render.PenRGBA(pen.Color)
	c := r.board.board.Renderer().Cursor()
	r.cursor.Move(fyne.NewPos(float32(c.X)-cursorRadius, float32(c.Y)-cursorRadius))
	r.surface.Refresh()
	if r.board.hovering {
		r.cursor.Show()
	} else {
		r.cursor.Hide()
	}
	r.cursor.Refresh()
}

func (r *boardWidgetRenderer) Destroy() {}
