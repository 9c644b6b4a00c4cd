package ui

import (
	"bytes"
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chalkpad/internal/board"
	"chalkpad/internal/render"
	"chalkpad/internal/state"
)

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func newBoard(t *testing.T) (*board.Controller, *[]state.Segment) {
	t.Helper()
	test.NewTempApp(t)
	c := board.NewController(state.DefaultPen)
	var segs []state.Segment
	c.Renderer().OnSegment = func(s state.Segment) { segs = append(segs, s) }
	return c, &segs
}

func TestBoardWidgetMountsOnce(t *testing.T) {
	c, _ := newBoard(t)
	w := NewBoardWidget(c)

	w.Resize(fyne.NewSize(0, 0))
	assert.False(t, c.Renderer().Mounted())

	w.Resize(fyne.NewSize(320, 240))
	w.Resize(fyne.NewSize(800, 600))
	assert.Equal(t, image.Rect(0, 0, 320, 240), c.Renderer().Bounds())
}

func TestBoardWidgetStroke(t *testing.T) {
	c, segs := newBoard(t)
	w := NewBoardWidget(c)
	w.Resize(fyne.NewSize(200, 200))

	w.MouseMoved(mouse(5, 5))
	w.MouseDown(mouse(10, 10))
	w.MouseMoved(mouse(20, 20))
	w.MouseMoved(mouse(30, 30))
	w.MouseUp(mouse(30, 30))
	w.MouseMoved(mouse(40, 40))

	require.Len(t, *segs, 2)
	assert.Equal(t, state.Point{X: 10, Y: 10}, (*segs)[0].From)
	assert.Equal(t, state.Point{X: 40, Y: 40}, c.Renderer().Cursor())
}

func TestBoardWidgetDragAndLeave(t *testing.T) {
	c, segs := newBoard(t)
	w := NewBoardWidget(c)
	w.Resize(fyne.NewSize(200, 200))

	w.MouseDown(mouse(10, 10))
	w.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 10)}})
	// Hover events during a drag are not double counted.
	w.MouseMoved(mouse(20, 10))
	w.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 10)}})
	w.MouseOut()
	assert.False(t, c.Renderer().Painting())
	w.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(300, 10)}})

	assert.Len(t, *segs, 2)
}

func TestCursorRingFollowsHover(t *testing.T) {
	c, _ := newBoard(t)
	w := NewBoardWidget(c)
	w.Resize(fyne.NewSize(100, 100))
	r := test.WidgetRenderer(w).(*boardWidgetRenderer)
	assert.False(t, r.cursor.Visible())

	w.MouseIn(mouse(20, 20))
	w.MouseMoved(mouse(20, 20))
	assert.True(t, r.cursor.Visible())
	assert.Equal(t, fyne.NewPos(20-cursorRadius, 20-cursorRadius), r.cursor.Position())

	w.MouseOut()
	assert.False(t, r.cursor.Visible())
}

func TestSecondaryButtonDoesNotDraw(t *testing.T) {
	c, segs := newBoard(t)
	w := NewBoardWidget(c)
	w.Resize(fyne.NewSize(100, 100))

	e := mouse(10, 10)
	e.Button = desktop.MouseButtonSecondary
	w.MouseDown(e)
	w.MouseMoved(mouse(50, 50))
	assert.Empty(t, *segs)
}

func TestDrawingMenuEraser(t *testing.T) {
	c, _ := newBoard(t)
	m := NewDrawingMenu(c)
	test.WidgetRenderer(m.eraser)

	assert.Equal(t, "Black", m.title.Text)
	test.Tap(m.eraser)
	assert.Equal(t, state.ColorWhite, c.Pen().Color)
	assert.Equal(t, "Eraser", m.title.Text)

	test.Tap(m.eraser)
	assert.Equal(t, state.ColorBlack, c.Pen().Color)
	assert.Equal(t, "Black", m.title.Text)

	// Pen changes made elsewhere show up after a sync.
	c.ToggleEraser()
	m.Sync()
	assert.Equal(t, "Eraser", m.title.Text)
}

func TestDrawingMenuSize(t *testing.T) {
	c, _ := newBoard(t)
	m := NewDrawingMenu(c)

	assert.Equal(t, 5.0, m.size.Value)
	m.size.SetValue(20)
	assert.Equal(t, 20, c.Pen().Width)
	assert.Equal(t, "20", m.sizeLabel.Text)

	c.SetWidth(7)
	m.Sync()
	assert.Equal(t, 7.0, m.size.Value)
	assert.Equal(t, 7, c.Pen().Width)
}

func TestDrawingMenuClear(t *testing.T) {
	c, segs := newBoard(t)
	w := NewBoardWidget(c)
	w.Resize(fyne.NewSize(50, 50))
	m := NewDrawingMenu(c)

	w.MouseDown(mouse(5, 5))
	w.MouseMoved(mouse(45, 45))
	w.MouseUp(mouse(45, 45))
	require.Len(t, *segs, 1)

	test.Tap(m.clear)
	img := c.Renderer().Frame()
	assert.Equal(t, uint8(255), img.NRGBAAt(25, 25).R)
}

func TestSliderWidth(t *testing.T) {
	assert.Equal(t, 1, sliderWidth(0))
	assert.Equal(t, 1, sliderWidth(-4))
	assert.Equal(t, 13, sliderWidth(12.6))
	assert.Equal(t, 50, sliderWidth(99))
}

func TestPenFromConfig(t *testing.T) {
	assert.Equal(t, state.PenSettings{Color: "#000000", Width: 1}, PenFromConfig(state.PenSettings{Width: 0}))
	assert.Equal(t, state.PenSettings{Color: "#ff0000", Width: 50}, PenFromConfig(state.PenSettings{Color: "#ff0000", Width: 70}))
}

type nopCloser struct {
	bytes.Buffer
	closed bool
}

func (n *nopCloser) Close() error {
	n.closed = true
	return nil
}

func TestExportPDF(t *testing.T) {
	c, _ := newBoard(t)

	out := &nopCloser{}
	assert.ErrorIs(t, ExportPDF(out, c.Handle(), 0.9), ErrNothingToExport)
	assert.True(t, out.closed)

	c.Initialize(renderSize(60, 60))
	out = &nopCloser{}
	require.NoError(t, ExportPDF(out, c.Handle(), 0.9))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.True(t, out.closed)
}

func renderSize(w, h int) render.Size { return render.Size{Width: w, Height: h} }
