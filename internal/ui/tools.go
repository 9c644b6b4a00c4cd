package ui

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"chalkpad/internal/board"
	"chalkpad/internal/render"
	"chalkpad/internal/state"
)

// Size slider range. The controller does not clamp, so the menu does.
const (
	MinPenWidth = 1
	MaxPenWidth = 50
)

// --- Round swatch showing the pen color; tapping toggles the eraser ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func()
	circle   *canvas.Circle
}

func newColorSwatch(c color.Color, tapped func()) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	s.circle = canvas.NewCircle(s.Color)
	s.circle.StrokeColor = color.Gray{Y: 150}
	s.circle.StrokeWidth = 1

	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(40, 40))
	return widget.NewSimpleRenderer(container.NewStack(sizer, s.circle))
}

func (s *colorSwatch) SetColor(c color.Color) {
	s.Color = c
	if s.circle != nil {
		s.circle.FillColor = c
		s.circle.Refresh()
	}
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// DrawingMenu is the pen configuration panel under the board.
type DrawingMenu struct {
	board *board.Controller

	eraser    *colorSwatch
	title     *widget.Label
	size      *widget.Slider
	sizeLabel *widget.Label
	clear     *widget.Button
	export    *widget.Button

	OnExport func()

	syncing bool
}

func NewDrawingMenu(b *board.Controller) *DrawingMenu {
	m := &DrawingMenu{board: b}
	pen := b.Pen()

	m.eraser = newColorSwatch(render.PenRGBA(pen.Color), func() {
		b.ToggleEraser()
		m.Sync()
	})
	m.title = widget.NewLabel(m.Title())

	m.size = widget.NewSlider(MinPenWidth, MaxPenWidth)
	m.size.Step = 1
	m.size.SetValue(float64(clampWidth(pen.Width)))
	m.size.OnChanged = func(v float64) {
		if m.syncing {
			return
		}
		b.SetWidth(sliderWidth(v))
		m.Sync()
	}
	m.sizeLabel = widget.NewLabel(fmt.Sprint(pen.Width))

	m.clear = widget.NewButtonWithIcon("", theme.ContentClearIcon(), b.Clear)
	m.clear.Importance = widget.DangerImportance

	m.export = widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), func() {
		if m.OnExport != nil {
			m.OnExport()
		}
	})
	return m
}

// Title is the swatch's label: "Black" while drawing, "Eraser" while erasing.
func (m *DrawingMenu) Title() string {
	if m.board.Erasing() {
		return "Eraser"
	}
	return "Black"
}

// Sync updates the controls from the controller's pen.
func (m *DrawingMenu) Sync() {
	if m.syncing {
		return
	}
	m.syncing = true
	defer func() { m.syncing = false }()

	pen := m.board.Pen()
	m.eraser.SetColor(render.PenRGBA(pen.Color))
	m.title.SetText(m.Title())
	if w := float64(clampWidth(pen.Width)); m.size.Value != w {
		m.size.SetValue(w)
	}
	m.sizeLabel.SetText(fmt.Sprint(pen.Width))
}

func (m *DrawingMenu) CanvasObject() fyne.CanvasObject {
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), m.size)
	return container.NewHBox(
		layout.NewSpacer(),
		m.eraser,
		m.title,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		m.sizeLabel,
		widget.NewSeparator(),
		m.clear,
		m.export,
		layout.NewSpacer(),
	)
}

func clampWidth(w int) int {
	if w < MinPenWidth {
		return MinPenWidth
	}
	if w > MaxPenWidth {
		return MaxPenWidth
	}
	return w
}

// sliderWidth turns a slider position into a pen width within range.
func sliderWidth(v float64) int {
	if math.IsNaN(v) {
		return MinPenWidth
	}
	return clampWidth(int(math.Round(v)))
}

// PenFromConfig clamps a configured pen the way the menu would.
func PenFromConfig(s state.PenSettings) state.PenSettings {
	s.Width = clampWidth(s.Width)
	if s.Color == "" {
		s.Color = state.ColorBlack
	}
	return s
}
