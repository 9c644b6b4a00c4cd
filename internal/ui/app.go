package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"chalkpad/internal/board"
	"chalkpad/internal/state"
)

// Options configure the desktop window.
type Options struct {
	Title          string
	Width, Height  float32
	ShareLink      string
	CaptureQuality float64
}

// Window puts the board and its drawing menu together.
type Window struct {
	Board  *BoardWidget
	Menu   *DrawingMenu
	Status *widget.Label
	Root   fyne.CanvasObject
}

// NewWindowContent builds the window content and routes board changes made
// elsewhere (HTTP, websocket) back onto the UI.
func NewWindowContent(b *board.Controller, opts Options) *Window {
	w := &Window{
		Board:  NewBoardWidget(b),
		Menu:   NewDrawingMenu(b),
		Status: widget.NewLabel("Ready"),
	}
	if opts.ShareLink != "" {
		w.Status.SetText("Share link: " + opts.ShareLink)
	}

	b.OnChange = func() {
		fyne.Do(func() {
			w.Menu.Sync()
			w.Board.Refresh()
		})
	}
	b.Renderer().OnSegment = func(state.Segment) {
		fyne.Do(w.Board.Refresh)
	}

	// Board on top, controls at the bottom.
	w.Root = container.NewBorder(nil, container.NewVBox(w.Menu.CanvasObject(), w.Status), nil, nil, w.Board)
	return w
}

func RunApp(b *board.Controller, opts Options) {
	myApp := app.New()
	myWindow := myApp.NewWindow(opts.Title)
	myWindow.Resize(fyne.NewSize(opts.Width, opts.Height))

	content := NewWindowContent(b, opts)
	content.Menu.OnExport = func() {
		dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, myWindow)
				return
			}
			if writer == nil {
				return // cancelled
			}
			if err := ExportPDF(writer, b.Handle(), opts.CaptureQuality); err != nil {
				log.Printf("[UI] export failed: %v", err)
				dialog.ShowError(err, myWindow)
				return
			}
			content.Status.SetText("Exported " + writer.URI().Name())
		}, myWindow)
	}

	myWindow.SetContent(content.Root)
	myWindow.ShowAndRun()
}
