package export

import (
	"bytes"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"chalkpad/internal/board"
	"chalkpad/internal/render"
)

const (
	pageWidth = 210.0 // A4, mm
	margin    = 15.0
)

// WritePDF lays a snapshot out on a single A4 page, scaled to the page width.
func WritePDF(w io.Writer, snap board.Snapshot) error {
	format, raw, err := render.SplitDataURI(snap.Image)
	if err != nil {
		return errors.Wrap(err, "snapshot")
	}
	if snap.Width <= 0 || snap.Height <= 0 {
		return errors.Errorf("snapshot %s has no area", snap.ID)
	}
	imageType := "PNG"
	if format == render.JPEG {
		imageType = "JPG"
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("ChalkPad whiteboard", true)
	p.AddPage()
	p.SetFont("Helvetica", "B", 14)
	p.CellFormat(0, 10, "Whiteboard diagram", "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, 6, snap.CapturedAt.Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: imageType}
	p.RegisterImageOptionsReader(snap.ID, opts, bytes.NewReader(raw))

	width := pageWidth - 2*margin
	height := width * float64(snap.Height) / float64(snap.Width)
	p.ImageOptions(snap.ID, margin, p.GetY()+4, width, height, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return errors.Wrap(err, "pdf output")
	}
	return nil
}
