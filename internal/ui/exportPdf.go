package ui

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"chalkpad/internal/board"
	"chalkpad/internal/export"
)

var ErrNothingToExport = errors.New("board surface is not available")

// ExportPDF captures the board and writes it to writer as a one-page PDF.
// The writer is always closed.
func ExportPDF(writer io.WriteCloser, h board.Handle, quality float64) (err error) {
	defer func() {
		if cerr := writer.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close")
		}
	}()

	snap, ok := h.Capture(quality)
	if !ok {
		return ErrNothingToExport
	}
	if err := export.WritePDF(writer, snap); err != nil {
		return err
	}
	log.Printf("[UI] exported snapshot %s", snap.ID)
	return nil
}
