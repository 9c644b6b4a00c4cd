package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"chalkpad/internal/board"
	"chalkpad/internal/export"
	"chalkpad/internal/render"
	"chalkpad/internal/state"
)

// Board is the part of the board controller the API drives.
type Board interface {
	CaptureAs(format render.Format, quality float64) (board.Snapshot, bool)
	Clear()
	Pen() state.PenSettings
	SetPen(s state.PenSettings)
	ToggleEraser() state.PenSettings
}

// CaptureDefaults apply when a request does not say how to encode.
type CaptureDefaults struct {
	Format  render.Format
	Quality float64
}

// Register wires up all API routes on the provided Echo instance. input,
// if not nil, serves the websocket pointer stream at /ws.
func Register(e *echo.Echo, b Board, defaults CaptureDefaults, input http.Handler, logger *log.Logger) {
	e.Validator = newValidator()
	e.JSONSerializer = sonicSerializer{}

	e.GET("/healthz", healthz())
	g := e.Group("/api/board")
	g.GET("/snapshot", getSnapshot(b, defaults, logger))
	g.GET("/snapshot.pdf", getSnapshotPDF(b, defaults, logger))
	g.POST("/attachment", postAttachment(b, defaults, logger))
	g.GET("/pen", getPen(b))
	g.PUT("/pen", putPen(b, logger))
	g.POST("/eraser", postEraser(b))
	g.POST("/clear", postClear(b, logger))

	if input != nil {
		e.GET("/ws", echo.WrapHandler(input))
	}
}

type snapshotResponse struct {
	ID     string `json:"id"`
	Image  string `json:"image"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// attachment is the chat message the captured board travels in.
type attachment struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Image string `json:"image"`
}

type penRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
	Width int    `json:"width" validate:"min=1,max=50"`
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// captureParams reads ?format= and ?quality=, falling back to defaults.
func captureParams(c echo.Context, defaults CaptureDefaults) (render.Format, float64, error) {
	format := defaults.Format
	if f := strings.TrimSpace(c.QueryParam("format")); f != "" {
		format = render.ParseFormat(strings.ToLower(f))
	}
	quality := defaults.Quality
	if q := strings.TrimSpace(c.QueryParam("quality")); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil {
			return "", 0, echo.NewHTTPError(http.StatusBadRequest, "invalid quality")
		}
		quality = v
	}
	return format, quality, nil
}

func getSnapshot(b Board, defaults CaptureDefaults, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		format, quality, err := captureParams(c, defaults)
		if err != nil {
			return err
		}
		snap, ok := b.CaptureAs(format, quality)
		if !ok {
			logger.Debug("[API] snapshot requested but board is not mounted")
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusOK, snapshotResponse{
			ID:     snap.ID,
			Image:  snap.Image,
			Format: string(snap.Format),
			Width:  snap.Width,
			Height: snap.Height,
		})
	}
}

func getSnapshotPDF(b Board, defaults CaptureDefaults, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		format, quality, err := captureParams(c, defaults)
		if err != nil {
			return err
		}
		snap, ok := b.CaptureAs(format, quality)
		if !ok {
			return c.NoContent(http.StatusNoContent)
		}
		var buf bytes.Buffer
		if err := export.WritePDF(&buf, snap); err != nil {
			logger.Errorf("[API] pdf export: %v", err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="whiteboard.pdf"`)
		return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

// postAttachment is the chat send-flow: capture the board and wrap it as a
// message. Nothing captured means nothing to send.
func postAttachment(b Board, defaults CaptureDefaults, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		format, quality, err := captureParams(c, defaults)
		if err != nil {
			return err
		}
		snap, ok := b.CaptureAs(format, quality)
		if !ok {
			return c.NoContent(http.StatusNoContent)
		}
		logger.Infof("[API] attachment %s captured (%d bytes)", snap.ID, len(snap.Image))
		return c.JSON(http.StatusCreated, attachment{
			ID:    snap.ID,
			Text:  "Whiteboard diagram:",
			Image: snap.Image,
		})
	}
}

func getPen(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, b.Pen())
	}
}

func putPen(b Board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req penRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
		s := state.PenSettings{Color: strings.ToLower(req.Color), Width: req.Width}
		b.SetPen(s)
		logger.Debugf("[API] pen set to %s/%d", s.Color, s.Width)
		return c.JSON(http.StatusOK, s)
	}
}

func postEraser(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, b.ToggleEraser())
	}
}

func postClear(b Board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.Clear()
		logger.Debug("[API] board cleared")
		return c.NoContent(http.StatusNoContent)
	}
}
