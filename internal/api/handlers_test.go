package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chalkpad/internal/board"
	"chalkpad/internal/render"
	"chalkpad/internal/state"
)

func setup(t *testing.T, mount bool) (*echo.Echo, *board.Controller) {
	t.Helper()
	c := board.NewController(state.DefaultPen)
	if mount {
		c.Initialize(render.Size{Width: 60, Height: 40})
	}
	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	e := NewServer(c, CaptureDefaults{Format: render.PNG, Quality: 0.9}, nil, logger)
	return e, c
}

func do(e *echo.Echo, method, path string, body ...[]byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if len(body) > 0 {
		buf.Write(body[0])
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	e, _ := setup(t, false)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz").Code)
}

func TestSnapshot(t *testing.T) {
	e, _ := setup(t, true)

	rec := do(e, http.MethodGet, "/api/board/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp snapshotResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 60, resp.Width)
	assert.Equal(t, 40, resp.Height)
	assert.Equal(t, "png", resp.Format)
	assert.NotEmpty(t, resp.ID)
	assert.True(t, strings.HasPrefix(resp.Image, "data:image/png;base64,"))

	rec = do(e, http.MethodGet, "/api/board/snapshot?format=jpeg&quality=0.4")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Image, "data:image/jpeg;base64,"))

	rec = do(e, http.MethodGet, "/api/board/snapshot?quality=high")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNothingToSendBeforeMount(t *testing.T) {
	e, _ := setup(t, false)

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodGet, "/api/board/snapshot").Code)
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/api/board/attachment").Code)
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodGet, "/api/board/snapshot.pdf").Code)
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/api/board/clear").Code)
}

func TestAttachment(t *testing.T) {
	e, _ := setup(t, true)

	rec := do(e, http.MethodPost, "/api/board/attachment")
	require.Equal(t, http.StatusCreated, rec.Code)
	var msg attachment
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, "Whiteboard diagram:", msg.Text)
	assert.NotEmpty(t, msg.ID)

	img, _, err := render.DecodeDataURI(msg.Image)
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
}

func TestSnapshotPDF(t *testing.T) {
	e, _ := setup(t, true)

	rec := do(e, http.MethodGet, "/api/board/snapshot.pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestPutPen(t *testing.T) {
	e, c := setup(t, true)

	rec := do(e, http.MethodPut, "/api/board/pen", []byte(`{"color":"#FF0000","width":12}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, state.PenSettings{Color: "#ff0000", Width: 12}, c.Pen())

	rec = do(e, http.MethodGet, "/api/board/pen")
	require.Equal(t, http.StatusOK, rec.Code)
	var got state.PenSettings
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 12, got.Width)
}

func TestPutPenValidation(t *testing.T) {
	e, c := setup(t, true)

	for _, body := range []string{
		`{"color":"#000000","width":0}`,
		`{"color":"#000000","width":51}`,
		`{"color":"black","width":5}`,
		`{"width":5}`,
		`{"color":`,
	} {
		rec := do(e, http.MethodPut, "/api/board/pen", []byte(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, state.DefaultPen, c.Pen())

	rec := do(e, http.MethodPut, "/api/board/pen", []byte(`{"color":"#000000","width":60}`))
	assert.Contains(t, rec.Body.String(), `"field":"width"`)
}

func TestEraserAndClear(t *testing.T) {
	e, c := setup(t, true)

	rec := do(e, http.MethodPost, "/api/board/eraser")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, state.ColorWhite, c.Pen().Color)
	do(e, http.MethodPost, "/api/board/eraser")
	assert.Equal(t, state.ColorBlack, c.Pen().Color)

	c.PointerDownAt(state.Point{X: 5, Y: 5})
	c.PointerMove(state.Point{X: 50, Y: 30})
	c.PointerUp()
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/api/board/clear").Code)

	img := c.Renderer().Frame()
	require.NotNil(t, img)
	assert.Equal(t, uint8(255), img.NRGBAAt(27, 17).R)
	assert.Equal(t, uint8(255), img.NRGBAAt(27, 17).A)
}
