package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhance(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{100, 150, 200, 255})
	img.SetNRGBA(1, 0, color.NRGBA{241, 241, 241, 255})
	img.SetNRGBA(2, 0, color.NRGBA{241, 241, 240, 255})
	img.SetNRGBA(3, 0, color.NRGBA{5, 15, 0, 255})

	Enhance(img)

	assert.Equal(t, color.NRGBA{90, 135, 180, 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{241, 241, 241, 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{217, 217, 216, 255}, img.NRGBAAt(2, 0))
	// 4.5 and 13.5 round to even.
	assert.Equal(t, color.NRGBA{4, 14, 0, 255}, img.NRGBAAt(3, 0))
}

func TestOnWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 255})

	out := OnWhite(src)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(1, 0))
}

func TestEncodeDataURI(t *testing.T) {
	img := OnWhite(image.NewNRGBA(image.Rect(0, 0, 8, 8)))

	for _, tc := range []struct {
		format  Format
		quality float64
		prefix  string
	}{
		{PNG, 0.9, "data:image/png;base64,"},
		{PNG, 0, "data:image/png;base64,"},
		{JPEG, 0.5, "data:image/jpeg;base64,"},
		{JPEG, 7, "data:image/jpeg;base64,"},
		{Format("gif"), 1, "data:image/png;base64,"},
	} {
		uri, err := EncodeDataURI(img, tc.format, tc.quality)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(uri, tc.prefix), uri[:24])

		decoded, _, err := DecodeDataURI(uri)
		require.NoError(t, err)
		assert.Equal(t, img.Bounds(), decoded.Bounds())
	}
}

func TestDecodeDataURIRejects(t *testing.T) {
	for _, uri := range []string{
		"",
		"data:text/plain;base64,aGk=",
		"data:image/png;base64",
		"data:image/png,abc",
		"data:image/png;base64,!!!",
	} {
		_, _, err := DecodeDataURI(uri)
		assert.Error(t, err, uri)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, JPEG, ParseFormat("jpg"))
	assert.Equal(t, JPEG, ParseFormat("jpeg"))
	assert.Equal(t, PNG, ParseFormat("png"))
	assert.Equal(t, PNG, ParseFormat("bmp"))
}
