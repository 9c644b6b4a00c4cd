package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// Format is the raster encoding of a snapshot.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

const (
	DefaultQuality = 0.9

	// nearWhite: a pixel whose R, G and B all exceed this is background.
	nearWhite = 240
	darken    = 0.9
)

// ParseFormat maps "png", "jpeg" and "jpg" to a Format. Anything else is PNG.
func ParseFormat(s string) Format {
	switch s {
	case "jpeg", "jpg":
		return JPEG
	default:
		return PNG
	}
}

// CaptureWhiteboard renders the surface onto white, darkens every mark that
// is not near white and returns it as a data URI. ok is false when there is
// no usable surface.
func (r *Renderer) CaptureWhiteboard(quality float64) (uri string, ok bool) {
	return r.Capture(PNG, quality)
}

// Capture is CaptureWhiteboard with an explicit encoding.
func (r *Renderer) Capture(format Format, quality float64) (string, bool) {
	r.mu.Lock()
	if r.dc == nil {
		r.mu.Unlock()
		log.Debug("[RENDER] capture skipped: surface unavailable")
		return "", false
	}
	src := surfacePixels(r.dc)
	r.mu.Unlock()

	scratch := OnWhite(src)
	Enhance(scratch)

	uri, err := EncodeDataURI(scratch, format, quality)
	if err != nil {
		log.Warnf("[RENDER] capture: %v", err)
		return "", false
	}
	return uri, true
}

// OnWhite composites src over a same-sized opaque white buffer.
func OnWhite(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, src, b.Min, draw.Over)
	return dst
}

// Enhance multiplies each channel of every pixel that is not near white by
// 0.9. Near-white pixels (unpainted or erased) are left alone.
func Enhance(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		if pix[i] > nearWhite && pix[i+1] > nearWhite && pix[i+2] > nearWhite {
			continue
		}
		pix[i] = scale(pix[i])
		pix[i+1] = scale(pix[i+1])
		pix[i+2] = scale(pix[i+2])
	}
}

// scale rounds half to even, the way canvas pixel arrays store fractions.
func scale(v uint8) uint8 {
	f := math.RoundToEven(float64(v) * darken)
	return uint8(math.Max(0, math.Min(255, f)))
}

// EncodeDataURI encodes img as "data:image/<format>;base64,<payload>".
// quality applies to JPEG only; outside (0, 1] it falls back to DefaultQuality.
func EncodeDataURI(img image.Image, format Format, quality float64) (string, error) {
	if !(quality > 0 && quality <= 1) {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	switch format {
	case JPEG:
		q := int(math.Round(quality * 100))
		if q < 1 {
			q = 1
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return "", errors.Wrap(err, "jpeg encode")
		}
	default:
		format = PNG
		if err := png.Encode(&buf, img); err != nil {
			return "", errors.Wrap(err, "png encode")
		}
	}
	return "data:image/" + string(format) + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SplitDataURI returns the format and raw encoded bytes of a data URI
// produced by EncodeDataURI.
func SplitDataURI(uri string) (Format, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:image/")
	if !ok {
		return "", nil, errors.New("not an image data uri")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data uri has no payload")
	}
	name, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, errors.New("data uri is not base64")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Wrap(err, "base64 decode")
	}
	return ParseFormat(name), raw, nil
}

// DecodeDataURI reverses EncodeDataURI.
func DecodeDataURI(uri string) (image.Image, Format, error) {
	format, raw, err := SplitDataURI(uri)
	if err != nil {
		return nil, "", err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", errors.Wrap(err, "image decode")
	}
	return img, format, nil
}
