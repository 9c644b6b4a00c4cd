package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"chalkpad/internal/state"
)

// minWidth is what widths below one pixel are painted at.
const minWidth = 1

func (r *Renderer) paintLocked() (state.Segment, bool) {
	if r.dc == nil {
		return state.Segment{}, false
	}
	pen := r.pen.Current()
	seg := state.Segment{From: r.previous, To: r.current, Pen: pen}

	width := pen.Width
	if width < minWidth {
		width = minWidth
	}
	c := penColor(pen.Color)
	radius := float64(width) / 2

	r.dc.SetRGBA(c.R, c.G, c.B, c.A)
	r.dc.SetLineWidth(float64(width))
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)

	if seg.From != seg.To {
		r.dc.MoveTo(seg.From.X, seg.From.Y)
		r.dc.LineTo(seg.To.X, seg.To.Y)
		if err := r.dc.Stroke(); err != nil {
			log.Debugf("[RENDER] stroke: %v", err)
		}
	}
	// Round ends: each joint between segments is covered by one of these.
	for _, p := range [...]state.Point{seg.From, seg.To} {
		r.dc.DrawCircle(p.X, p.Y, radius)
		if err := r.dc.Fill(); err != nil {
			log.Debugf("[RENDER] cap: %v", err)
		}
	}
	return seg, true
}

// penColor parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa". Anything else
// paints black.
func penColor(s string) gg.RGBA {
	hex := s
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return gg.Black
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return gg.Black
		}
	}
	return gg.Hex(hex)
}

// surfacePixels copies the context's pixels. gg stores premultiplied
// alpha, which is what image.RGBA holds, so the bytes carry over as is.
func surfacePixels(dc *gg.Context) *image.RGBA {
	img := dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		out := image.NewRGBA(rgba.Rect)
		copy(out.Pix, rgba.Pix)
		return out
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}

// straight converts premultiplied pixels to straight alpha.
func straight(src *image.RGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Rect)
	draw.Draw(out, src.Rect, src, src.Rect.Min, draw.Src)
	return out
}

// PenRGBA is the color a pen color string paints with.
func PenRGBA(s string) color.NRGBA {
	return penColor(s).Color().(color.NRGBA)
}
