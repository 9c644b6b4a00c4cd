package state

// Point is a surface-local pointer sample.
type Point struct{ X, Y float64 }

// PenSettings is the color and width applied to newly painted segments.
// The validate tags are the rules callers enforce before handing a pen to
// the board; the board itself stores whatever it is given.
type PenSettings struct {
	Color string `json:"color" validate:"required,hexcolor"` // "#rrggbb"
	Width int    `json:"width" validate:"min=1,max=50"`      // pixels
}

const (
	ColorBlack = "#000000"
	ColorWhite = "#ffffff"
)

// DefaultPen is the pen a fresh board starts with.
var DefaultPen = PenSettings{Color: ColorBlack, Width: 5}

// Segment records one painted line piece and the pen it was painted with.
type Segment struct {
	From Point
	To   Point
	Pen  PenSettings
}
