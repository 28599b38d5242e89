package palette

import (
	"math"

	"github.com/jkl1337/go-chromath"
)

// RGB returns the color as a point in RGB space, one axis per channel (0-255).
func (c Color) RGB() chromath.RGB {
	return chromath.RGB{float64(c.R), float64(c.G), float64(c.B)}
}

// DistanceFrom returns the Euclidean distance between c and o in RGB space.
func (c Color) DistanceFrom(o Color) float64 {
	return euclidean(c.RGB(), o.RGB())
}

func euclidean(a, b chromath.RGB) float64 {
	dr := a.R() - b.R()
	dg := a.G() - b.G()
	db := a.B() - b.B()
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
