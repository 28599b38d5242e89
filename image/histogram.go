package image

import (
	"context"
	"fmt"

	"github.com/mmuldo/kaleidoscope/match"
	"github.com/mmuldo/kaleidoscope/palette"
)

// Quantizer produces the color histogram of an image after reducing it to
// a fixed number of colors.
type Quantizer struct{}

// NewQuantizer creates a Quantizer.
func NewQuantizer() *Quantizer {
	return &Quantizer{}
}

// Histogram loads the image at locator, quantizes it to num colors and
// returns the observed colors ranked by pixel count.
func (q *Quantizer) Histogram(ctx context.Context, locator string, num int, m Method) ([]match.Observation, error) {
	if num < 1 {
		return nil, fmt.Errorf("number of colors must be at least 1, got %d", num)
	}

	i, e := Load(ctx, locator)
	if e != nil {
		return nil, e
	}
	if e := ctx.Err(); e != nil {
		return nil, e
	}

	return Observations(RankColors(GetColors(Quantize(i, num, m)))), nil
}

// Observations converts a ranked list into match input.
func Observations(ccl ColorCountList) []match.Observation {
	obs := make([]match.Observation, len(ccl))
	for i, cc := range ccl {
		obs[i] = match.Observation{Color: palette.FromColor(cc.Color), Count: cc.Count}
	}
	return obs
}
