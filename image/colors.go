package image

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/esimov/colorquant"

	"github.com/mmuldo/kaleidoscope/palette"
)

// Method selects how an image is quantized.
type Method string

const (
	// NoDither maps each pixel to its nearest quantized color.
	NoDither Method = "nodither"
	// Dither spreads quantization error with a Floyd-Steinberg kernel.
	Dither Method = "dither"
)

// ParseMethod accepts the configuration spelling of a Method; empty means NoDither.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", NoDither:
		return NoDither, nil
	case Dither:
		return Dither, nil
	default:
		return "", fmt.Errorf("unknown image method %q (want %q or %q)", s, NoDither, Dither)
	}
}

var floydSteinberg = colorquant.Dither{
	Filter: [][]float32{
		{0.0, 0.0, 0.0, 7.0 / 16.0, 0.0},
		{0.0, 3.0 / 16.0, 5.0 / 16.0, 1.0 / 16.0, 0.0},
		{0.0, 0.0, 0.0, 0.0, 0.0},
	},
}

// ColorCount is a color and the number of pixels it covers.
type ColorCount struct {
	Color color.Color
	Count int
}

// ColorCountList is ordered by descending count, then by ascending hex so
// the order does not depend on map iteration.
type ColorCountList []ColorCount

func (ccl ColorCountList) Len() int { return len(ccl) }
func (ccl ColorCountList) Less(i, j int) bool {
	if ccl[i].Count != ccl[j].Count {
		return ccl[i].Count > ccl[j].Count
	}
	return palette.FromColor(ccl[i].Color).Hex() < palette.FromColor(ccl[j].Color).Hex()
}
func (ccl ColorCountList) Swap(i, j int) { ccl[i], ccl[j] = ccl[j], ccl[i] }

// Quantize reduces img to at most num colors.
func Quantize(img image.Image, num int, m Method) image.Image {
	b := img.Bounds()
	o := image.NewNRGBA(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y))

	if m == Dither {
		floydSteinberg.Quantize(img, o, num, true, true)
	} else {
		colorquant.NoDither.Quantize(img, o, num, false, true)
	}

	return o
}

// GetColors returns a map of an image's colors and the number of times
// each occurs. Fully transparent pixels are not counted.
func GetColors(img image.Image) map[color.Color]int {
	m := make(map[color.Color]int)

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			m[palette.FromColor(c)]++
		}
	}

	return m
}

// RankColors sorts a color histogram by prevalence.
func RankColors(m map[color.Color]int) ColorCountList {
	cc := make(ColorCountList, 0, len(m))
	for k, v := range m {
		cc = append(cc, ColorCount{k, v})
	}

	sort.Sort(cc)
	return cc
}
