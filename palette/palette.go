package palette

import (
	"errors"
	"math"
)

// ErrEmptyPalette is returned when matching against a palette with no colors.
var ErrEmptyPalette = errors.New("palette has no colors")

// Palette is an ordered set of reference colors. It is read-only once built.
type Palette struct {
	colors []Color
}

// New builds a palette keeping the first occurrence of each color.
func New(colors ...Color) *Palette {
	p := &Palette{colors: make([]Color, 0, len(colors))}
	for _, c := range colors {
		if !p.Contains(c) {
			p.colors = append(p.colors, c)
		}
	}
	return p
}

// FromHexes builds a palette from hex strings. The first malformed entry aborts.
func FromHexes(hexes []string) (*Palette, error) {
	colors := make([]Color, 0, len(hexes))
	for _, h := range hexes {
		c, e := FromHex(h)
		if e != nil {
			return nil, e
		}
		colors = append(colors, c)
	}
	return New(colors...), nil
}

// Len returns the number of colors; a nil palette has none.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.colors)
}

// Colors returns a copy of the palette colors in construction order.
func (p *Palette) Colors() []Color {
	if p == nil {
		return nil
	}
	return append([]Color(nil), p.colors...)
}

// Contains reports whether c is a member of p.
func (p *Palette) Contains(c Color) bool {
	if p == nil {
		return false
	}
	for _, m := range p.colors {
		if m == c {
			return true
		}
	}
	return false
}

// FindClosestTo returns the member nearest to c. On equal distances the
// member added first wins.
func (p *Palette) FindClosestTo(c Color) (Color, error) {
	if p.Len() == 0 {
		return Color{}, ErrEmptyPalette
	}

	best := p.colors[0]
	bestDist := math.MaxFloat64
	for _, m := range p.colors {
		if d := m.DistanceFrom(c); d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, nil
}
