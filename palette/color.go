// Package palette holds the reference colors that image colors are matched against.
package palette

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrInvalidColor is matched by every error returned for malformed hex input.
var ErrInvalidColor = errors.New("invalid color")

// InvalidColorError reports a string that does not decode to exactly three bytes.
type InvalidColorError struct {
	Input string
	Cause error
}

func (e *InvalidColorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid color %q: %v", e.Input, e.Cause)
	}
	return fmt.Sprintf("invalid color %q", e.Input)
}

// Is lets errors.Is(err, ErrInvalidColor) succeed.
func (e *InvalidColorError) Is(target error) bool { return target == ErrInvalidColor }

func (e *InvalidColorError) Unwrap() error { return e.Cause }

// Color is an opaque 8-bit-per-channel RGB color.
type Color struct {
	R, G, B uint8
}

// FromHex parses "#rrggbb" or "rrggbb" in any letter case.
func FromHex(s string) (Color, error) {
	h := SanitizeHex(strings.TrimSpace(s))
	if len(h) != 6 {
		return Color{}, &InvalidColorError{Input: s, Cause: fmt.Errorf("want 6 hex digits, got %d", len(h))}
	}

	b, e := hex.DecodeString(h)
	if e != nil {
		return Color{}, &InvalidColorError{Input: s, Cause: e}
	}

	return Color{b[0], b[1], b[2]}, nil
}

// MustFromHex is like FromHex but panics on malformed input.
func MustFromHex(s string) Color {
	c, e := FromHex(s)
	if e != nil {
		panic(e)
	}
	return c
}

// FromColor converts any color.Color, dropping alpha.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// Hex returns the canonical form: six lowercase digits, no leading '#'.
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return "#" + c.Hex()
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{c.R, c.G, c.B, 0xff}.RGBA()
}

// SanitizeHex strips a leading '#' and lowercases the digits.
func SanitizeHex(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "#"))
}
