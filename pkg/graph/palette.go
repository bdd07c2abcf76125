package graph

import (
	"strings"
)

// Palette is the ordered list of colors assigned to series by position.
var Palette = []string{
	"0022ff", "22ff22", "ff0000", "00aaaa", "ff00ff",
	"ffa500", "cc0000", "0000cc", "0080C0", "8080C0",
	"FF0080", "800080", "688e23", "408080", "808000",
	"000000", "00FF00", "0080FF", "FF8000", "800000",
	"FB31FB",
}

// PaletteColor returns the color at position i, wrapping around the end
// of the palette.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Cursor hands out palette colors in order.
// The zero value starts at the first color.
type Cursor struct {
	next int
}

// Next returns the current color and advances the cursor.
func (c *Cursor) Next() string {
	color := PaletteColor(c.next)
	c.next++
	return color
}

// NormalizeColor strips a leading '#' and expands 3-digit shorthand
// ("0c0" becomes "00cc00").
func NormalizeColor(c string) string {
	c = strings.TrimPrefix(c, "#")
	if len(c) == 3 {
		return string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	return c
}

// Cut truncates s to at most n characters.
func Cut(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
