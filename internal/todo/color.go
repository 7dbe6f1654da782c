package todo

import "strings"

// Color is a display color from the fixed palette.
type Color string

const (
	ColorRed     Color = "red"
	ColorGreen   Color = "green"
	ColorBlue    Color = "blue"
	ColorYellow  Color = "yellow"
	ColorCyan    Color = "cyan"
	ColorMagenta Color = "magenta"
	ColorBlack   Color = "black"
	ColorNormal  Color = "normal"
)

var palette = [...]struct {
	color Color
	hex   string
}{
	{ColorRed, "#FF0000"},
	{ColorGreen, "#00FF00"},
	{ColorBlue, "#0000FF"},
	{ColorYellow, "#FFFF00"},
	{ColorCyan, "#00FFFF"},
	{ColorMagenta, "#FF00FF"},
	{ColorBlack, "#000000"},
	{ColorNormal, "#000000"},
}

// Palette returns the accepted colors in display order.
func Palette() []Color {
	colors := make([]Color, len(palette))
	for i, p := range palette {
		colors[i] = p.color
	}
	return colors
}

// ParseColor normalizes user input to a palette color. Anything unrecognized,
// including the empty string, becomes ColorNormal.
func ParseColor(s string) Color {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return ColorNormal
}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	for _, p := range palette {
		if p.color == c {
			return true
		}
	}
	return false
}

// Hex returns the color's display value. Colors outside the palette render
// as ColorNormal.
func (c Color) Hex() string {
	for _, p := range palette {
		if p.color == c {
			return p.hex
		}
	}
	return palette[len(palette)-1].hex
}

func (c Color) String() string {
	return string(c)
}
