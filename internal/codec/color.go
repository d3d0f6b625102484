package codec

import (
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.Color{
	"white":       color.White,
	"black":       color.Black,
	"transparent": color.Transparent,
}

// ParseColor resolves a pad color given as a common name or a hex string
// ("#rgb" or "#rrggbb"). Unknown values fall back to white, the historic
// default fill.
func ParseColor(s string) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.White
	}
	if c, ok := namedColors[s]; ok {
		return c
	}
	if c, ok := parseHex(s); ok {
		return c
	}
	return color.White
}

func parseHex(s string) (color.Color, bool) {
	s = strings.TrimPrefix(s, "#")

	switch len(s) {
	case 3:
		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(s[i]), 16, 8)
			if err != nil {
				return nil, false
			}
			rgb[i] = uint8(v*16 + v)
		}
		return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, true
	case 6:
		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
			if err != nil {
				return nil, false
			}
			rgb[i] = uint8(v)
		}
		return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, true
	default:
		return nil, false
	}
}
