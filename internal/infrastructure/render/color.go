package render

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// defaultColor matches the first color of the usual plotting palette.
const defaultColor = "1f77b4"

var namedColors = map[string]string{
	"black":     "000000",
	"blue":      "0000ff",
	"brown":     "a52a2a",
	"cyan":      "00ffff",
	"gray":      "808080",
	"green":     "008000",
	"grey":      "808080",
	"magenta":   "ff00ff",
	"maroon":    "800000",
	"navy":      "000080",
	"olive":     "808000",
	"orange":    "ffa500",
	"pink":      "ffc0cb",
	"purple":    "800080",
	"red":       "ff0000",
	"skyblue":   "87ceeb",
	"steelblue": "4682b4",
	"teal":      "008080",
	"yellow":    "ffff00",
}

// ParseColor accepts a color name or a #rgb / #rrggbb hex string; empty selects the default.
func ParseColor(value string) (drawing.Color, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return drawing.ColorFromHex(defaultColor), nil
	}
	if hex, ok := namedColors[value]; ok {
		return drawing.ColorFromHex(hex), nil
	}

	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 && isHex(hex) {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 && isHex(hex) {
		return drawing.ColorFromHex(hex), nil
	}
	return drawing.Color{}, fmt.Errorf("unknown color %q", value)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
