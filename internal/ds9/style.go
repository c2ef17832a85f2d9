package ds9

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// namedColors are the colors DS9 accepts by name.
var namedColors = map[string]bool{
	"white": true, "black": true, "red": true, "green": true,
	"blue": true, "cyan": true, "magenta": true, "yellow": true,
}

// Style holds the properties written on the export header's global line.
type Style struct {
	Color string
	Font  string
}

// DefaultStyle returns the style of exported files.
func DefaultStyle() Style {
	return Style{
		Color: "green",
		Font:  "helvetica 10 normal roman",
	}
}

// NormalizeColor validates a DS9 color: a named color or a #rrggbb value.
// Hex colors are returned in lowercase #rrggbb form.
func NormalizeColor(color string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(color))
	if namedColors[c] {
		return c, nil
	}
	if !strings.HasPrefix(c, "#") {
		return "", fmt.Errorf("unknown color %q", color)
	}
	parsed, err := colorful.Hex(c)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", color, err)
	}
	return parsed.Hex(), nil
}

// Validate checks the style and normalizes its color.
func (s *Style) Validate() error {
	if s.Color == "" {
		s.Color = DefaultStyle().Color
	}
	if s.Font == "" {
		s.Font = DefaultStyle().Font
	}
	color, err := NormalizeColor(s.Color)
	if err != nil {
		return err
	}
	s.Color = color
	return nil
}

// globalLine renders the DS9 "global" header line.
func (s Style) globalLine() string {
	return fmt.Sprintf("global color=%s delete=1 edit=1 fixed=0 font=\"%s\" highlite=1 include=1 move=1 select=1",
		s.Color, s.Font)
}
