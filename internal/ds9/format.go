package ds9

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// formatAngle renders an angle in its shortest single precision form.
func formatAngle(a float64) string {
	return strconv.FormatFloat(float64(float32(a)), 'g', -1, 32)
}

// recordLine renders a pixel region record with two decimals.
// rotation is already in the DS9 convention.
func recordLine(rec region.Record, rotation float64) string {
	p := rec.ControlPoints
	switch rec.Kind {
	case region.Point:
		return fmt.Sprintf("point(%.2f, %.2f)", p[0].X, p[0].Y)
	case region.Rectangle:
		return fmt.Sprintf("box(%.2f, %.2f, %.2f, %.2f, %s)", p[0].X, p[0].Y, p[1].X, p[1].Y, formatAngle(rotation))
	case region.Ellipse:
		if p[1].X == p[1].Y {
			return fmt.Sprintf("circle(%.2f, %.2f, %.2f)", p[0].X, p[0].Y, p[1].X)
		}
		if rotation > 0 {
			return fmt.Sprintf("ellipse(%.2f, %.2f, %.2f, %.2f, %s)", p[0].X, p[0].Y, p[1].X, p[1].Y, formatAngle(rotation))
		}
		return fmt.Sprintf("ellipse(%.2f, %.2f, %.2f, %.2f)", p[0].X, p[0].Y, p[1].X, p[1].Y)
	case region.Polygon:
		var b strings.Builder
		fmt.Fprintf(&b, "polygon(%.2f, %.2f", p[0].X, p[0].Y)
		for _, v := range p[1:] {
			fmt.Fprintf(&b, ",%.2f,%.2f", v.X, v.Y)
		}
		b.WriteString(")")
		return b.String()
	}
	return ""
}

// formatter renders control-point quantities for one coordinate space.
// Points are flattened: x, y for a point; x, y, width, height for boxes and
// ellipses; x1, y1, x2, y2, ... for polygons.
type formatter interface {
	format(kind region.Kind, points []quantity.Quantity, angle float64) (string, error)
}

// pixelFormatter writes pixel quantities with four decimals.
type pixelFormatter struct{}

func (pixelFormatter) format(kind region.Kind, p []quantity.Quantity, angle float64) (string, error) {
	switch kind {
	case region.Point:
		return fmt.Sprintf("point(%.4f, %.4f)", p[0].Value, p[1].Value), nil
	case region.Rectangle:
		return fmt.Sprintf("box(%.4f, %.4f, %.4f, %.4f, %s)", p[0].Value, p[1].Value, p[2].Value, p[3].Value, formatAngle(angle)), nil
	case region.Ellipse:
		if p[2].Value == p[3].Value {
			return fmt.Sprintf("circle(%.4f, %.4f, %.4f\")", p[0].Value, p[1].Value, p[2].Value), nil
		}
		if angle == 0 {
			return fmt.Sprintf("ellipse(%.4f, %.4f, %.4f, %.4f)", p[0].Value, p[1].Value, p[2].Value, p[3].Value), nil
		}
		return fmt.Sprintf("ellipse(%.4f, %.4f, %.4f, %.4f, %s)", p[0].Value, p[1].Value, p[2].Value, p[3].Value, formatAngle(angle)), nil
	case region.Polygon:
		var b strings.Builder
		fmt.Fprintf(&b, "polygon(%.4f, %.4f", p[0].Value, p[1].Value)
		for i := 2; i+1 < len(p); i += 2 {
			fmt.Fprintf(&b, ", %.4f, %.4f", p[i].Value, p[i+1].Value)
		}
		b.WriteString(")")
		return b.String(), nil
	}
	return "", fmt.Errorf("unsupported region kind: %s", kind)
}

// worldFormatter writes positions in degrees with six decimals and lengths
// in arcseconds with four. A linear image has no celestial frame; its values
// are written unconverted.
type worldFormatter struct {
	linear bool
}

func (f worldFormatter) position(q quantity.Quantity) (float64, error) {
	if f.linear {
		return q.Value, nil
	}
	return q.Convert(quantity.Degree)
}

func (f worldFormatter) length(q quantity.Quantity) (float64, error) {
	if f.linear {
		return q.Value, nil
	}
	return q.Convert(quantity.Arcsecond)
}

// convert applies the position or length conversion to each quantity.
func convert(qs []quantity.Quantity, fn func(quantity.Quantity) (float64, error)) ([]float64, error) {
	out := make([]float64, len(qs))
	for i, q := range qs {
		v, err := fn(q)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f worldFormatter) format(kind region.Kind, p []quantity.Quantity, angle float64) (string, error) {
	switch kind {
	case region.Point:
		c, err := convert(p[:2], f.position)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("point(%.6f, %.6f)", c[0], c[1]), nil

	case region.Rectangle, region.Ellipse:
		c, err := convert(p[:2], f.position)
		if err != nil {
			return "", err
		}
		size, err := convert(p[2:4], f.length)
		if err != nil {
			return "", err
		}
		if kind == region.Rectangle {
			return fmt.Sprintf("box(%.6f, %.6f, %.4f\", %.4f\", %s)", c[0], c[1], size[0], size[1], formatAngle(angle)), nil
		}
		if p[2].Value == p[3].Value {
			return fmt.Sprintf("circle(%.6f, %.6f, %.4f\")", c[0], c[1], size[0]), nil
		}
		return fmt.Sprintf("ellipse(%.6f, %.6f, %.4f\", %.4f\", %s)", c[0], c[1], size[0], size[1], formatAngle(angle)), nil

	case region.Polygon:
		c, err := convert(p, f.position)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(c))
		for i, v := range c {
			parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		return "polygon(" + strings.Join(parts, ",") + ")", nil
	}
	return "", fmt.Errorf("unsupported region kind: %s", kind)
}
