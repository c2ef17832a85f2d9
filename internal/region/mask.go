package region

import (
	"image"
	"math"
)

// Contains reports whether the pixel position (x, y) lies inside r.
//
// Ellipse axes follow the DS9 convention: r1 lies along the direction
// Rotation+90 degrees from the x-axis. Rectangle rotation is measured from
// the x-axis as given. A point region contains only the pixel it falls on.
func (r Record) Contains(x, y float64) bool {
	switch r.Kind {
	case Point:
		c := r.ControlPoints[0]
		return math.Round(c.X) == math.Round(x) && math.Round(c.Y) == math.Round(y)
	case Rectangle:
		u, v := r.local(x, y, r.Rotation)
		size := r.ControlPoints[1]
		return math.Abs(u) <= size.X/2 && math.Abs(v) <= size.Y/2
	case Ellipse:
		radii := r.ControlPoints[1]
		if radii.X <= 0 || radii.Y <= 0 {
			return false
		}
		u, v := r.local(x, y, r.Rotation+90)
		return (u*u)/(radii.X*radii.X)+(v*v)/(radii.Y*radii.Y) <= 1
	case Polygon:
		return polygonContains(r.ControlPoints, x, y)
	}
	return false
}

// local rotates (x, y) into the frame of the region center.
func (r Record) local(x, y, angleDeg float64) (float64, float64) {
	c := r.ControlPoints[0]
	dx, dy := x-c.X, y-c.Y
	theta := angleDeg * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	return dx*cos + dy*sin, -dx*sin + dy*cos
}

// polygonContains is the even-odd ray casting test.
func polygonContains(vertices []Vec2, x, y float64) bool {
	inside := false
	j := len(vertices) - 1
	for i := range vertices {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > y) != (vj.Y > y) {
			crossX := vi.X + (y-vi.Y)*(vj.X-vi.X)/(vj.Y-vi.Y)
			if x < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Bounds returns the pixel rectangle enclosing r, with an exclusive maximum.
func (r Record) Bounds() image.Rectangle {
	var xs, ys []float64
	switch r.Kind {
	case Point:
		c := r.ControlPoints[0]
		xs, ys = []float64{c.X}, []float64{c.Y}
	case Rectangle:
		for _, p := range r.rectangleCorners() {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	case Ellipse:
		c, radii := r.ControlPoints[0], r.ControlPoints[1]
		theta := (r.Rotation + 90) * math.Pi / 180
		cos, sin := math.Cos(theta), math.Sin(theta)
		hx := math.Hypot(radii.X*cos, radii.Y*sin)
		hy := math.Hypot(radii.X*sin, radii.Y*cos)
		xs = []float64{c.X - hx, c.X + hx}
		ys = []float64{c.Y - hy, c.Y + hy}
	case Polygon:
		for _, p := range r.ControlPoints {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}
	if len(xs) == 0 {
		return image.Rectangle{}
	}

	minX, maxX := extent(xs)
	minY, maxY := extent(ys)
	return image.Rect(
		int(math.Floor(minX+0.5)), int(math.Floor(minY+0.5)),
		int(math.Floor(maxX+0.5))+1, int(math.Floor(maxY+0.5))+1,
	)
}

func (r Record) rectangleCorners() []Vec2 {
	c, size := r.ControlPoints[0], r.ControlPoints[1]
	theta := r.Rotation * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	hw, hh := size.X/2, size.Y/2
	corners := make([]Vec2, 0, 4)
	for _, s := range [][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		u, v := s[0]*hw, s[1]*hh
		corners = append(corners, Vec2{
			X: c.X + u*cos - v*sin,
			Y: c.Y + u*sin + v*cos,
		})
	}
	return corners
}

func extent(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
