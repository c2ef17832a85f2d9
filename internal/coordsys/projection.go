package coordsys

import (
	"errors"
	"math"

	"github.com/ironsheep/region-tools-mcp/internal/region"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// pixelToIntermediate applies CRPIX, CROTA and CDELT to get projection plane
// coordinates in world units.
func (s *System) pixelToIntermediate(px, py float64) (float64, float64) {
	dx, dy := px-s.CRPix[0], py-s.CRPix[1]
	cos, sin := math.Cos(s.CRota*deg2rad), math.Sin(s.CRota*deg2rad)
	x := s.CDelt[0]*cos*dx - s.CDelt[1]*sin*dy
	y := s.CDelt[0]*sin*dx + s.CDelt[1]*cos*dy
	return x, y
}

// intermediateToPixel is the inverse of pixelToIntermediate.
func (s *System) intermediateToPixel(x, y float64) region.Vec2 {
	cos, sin := math.Cos(s.CRota*deg2rad), math.Sin(s.CRota*deg2rad)
	dx := (cos*x + sin*y) / s.CDelt[0]
	dy := (-sin*x + cos*y) / s.CDelt[1]
	return region.Vec2{X: dx + s.CRPix[0], Y: dy + s.CRPix[1]}
}

// tanProject is the gnomonic projection of (lon, lat) about (lon0, lat0).
// Inputs and plane coordinates are in degrees.
func tanProject(lon, lat, lon0, lat0 float64) (float64, float64, error) {
	a, d := lon*deg2rad, lat*deg2rad
	a0, d0 := lon0*deg2rad, lat0*deg2rad

	cosc := math.Sin(d0)*math.Sin(d) + math.Cos(d0)*math.Cos(d)*math.Cos(a-a0)
	if cosc <= 0 {
		return 0, 0, errors.New("position is more than 90 degrees from the projection center")
	}
	xi := math.Cos(d) * math.Sin(a-a0) / cosc
	eta := (math.Cos(d0)*math.Sin(d) - math.Sin(d0)*math.Cos(d)*math.Cos(a-a0)) / cosc
	return xi * rad2deg, eta * rad2deg, nil
}

// tanDeproject inverts tanProject.
func tanDeproject(x, y, lon0, lat0 float64) (float64, float64) {
	xi, eta := x*deg2rad, y*deg2rad
	a0, d0 := lon0*deg2rad, lat0*deg2rad

	rho := math.Hypot(xi, eta)
	if rho == 0 {
		return lon0, lat0
	}
	c := math.Atan(rho)
	sinc, cosc := math.Sin(c), math.Cos(c)

	lat := math.Asin(cosc*math.Sin(d0) + eta*sinc*math.Cos(d0)/rho)
	lon := a0 + math.Atan2(xi*sinc, rho*math.Cos(d0)*cosc-eta*math.Sin(d0)*sinc)
	return wrapDegrees(lon * rad2deg), lat * rad2deg
}

// wrapDegrees maps an angle into [0, 360).
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
