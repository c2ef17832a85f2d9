// Package coordsys maps image pixel positions to world coordinates.
//
// A System is the image's coordinate system: either pixel-only, a celestial
// gnomonic (TAN) projection in one of the supported direction frames, or a
// plain linear mapping. It satisfies the coordinate-system contract consumed
// by the DS9 importer and exporter:
//
//   - PointToPixel: world position in a named frame to pixel position
//   - WorldToPixelLength: world length along one axis to pixels
//   - HasCelestialFrame / CelestialFrame / HasLinearFrame
//   - PixelToWorld / PixelToWorldLength for world-coordinate export
//
// A System is never mutated after construction and is safe for concurrent
// readers.
package coordsys

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// Projection names.
const (
	ProjectionNone   = ""
	ProjectionTAN    = "TAN"
	ProjectionLinear = "LINEAR"
)

// Direction frame names.
const (
	FrameJ2000    = "J2000"
	FrameB1950    = "B1950"
	FrameICRS     = "ICRS"
	FrameGalactic = "GALACTIC"
	FrameEcliptic = "ECLIPTIC"
)

var (
	// ErrNoWorldCoordinates is returned when a world conversion is requested
	// on an image that has no world coordinates.
	ErrNoWorldCoordinates = errors.New("image has no world coordinates")

	// ErrFrameConversion is returned when two frames cannot be related.
	ErrFrameConversion = errors.New("unsupported frame conversion")
)

// System describes an image coordinate system.
type System struct {
	// Frame is the celestial direction frame, empty for linear or pixel-only images.
	Frame string

	// Projection is ProjectionTAN, ProjectionLinear or ProjectionNone.
	Projection string

	// CRVal is the world coordinate of the reference pixel (degrees for TAN).
	CRVal [2]float64

	// CRPix is the 0-based reference pixel.
	CRPix [2]float64

	// CDelt is the world increment per pixel along each axis.
	CDelt [2]float64

	// CRota is the rotation of the y axis in degrees.
	CRota float64

	// Units are the linear axis units, used only by ProjectionLinear.
	Units [2]string
}

// PixelOnly returns a System without world coordinates.
func PixelOnly() *System {
	return &System{}
}

// NewCelestial returns a TAN projection in the given direction frame.
func NewCelestial(frame string, crval, crpix, cdelt [2]float64, crota float64) (*System, error) {
	if !knownFrame(frame) {
		return nil, fmt.Errorf("unknown direction frame: %s", frame)
	}
	if cdelt[0] == 0 || cdelt[1] == 0 {
		return nil, errors.New("cdelt must be non-zero")
	}
	return &System{
		Frame:      frame,
		Projection: ProjectionTAN,
		CRVal:      crval,
		CRPix:      crpix,
		CDelt:      cdelt,
		CRota:      crota,
	}, nil
}

// NewLinear returns a linear coordinate system.
func NewLinear(crval, crpix, cdelt [2]float64, units [2]string) (*System, error) {
	if cdelt[0] == 0 || cdelt[1] == 0 {
		return nil, errors.New("cdelt must be non-zero")
	}
	return &System{
		Projection: ProjectionLinear,
		CRVal:      crval,
		CRPix:      crpix,
		CDelt:      cdelt,
		Units:      units,
	}, nil
}

// HasCelestialFrame reports whether the image has a direction coordinate.
func (s *System) HasCelestialFrame() bool {
	return s.Projection == ProjectionTAN && s.Frame != ""
}

// CelestialFrame returns the direction frame name.
func (s *System) CelestialFrame() string {
	return s.Frame
}

// HasLinearFrame reports whether the image has a linear coordinate.
func (s *System) HasLinearFrame() bool {
	return s.Projection == ProjectionLinear
}

// PointToPixel converts a world position in frame to a pixel position.
//
// A position given entirely in pixel units is returned unchanged.
func (s *System) PointToPixel(frame string, world []quantity.Quantity) (region.Vec2, error) {
	if len(world) != 2 {
		return region.Vec2{}, fmt.Errorf("expected 2 world coordinates, got %d", len(world))
	}
	if world[0].IsPixel() && world[1].IsPixel() {
		return region.Vec2{X: world[0].Value, Y: world[1].Value}, nil
	}

	switch {
	case s.HasCelestialFrame():
		lon, err := world[0].Convert(quantity.Degree)
		if err != nil {
			return region.Vec2{}, fmt.Errorf("longitude: %w", err)
		}
		lat, err := world[1].Convert(quantity.Degree)
		if err != nil {
			return region.Vec2{}, fmt.Errorf("latitude: %w", err)
		}
		lon, lat, err = convertFrame(lon, lat, frame, s.Frame)
		if err != nil {
			return region.Vec2{}, err
		}
		x, y, err := tanProject(lon, lat, s.CRVal[0], s.CRVal[1])
		if err != nil {
			return region.Vec2{}, err
		}
		return s.intermediateToPixel(x, y), nil
	case s.HasLinearFrame():
		return region.Vec2{}, fmt.Errorf("%w: %s to linear", ErrFrameConversion, frame)
	default:
		return region.Vec2{}, ErrNoWorldCoordinates
	}
}

// WorldToPixelLength converts a world length along axis (0 or 1) to pixels.
func (s *System) WorldToPixelLength(q quantity.Quantity, axis int) (float64, error) {
	if axis < 0 || axis > 1 {
		return 0, fmt.Errorf("invalid axis %d", axis)
	}
	if q.IsPixel() {
		return q.Value, nil
	}

	switch {
	case s.HasCelestialFrame():
		deg, err := q.Convert(quantity.Degree)
		if err != nil {
			return 0, err
		}
		return deg / math.Abs(s.CDelt[axis]), nil
	case s.HasLinearFrame():
		if q.IsAngle() {
			return 0, fmt.Errorf("%w: angular length on linear axis", ErrFrameConversion)
		}
		return q.Value / math.Abs(s.CDelt[axis]), nil
	default:
		return 0, ErrNoWorldCoordinates
	}
}

// PixelToWorld converts a pixel position to world coordinates in the image frame.
func (s *System) PixelToWorld(p region.Vec2) ([]quantity.Quantity, error) {
	x, y := s.pixelToIntermediate(p.X, p.Y)
	switch {
	case s.HasCelestialFrame():
		lon, lat := tanDeproject(x, y, s.CRVal[0], s.CRVal[1])
		return []quantity.Quantity{
			quantity.New(lon, quantity.Degree),
			quantity.New(lat, quantity.Degree),
		}, nil
	case s.HasLinearFrame():
		return []quantity.Quantity{
			quantity.New(s.CRVal[0]+x, s.Units[0]),
			quantity.New(s.CRVal[1]+y, s.Units[1]),
		}, nil
	default:
		return nil, ErrNoWorldCoordinates
	}
}

// PixelToWorldLength converts a pixel length along axis to a world length.
func (s *System) PixelToWorldLength(length float64, axis int) (quantity.Quantity, error) {
	if axis < 0 || axis > 1 {
		return quantity.Quantity{}, fmt.Errorf("invalid axis %d", axis)
	}
	switch {
	case s.HasCelestialFrame():
		return quantity.New(length*math.Abs(s.CDelt[axis]), quantity.Degree), nil
	case s.HasLinearFrame():
		return quantity.New(length*math.Abs(s.CDelt[axis]), s.Units[axis]), nil
	default:
		return quantity.Quantity{}, ErrNoWorldCoordinates
	}
}

// String summarizes the system for logs and tool output.
func (s *System) String() string {
	switch {
	case s.HasCelestialFrame():
		return fmt.Sprintf("%s %s crval=(%g,%g) cdelt=(%g,%g)", s.Frame, s.Projection,
			s.CRVal[0], s.CRVal[1], s.CDelt[0], s.CDelt[1])
	case s.HasLinearFrame():
		return fmt.Sprintf("linear crval=(%g,%g) cdelt=(%g,%g)", s.CRVal[0], s.CRVal[1], s.CDelt[0], s.CDelt[1])
	default:
		return "pixel"
	}
}
