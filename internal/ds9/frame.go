package ds9

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// Canonical frame names. An empty name means pixel coordinates.
const (
	framePixel       = ""
	frameUnsupported = "UNSUPPORTED"
	frameLinear      = "linear"
	framePhysical    = "physical"
)

// CoordinateSystem converts world coordinates of an image to pixel coordinates.
type CoordinateSystem interface {
	PointToPixel(frame string, world []quantity.Quantity) (region.Vec2, error)
	WorldToPixelLength(q quantity.Quantity, axis int) (float64, error)
	HasCelestialFrame() bool
	CelestialFrame() string
	HasLinearFrame() bool
}

// WorldConverter also converts pixel coordinates back to world coordinates.
type WorldConverter interface {
	CoordinateSystem
	PixelToWorld(p region.Vec2) ([]quantity.Quantity, error)
	PixelToWorldLength(length float64, axis int) (quantity.Quantity, error)
}

// frameMap maps lowercase DS9 frame keywords to canonical frame names.
type frameMap map[string]string

func newFrameMap() frameMap {
	return frameMap{
		"physical": framePixel,
		"image":    framePixel,
		"b1950":    "B1950",
		"fk4":      "B1950",
		"j2000":    "J2000",
		"fk5":      "J2000",
		"galactic": "GALACTIC",
		"ecliptic": "ECLIPTIC",
		"icrs":     "ICRS",
		"wcs":      frameUnsupported,
		"wcsa":     frameUnsupported,
		"linear":   frameUnsupported,
	}
}

var bareWord = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// isKeyword reports whether line is a DS9 frame keyword, ignoring case.
func (m frameMap) isKeyword(line string) bool {
	_, ok := m[strings.ToLower(line)]
	return ok
}

// isDeclaration reports whether line declares a frame: a known keyword, or a
// bare word that names no shape.
func (m frameMap) isDeclaration(line string) bool {
	if m.isKeyword(line) {
		return true
	}
	return bareWord.MatchString(line) && !isShapeKeyword(strings.ToLower(line))
}

// setFileFrame applies a frame declaration to the parser state. It returns
// false when the frame is unknown or unsupported; following shape lines must
// then be skipped.
func (m frameMap) setFileFrame(st *parserState, cs CoordinateSystem, token string) bool {
	key := strings.ToLower(token)
	st.fileFrame = frameUnsupported

	if canonical, ok := m[key]; ok {
		st.fileFrame = canonical
		if key == "physical" || key == "image" {
			st.pixelCoord = true
		} else {
			st.pixelCoord = false
			if st.imageFrame == "" {
				st.imageFrame = resolveImageFrame(cs)
			}
		}
	}

	if st.fileFrame == frameUnsupported {
		st.pixelCoord = false
		return false
	}
	return true
}

// resolveImageFrame names the image frame: celestial, linear or physical.
func resolveImageFrame(cs CoordinateSystem) string {
	switch {
	case cs == nil:
		return framePhysical
	case cs.HasCelestialFrame():
		return cs.CelestialFrame()
	case cs.HasLinearFrame():
		return frameLinear
	default:
		return framePhysical
	}
}

// exportFileFrame picks the DS9 keyword written in an export header.
// Pixel exports use physical; world exports use the keyword of the image
// frame, fk4/fk5 for B1950/J2000, or "" when the image frame has none.
func (m frameMap) exportFileFrame(cs CoordinateSystem, space CoordinateSpace) string {
	if space == Pixel {
		return framePhysical
	}

	imageFrame := resolveImageFrame(cs)
	switch imageFrame {
	case "B1950":
		return "fk4"
	case "J2000":
		return "fk5"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m[k] == imageFrame {
			return k
		}
	}
	return ""
}
