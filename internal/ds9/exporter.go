package ds9

import (
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// FormatVersion is written in the header of exported files.
const FormatVersion = "1.2"

// CoordinateSpace selects how exported regions are written.
type CoordinateSpace int

const (
	// Pixel writes image pixel coordinates under a "physical" frame.
	Pixel CoordinateSpace = iota
	// World writes sky coordinates in the image frame.
	World
)

func (s CoordinateSpace) String() string {
	if s == World {
		return "world"
	}
	return "pixel"
}

// ParseCoordinateSpace maps "pixel" or "world" to a CoordinateSpace.
func ParseCoordinateSpace(name string) (CoordinateSpace, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pixel":
		return Pixel, nil
	case "world":
		return World, nil
	}
	return Pixel, fmt.Errorf("unknown coordinate space: %s", name)
}

// Exporter accumulates DS9 region lines for one image.
type Exporter struct {
	space     CoordinateSpace
	fileFrame string
	format    formatter
	lines     []string
	regions   int
}

// NewExporter starts an export for the image described by cs. The header is
// written immediately using style.
func NewExporter(cs CoordinateSystem, space CoordinateSpace, style Style) (*Exporter, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}

	e := &Exporter{
		space:     space,
		fileFrame: newFrameMap().exportFileFrame(cs, space),
	}
	if space == World {
		e.format = worldFormatter{linear: e.fileFrame == ""}
	} else {
		e.format = pixelFormatter{}
	}

	frameLine := e.fileFrame
	if frameLine == "" {
		frameLine = "image"
	}
	e.lines = append(e.lines,
		"# Region file format: DS9 CARTA "+FormatVersion+"\n",
		style.globalLine()+"\n",
		frameLine+"\n",
	)
	return e, nil
}

// FileFrame returns the frame keyword of the export, "" for an image frame.
func (e *Exporter) FileFrame() string {
	return e.fileFrame
}

// Space returns the coordinate space of the export.
func (e *Exporter) Space() CoordinateSpace {
	return e.space
}

// AddRegion adds a pixel region record. Rotation is converted to the DS9
// convention.
func (e *Exporter) AddRegion(rec region.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("failed to export region: %w", err)
	}

	angle := rec.Rotation
	if rec.Kind == region.Ellipse {
		angle += 90
		if angle > 360 {
			angle -= 360
		}
	}

	e.appendRegion(recordLine(rec, angle), rec.Name)
	return nil
}

// AddQuantityRegion adds a region given as control-point quantities, as
// produced by ToQuantities. rotation is in the DS9 convention.
func (e *Exporter) AddQuantityRegion(name string, kind region.Kind, points []quantity.Quantity, rotation quantity.Quantity) error {
	if err := checkQuantityCount(kind, len(points)); err != nil {
		return err
	}

	line, err := e.format.format(kind, points, angleDegrees(rotation))
	if err != nil {
		return fmt.Errorf("failed to export %s region: %w", kind, err)
	}

	e.appendRegion(line, name)
	return nil
}

func (e *Exporter) appendRegion(line, name string) {
	if name != "" {
		line += " # text={" + name + "}"
	}
	e.lines = append(e.lines, line+"\n")
	e.regions++
}

// Count returns the number of region lines added.
func (e *Exporter) Count() int {
	return e.regions
}

// Lines returns the header and region lines, each newline terminated.
func (e *Exporter) Lines() ([]string, error) {
	if e.regions == 0 {
		return nil, ErrNoRegions
	}
	out := make([]string, len(e.lines))
	copy(out, e.lines)
	return out, nil
}

// String returns the file contents.
func (e *Exporter) String() string {
	return strings.Join(e.lines, "")
}

// Export writes the region file to path. Paths ending in .xz are compressed.
func (e *Exporter) Export(path string) error {
	if e.regions == 0 {
		return ErrNoRegions
	}

	contents := []byte(e.String())
	if strings.HasSuffix(strings.ToLower(path), CompressedSuffix) {
		return WriteCompressed(path, contents)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("failed to write region file: %w", err)
	}
	return nil
}

func checkQuantityCount(kind region.Kind, n int) error {
	switch kind {
	case region.Point:
		if n >= 2 {
			return nil
		}
	case region.Rectangle, region.Ellipse:
		if n >= 4 {
			return nil
		}
	case region.Polygon:
		if n >= 6 && n%2 == 0 {
			return nil
		}
	default:
		return fmt.Errorf("unsupported region kind: %s", kind)
	}
	return fmt.Errorf("%s region has %d control point values", kind, n)
}
