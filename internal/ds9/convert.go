package ds9

import (
	"fmt"

	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// ToQuantities converts a pixel region record into the flattened
// control-point quantities and DS9-convention rotation accepted by
// AddQuantityRegion. World space converts positions and lengths through cs.
func ToQuantities(rec region.Record, cs WorldConverter, space CoordinateSpace) ([]quantity.Quantity, quantity.Quantity, error) {
	if err := rec.Validate(); err != nil {
		return nil, quantity.Quantity{}, err
	}

	angle := rec.Rotation
	if rec.Kind == region.Ellipse {
		angle += 90
		if angle > 360 {
			angle -= 360
		}
	}
	rotation := quantity.New(angle, quantity.Degree)

	if space == Pixel {
		out := make([]quantity.Quantity, 0, 2*len(rec.ControlPoints))
		for _, p := range rec.ControlPoints {
			out = append(out, quantity.New(p.X, quantity.Pixel), quantity.New(p.Y, quantity.Pixel))
		}
		return out, rotation, nil
	}

	if cs == nil {
		return nil, quantity.Quantity{}, fmt.Errorf("world export needs a coordinate system")
	}

	var positions []region.Vec2
	switch rec.Kind {
	case region.Rectangle, region.Ellipse:
		positions = rec.ControlPoints[:1]
	default:
		positions = rec.ControlPoints
	}

	out := make([]quantity.Quantity, 0, 2*len(rec.ControlPoints))
	for _, p := range positions {
		world, err := cs.PixelToWorld(p)
		if err != nil {
			return nil, quantity.Quantity{}, fmt.Errorf("failed to convert %s position: %w", rec.Kind, err)
		}
		if len(world) < 2 {
			return nil, quantity.Quantity{}, fmt.Errorf("failed to convert %s position: got %d world values", rec.Kind, len(world))
		}
		out = append(out, world[0], world[1])
	}

	if rec.Kind == region.Rectangle || rec.Kind == region.Ellipse {
		size := rec.ControlPoints[1]
		width, err := cs.PixelToWorldLength(size.X, 0)
		if err != nil {
			return nil, quantity.Quantity{}, fmt.Errorf("failed to convert %s size: %w", rec.Kind, err)
		}
		height, err := cs.PixelToWorldLength(size.Y, 1)
		if err != nil {
			return nil, quantity.Quantity{}, fmt.Errorf("failed to convert %s size: %w", rec.Kind, err)
		}
		out = append(out, width, height)
	}

	return out, rotation, nil
}
