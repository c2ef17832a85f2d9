// Package region defines the canonical region record shared by the DS9
// importer, the exporter and the statistics engine.
//
// Control points are always in pixel coordinates of the image the region is
// attached to. Rotation follows the internal convention: degrees measured
// from the positive y-axis (image "up").
package region

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies the geometry of a region.
type Kind int

const (
	Point Kind = iota
	Rectangle
	Ellipse
	Polygon
)

var kindNames = []string{"point", "rectangle", "ellipse", "polygon"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown region kind: %s", name)
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Vec2 is a 2D position or size in pixel space.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Record is a region anchored to an image.
//
// Point: one control point. Rectangle: center and (width, height).
// Ellipse: center and (r1, r2). Polygon: three or more vertices.
type Record struct {
	Kind          Kind    `json:"kind"`
	ControlPoints []Vec2  `json:"control_points"`
	Rotation      float64 `json:"rotation"`
	Name          string  `json:"name,omitempty"`
	FileID        int     `json:"file_id"`
}

// Validate checks that the number of control points matches the kind.
func (r Record) Validate() error {
	n := len(r.ControlPoints)
	switch r.Kind {
	case Point:
		if n != 1 {
			return fmt.Errorf("point region needs 1 control point, got %d", n)
		}
	case Rectangle, Ellipse:
		if n != 2 {
			return fmt.Errorf("%s region needs 2 control points, got %d", r.Kind, n)
		}
	case Polygon:
		if n < 3 {
			return fmt.Errorf("polygon region needs at least 3 control points, got %d", n)
		}
	default:
		return fmt.Errorf("unknown region kind: %d", int(r.Kind))
	}
	return nil
}
