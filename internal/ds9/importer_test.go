package ds9

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// fakeSystem maps degrees to pixels at 10 pixels per degree and arcseconds
// to pixels one to one. Conversions from failFrame are rejected.
type fakeSystem struct {
	frame     string
	failFrame string
}

func (f fakeSystem) PointToPixel(frame string, world []quantity.Quantity) (region.Vec2, error) {
	if frame == f.failFrame {
		return region.Vec2{}, errors.New("frame conversion rejected")
	}
	if world[0].IsPixel() && world[1].IsPixel() {
		return region.Vec2{X: world[0].Value, Y: world[1].Value}, nil
	}
	x, err := world[0].Convert(quantity.Degree)
	if err != nil {
		return region.Vec2{}, err
	}
	y, err := world[1].Convert(quantity.Degree)
	if err != nil {
		return region.Vec2{}, err
	}
	return region.Vec2{X: x * 10, Y: y * 10}, nil
}

func (f fakeSystem) WorldToPixelLength(q quantity.Quantity, axis int) (float64, error) {
	return q.Convert(quantity.Arcsecond)
}

func (f fakeSystem) HasCelestialFrame() bool { return f.frame != "" }
func (f fakeSystem) CelestialFrame() string  { return f.frame }
func (f fakeSystem) HasLinearFrame() bool    { return false }

func importLines(t *testing.T, contents string) *Result {
	t.Helper()
	return NewImporter(fakeSystem{frame: "J2000", failFrame: "B1950"}, 7).ImportString(contents)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func samePoints(got, want []region.Vec2) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !almostEqual(got[i].X, want[i].X) || !almostEqual(got[i].Y, want[i].Y) {
			return false
		}
	}
	return true
}

func TestImport_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		kind     region.Kind
		points   []region.Vec2
		rotation float64
	}{
		{
			name:     "pixel circle",
			contents: "image\ncircle(100,100,20)",
			kind:     region.Ellipse,
			points:   []region.Vec2{{X: 100, Y: 100}, {X: 20, Y: 20}},
		},
		{
			name:     "pixel ellipse with angle",
			contents: "image\nellipse(10,10,5,3,45)",
			kind:     region.Ellipse,
			points:   []region.Vec2{{X: 10, Y: 10}, {X: 5, Y: 3}},
			rotation: 315,
		},
		{
			name:     "pixel ellipse without angle",
			contents: "physical\nellipse(10,10,5,3)",
			kind:     region.Ellipse,
			points:   []region.Vec2{{X: 10, Y: 10}, {X: 5, Y: 3}},
			rotation: 270,
		},
		{
			name:     "circle written as ellipse ignores angle",
			contents: "image\nellipse(10,10,4,4,30)",
			kind:     region.Ellipse,
			points:   []region.Vec2{{X: 10, Y: 10}, {X: 4, Y: 4}},
		},
		{
			name:     "pixel box keeps angle",
			contents: "image\nbox(50,60,10,20,30)",
			kind:     region.Rectangle,
			points:   []region.Vec2{{X: 50, Y: 60}, {X: 10, Y: 20}},
			rotation: 30,
		},
		{
			name:     "default frame is pixel",
			contents: "point(5,6)",
			kind:     region.Point,
			points:   []region.Vec2{{X: 5, Y: 6}},
		},
		{
			name:     "marker point",
			contents: "image; circle point 7 8",
			kind:     region.Point,
			points:   []region.Vec2{{X: 7, Y: 8}},
		},
		{
			name:     "pixel polygon",
			contents: "image\npolygon(1,1,10,1,10,10,1,10)",
			kind:     region.Polygon,
			points:   []region.Vec2{{X: 1, Y: 1}, {X: 10, Y: 1}, {X: 10, Y: 10}, {X: 1, Y: 10}},
		},
		{
			name:     "world circle",
			contents: "fk5\ncircle(1,2,20\")",
			kind:     region.Ellipse,
			points:   []region.Vec2{{X: 10, Y: 20}, {X: 20, Y: 20}},
		},
		{
			name:     "world ellipse with default arcsec radii",
			contents: "fk5\nellipse(1,2,20,10,30)",
			kind:     region.Ellipse,
			points:   []region.Vec2{{X: 10, Y: 20}, {X: 20, Y: 10}},
			rotation: 300,
		},
		{
			name:     "world box in arcminutes",
			contents: "J2000\nbox(1d,2d,1',2',0)",
			kind:     region.Rectangle,
			points:   []region.Vec2{{X: 10, Y: 20}, {X: 60, Y: 120}},
		},
		{
			name:     "sexagesimal point",
			contents: "fk5\npoint(12:00:00,+10:30:00)",
			kind:     region.Point,
			points:   []region.Vec2{{X: 1800, Y: 105}},
		},
		{
			name:     "letter sexagesimal point",
			contents: "fk5\npoint(1h0m0s,-1d30m0s)",
			kind:     region.Point,
			points:   []region.Vec2{{X: 150, Y: -15}},
		},
		{
			name:     "pixel unit inside world frame",
			contents: "galactic\npoint(3p,4i)",
			kind:     region.Point,
			points:   []region.Vec2{{X: 3, Y: 4}},
		},
		{
			name:     "included region marker",
			contents: "image\n+circle(3,4,5)",
			kind:     region.Ellipse,
			points:   []region.Vec2{{X: 3, Y: 4}, {X: 5, Y: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := importLines(t, tt.contents)
			if len(result.Errors) != 0 {
				t.Fatalf("unexpected errors: %q", result.ErrorText())
			}
			if len(result.Regions) != 1 {
				t.Fatalf("expected 1 region, got %d", len(result.Regions))
			}

			got := result.Regions[0]
			if got.Kind != tt.kind {
				t.Errorf("kind: got %s, want %s", got.Kind, tt.kind)
			}
			if !samePoints(got.ControlPoints, tt.points) {
				t.Errorf("control points: got %v, want %v", got.ControlPoints, tt.points)
			}
			if !almostEqual(got.Rotation, tt.rotation) {
				t.Errorf("rotation: got %v, want %v", got.Rotation, tt.rotation)
			}
			if got.FileID != 7 {
				t.Errorf("file id: got %d, want 7", got.FileID)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("imported record is invalid: %v", err)
			}
		})
	}
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		kind     ErrorKind
		message  string
	}{
		{"box arity", "image\nbox(1,2,3)", KindSyntax, "box syntax error."},
		{"circle arity", "image\ncircle(1,2)", KindSyntax, "circle syntax error."},
		{"ellipse arity", "image\nellipse(1,2,3)", KindSyntax, "ellipse syntax error."},
		{"point arity", "image\npoint(1)", KindSyntax, "point syntax error."},
		{"point variant", "image\nxpoint(1,2)", KindSyntax, "point syntax error."},
		{"polygon odd", "image\npolygon(1,2,3,4,5,6,7)", KindSyntax, "polygon syntax error, odd number of arguments."},
		{"polygon two vertices", "image\npolygon(1,2,3,4)", KindSyntax, "polygon syntax error."},
		{"ellipse annulus", "image\nellipse(1,2,3,4,5,6,7)", KindUnsupported, "Unsupported ellipse definition."},
		{"box annulus", "image\nbox(1,2,3,4,5,6,7,8)", KindUnsupported, "Unsupported box definition."},
		{"line", "image\nline(1,2,3,4)", KindUnsupported, "DS9 line region not supported."},
		{"vector", "image\n# vector(1,2,3,4)\nvector(1,2,3,4)", KindUnsupported, "DS9 vector region not supported."},
		{"text", "image\ntext(1,2) # text={hi}", KindUnsupported, "DS9 text not supported."},
		{"annulus", "image\nannulus(1,2,3,4)", KindUnsupported, "DS9 annulus region not supported."},
		{"not numeric", "image\npoint(a,2)", KindFormat, "point invalid parameter a, not a numeric value."},
		{"bad unit", "image\ncircle(1x,2,3)", KindFormat, "ellipse invalid parameter unit: 1x."},
		{"long unit", "image\nbox(1,2,3km,4,0)", KindFormat, "box invalid parameter unit: 3km."},
		{"unreadable sexagesimal", "fk5\npoint(12:30,1)", KindFormat, "point invalid parameter unit: 12:30."},
		{"conversion", "fk4\ncircle(1,2,3)", KindConversion, "Failed to apply ellipse to image."},
		{"polygon conversion", "b1950\npolygon(1,2,3,4,5,6)", KindConversion, "Failed to apply polygon to image."},
		{"unsupported frame", "wcs\ncircle(1,2,3)", KindFrame, "coord sys wcs not supported."},
		{"unknown frame", "FK6\ncircle(1,2,3)", KindFrame, "coord sys fk6 not supported."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := importLines(t, tt.contents)
			if len(result.Regions) != 0 {
				t.Errorf("expected no regions, got %v", result.Regions)
			}
			if len(result.Errors) != 1 {
				t.Fatalf("expected 1 error, got %q", result.ErrorText())
			}

			got := result.Errors[0]
			if got.Message != tt.message {
				t.Errorf("message: got %q, want %q", got.Message, tt.message)
			}
			if !IsKind(&got, tt.kind) {
				t.Errorf("kind: got %s, want %s", got.Kind, tt.kind)
			}
			if got.Line < 1 {
				t.Errorf("line should be set, got %d", got.Line)
			}
		})
	}
}

func TestImport_UnsupportedFrameSuppressesUntilNextFrame(t *testing.T) {
	result := importLines(t, strings.Join([]string{
		"image",
		"circle(1,1,1)",
		"wcs",
		"circle(2,2,2)",
		"box(1,2,3)",
		"image",
		"circle(3,3,3)",
	}, "\n"))

	if len(result.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(result.Regions))
	}
	if result.Regions[1].ControlPoints[0].X != 3 {
		t.Errorf("second region should come after the valid frame, got %v", result.Regions[1])
	}
	if len(result.Errors) != 1 || result.Errors[0].Line != 3 {
		t.Errorf("expected one frame error on line 3, got %+v", result.Errors)
	}
	if result.ErrorText() != "coord sys wcs not supported.\n" {
		t.Errorf("unexpected error text %q", result.ErrorText())
	}
}

func TestImport_FailedLinesDoNotStopImport(t *testing.T) {
	result := importLines(t, "image\nbox(1,2,3)\npoint(a,b)\npoint(4,5)\nfk4\npoint(1,1)\nfk5\npoint(1,1)")

	if len(result.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(result.Regions))
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %q", result.ErrorText())
	}
	wantLines := []int{2, 3, 6}
	for i, e := range result.Errors {
		if e.Line != wantLines[i] {
			t.Errorf("error %d: got line %d, want %d", i, e.Line, wantLines[i])
		}
	}
}

func TestImport_SkippedLines(t *testing.T) {
	result := importLines(t, strings.Join([]string{
		"# Region file format: DS9 version 4.1",
		"global color=green dashlist=8 3 width=1",
		"",
		"-circle(1,2,3)",
		"image",
		"circle(4,5,6)",
	}, "\n"))

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %q", result.ErrorText())
	}
	if len(result.Regions) != 1 || result.Regions[0].ControlPoints[0].X != 4 {
		t.Errorf("expected only circle(4,5,6), got %v", result.Regions)
	}
}

func TestImport_FrameKeywordsAreCaseInsensitive(t *testing.T) {
	result := importLines(t, "FK5\npoint(1,2)\nIMAGE\npoint(1,2)")

	if len(result.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d: %q", len(result.Regions), result.ErrorText())
	}
	if !samePoints(result.Regions[0].ControlPoints, []region.Vec2{{X: 10, Y: 20}}) {
		t.Errorf("world point: got %v", result.Regions[0].ControlPoints)
	}
	if !samePoints(result.Regions[1].ControlPoints, []region.Vec2{{X: 1, Y: 2}}) {
		t.Errorf("pixel point: got %v", result.Regions[1].ControlPoints)
	}
	if result.FileFrame != "" || result.ImageFrame != "J2000" {
		t.Errorf("frames: got file %q image %q", result.FileFrame, result.ImageFrame)
	}
}

func TestImport_RegionName(t *testing.T) {
	result := importLines(t, "image\ncircle(1,2,3) # color=red text={Crab Nebula} width=2")

	if len(result.Regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(result.Regions))
	}
	if result.Regions[0].Name != "Crab Nebula" {
		t.Errorf("name: got %q", result.Regions[0].Name)
	}
}

func TestImport_CircleEqualityUsesRawTokens(t *testing.T) {
	// 1' and 60" are the same length but are different tokens.
	result := importLines(t, "fk5\nellipse(1,2,1',60\",30)")

	if len(result.Regions) != 1 {
		t.Fatalf("expected 1 region, got %q", result.ErrorText())
	}
	if got := result.Regions[0].Rotation; !almostEqual(got, 300) {
		t.Errorf("distinct tokens should keep the ellipse angle, got %v", got)
	}
}

func TestImport_NilCoordinateSystem(t *testing.T) {
	result := NewImporter(nil, 0).ImportString("image\npoint(1,2)\nfk5\npoint(1,2)")

	if len(result.Regions) != 1 {
		t.Fatalf("expected 1 pixel region, got %d", len(result.Regions))
	}
	if len(result.Errors) != 1 || !IsKind(&result.Errors[0], KindConversion) {
		t.Errorf("expected one conversion error, got %+v", result.Errors)
	}
	if result.ImageFrame != "physical" {
		t.Errorf("image frame: got %q, want physical", result.ImageFrame)
	}
}

func TestIsKind(t *testing.T) {
	var err error = &ImportError{Kind: KindSyntax, Message: "box syntax error.", Line: 4}
	if !IsKind(err, KindSyntax) || IsKind(err, KindFrame) {
		t.Error("IsKind mismatch")
	}
	if IsKind(errors.New("plain"), KindSyntax) {
		t.Error("plain errors have no kind")
	}
	if err.Error() != "line 4: box syntax error." {
		t.Errorf("unexpected Error(): %q", err.Error())
	}
}
