package coordsys

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

const arcsecPerPixel = 1.0 / 3600

func testCelestial(t *testing.T) *System {
	t.Helper()
	cs, err := NewCelestial(FrameJ2000,
		[2]float64{180, 30},
		[2]float64{100, 100},
		[2]float64{-arcsecPerPixel, arcsecPerPixel}, 0)
	if err != nil {
		t.Fatalf("NewCelestial failed: %v", err)
	}
	return cs
}

func deg(v float64) quantity.Quantity {
	return quantity.New(v, quantity.Degree)
}

func TestPointToPixel_ReferencePixel(t *testing.T) {
	cs := testCelestial(t)

	p, err := cs.PointToPixel(FrameJ2000, []quantity.Quantity{deg(180), deg(30)})
	if err != nil {
		t.Fatalf("PointToPixel failed: %v", err)
	}
	if math.Abs(p.X-100) > 1e-9 || math.Abs(p.Y-100) > 1e-9 {
		t.Errorf("got (%v, %v), want (100, 100)", p.X, p.Y)
	}
}

func TestPointToPixel_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		crota float64
		pixel region.Vec2
	}{
		{"unrotated", 0, region.Vec2{X: 140, Y: 75}},
		{"rotated", 30, region.Vec2{X: 20, Y: 180}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := NewCelestial(FrameJ2000, [2]float64{10, -45}, [2]float64{100, 100},
				[2]float64{-0.001, 0.001}, tt.crota)
			if err != nil {
				t.Fatalf("NewCelestial failed: %v", err)
			}

			world, err := cs.PixelToWorld(tt.pixel)
			if err != nil {
				t.Fatalf("PixelToWorld failed: %v", err)
			}
			back, err := cs.PointToPixel(FrameJ2000, world)
			if err != nil {
				t.Fatalf("PointToPixel failed: %v", err)
			}
			if math.Abs(back.X-tt.pixel.X) > 1e-6 || math.Abs(back.Y-tt.pixel.Y) > 1e-6 {
				t.Errorf("round trip: got (%v, %v), want (%v, %v)", back.X, back.Y, tt.pixel.X, tt.pixel.Y)
			}
		})
	}
}

func TestPointToPixel_RightAscensionIncreasesLeft(t *testing.T) {
	cs := testCelestial(t)

	p, err := cs.PointToPixel(FrameJ2000, []quantity.Quantity{deg(180.01), deg(30)})
	if err != nil {
		t.Fatalf("PointToPixel failed: %v", err)
	}
	if p.X >= 100 {
		t.Errorf("larger RA should map left of the reference pixel, got x=%v", p.X)
	}
}

func TestPointToPixel_PixelUnitsPassThrough(t *testing.T) {
	p, err := PixelOnly().PointToPixel("", []quantity.Quantity{
		quantity.New(12, quantity.Pixel),
		quantity.New(24, quantity.Pixel),
	})
	if err != nil {
		t.Fatalf("PointToPixel failed: %v", err)
	}
	if p.X != 12 || p.Y != 24 {
		t.Errorf("got (%v, %v), want (12, 24)", p.X, p.Y)
	}
}

func TestPointToPixel_Errors(t *testing.T) {
	linear, err := NewLinear([2]float64{0, 0}, [2]float64{0, 0}, [2]float64{1, 1}, [2]string{"m", "m"})
	if err != nil {
		t.Fatalf("NewLinear failed: %v", err)
	}

	if _, err := PixelOnly().PointToPixel(FrameJ2000, []quantity.Quantity{deg(1), deg(2)}); !errors.Is(err, ErrNoWorldCoordinates) {
		t.Errorf("pixel-only: expected ErrNoWorldCoordinates, got %v", err)
	}
	if _, err := linear.PointToPixel(FrameJ2000, []quantity.Quantity{deg(1), deg(2)}); !errors.Is(err, ErrFrameConversion) {
		t.Errorf("linear: expected ErrFrameConversion, got %v", err)
	}
	if _, err := testCelestial(t).PointToPixel(FrameB1950, []quantity.Quantity{deg(180), deg(30)}); !errors.Is(err, ErrFrameConversion) {
		t.Errorf("B1950 on J2000 image: expected ErrFrameConversion, got %v", err)
	}
	if _, err := testCelestial(t).PointToPixel(FrameJ2000, []quantity.Quantity{deg(0), deg(-60)}); err == nil {
		t.Error("far side of the sky should fail to project")
	}
}

func TestConvertFrame_GalacticCenter(t *testing.T) {
	ra, dec, err := convertFrame(0, 0, FrameGalactic, FrameJ2000)
	if err != nil {
		t.Fatalf("convertFrame failed: %v", err)
	}
	if math.Abs(ra-266.40499) > 1e-3 || math.Abs(dec-(-28.93617)) > 1e-3 {
		t.Errorf("galactic center: got (%v, %v), want (266.405, -28.936)", ra, dec)
	}

	l, b, err := convertFrame(ra, dec, FrameJ2000, FrameGalactic)
	if err != nil {
		t.Fatalf("convertFrame failed: %v", err)
	}
	if math.Abs(b) > 1e-9 || (math.Abs(l) > 1e-9 && math.Abs(l-360) > 1e-9) {
		t.Errorf("round trip: got (%v, %v), want (0, 0)", l, b)
	}
}

func TestConvertFrame_EclipticPole(t *testing.T) {
	// The north ecliptic pole sits at RA 270, Dec 90 - obliquity.
	_, lat, err := convertFrame(270, 90-obliquityJ2000, FrameJ2000, FrameEcliptic)
	if err != nil {
		t.Fatalf("convertFrame failed: %v", err)
	}
	if math.Abs(lat-90) > 1e-6 {
		t.Errorf("ecliptic latitude: got %v, want 90", lat)
	}
}

func TestWorldToPixelLength(t *testing.T) {
	cs := testCelestial(t)

	px, err := cs.WorldToPixelLength(quantity.New(10, quantity.Arcsecond), 0)
	if err != nil {
		t.Fatalf("WorldToPixelLength failed: %v", err)
	}
	if math.Abs(px-10) > 1e-9 {
		t.Errorf("got %v pixels, want 10", px)
	}

	px, err = cs.WorldToPixelLength(quantity.New(7, quantity.Pixel), 1)
	if err != nil || px != 7 {
		t.Errorf("pixel length: got %v, %v", px, err)
	}

	if _, err := PixelOnly().WorldToPixelLength(quantity.New(1, quantity.Arcsecond), 0); !errors.Is(err, ErrNoWorldCoordinates) {
		t.Errorf("expected ErrNoWorldCoordinates, got %v", err)
	}
}

func TestPixelToWorldLength(t *testing.T) {
	q, err := testCelestial(t).PixelToWorldLength(36, 1)
	if err != nil {
		t.Fatalf("PixelToWorldLength failed: %v", err)
	}
	arcsec, _ := q.Convert(quantity.Arcsecond)
	if math.Abs(arcsec-36) > 1e-9 {
		t.Errorf("got %v arcsec, want 36", arcsec)
	}
}

func TestFrameQueries(t *testing.T) {
	cs := testCelestial(t)
	if !cs.HasCelestialFrame() || cs.CelestialFrame() != FrameJ2000 || cs.HasLinearFrame() {
		t.Errorf("celestial system queries wrong: %s", cs)
	}
	p := PixelOnly()
	if p.HasCelestialFrame() || p.HasLinearFrame() {
		t.Error("pixel-only system should report no frames")
	}
}

func TestParseSidecar(t *testing.T) {
	doc := []byte(`
frame: galactic
projection: TAN
crval: [10.5, -2.0]
crpix: [50, 60]
cdelt: [-0.01, 0.01]
crota: 15
`)
	cs, err := ParseSidecar(doc)
	if err != nil {
		t.Fatalf("ParseSidecar failed: %v", err)
	}
	if cs.Frame != FrameGalactic || cs.CRPix[1] != 60 || cs.CRota != 15 {
		t.Errorf("unexpected system: %+v", cs)
	}

	linear, err := ParseSidecar([]byte("projection: linear\ncrval: [0, 0]\ncrpix: [0, 0]\ncdelt: [2, 2]\nunits: [m, m]\n"))
	if err != nil {
		t.Fatalf("ParseSidecar linear failed: %v", err)
	}
	if !linear.HasLinearFrame() || linear.Units[0] != "m" {
		t.Errorf("unexpected linear system: %+v", linear)
	}
}

func TestParseSidecar_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "frame: [unclosed"},
		{"short crval", "frame: J2000\ncrval: [1]\ncrpix: [0, 0]\ncdelt: [1, 1]\n"},
		{"unknown frame", "frame: SUPERGALACTIC\ncrval: [0, 0]\ncrpix: [0, 0]\ncdelt: [1, 1]\n"},
		{"zero cdelt", "frame: J2000\ncrval: [0, 0]\ncrpix: [0, 0]\ncdelt: [0, 1]\n"},
		{"bad projection", "projection: SIN\ncrval: [0, 0]\ncrpix: [0, 0]\ncdelt: [1, 1]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSidecar([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFindSidecar(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "field.png")

	cs, err := FindSidecar(imagePath)
	if err != nil {
		t.Fatalf("FindSidecar without file failed: %v", err)
	}
	if cs.HasCelestialFrame() || cs.HasLinearFrame() {
		t.Error("missing sidecar should give a pixel-only system")
	}

	doc := "frame: J2000\ncrval: [0, 0]\ncrpix: [0, 0]\ncdelt: [-1, 1]\n"
	if err := os.WriteFile(imagePath+SidecarSuffix, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write sidecar: %v", err)
	}
	cs, err = FindSidecar(imagePath)
	if err != nil {
		t.Fatalf("FindSidecar failed: %v", err)
	}
	if !cs.HasCelestialFrame() {
		t.Error("sidecar should give a celestial system")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "field.png")
	wcsPath := filepath.Join(dir, "linear.yaml")
	if err := os.WriteFile(wcsPath, []byte("projection: linear\ncrval: [0, 0]\ncrpix: [0, 0]\ncdelt: [1, 1]\nunits: [m, m]\n"), 0o644); err != nil {
		t.Fatalf("failed to write coordinate system: %v", err)
	}

	tests := []struct {
		name       string
		image, wcs string
		linear     bool
	}{
		{"nothing", "", "", false},
		{"image without sidecar", imagePath, "", false},
		{"explicit file wins", imagePath, wcsPath, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := Resolve(tt.image, tt.wcs)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if cs.HasLinearFrame() != tt.linear || cs.HasCelestialFrame() {
				t.Errorf("got %s", cs)
			}
		})
	}

	if _, err := Resolve("", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing coordinate system file")
	}
}
