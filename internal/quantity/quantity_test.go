package quantity

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParse(t *testing.T) {
	tests := []struct {
		input     string
		wantValue float64
		wantUnit  string
	}{
		{"12", 12, ""},
		{"-3.5", -3.5, ""},
		{"1e3", 1000, ""},
		{".25", 0.25, ""},
		{"10deg", 10, Degree},
		{"1rad", 1, Radian},
		{"30arcsec", 30, Arcsecond},
		{"4\"", 4, Arcsecond},
		{"2'", 2, Arcminute},
		{"100pixel", 100, Pixel},
		{"100pix", 100, Pixel},
		{"12:30:00", 187.5, Degree},
		{"-01:00:00", -15, Degree},
		{"1h30m0s", 22.5, Degree},
		{"10d30m0s", 10.5, Degree},
		{"-30.15.00", -30.25, Degree},
		{"45.30.36", 45.51, Degree},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if !almostEqual(q.Value, tt.wantValue) {
				t.Errorf("Value: got %v, want %v", q.Value, tt.wantValue)
			}
			if q.Unit != tt.wantUnit {
				t.Errorf("Unit: got %q, want %q", q.Unit, tt.wantUnit)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1e", "5furlong", "12:30", "--3"} {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) should fail", input)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	q := New(1, Degree)

	arcsec, err := q.Convert(Arcsecond)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !almostEqual(arcsec, 3600) {
		t.Errorf("deg->arcsec: got %v, want 3600", arcsec)
	}

	rad, err := New(math.Pi, Radian).Convert(Degree)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !almostEqual(rad, 180) {
		t.Errorf("rad->deg: got %v, want 180", rad)
	}

	if _, err := New(5, Pixel).Convert(Degree); !errors.Is(err, ErrIncompatibleUnit) {
		t.Errorf("pixel->deg: expected ErrIncompatibleUnit, got %v", err)
	}
}

func TestNew_NormalizesAliases(t *testing.T) {
	if q := New(3, "\""); q.Unit != Arcsecond {
		t.Errorf("got unit %q, want %q", q.Unit, Arcsecond)
	}
	if q := New(3, "pix"); !q.IsPixel() {
		t.Errorf("pix should normalize to pixel, got %q", q.Unit)
	}
	if !New(1, "arcmin").IsAngle() {
		t.Error("arcmin should be an angle")
	}
}

func TestIn_KeepsUnrelatedUnit(t *testing.T) {
	q := New(7, Pixel).In(Degree)
	if q.Unit != Pixel || q.Value != 7 {
		t.Errorf("In on unrelated unit changed value: %+v", q)
	}
}
