// Package quantity reads and converts numeric values that carry a unit.
//
// A Quantity is a float64 value paired with a unit name. The reader accepts
// plain numbers, numbers followed by a unit (`12.5deg`, `30arcsec`, `4"`),
// and the sexagesimal notations used for sky positions:
//
//	12:30:45.2      time (hours), converted to degrees
//	12h30m45.2s     time (hours), converted to degrees
//	-30d15m20s      angle (degrees)
//	-30.15.20.5     angle (degrees)
//
// Angular units convert freely between each other. Pixel values only convert
// to pixels.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unit names understood by the reader.
const (
	Degree    = "deg"
	Radian    = "rad"
	Arcsecond = "arcsec"
	Arcminute = "arcmin"
	Milliarc  = "mas"
	Pixel     = "pixel"
)

// ErrIncompatibleUnit is returned when converting between unrelated units.
var ErrIncompatibleUnit = errors.New("incompatible unit")

// degreesPer maps angular units to their size in degrees.
var degreesPer = map[string]float64{
	Degree:    1,
	Radian:    180 / math.Pi,
	Arcminute: 1.0 / 60,
	Arcsecond: 1.0 / 3600,
	Milliarc:  1.0 / 3600000,
}

// unitAliases normalizes accepted spellings to canonical unit names.
var unitAliases = map[string]string{
	"":        "",
	"deg":     Degree,
	"degree":  Degree,
	"degrees": Degree,
	"rad":     Radian,
	"arcsec":  Arcsecond,
	"\"":      Arcsecond,
	"arcmin":  Arcminute,
	"'":       Arcminute,
	"mas":     Milliarc,
	"pixel":   Pixel,
	"pix":     Pixel,
}

// Quantity is a value with a unit. An empty Unit means the unit is implicit.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// New returns a Quantity with the unit normalized.
func New(value float64, unit string) Quantity {
	if canon, ok := unitAliases[unit]; ok {
		unit = canon
	}
	return Quantity{Value: value, Unit: unit}
}

// IsAngle reports whether q has an angular unit.
func (q Quantity) IsAngle() bool {
	_, ok := degreesPer[q.Unit]
	return ok
}

// IsPixel reports whether q is expressed in pixels.
func (q Quantity) IsPixel() bool {
	return q.Unit == Pixel
}

// Convert returns the value of q in the given unit.
func (q Quantity) Convert(unit string) (float64, error) {
	if canon, ok := unitAliases[unit]; ok {
		unit = canon
	}
	if q.Unit == unit {
		return q.Value, nil
	}
	from, okFrom := degreesPer[q.Unit]
	to, okTo := degreesPer[unit]
	if !okFrom || !okTo {
		return 0, fmt.Errorf("%w: %q to %q", ErrIncompatibleUnit, q.Unit, unit)
	}
	return q.Value * from / to, nil
}

// In returns q converted to unit, or q itself when the units are unrelated.
func (q Quantity) In(unit string) Quantity {
	v, err := q.Convert(unit)
	if err != nil {
		return q
	}
	return New(v, unit)
}

// String renders the quantity as value followed by unit.
func (q Quantity) String() string {
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + q.Unit
}

const number = `(\d+(?:\.\d*)?|\.\d+)`

var (
	timeColon  = regexp.MustCompile(`^([+-]?)(\d+):(\d+):` + number + `$`)
	timeLetter = regexp.MustCompile(`^([+-]?)` + number + `h` + number + `m` + number + `s?$`)
	angLetter  = regexp.MustCompile(`^([+-]?)` + number + `d` + number + `m` + number + `s?$`)
	angDots    = regexp.MustCompile(`^([+-]?)(\d+)\.(\d+)\.(\d+(?:\.\d*)?)$`)
	numberUnit = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)\s*(.*)$`)
)

// Parse reads a quantity from s.
//
// Numbers without a unit return an empty Unit; the caller decides the default.
func Parse(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, errors.New("empty quantity")
	}

	if m := timeColon.FindStringSubmatch(s); m != nil {
		return sexagesimal(m, 15), nil
	}
	if m := timeLetter.FindStringSubmatch(s); m != nil {
		return sexagesimal(m, 15), nil
	}
	if m := angLetter.FindStringSubmatch(s); m != nil {
		return sexagesimal(m, 1), nil
	}
	if m := angDots.FindStringSubmatch(s); m != nil {
		return sexagesimal(m, 1), nil
	}

	m := numberUnit.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, fmt.Errorf("invalid quantity %q", s)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	unit, ok := unitAliases[m[2]]
	if !ok {
		return Quantity{}, fmt.Errorf("invalid quantity %q: unknown unit %q", s, m[2])
	}
	return Quantity{Value: value, Unit: unit}, nil
}

// sexagesimal folds sign, whole, minutes and seconds groups into degrees.
func sexagesimal(m []string, scale float64) Quantity {
	whole, _ := strconv.ParseFloat(m[2], 64)
	minutes, _ := strconv.ParseFloat(m[3], 64)
	seconds, _ := strconv.ParseFloat(m[4], 64)
	deg := (whole + minutes/60 + seconds/3600) * scale
	if m[1] == "-" {
		deg = -deg
	}
	return Quantity{Value: deg, Unit: Degree}
}
