package coordsys

import (
	"fmt"
	"math"
)

type matrix3 [3][3]float64

// obliquity of the ecliptic at J2000, degrees.
const obliquityJ2000 = 23.4392911

// fromJ2000 holds the rotation taking a J2000 equatorial unit vector into
// each frame. B1950 is absent: it needs precession and is only accepted when
// it is also the image frame.
var fromJ2000 = map[string]matrix3{
	FrameJ2000: identity(),
	FrameICRS:  identity(),
	FrameGalactic: {
		{-0.0548755604162154, -0.8734370902348850, -0.4838350155487132},
		{0.4941094278755837, -0.4448296299600112, 0.7469822444972189},
		{-0.8676661490190047, -0.1980763734312015, 0.4559837761750669},
	},
	FrameEcliptic: eclipticRotation(obliquityJ2000),
}

func identity() matrix3 {
	return matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func eclipticRotation(eps float64) matrix3 {
	c, s := math.Cos(eps*deg2rad), math.Sin(eps*deg2rad)
	return matrix3{{1, 0, 0}, {0, c, s}, {0, -s, c}}
}

func knownFrame(frame string) bool {
	if frame == FrameB1950 {
		return true
	}
	_, ok := fromJ2000[frame]
	return ok
}

// convertFrame rotates (lon, lat) in degrees from one direction frame to another.
func convertFrame(lon, lat float64, from, to string) (float64, float64, error) {
	if from == to {
		return lon, lat, nil
	}
	mFrom, okFrom := fromJ2000[from]
	mTo, okTo := fromJ2000[to]
	if !okFrom || !okTo {
		return 0, 0, fmt.Errorf("%w: %s to %s", ErrFrameConversion, from, to)
	}

	v := toVector(lon, lat)
	eq := mFrom.transposeApply(v)
	return fromVector(mTo.apply(eq))
}

func (m matrix3) apply(v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

func (m matrix3) transposeApply(v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[0][i]*v[0] + m[1][i]*v[1] + m[2][i]*v[2]
	}
	return out
}

func toVector(lon, lat float64) [3]float64 {
	a, d := lon*deg2rad, lat*deg2rad
	return [3]float64{math.Cos(d) * math.Cos(a), math.Cos(d) * math.Sin(a), math.Sin(d)}
}

func fromVector(v [3]float64) (float64, float64, error) {
	lon := math.Atan2(v[1], v[0]) * rad2deg
	lat := math.Asin(math.Max(-1, math.Min(1, v[2]))) * rad2deg
	return wrapDegrees(lon), lat, nil
}
