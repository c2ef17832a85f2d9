package stats

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/ironsheep/region-tools-mcp/internal/imaging"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// ErrEmptyRegion is returned when no pixel center lies inside the region.
var ErrEmptyRegion = errors.New("region contains no pixels")

// Sample holds the pixel values of a plane inside one region.
type Sample struct {
	// Values are the finite pixel values in row-major order.
	Values []float32
	// Positions are the pixel positions of Values.
	Positions []image.Point
	// Box is the region bounding box clipped to the plane.
	Box image.Rectangle
}

// Extract collects the plane values inside rec.
func Extract(plane *imaging.Plane, rec region.Record) (*Sample, error) {
	if plane == nil {
		return nil, errors.New("no pixel plane")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	box := rec.Bounds().Intersect(plane.Bounds())
	if box.Empty() {
		return nil, fmt.Errorf("%w: %s lies outside the image", ErrEmptyRegion, rec.Kind)
	}

	rows := make([]rowSample, box.Dy())
	parallel.Line(box.Dy(), func(start, end int) {
		for i := start; i < end; i++ {
			y := box.Min.Y + i
			var row rowSample
			for x := box.Min.X; x < box.Max.X; x++ {
				if !rec.Contains(float64(x), float64(y)) {
					continue
				}
				v := plane.At(x, y)
				if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
					continue
				}
				row.values = append(row.values, v)
				row.positions = append(row.positions, image.Pt(x, y))
			}
			rows[i] = row
		}
	})

	s := &Sample{Box: box}
	for _, row := range rows {
		s.Values = append(s.Values, row.values...)
		s.Positions = append(s.Positions, row.positions...)
	}
	if len(s.Values) == 0 {
		return nil, ErrEmptyRegion
	}
	return s, nil
}

type rowSample struct {
	values    []float32
	positions []image.Point
}

// moments is a partial reduction over a range of sample values.
type moments struct {
	n        int
	sum      float64
	sumSq    float64
	min, max float32
	minIdx   int
	maxIdx   int
}

func (m *moments) add(v float32, idx int) {
	if m.n == 0 || v < m.min {
		m.min, m.minIdx = v, idx
	}
	if m.n == 0 || v > m.max {
		m.max, m.maxIdx = v, idx
	}
	f := float64(v)
	m.n++
	m.sum += f
	m.sumSq += f * f
}

// merge folds other into m. Ties keep the lower index.
func (m *moments) merge(other moments) {
	if other.n == 0 {
		return
	}
	if m.n == 0 {
		*m = other
		return
	}
	if other.min < m.min || (other.min == m.min && other.minIdx < m.minIdx) {
		m.min, m.minIdx = other.min, other.minIdx
	}
	if other.max > m.max || (other.max == m.max && other.maxIdx < m.maxIdx) {
		m.max, m.maxIdx = other.max, other.maxIdx
	}
	m.n += other.n
	m.sum += other.sum
	m.sumSq += other.sumSq
}

// reduce computes moments of values in parallel.
func reduce(values []float32) moments {
	var (
		mu    sync.Mutex
		total moments
	)
	parallel.Line(len(values), func(start, end int) {
		var part moments
		for i := start; i < end; i++ {
			part.add(values[i], i)
		}
		mu.Lock()
		total.merge(part)
		mu.Unlock()
	})
	return total
}
