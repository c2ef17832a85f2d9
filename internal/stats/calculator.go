package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
)

// Type identifies one statistic.
type Type int

const (
	None Type = iota
	NumPixels
	Sum
	Mean
	RMS
	Sigma
	SumSq
	Min
	Max
	Blc
	Trc
	MinPos
	MaxPos
)

var typeNames = []string{"none", "num_pixels", "sum", "mean", "rms", "sigma", "sum_sq", "min", "max", "blc", "trc", "min_pos", "max_pos"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("stat(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType maps a statistic name to its Type.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if strings.EqualFold(n, name) {
			return Type(i), nil
		}
	}
	return None, fmt.Errorf("unknown statistic: %s", name)
}

// MarshalJSON encodes the type by name.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// AllTypes returns every statistic except None.
func AllTypes() []Type {
	out := make([]Type, 0, len(typeNames)-1)
	for t := NumPixels; t <= MaxPos; t++ {
		out = append(out, t)
	}
	return out
}

// Value is one computed statistic. Positional statistics also carry the full
// [x, y] position; Value is then the x coordinate.
type Value struct {
	Type     Type      `json:"type"`
	Value    float64   `json:"value"`
	Position []float64 `json:"position,omitempty"`
}

// HistogramConfig requests a histogram of one channel.
type HistogramConfig struct {
	Channel int `json:"channel"`
	NumBins int `json:"num_bins"`
}

// Histogram is a filled histogram of one channel.
type Histogram struct {
	Channel        int     `json:"channel"`
	NumBins        int     `json:"num_bins"`
	BinWidth       float64 `json:"bin_width"`
	FirstBinCenter float64 `json:"first_bin_center"`
	Bins           []int   `json:"bins"`
}

// Calculator holds the statistics and histogram requirements of one region.
// It is not safe for concurrent use.
type Calculator struct {
	stats   []Type
	configs []HistogramConfig

	channelHistograms map[int]Histogram
	stokes            int
	bins              int
}

// NewCalculator returns a calculator without requirements.
func NewCalculator() *Calculator {
	return &Calculator{channelHistograms: make(map[int]Histogram)}
}

// SetStatsRequirements replaces the statistics to compute.
func (c *Calculator) SetStatsRequirements(types []Type) {
	c.stats = append([]Type(nil), types...)
}

// NumStats returns the number of required statistics.
func (c *Calculator) NumStats() int {
	return len(c.stats)
}

// FillStats computes the required statistics of s, in requirement order.
func (c *Calculator) FillStats(s *Sample) []Value {
	if len(c.stats) == 0 {
		return []Value{{Type: None}}
	}

	m := reduce(s.Values)
	n := float64(m.n)

	out := make([]Value, 0, len(c.stats))
	for _, t := range c.stats {
		v := Value{Type: t}
		switch t {
		case NumPixels:
			v.Value = n
		case Sum:
			v.Value = m.sum
		case Mean:
			v.Value = m.sum / n
		case RMS:
			v.Value = math.Sqrt(m.sumSq / n)
		case Sigma:
			if m.n > 1 {
				v.Value = math.Sqrt(math.Max(0, (m.sumSq-m.sum*m.sum/n)/(n-1)))
			}
		case SumSq:
			v.Value = m.sumSq
		case Min:
			v.Value = float64(m.min)
		case Max:
			v.Value = float64(m.max)
		case Blc:
			v.setPosition(s.Box.Min.X, s.Box.Min.Y)
		case Trc:
			v.setPosition(s.Box.Max.X-1, s.Box.Max.Y-1)
		case MinPos:
			if m.minIdx < len(s.Positions) {
				p := s.Positions[m.minIdx]
				v.setPosition(p.X, p.Y)
			}
		case MaxPos:
			if m.maxIdx < len(s.Positions) {
				p := s.Positions[m.maxIdx]
				v.setPosition(p.X, p.Y)
			}
		}
		out = append(out, v)
	}
	return out
}

func (v *Value) setPosition(x, y int) {
	v.Value = float64(x)
	v.Position = []float64{float64(x), float64(y)}
}

// SetHistogramRequirements replaces the histogram configurations.
func (c *Calculator) SetHistogramRequirements(configs []HistogramConfig) {
	c.configs = append([]HistogramConfig(nil), configs...)
}

// NumHistogramConfigs returns the number of histogram configurations.
func (c *Calculator) NumHistogramConfigs() int {
	return len(c.configs)
}

// HistogramConfig returns configuration i, or a zero config when i is out of
// range.
func (c *Calculator) HistogramConfig(i int) HistogramConfig {
	if i < 0 || i >= len(c.configs) {
		return HistogramConfig{}
	}
	return c.configs[i]
}

// MinMax returns the smallest and largest of values.
func MinMax(values []float32) (float32, float32) {
	m := reduce(values)
	return m.min, m.max
}

// FillHistogram returns the histogram of values for a channel. A cached
// histogram is returned when channel, stokes and bin count match the last
// computed one.
func (c *Calculator) FillHistogram(values []float32, channel, stokes, numBins int, minVal, maxVal float32) (Histogram, error) {
	if h, ok := c.ChannelHistogram(channel, stokes, numBins); ok {
		return h, nil
	}
	if numBins <= 0 {
		return Histogram{}, fmt.Errorf("number of bins must be positive, got %d", numBins)
	}

	binWidth := (float64(maxVal) - float64(minVal)) / float64(numBins)
	bins := make([]int, numBins)
	var mu sync.Mutex

	parallel.Line(len(values), func(start, end int) {
		part := make([]int, numBins)
		for _, v := range values[start:end] {
			if v < minVal || v > maxVal {
				continue
			}
			idx := 0
			if binWidth > 0 {
				idx = int((float64(v) - float64(minVal)) / binWidth)
			}
			if idx >= numBins {
				idx = numBins - 1
			}
			part[idx]++
		}
		mu.Lock()
		for i, n := range part {
			bins[i] += n
		}
		mu.Unlock()
	})

	h := Histogram{
		Channel:        channel,
		NumBins:        numBins,
		BinWidth:       binWidth,
		FirstBinCenter: float64(minVal) + binWidth/2,
		Bins:           bins,
	}

	if c.stokes != stokes || c.bins != numBins {
		c.channelHistograms = make(map[int]Histogram)
	}
	c.channelHistograms[channel] = h
	c.stokes = stokes
	c.bins = numBins
	return h, nil
}

// ChannelHistogram returns the cached histogram of a channel if it was
// computed with the same stokes index and bin count.
func (c *Calculator) ChannelHistogram(channel, stokes, numBins int) (Histogram, bool) {
	h, ok := c.channelHistograms[channel]
	if !ok || c.stokes != stokes || c.bins != numBins {
		return Histogram{}, false
	}
	return h, true
}
