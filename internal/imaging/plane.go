package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Channel indices.
const (
	ChannelLuminance = iota
	ChannelRed
	ChannelGreen
	ChannelBlue

	NumChannels
)

var channelNames = [NumChannels]string{"luminance", "red", "green", "blue"}

// ChannelNames returns the channel names in index order.
func ChannelNames() []string {
	out := make([]string, NumChannels)
	copy(out, channelNames[:])
	return out
}

// ChannelByName maps a channel name to its index.
func ChannelByName(name string) (int, bool) {
	for i, n := range channelNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Plane is one channel of an image as row-major float32 values.
type Plane struct {
	Width  int
	Height int
	Data   []float32
}

// NewPlane extracts a channel from img. Rows are converted in parallel.
func NewPlane(img image.Image, channel int) *Plane {
	var src *image.NRGBA
	offset := 0
	switch channel {
	case ChannelLuminance:
		src = imaging.Grayscale(img)
	case ChannelRed, ChannelGreen, ChannelBlue:
		src = imaging.Clone(img)
		offset = channel - ChannelRed
	default:
		return nil
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	p := &Plane{Width: w, Height: h, Data: make([]float32, w*h)}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				p.Data[y*w+x] = float32(row[x*4+offset])
			}
		}
	})
	return p
}

// At returns the value at (x, y). Positions outside the plane return 0.
func (p *Plane) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return 0
	}
	return p.Data[y*p.Width+x]
}

// Bounds returns the plane rectangle.
func (p *Plane) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}
