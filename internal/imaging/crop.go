package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// CropResult contains the cropped image data
type CropResult struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropRegion cuts the bounding box of a region out of img, clipped to the
// image, and returns it PNG encoded. A scale other than 1 resizes the cutout.
func CropRegion(img image.Image, rec region.Record, scale float64) (*CropResult, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	box := rec.Bounds().Add(bounds.Min).Intersect(bounds)
	if box.Empty() {
		return nil, fmt.Errorf("region %s lies outside image bounds (%d,%d)-(%d,%d)",
			rec.Kind, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	cropped := imaging.Crop(img, box)

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %g leaves an empty cutout", scale)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		X:           box.Min.X - bounds.Min.X,
		Y:           box.Min.Y - bounds.Min.Y,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
