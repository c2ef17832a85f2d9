// Package imaging loads the images that regions are attached to and exposes
// them as pixel planes for statistics and cutouts.
//
// Images are decoded with github.com/disintegration/imaging, so PNG, JPEG,
// GIF, TIFF and BMP files are accepted. Every image exposes four channels:
//
//	0  luminance (imaging.Grayscale)
//	1  red
//	2  green
//	3  blue
//
// Each channel is a Plane of float32 values in the range 0-255.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left pixel center,
// X increasing rightward and Y increasing downward. Region control points use
// the same coordinates, so region.Record.Bounds maps directly onto planes and
// crops.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Planes are built once per image and
// channel and are read-only afterwards.
package imaging
