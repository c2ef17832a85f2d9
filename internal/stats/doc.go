// Package stats computes statistics and histograms of image pixels inside a
// region.
//
// A Sample collects the plane values whose pixel centers fall inside a
// region, along with the clipped bounding box. A Calculator holds the
// statistics and histogram requirements of one region and fills them from
// samples. Reductions run in parallel over row ranges with
// github.com/anthonynsimon/bild/parallel.
//
// # Statistics
//
// NumPixels, Sum, Mean, RMS, Sigma (sample standard deviation), SumSq, Min
// and Max are single values. Blc and Trc are the bottom-left and top-right
// corners of the region's bounding box; MinPos and MaxPos are the pixel
// positions of the extreme values. Positions are reported as [x, y]. When no
// statistics are required a single None value is returned.
//
// # Histograms
//
// A histogram divides [min, max] into equal bins. The bin width is
// (max-min)/bins and the first bin center is min + width/2; max itself falls
// in the last bin. Histograms are cached per channel and reused while the
// requested stokes index and bin count are unchanged.
package stats
