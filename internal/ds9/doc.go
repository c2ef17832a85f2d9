// Package ds9 imports and exports region files in the SAOImage DS9 text format.
//
// Import turns DS9 region definitions into region.Record values whose control
// points are pixel coordinates of a loaded image. Export is the inverse: region
// records (or control-point quantities) are rendered as DS9 lines under a
// fixed header.
//
// # File Format
//
// A region file is a sequence of logical lines separated by newlines or ';':
//
//	# Region file format: DS9 version 4.1
//	global color=green dashlist=8 3 width=1
//	fk5
//	circle(202.4842,47.2306,20") # text={M51}
//	ellipse(13:29:52.7,+47:11:43,30",15",45)
//	image
//	box(100,120,40,20,30)
//	polygon(10,10,40,10,40,30)
//
// Comment lines start with '#'. Lines starting with '-' (excluded regions) and
// lines containing "global" are skipped. A bare frame keyword (physical, image,
// fk4, b1950, fk5, j2000, galactic, ecliptic, icrs) sets the coordinate frame
// for every following line until the next declaration. The wcs, wcsa and
// linear keywords, and unknown bare words, are rejected and suppress the
// following shape lines until a supported frame is declared.
//
// # Parameters
//
// Shape parameters are separated by spaces, commas or parentheses. Each one is
// a number with an optional DS9 unit suffix (d, r, p, i, ", ') or a
// sexagesimal value (12:30:45, 12h30m45s, 12d30m45s). Numbers without a unit
// default to pixels in image/physical frames and to degrees otherwise; ellipse
// and box radii default to arcseconds. Properties after '#' are read as
// key=value or key={value}; only text names the region.
//
// # Shapes
//
// Supported: point (including marker forms such as "circle point"), circle,
// ellipse, box and polygon. A circle imports as an ellipse with equal radii.
// DS9 measures ellipse angles from the x-axis; records store rotation from
// the y-axis, so 90 degrees is subtracted on import and added back on export.
// Line, vector, text, annulus and multi-radius shapes are reported as
// unsupported.
//
// # Errors
//
// Import never aborts: each malformed line adds one ImportError (with a kind
// usable by IsKind) and the remaining lines are still imported. Export fails
// with ErrNoRegions when no region line was added.
//
// # Concurrency
//
// An Importer can be shared; every Import call builds its own parser state.
// An Exporter accumulates lines and must not be used from several goroutines
// at once.
package ds9
