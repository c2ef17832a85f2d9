package ds9

import (
	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// defaultUnits lists the unit given to unitless ellipse and box parameters
// by position: x, y, r1 (width), r2 (height), angle.
var defaultUnits = []string{"", quantity.Degree, quantity.Degree, quantity.Arcsecond, quantity.Arcsecond, quantity.Degree}

// positionUnit is the unit of an unitless coordinate.
func positionUnit(st *parserState) string {
	if st.pixelCoord {
		return quantity.Pixel
	}
	return quantity.Degree
}

// angleDegrees returns an angle parameter in degrees.
func angleDegrees(q quantity.Quantity) float64 {
	if q.IsAngle() {
		v, _ := q.Convert(quantity.Degree)
		return v
	}
	return q.Value
}

// importPoint reads "point x y", "point(x,y)" and marker forms such as
// "circle point x y".
func (im *Importer) importPoint(st *parserState, params []string, name string) {
	first := 1
	if len(params) > 1 && params[1] == "point" {
		first = 2
	} else if params[0] != "point" {
		st.addError(KindSyntax, "point", "point syntax error.")
		return
	}
	if len(params) < first+2 {
		st.addError(KindSyntax, "point", "point syntax error.")
		return
	}

	var coords [2]quantity.Quantity
	for i := 0; i < 2; i++ {
		q, ok := im.readParameter(st, "point", params[first+i], i == 1)
		if !ok {
			return
		}
		if q.Unit == "" {
			q.Unit = positionUnit(st)
		}
		coords[i] = q
	}

	p, err := im.toPixel(st, coords[0], coords[1])
	if err != nil {
		im.conversionFailed(st, "point")
		return
	}

	st.addRegion(region.Record{
		Kind:          region.Point,
		ControlPoints: []region.Vec2{p},
		Name:          name,
		FileID:        im.fileID,
	})
}

// importCircle reads circle(x, y, r) as an ellipse with equal radii.
func (im *Importer) importCircle(st *parserState, params []string, name string) {
	if len(params) < 4 {
		st.addError(KindSyntax, "circle", "circle syntax error.")
		return
	}
	im.importEllipse(st, []string{"ellipse", params[1], params[2], params[3], params[3]}, name)
}

// importEllipse reads ellipse(x, y, r1, r2 [, angle]). Identical radius
// tokens make a circle, whose rotation is always 0.
func (im *Importer) importEllipse(st *parserState, params []string, name string) {
	if !im.checkCenterSize(st, "ellipse", params) {
		return
	}
	isCircle := params[3] == params[4]

	points, rotation, ok := im.readCenterSize(st, "ellipse", params)
	if !ok {
		return
	}

	if isCircle {
		rotation = 0
	} else {
		rotation -= 90
		if rotation < 0 {
			rotation += 360
		}
	}

	st.addRegion(region.Record{
		Kind:          region.Ellipse,
		ControlPoints: points,
		Rotation:      rotation,
		Name:          name,
		FileID:        im.fileID,
	})
}

// importBox reads box(x, y, width, height [, angle]).
func (im *Importer) importBox(st *parserState, params []string, name string) {
	if !im.checkCenterSize(st, "box", params) {
		return
	}

	points, rotation, ok := im.readCenterSize(st, "box", params)
	if !ok {
		return
	}

	st.addRegion(region.Record{
		Kind:          region.Rectangle,
		ControlPoints: points,
		Rotation:      rotation,
		Name:          name,
		FileID:        im.fileID,
	})
}

// checkCenterSize enforces the 5 or 6 token form. More tokens are the
// annulus variants.
func (im *Importer) checkCenterSize(st *parserState, shape string, params []string) bool {
	switch n := len(params); {
	case n == 5 || n == 6:
		return true
	case n > 6:
		st.addError(KindUnsupported, shape, "Unsupported "+shape+" definition.")
	default:
		st.addError(KindSyntax, shape, shape+" syntax error.")
	}
	return false
}

// readCenterSize reads the center, size and optional angle of an ellipse or
// box and converts them to pixel control points. Sizes are converted per
// axis as lengths, not through the point transform.
func (im *Importer) readCenterSize(st *parserState, shape string, params []string) ([]region.Vec2, float64, bool) {
	n := len(params)
	qs := make([]quantity.Quantity, n)
	for i := 1; i < n; i++ {
		q, ok := im.readParameter(st, shape, params[i], i == 2)
		if !ok {
			return nil, 0, false
		}
		if q.Unit == "" {
			if i == n-1 || !st.pixelCoord {
				q.Unit = defaultUnits[i]
			} else {
				q.Unit = quantity.Pixel
			}
		}
		qs[i] = q
	}

	rotation := 0.0
	if n == 6 {
		rotation = angleDegrees(qs[5])
	}

	if st.pixelCoord {
		return []region.Vec2{
			{X: qs[1].Value, Y: qs[2].Value},
			{X: qs[3].Value, Y: qs[4].Value},
		}, rotation, true
	}

	center, err := im.toPixel(st, qs[1], qs[2])
	if err != nil {
		im.conversionFailed(st, shape)
		return nil, 0, false
	}
	width, err := im.cs.WorldToPixelLength(qs[3], 0)
	if err != nil {
		im.conversionFailed(st, shape)
		return nil, 0, false
	}
	height, err := im.cs.WorldToPixelLength(qs[4], 1)
	if err != nil {
		im.conversionFailed(st, shape)
		return nil, 0, false
	}

	return []region.Vec2{center, {X: width, Y: height}}, rotation, true
}

// importPolygon reads polygon(x1, y1, x2, y2, x3, y3, ...). Every vertex must
// convert or the polygon is dropped.
func (im *Importer) importPolygon(st *parserState, params []string, name string) {
	n := len(params)
	if n%2 != 1 {
		st.addError(KindSyntax, "polygon", "polygon syntax error, odd number of arguments.")
		return
	}
	if n < 7 {
		st.addError(KindSyntax, "polygon", "polygon syntax error.")
		return
	}

	qs := make([]quantity.Quantity, 0, n-1)
	for i := 1; i < n; i++ {
		q, ok := im.readParameter(st, "polygon", params[i], i%2 == 0)
		if !ok {
			return
		}
		if q.Unit == "" {
			q.Unit = positionUnit(st)
		}
		qs = append(qs, q)
	}

	vertices := make([]region.Vec2, 0, len(qs)/2)
	for i := 0; i < len(qs); i += 2 {
		p, err := im.toPixel(st, qs[i], qs[i+1])
		if err != nil {
			im.conversionFailed(st, "polygon")
			return
		}
		vertices = append(vertices, p)
	}

	st.addRegion(region.Record{
		Kind:          region.Polygon,
		ControlPoints: vertices,
		Name:          name,
		FileID:        im.fileID,
	})
}
