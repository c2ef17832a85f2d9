package ds9

import (
	"fmt"
	"strings"

	"github.com/ironsheep/region-tools-mcp/internal/quantity"
	"github.com/ironsheep/region-tools-mcp/internal/region"
)

// Importer converts DS9 region lines into region records for one image.
type Importer struct {
	cs     CoordinateSystem
	fileID int
	frames frameMap
}

// Result holds the outcome of one import.
type Result struct {
	Regions []region.Record `json:"regions"`
	Errors  []ImportError   `json:"errors,omitempty"`
	// FileFrame is the canonical frame active at the end of the file.
	FileFrame string `json:"file_frame"`
	// ImageFrame is the image frame, resolved on the first world declaration.
	ImageFrame string `json:"image_frame,omitempty"`
}

// ErrorText returns every error message, one per line.
func (r *Result) ErrorText() string {
	return errorText(r.Errors)
}

// parserState is the per-import state threaded through every line.
type parserState struct {
	pixelCoord bool
	fileFrame  string
	imageFrame string
	frameOK    bool
	line       int
	regions    []region.Record
	errors     []ImportError
}

func newParserState() *parserState {
	return &parserState{
		pixelCoord: true,
		fileFrame:  framePixel,
		frameOK:    true,
	}
}

func (st *parserState) addError(kind ErrorKind, shape, message string) {
	st.errors = append(st.errors, ImportError{
		Line:    st.line,
		Shape:   shape,
		Kind:    kind,
		Message: message,
	})
}

func (st *parserState) addImportError(ie *ImportError) {
	ie.Line = st.line
	st.errors = append(st.errors, *ie)
}

func (st *parserState) addRegion(rec region.Record) {
	st.regions = append(st.regions, rec)
}

// NewImporter returns an importer for the image described by cs. Regions are
// tagged with fileID.
func NewImporter(cs CoordinateSystem, fileID int) *Importer {
	return &Importer{
		cs:     cs,
		fileID: fileID,
		frames: newFrameMap(),
	}
}

// Import processes region file lines in order.
func (im *Importer) Import(lines []string) *Result {
	st := newParserState()
	for i, line := range lines {
		st.line = i + 1
		im.processLine(st, strings.TrimSpace(line))
	}

	return &Result{
		Regions:    st.regions,
		Errors:     st.errors,
		FileFrame:  st.fileFrame,
		ImageFrame: st.imageFrame,
	}
}

// ImportString imports region file contents held in memory.
func (im *Importer) ImportString(contents string) *Result {
	return im.Import(SplitRegionLines(contents))
}

// ImportFile imports a region file from disk.
func (im *Importer) ImportFile(path string) (*Result, error) {
	lines, err := ReadRegionFile(path)
	if err != nil {
		return nil, err
	}
	return im.Import(lines), nil
}

func (im *Importer) processLine(st *parserState, line string) {
	if line == "" || line[0] == '#' || line[0] == '-' || strings.Contains(line, "global") {
		return
	}

	if im.frames.isDeclaration(line) {
		st.frameOK = im.frames.setFileFrame(st, im.cs, line)
		if !st.frameOK {
			st.addError(KindFrame, "", fmt.Sprintf("coord sys %s not supported.", strings.ToLower(line)))
		}
		return
	}

	if st.frameOK {
		im.setRegion(st, line)
	}
}

// shapeHandler imports one DS9 shape keyword.
type shapeHandler struct {
	keyword string
	match   func(shape string, params []string) bool
	run     func(im *Importer, st *parserState, params []string, name string)
}

// containsKeyword matches shape names that contain the keyword, so DS9
// variants such as "ellipse2" reach the same handler.
func containsKeyword(keyword string) func(string, []string) bool {
	return func(shape string, _ []string) bool {
		return strings.Contains(shape, keyword)
	}
}

// shapeHandlers are tried in order; the first match wins.
var shapeHandlers = []shapeHandler{
	{
		keyword: "point",
		match: func(shape string, params []string) bool {
			return strings.Contains(shape, "point") || (len(params) > 1 && params[1] == "point")
		},
		run: (*Importer).importPoint,
	},
	{keyword: "circle", match: containsKeyword("circle"), run: (*Importer).importCircle},
	{keyword: "ellipse", match: containsKeyword("ellipse"), run: (*Importer).importEllipse},
	{keyword: "box", match: containsKeyword("box"), run: (*Importer).importBox},
	{keyword: "polygon", match: containsKeyword("polygon"), run: (*Importer).importPolygon},
	{keyword: "line", match: containsKeyword("line"), run: unsupportedShape("line", "DS9 line region not supported.")},
	{keyword: "vector", match: containsKeyword("vector"), run: unsupportedShape("vector", "DS9 vector region not supported.")},
	{keyword: "text", match: containsKeyword("text"), run: unsupportedShape("text", "DS9 text not supported.")},
	{keyword: "annulus", match: containsKeyword("annulus"), run: unsupportedShape("annulus", "DS9 annulus region not supported.")},
}

// isShapeKeyword reports whether word names a shape the importer recognizes.
func isShapeKeyword(word string) bool {
	for _, h := range shapeHandlers {
		if strings.Contains(word, h.keyword) {
			return true
		}
	}
	return false
}

func unsupportedShape(shape, message string) func(*Importer, *parserState, []string, string) {
	return func(_ *Importer, st *parserState, _ []string, _ string) {
		st.addError(KindUnsupported, shape, message)
	}
}

func (im *Importer) setRegion(st *parserState, line string) {
	params, props, err := splitDefinition(line)
	if err != nil {
		st.addError(KindSyntax, "", err.Error())
		return
	}
	if len(params) == 0 {
		return
	}

	// A leading '+' or '-' marks an included or excluded region; exclusion
	// does not change the imported geometry.
	params[0] = strings.TrimLeft(params[0], "+-")
	shape := params[0]
	name := props["text"]

	for _, h := range shapeHandlers {
		if h.match(shape, params) {
			h.run(im, st, params, name)
			return
		}
	}
}

// readParameter validates and reads one shape parameter. Latitude parameters
// read colon sexagesimal values as degrees.
func (im *Importer) readParameter(st *parserState, shape, token string, latitude bool) (quantity.Quantity, bool) {
	norm, ierr := normalizeParameter(token, shape)
	if ierr != nil {
		st.addImportError(ierr)
		return quantity.Quantity{}, false
	}
	if latitude {
		norm = latitudeForm(norm)
	}

	q, err := quantity.Parse(norm)
	if err != nil {
		st.addError(KindFormat, shape, fmt.Sprintf("Invalid %s parameter: %s.", shape, norm))
		return quantity.Quantity{}, false
	}
	return q, true
}

// toPixel converts a position to pixel coordinates of the image.
func (im *Importer) toPixel(st *parserState, x, y quantity.Quantity) (region.Vec2, error) {
	if st.pixelCoord {
		return region.Vec2{X: x.Value, Y: y.Value}, nil
	}
	if im.cs == nil {
		return region.Vec2{}, fmt.Errorf("no coordinate system")
	}
	return im.cs.PointToPixel(st.fileFrame, []quantity.Quantity{x, y})
}

func (im *Importer) conversionFailed(st *parserState, shape string) {
	st.addError(KindConversion, shape, fmt.Sprintf("Failed to apply %s to image.", shape))
}
