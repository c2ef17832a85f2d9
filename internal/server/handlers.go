package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/region-tools-mcp/internal/coordsys"
	"github.com/ironsheep/region-tools-mcp/internal/ds9"
	"github.com/ironsheep/region-tools-mcp/internal/imaging"
	"github.com/ironsheep/region-tools-mcp/internal/region"
	"github.com/ironsheep/region-tools-mcp/internal/stats"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "region_import", "region_stats").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Region files
	case "region_import":
		return s.handleRegionImport(args)
	case "region_export":
		return s.handleRegionExport(args)
	case "region_export_begin":
		return s.handleRegionExportBegin(args)
	case "region_export_add":
		return s.handleRegionExportAdd(args)
	case "region_export_flush":
		return s.handleRegionExportFlush(args)

	// Region analysis
	case "region_stats":
		return s.handleRegionStats(args)
	case "region_histogram":
		return s.handleRegionHistogram(args)
	case "region_cutout":
		return s.handleRegionCutout(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func parseChannel(name string) (int, error) {
	if name == "" {
		return imaging.ChannelLuminance, nil
	}
	c, ok := imaging.ChannelByName(name)
	if !ok {
		return 0, fmt.Errorf("unknown channel %q (want one of %v)", name, imaging.ChannelNames())
	}
	return c, nil
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
	WCS  string `json:"wcs"`
}

type imageLoadResult struct {
	*imaging.ImageInfo
	CoordinateSystem string `json:"coordinate_system"`
	Frame            string `json:"frame,omitempty"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	cs, err := coordsys.Resolve(a.Path, a.WCS)
	if err != nil {
		return nil, err
	}
	return &imageLoadResult{
		ImageInfo:        info,
		CoordinateSystem: cs.String(),
		Frame:            cs.CelestialFrame(),
	}, nil
}

// === Region File Handlers ===

type regionImportArgs struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
	Image    string `json:"image"`
	WCS      string `json:"wcs"`
	FileID   int    `json:"file_id"`
}

type regionImportResult struct {
	*ds9.Result
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleRegionImport(args json.RawMessage) (interface{}, error) {
	var a regionImportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" && a.Contents == "" {
		return nil, errors.New("path or contents is required")
	}

	cs, err := coordsys.Resolve(a.Image, a.WCS)
	if err != nil {
		return nil, err
	}

	res, err := s.importRegions(cs, a.Path, a.Contents, a.FileID)
	if err != nil {
		return nil, err
	}
	return &regionImportResult{
		Result:  res,
		Count:   len(res.Regions),
		Message: res.ErrorText(),
	}, nil
}

func (s *Server) importRegions(cs *coordsys.System, path, contents string, fileID int) (*ds9.Result, error) {
	importer := ds9.NewImporter(cs, fileID)

	var res *ds9.Result
	if path != "" {
		var err error
		res, err = importer.ImportFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		res = importer.ImportString(contents)
	}

	s.debugf("imported %d regions, %d errors, file frame %q", len(res.Regions), len(res.Errors), res.FileFrame)
	return res, nil
}

// exportOptions are shared by region_export and region_export_begin.
type exportOptions struct {
	Image   string `json:"image"`
	WCS     string `json:"wcs"`
	Space   string `json:"space"`
	Color   string `json:"color"`
	Font    string `json:"font"`
	Compact bool   `json:"compact"`
}

func (o exportOptions) newExporter() (*ds9.Exporter, *coordsys.System, error) {
	space, err := ds9.ParseCoordinateSpace(o.Space)
	if err != nil {
		return nil, nil, err
	}
	if o.Compact && space != ds9.Pixel {
		return nil, nil, errors.New("compact output is only available in pixel space")
	}

	cs, err := coordsys.Resolve(o.Image, o.WCS)
	if err != nil {
		return nil, nil, err
	}

	e, err := ds9.NewExporter(cs, space, ds9.Style{Color: o.Color, Font: o.Font})
	if err != nil {
		return nil, nil, err
	}
	return e, cs, nil
}

func addRegions(e *ds9.Exporter, cs ds9.WorldConverter, compact bool, regions []region.Record) error {
	for i, rec := range regions {
		if compact {
			if err := e.AddRegion(rec); err != nil {
				return fmt.Errorf("region %d: %w", i, err)
			}
			continue
		}

		points, rotation, err := ds9.ToQuantities(rec, cs, e.Space())
		if err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
		if err := e.AddQuantityRegion(rec.Name, rec.Kind, points, rotation); err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
	}
	return nil
}

type exportResult struct {
	Path      string `json:"path,omitempty"`
	Contents  string `json:"contents,omitempty"`
	Count     int    `json:"count"`
	FileFrame string `json:"file_frame"`
}

// finishExport writes e to output, or returns the contents when output is
// empty.
func finishExport(e *ds9.Exporter, output string) (*exportResult, error) {
	result := &exportResult{Count: e.Count(), FileFrame: e.FileFrame()}
	if output != "" {
		if err := e.Export(output); err != nil {
			return nil, err
		}
		result.Path = output
		return result, nil
	}

	if _, err := e.Lines(); err != nil {
		return nil, err
	}
	result.Contents = e.String()
	return result, nil
}

type regionExportArgs struct {
	exportOptions
	Output  string          `json:"output"`
	Regions []region.Record `json:"regions"`
}

func (s *Server) handleRegionExport(args json.RawMessage) (interface{}, error) {
	var a regionExportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	e, cs, err := a.newExporter()
	if err != nil {
		return nil, err
	}
	if err := addRegions(e, cs, a.Compact, a.Regions); err != nil {
		return nil, err
	}

	s.debugf("exporting %d regions in %s space", e.Count(), e.Space())
	return finishExport(e, a.Output)
}

type sessionResult struct {
	Session   string `json:"session"`
	Space     string `json:"space"`
	FileFrame string `json:"file_frame"`
	Count     int    `json:"count"`
}

func (s *Server) handleRegionExportBegin(args json.RawMessage) (interface{}, error) {
	var a exportOptions
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	e, cs, err := a.newExporter()
	if err != nil {
		return nil, err
	}
	sess := s.sessions.open(e, cs, a.Compact)
	s.debugf("export session %s opened (%d open)", sess.id, s.sessions.count())

	return &sessionResult{
		Session:   sess.id,
		Space:     e.Space().String(),
		FileFrame: e.FileFrame(),
	}, nil
}

type regionExportAddArgs struct {
	Session string          `json:"session"`
	Regions []region.Record `json:"regions"`
}

func (s *Server) handleRegionExportAdd(args json.RawMessage) (interface{}, error) {
	var a regionExportAddArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	sess, err := s.sessions.get(a.Session)
	if err != nil {
		return nil, err
	}
	if err := addRegions(sess.exporter, sess.cs, sess.compact, a.Regions); err != nil {
		return nil, err
	}

	return &sessionResult{
		Session:   sess.id,
		Space:     sess.exporter.Space().String(),
		FileFrame: sess.exporter.FileFrame(),
		Count:     sess.exporter.Count(),
	}, nil
}

type regionExportFlushArgs struct {
	Session string `json:"session"`
	Output  string `json:"output"`
}

// handleRegionExportFlush writes the session and closes it. A session with
// no regions stays open.
func (s *Server) handleRegionExportFlush(args json.RawMessage) (interface{}, error) {
	var a regionExportFlushArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	sess, err := s.sessions.get(a.Session)
	if err != nil {
		return nil, err
	}
	result, err := finishExport(sess.exporter, a.Output)
	if err != nil {
		return nil, err
	}

	s.sessions.close(sess.id)
	s.debugf("export session %s flushed with %d regions", sess.id, result.Count)
	return result, nil
}

// === Region Analysis Handlers ===

type regionStatsArgs struct {
	Image      string          `json:"image"`
	WCS        string          `json:"wcs"`
	Regions    []region.Record `json:"regions"`
	RegionFile string          `json:"region_file"`
	Channel    string          `json:"channel"`
	Stats      []string        `json:"stats"`
}

type regionStats struct {
	Index int           `json:"index"`
	Name  string        `json:"name,omitempty"`
	Kind  region.Kind   `json:"kind"`
	Stats []stats.Value `json:"stats,omitempty"`
	Error string        `json:"error,omitempty"`
}

type regionStatsResult struct {
	Channel      string            `json:"channel"`
	Regions      []regionStats     `json:"regions"`
	ImportErrors []ds9.ImportError `json:"import_errors,omitempty"`
}

func (s *Server) handleRegionStats(args json.RawMessage) (interface{}, error) {
	var a regionStatsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Image == "" {
		return nil, errors.New("image is required")
	}

	channel, err := parseChannel(a.Channel)
	if err != nil {
		return nil, err
	}
	types := stats.AllTypes()
	if len(a.Stats) > 0 {
		types = types[:0]
		for _, name := range a.Stats {
			t, err := stats.ParseType(name)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
	}

	result := &regionStatsResult{Channel: imaging.ChannelNames()[channel]}
	regions := a.Regions
	if a.RegionFile != "" {
		cs, err := coordsys.Resolve(a.Image, a.WCS)
		if err != nil {
			return nil, err
		}
		res, err := s.importRegions(cs, a.RegionFile, "", 0)
		if err != nil {
			return nil, err
		}
		regions = append(regions, res.Regions...)
		result.ImportErrors = res.Errors
	}
	if len(regions) == 0 {
		return nil, errors.New("no regions to measure")
	}

	plane, err := s.cache.Plane(a.Image, channel)
	if err != nil {
		return nil, err
	}

	calc := stats.NewCalculator()
	calc.SetStatsRequirements(types)

	for i, rec := range regions {
		rs := regionStats{Index: i, Name: rec.Name, Kind: rec.Kind}
		sample, err := stats.Extract(plane, rec)
		if err != nil {
			rs.Error = err.Error()
		} else {
			rs.Stats = calc.FillStats(sample)
		}
		result.Regions = append(result.Regions, rs)
	}
	return result, nil
}

type regionHistogramArgs struct {
	Image    string        `json:"image"`
	Region   region.Record `json:"region"`
	Channels []string      `json:"channels"`
	Stokes   int           `json:"stokes"`
	Bins     int           `json:"bins"`
}

type histogramResult struct {
	stats.Histogram
	ChannelName string  `json:"channel_name"`
	Min         float32 `json:"min"`
	Max         float32 `json:"max"`
	Cached      bool    `json:"cached"`
}

// calculator returns the calculator kept for one region of one image, so
// repeated histogram requests reuse its cache.
func (s *Server) calculator(image string, rec region.Record) *stats.Calculator {
	key, _ := json.Marshal(rec)
	id := image + "|" + string(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	calc, ok := s.calculators[id]
	if !ok {
		calc = stats.NewCalculator()
		s.calculators[id] = calc
	}
	return calc
}

func (s *Server) handleRegionHistogram(args json.RawMessage) (interface{}, error) {
	var a regionHistogramArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Image == "" {
		return nil, errors.New("image is required")
	}
	if a.Stokes != 0 {
		return nil, fmt.Errorf("stokes %d not available, raster images have a single stokes plane", a.Stokes)
	}
	if len(a.Channels) == 0 {
		a.Channels = []string{imaging.ChannelNames()[imaging.ChannelLuminance]}
	}

	configs := make([]stats.HistogramConfig, 0, len(a.Channels))
	for _, name := range a.Channels {
		channel, err := parseChannel(name)
		if err != nil {
			return nil, err
		}
		configs = append(configs, stats.HistogramConfig{Channel: channel, NumBins: a.Bins})
	}

	calc := s.calculator(a.Image, a.Region)
	calc.SetHistogramRequirements(configs)

	results := make([]histogramResult, 0, calc.NumHistogramConfigs())
	for i := 0; i < calc.NumHistogramConfigs(); i++ {
		cfg := calc.HistogramConfig(i)

		plane, err := s.cache.Plane(a.Image, cfg.Channel)
		if err != nil {
			return nil, err
		}
		sample, err := stats.Extract(plane, a.Region)
		if err != nil {
			return nil, err
		}

		bins := cfg.NumBins
		if bins <= 0 {
			bins = int(math.Max(2, math.Sqrt(float64(len(sample.Values)))))
		}

		_, cached := calc.ChannelHistogram(cfg.Channel, a.Stokes, bins)
		lo, hi := stats.MinMax(sample.Values)
		h, err := calc.FillHistogram(sample.Values, cfg.Channel, a.Stokes, bins, lo, hi)
		if err != nil {
			return nil, err
		}

		results = append(results, histogramResult{
			Histogram:   h,
			ChannelName: imaging.ChannelNames()[cfg.Channel],
			Min:         lo,
			Max:         hi,
			Cached:      cached,
		})
	}
	return results, nil
}

type regionCutoutArgs struct {
	Image  string        `json:"image"`
	Region region.Record `json:"region"`
	Scale  float64       `json:"scale"`
}

func (s *Server) handleRegionCutout(args json.RawMessage) (interface{}, error) {
	var a regionCutoutArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Image)
	if err != nil {
		return nil, err
	}
	return imaging.CropRegion(img, a.Region, a.Scale)
}
