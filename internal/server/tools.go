package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// regionSchema describes one pixel region record.
func regionSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"kind": map[string]interface{}{
				"type": "string",
				"enum": []string{"point", "rectangle", "ellipse", "polygon"},
			},
			"control_points": map[string]interface{}{
				"type":        "array",
				"description": "Point: [center]. Rectangle: [center, {x: width, y: height}]. Ellipse: [center, {x: r1, y: r2}]. Polygon: vertices.",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"x": map[string]interface{}{"type": "number"},
						"y": map[string]interface{}{"type": "number"},
					},
					"required": []string{"x", "y"},
				},
			},
			"rotation": map[string]interface{}{
				"type":        "number",
				"description": "Rotation in degrees. Default 0",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Optional region name, written as text={name}",
			},
		},
		"required": []string{"kind", "control_points"},
	}
}

// coordinateProperties are the shared image and coordinate system arguments.
func coordinateProperties(props map[string]interface{}) map[string]interface{} {
	props["image"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image the regions belong to. Its coordinate system is read from <image>.wcs.yaml when present.",
	}
	props["wcs"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path to a coordinate system YAML file, overriding the image sidecar",
	}
	return props
}

func styleProperties(props map[string]interface{}) map[string]interface{} {
	props["space"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"pixel", "world"},
		"description": "Write pixel coordinates or world coordinates in the image frame. Default pixel",
		"default":     "pixel",
	}
	props["color"] = map[string]interface{}{
		"type":        "string",
		"description": "Global region color: a DS9 color name or #rrggbb. Default green",
	}
	props["font"] = map[string]interface{}{
		"type":        "string",
		"description": "Global region font. Default \"helvetica 10 normal roman\"",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Images
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, pixel channels and coordinate system.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"wcs": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to a coordinate system YAML file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Region files
		{
			Name:        "region_import",
			Description: "Parse a DS9 region file into pixel regions for an image. Lines that cannot be imported are reported as errors; the rest are still returned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": coordinateProperties(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a .reg or .reg.xz file",
					},
					"contents": map[string]interface{}{
						"type":        "string",
						"description": "Region file contents, used when path is not given",
					},
					"file_id": map[string]interface{}{
						"type":        "integer",
						"description": "Identifier stored on every imported region. Default 0",
					},
				}),
			},
		},
		{
			Name:        "region_export",
			Description: "Write pixel regions to a DS9 region file. Without an output path the file contents are returned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": styleProperties(coordinateProperties(map[string]interface{}{
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Destination path; a .xz suffix compresses the file",
					},
					"regions": map[string]interface{}{
						"type":  "array",
						"items": regionSchema(),
					},
					"compact": map[string]interface{}{
						"type":        "boolean",
						"description": "Write pixel coordinates with two decimals directly from the records",
					},
				})),
				"required": []string{"regions"},
			},
		},
		{
			Name:        "region_export_begin",
			Description: "Start an export session. Returns a session id for region_export_add and region_export_flush.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": styleProperties(coordinateProperties(map[string]interface{}{
					"compact": map[string]interface{}{
						"type":        "boolean",
						"description": "Write pixel coordinates with two decimals directly from the records",
					},
				})),
			},
		},
		{
			Name:        "region_export_add",
			Description: "Add regions to an export session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": map[string]interface{}{
						"type":        "string",
						"description": "Session id from region_export_begin",
					},
					"regions": map[string]interface{}{
						"type":  "array",
						"items": regionSchema(),
					},
				},
				"required": []string{"session", "regions"},
			},
		},
		{
			Name:        "region_export_flush",
			Description: "Write an export session to a file, or return its contents, and close the session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session": map[string]interface{}{
						"type":        "string",
						"description": "Session id from region_export_begin",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Destination path; a .xz suffix compresses the file",
					},
				},
				"required": []string{"session"},
			},
		},

		// Region analysis
		{
			Name:        "region_stats",
			Description: "Compute pixel statistics inside regions of an image. Regions are given directly or imported from a region file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": coordinateProperties(map[string]interface{}{
					"regions": map[string]interface{}{
						"type":  "array",
						"items": regionSchema(),
					},
					"region_file": map[string]interface{}{
						"type":        "string",
						"description": "DS9 region file whose regions are measured",
					},
					"channel": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"luminance", "red", "green", "blue"},
						"description": "Pixel channel. Default luminance",
					},
					"stats": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Statistics: num_pixels, sum, mean, rms, sigma, sum_sq, min, max, blc, trc, min_pos, max_pos. Default all",
					},
				}),
				"required": []string{"image"},
			},
		},
		{
			Name:        "region_histogram",
			Description: "Histogram of pixel values inside one region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": regionSchema(),
					"channels": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "string",
							"enum": []string{"luminance", "red", "green", "blue"},
						},
						"description": "Pixel channels to histogram. Default [luminance]",
					},
					"stokes": map[string]interface{}{
						"type":        "integer",
						"description": "Stokes index. Only 0 is available for raster images",
					},
					"bins": map[string]interface{}{
						"type":        "integer",
						"description": "Number of bins. Default is the square root of the region pixel count",
					},
				},
				"required": []string{"image", "region"},
			},
		},
		{
			Name:        "region_cutout",
			Description: "Crop the bounding box of a region from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": regionSchema(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"image", "region"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
