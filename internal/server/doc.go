// Package server implements the MCP (Model Context Protocol) server for DS9
// region tools.
//
// This package provides a JSON-RPC 2.0 server that exposes region import,
// export and measurement through the MCP protocol. Regions travel as pixel
// region records; the DS9 text format and world coordinates only appear at
// the file boundary.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Images:
//   - image_load: Load an image and describe its channels and coordinate system
//
// Region files:
//   - region_import: Parse a DS9 region file into pixel regions
//   - region_export: Write pixel regions as a DS9 region file
//   - region_export_begin: Open an export session
//   - region_export_add: Add regions to a session
//   - region_export_flush: Write a session and close it
//
// Region analysis:
//   - region_stats: Pixel statistics inside regions
//   - region_histogram: Pixel histogram inside one region
//   - region_cutout: PNG cutout of a region's bounding box
//
// # Coordinate Systems
//
// World coordinates need a coordinate system for the image. It is read from
// a YAML file next to the image (<image>.wcs.yaml) or from an explicit wcs
// argument. Images without one are pixel only: world coordinates in region
// files fail to import and world export is rejected.
//
// # Export Sessions
//
// region_export_begin returns a UUID session id. The exporter behind it keeps
// its header and region lines until region_export_flush writes them. Flushing
// a session without regions fails and leaves the session open.
//
// # Caching
//
// Decoded images and their channel planes are cached by path for the
// lifetime of the process. Histograms are cached per image and region, and
// reused while the channel, stokes index and bin count match.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Lines of a region file that cannot be imported are not tool failures. They
// are returned with the imported regions as structured errors, and their
// legacy newline-joined text in the message field.
//
// # Logging
//
// Logs go to stderr; stdout carries the protocol. Setting
// REGION_MCP_LOG_LEVEL=debug logs each request and import summary.
package server
