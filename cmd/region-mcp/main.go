// Command region-mcp serves DS9 region tools over MCP and converts region
// files from the command line.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/region-tools-mcp/internal/coordsys"
	"github.com/ironsheep/region-tools-mcp/internal/ds9"
	"github.com/ironsheep/region-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// CLI defines the command-line interface for region-mcp.
var CLI struct {
	LogLevel string `name:"log-level" env:"REGION_MCP_LOG_LEVEL" default:"info" help:"Log level; debug logs every request"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the MCP server on stdin/stdout (default)"`
	Convert ConvertCmd `cmd:"" help:"Re-export a DS9 region file in pixel or world coordinates"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ServeCmd runs the MCP server.
type ServeCmd struct{}

func (c *ServeCmd) Run() error {
	debug := CLI.LogLevel == "debug"
	if debug {
		log.Printf("Region MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	srv := server.New()
	srv.SetDebug(debug)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// ConvertCmd imports a region file against an image and exports it again.
type ConvertCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Region file to convert (.reg or .reg.xz)"`
	Image  string `type:"path" help:"Image the regions belong to; <image>.wcs.yaml supplies its coordinate system"`
	WCS    string `name:"wcs" type:"existingfile" help:"Coordinate system YAML file, overriding the image sidecar"`
	Space  string `enum:"pixel,world" default:"pixel" help:"Coordinates to write (pixel, world)"`
	Output string `short:"o" type:"path" help:"Output file; a .xz suffix compresses it. Default stdout"`
	Color  string `default:"green" help:"Global region color"`
	FileID int    `name:"file-id" default:"0" help:"File id stored on imported regions"`
}

func (c *ConvertCmd) Run() error {
	cs, err := coordsys.Resolve(c.Image, c.WCS)
	if err != nil {
		return err
	}

	res, err := ds9.NewImporter(cs, c.FileID).ImportFile(c.Input)
	if err != nil {
		return err
	}
	for _, ie := range res.Errors {
		log.Printf("%s: %v", c.Input, &ie)
	}

	space, err := ds9.ParseCoordinateSpace(c.Space)
	if err != nil {
		return err
	}
	e, err := ds9.NewExporter(cs, space, ds9.Style{Color: c.Color})
	if err != nil {
		return err
	}
	for _, rec := range res.Regions {
		points, rotation, err := ds9.ToQuantities(rec, cs, space)
		if err != nil {
			return err
		}
		if err := e.AddQuantityRegion(rec.Name, rec.Kind, points, rotation); err != nil {
			return err
		}
	}

	if c.Output != "" {
		if err := e.Export(c.Output); err != nil {
			return err
		}
		if CLI.LogLevel == "debug" {
			log.Printf("wrote %d regions to %s (%d lines failed)", e.Count(), c.Output, len(res.Errors))
		}
		return nil
	}
	return writeLines(os.Stdout, e)
}

func writeLines(w io.Writer, e *ds9.Exporter) error {
	lines, err := e.Lines()
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("failed to write regions: %w", err)
		}
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("region-tools-mcp %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	return nil
}

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	ctx := kong.Parse(&CLI,
		kong.Name("region-mcp"),
		kong.Description("MCP server and converter for DS9 region files"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
