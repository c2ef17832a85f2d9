package ds9

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// CompressedSuffix marks region files stored xz-compressed.
const CompressedSuffix = ".xz"

// ReadRegionFile reads a region file and splits it into logical lines.
// Files ending in .xz are decompressed first.
func ReadRegionFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read region file: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(path), CompressedSuffix) {
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed region file: %w", err)
		}
		data, err = io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress region file: %w", err)
		}
	}

	return SplitRegionLines(string(data)), nil
}

// SplitRegionLines splits region file contents on newlines and on ';' outside
// comments. Each line is trimmed; empty lines are kept so line numbers stay
// stable.
func SplitRegionLines(contents string) []string {
	contents = strings.ReplaceAll(contents, "\r\n", "\n")
	var lines []string
	for _, physical := range strings.Split(contents, "\n") {
		def, comment, hasComment := strings.Cut(physical, "#")
		parts := strings.Split(def, ";")
		if hasComment {
			parts[len(parts)-1] += "#" + comment
		}
		for _, logical := range parts {
			lines = append(lines, strings.TrimSpace(logical))
		}
	}
	return lines
}

// WriteCompressed writes contents to path xz-compressed.
func WriteCompressed(path string, contents []byte) error {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := w.Write(contents); err != nil {
		return fmt.Errorf("failed to compress region file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to compress region file: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write region file: %w", err)
	}
	return nil
}
