package coordsys

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SidecarSuffix is appended to an image path to find its coordinate system.
const SidecarSuffix = ".wcs.yaml"

// yamlSystem is the on-disk form of a System.
//
//	frame: J2000
//	projection: TAN
//	crval: [187.5, 12.4]
//	crpix: [255.5, 255.5]
//	cdelt: [-0.000277778, 0.000277778]
//	crota: 0
type yamlSystem struct {
	Frame      string    `yaml:"frame"`
	Projection string    `yaml:"projection"`
	CRVal      []float64 `yaml:"crval"`
	CRPix      []float64 `yaml:"crpix"`
	CDelt      []float64 `yaml:"cdelt"`
	CRota      float64   `yaml:"crota"`
	Units      []string  `yaml:"units"`
}

// LoadSidecar reads a coordinate system description from a YAML file.
func LoadSidecar(path string) (*System, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coordinate system: %w", err)
	}
	return ParseSidecar(b)
}

// ParseSidecar decodes a YAML coordinate system description.
func ParseSidecar(b []byte) (*System, error) {
	var dto yamlSystem
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode coordinate system: %w", err)
	}
	return mapSystem(dto)
}

// FindSidecar returns the coordinate system stored next to an image, or a
// pixel-only system when there is none.
func FindSidecar(imagePath string) (*System, error) {
	path := imagePath + SidecarSuffix
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return PixelOnly(), nil
		}
		return nil, fmt.Errorf("failed to stat coordinate system: %w", err)
	}
	return LoadSidecar(path)
}

// Resolve returns the coordinate system of an image: an explicit YAML file
// first, then the image sidecar, then a pixel-only system.
func Resolve(imagePath, wcsPath string) (*System, error) {
	switch {
	case wcsPath != "":
		return LoadSidecar(wcsPath)
	case imagePath != "":
		return FindSidecar(imagePath)
	}
	return PixelOnly(), nil
}

func mapSystem(dto yamlSystem) (*System, error) {
	projection := strings.ToUpper(strings.TrimSpace(dto.Projection))
	if projection == "" && dto.Frame != "" {
		projection = ProjectionTAN
	}
	if projection == ProjectionNone {
		return PixelOnly(), nil
	}

	crval, err := pair("crval", dto.CRVal)
	if err != nil {
		return nil, err
	}
	crpix, err := pair("crpix", dto.CRPix)
	if err != nil {
		return nil, err
	}
	cdelt, err := pair("cdelt", dto.CDelt)
	if err != nil {
		return nil, err
	}

	switch projection {
	case ProjectionTAN:
		return NewCelestial(strings.ToUpper(dto.Frame), crval, crpix, cdelt, dto.CRota)
	case ProjectionLinear:
		var units [2]string
		copy(units[:], dto.Units)
		return NewLinear(crval, crpix, cdelt, units)
	default:
		return nil, fmt.Errorf("unsupported projection: %s", dto.Projection)
	}
}

func pair(name string, values []float64) ([2]float64, error) {
	if len(values) != 2 {
		return [2]float64{}, fmt.Errorf("%s must have 2 values, got %d", name, len(values))
	}
	return [2]float64{values[0], values[1]}, nil
}
