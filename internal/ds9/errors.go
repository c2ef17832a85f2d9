package ds9

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRegions is returned when exporting before any region line was added.
var ErrNoRegions = errors.New("export region failed: no regions to export")

// ErrorKind classifies import problems.
type ErrorKind string

const (
	// KindFrame is an unsupported or unknown coordinate frame declaration.
	KindFrame ErrorKind = "frame"
	// KindSyntax is a wrong number of shape parameters.
	KindSyntax ErrorKind = "syntax"
	// KindFormat is a parameter that is not a valid number, unit or sexagesimal value.
	KindFormat ErrorKind = "format"
	// KindConversion is a world-to-pixel conversion rejected by the image coordinate system.
	KindConversion ErrorKind = "conversion"
	// KindUnsupported is a recognized DS9 construct that is not imported.
	KindUnsupported ErrorKind = "unsupported"
)

// ImportError describes one region file line that could not be imported.
type ImportError struct {
	Line    int       `json:"line"`
	Shape   string    `json:"shape,omitempty"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ImportError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// IsKind reports whether err is an ImportError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Kind == kind
	}
	return false
}

// errorText renders messages one per line, newline terminated.
func errorText(errs []ImportError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(e.Message)
		b.WriteByte('\n')
	}
	return b.String()
}
