// Package wkt provides Well-Known Text support for the orb geometry library.
// It parses WKT text into a typed geometry tree with 2, 3, and 4-dimensional
// coordinates, writes that tree back in canonical form, and converts between
// the tree and orb.Geometry / geojson values.
package wkt

import (
	"errors"
	"fmt"
)

// Parse errors. Every parse failure wraps one of these sentinels inside a
// *ParseError carrying the byte position, so callers can test with errors.Is.
var (
	ErrUnexpectedCharacter = errors.New("wkt: unexpected character")
	ErrUnexpectedToken     = errors.New("wkt: unexpected token")
	ErrInvalidNumber       = errors.New("wkt: invalid number")
	ErrDimensionMismatch   = errors.New("wkt: dimension mismatch")
	ErrUnknownGeometryTag  = errors.New("wkt: unknown geometry tag")
	ErrUnexpectedEOF       = errors.New("wkt: unexpected end of input")
	ErrNestingTooDeep      = errors.New("wkt: nesting depth limit exceeded")
)

// Conversion errors. Conversion failures wrap one of these sentinels inside
// a *ConversionError naming the violated constraint.
var (
	ErrEmptyGeometry        = errors.New("wkt: empty geometry")
	ErrEmptyRing            = errors.New("wkt: empty polygon ring")
	ErrRingTooShort         = errors.New("wkt: polygon ring has fewer than 4 coordinates")
	ErrRingNotClosed        = errors.New("wkt: polygon ring is not closed")
	ErrDimensionUnsupported = errors.New("wkt: dimension not representable in target type")
	ErrMismatchedType       = errors.New("wkt: mismatched geometry type")
)

// ParseError is the error type returned by Parse. Pos is the byte offset of
// the offending character or token within the input.
type ParseError struct {
	Pos int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at position %d", e.Err, e.Pos)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConversionError is returned when a geometry tree cannot be converted to an
// external representation. Info describes the violated constraint.
type ConversionError struct {
	Err  error
	Info string
}

func (e *ConversionError) Error() string {
	if e.Info == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Info)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func conversionErr(err error, format string, args ...any) *ConversionError {
	return &ConversionError{Err: err, Info: fmt.Sprintf(format, args...)}
}

// Options configures parsing.
type Options struct {
	// MaxDepth bounds GEOMETRYCOLLECTION nesting. Inputs nesting deeper
	// than this fail with ErrNestingTooDeep instead of exhausting the
	// stack. Zero or negative means the default.
	MaxDepth int
}

// DefaultOptions returns default options for parsing.
func DefaultOptions() *Options {
	return &Options{
		MaxDepth: 128,
	}
}
