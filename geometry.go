package wkt

import (
	"golang.org/x/exp/constraints"
)

// GeometryType identifies one of the seven WKT geometry kinds.
type GeometryType int

const (
	GeometryTypePoint GeometryType = iota + 1
	GeometryTypeLineString
	GeometryTypePolygon
	GeometryTypeMultiPoint
	GeometryTypeMultiLineString
	GeometryTypeMultiPolygon
	GeometryTypeGeometryCollection
)

// String returns the upper-case WKT keyword for the geometry type.
func (t GeometryType) String() string {
	switch t {
	case GeometryTypePoint:
		return "POINT"
	case GeometryTypeLineString:
		return "LINESTRING"
	case GeometryTypePolygon:
		return "POLYGON"
	case GeometryTypeMultiPoint:
		return "MULTIPOINT"
	case GeometryTypeMultiLineString:
		return "MULTILINESTRING"
	case GeometryTypeMultiPolygon:
		return "MULTIPOLYGON"
	case GeometryTypeGeometryCollection:
		return "GEOMETRYCOLLECTION"
	default:
		return "UNKNOWN"
	}
}

// Dimension declares how many ordinates each coordinate of a geometry
// carries and what they mean.
type Dimension int

const (
	// XY is planar: two ordinates.
	XY Dimension = iota
	// XYZ adds elevation: three ordinates.
	XYZ
	// XYM adds a measure: three ordinates, the third is M, not Z.
	XYM
	// XYZM carries elevation and measure: four ordinates.
	XYZM
)

// Size returns the number of ordinates per coordinate.
func (d Dimension) Size() int {
	switch d {
	case XYZ, XYM:
		return 3
	case XYZM:
		return 4
	default:
		return 2
	}
}

// Suffix returns the WKT tag written after the geometry keyword, empty
// for XY.
func (d Dimension) Suffix() string {
	switch d {
	case XYZ:
		return "Z"
	case XYM:
		return "M"
	case XYZM:
		return "ZM"
	default:
		return ""
	}
}

func (d Dimension) String() string {
	switch d {
	case XYZ:
		return "XYZ"
	case XYM:
		return "XYM"
	case XYZM:
		return "XYZM"
	default:
		return "XY"
	}
}

// hasZ reports whether the third ordinate is elevation.
func (d Dimension) hasZ() bool { return d == XYZ || d == XYZM }

// hasM reports whether the coordinate carries a measure.
func (d Dimension) hasM() bool { return d == XYM || d == XYZM }

// Coord is a single coordinate. Which of Z and M are meaningful is
// determined by the Dimension of the geometry holding the coordinate; the
// unused fields are zero.
type Coord[T constraints.Float] struct {
	X, Y, Z, M T
}

// Geometry is the closed union over the seven WKT geometry kinds. The
// concrete types are Point, LineString, Polygon, MultiPoint,
// MultiLineString, MultiPolygon and GeometryCollection. Values are
// immutable trees: nothing in this package mutates a Geometry after
// construction, so concurrent reads need no synchronization.
type Geometry[T constraints.Float] interface {
	GeometryType() GeometryType
	Dim() Dimension
	Empty() bool
	String() string

	// geometry restricts implementations to this package. It returns
	// Coord[T] so that T appears in the method set and generic call
	// sites can infer it.
	geometry() Coord[T]
}

// Point holds a single coordinate, or none when empty.
type Point[T constraints.Float] struct {
	Dimension Dimension
	Coord     *Coord[T] // nil when the point is EMPTY
}

func (p Point[T]) GeometryType() GeometryType { return GeometryTypePoint }
func (p Point[T]) Dim() Dimension             { return p.Dimension }
func (p Point[T]) Empty() bool                { return p.Coord == nil }
func (p Point[T]) geometry() Coord[T]         { return Coord[T]{} }

// LineString is an ordered sequence of coordinates.
type LineString[T constraints.Float] struct {
	Dimension Dimension
	Coords    []Coord[T]
}

func (l LineString[T]) GeometryType() GeometryType { return GeometryTypeLineString }
func (l LineString[T]) Dim() Dimension             { return l.Dimension }
func (l LineString[T]) Empty() bool                { return len(l.Coords) == 0 }
func (l LineString[T]) geometry() Coord[T]         { return Coord[T]{} }

// Polygon is an ordered sequence of linear rings; the first ring is the
// exterior. The grammar does not require rings to be closed, so closure is
// checked at conversion time, not here.
type Polygon[T constraints.Float] struct {
	Dimension Dimension
	Rings     [][]Coord[T]
}

func (p Polygon[T]) GeometryType() GeometryType { return GeometryTypePolygon }
func (p Polygon[T]) Dim() Dimension             { return p.Dimension }
func (p Polygon[T]) Empty() bool                { return len(p.Rings) == 0 }
func (p Polygon[T]) geometry() Coord[T]         { return Coord[T]{} }

// MultiPoint is an ordered sequence of points, each possibly empty.
type MultiPoint[T constraints.Float] struct {
	Dimension Dimension
	Points    []Point[T]
}

func (m MultiPoint[T]) GeometryType() GeometryType { return GeometryTypeMultiPoint }
func (m MultiPoint[T]) Dim() Dimension             { return m.Dimension }
func (m MultiPoint[T]) Empty() bool                { return len(m.Points) == 0 }
func (m MultiPoint[T]) geometry() Coord[T]         { return Coord[T]{} }

// MultiLineString is an ordered sequence of line strings.
type MultiLineString[T constraints.Float] struct {
	Dimension Dimension
	Lines     []LineString[T]
}

func (m MultiLineString[T]) GeometryType() GeometryType { return GeometryTypeMultiLineString }
func (m MultiLineString[T]) Dim() Dimension             { return m.Dimension }
func (m MultiLineString[T]) Empty() bool                { return len(m.Lines) == 0 }
func (m MultiLineString[T]) geometry() Coord[T]         { return Coord[T]{} }

// MultiPolygon is an ordered sequence of polygons.
type MultiPolygon[T constraints.Float] struct {
	Dimension Dimension
	Polygons  []Polygon[T]
}

func (m MultiPolygon[T]) GeometryType() GeometryType { return GeometryTypeMultiPolygon }
func (m MultiPolygon[T]) Dim() Dimension             { return m.Dimension }
func (m MultiPolygon[T]) Empty() bool                { return len(m.Polygons) == 0 }
func (m MultiPolygon[T]) geometry() Coord[T]         { return Coord[T]{} }

// GeometryCollection is an ordered sequence of heterogeneous geometries.
// Members declare their own dimensionality and need not match the
// collection's tag.
type GeometryCollection[T constraints.Float] struct {
	Dimension  Dimension
	Geometries []Geometry[T]
}

func (c GeometryCollection[T]) GeometryType() GeometryType { return GeometryTypeGeometryCollection }
func (c GeometryCollection[T]) Dim() Dimension             { return c.Dimension }
func (c GeometryCollection[T]) Empty() bool                { return len(c.Geometries) == 0 }
func (c GeometryCollection[T]) geometry() Coord[T]         { return Coord[T]{} }
