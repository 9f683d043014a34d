package wkt

import (
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Write returns the canonical WKT text for g: upper-case keyword,
// dimension tag for non-XY geometries, EMPTY for empty bodies, comma-space
// between list elements, single space between ordinates. The numeric
// formatting uses the shortest representation that re-parses to the same
// value, so Parse(Write(g)) reproduces g exactly. A nil geometry writes
// as the empty string.
func Write[T constraints.Float](g Geometry[T]) string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	writeGeometry(&b, g)
	return b.String()
}

func (p Point[T]) String() string              { return Write[T](p) }
func (l LineString[T]) String() string         { return Write[T](l) }
func (p Polygon[T]) String() string            { return Write[T](p) }
func (m MultiPoint[T]) String() string         { return Write[T](m) }
func (m MultiLineString[T]) String() string    { return Write[T](m) }
func (m MultiPolygon[T]) String() string       { return Write[T](m) }
func (c GeometryCollection[T]) String() string { return Write[T](c) }

func writeGeometry[T constraints.Float](b *strings.Builder, g Geometry[T]) {
	writeHeader(b, g)
	if g.Empty() {
		b.WriteString("EMPTY")
		return
	}

	switch v := g.(type) {
	case Point[T]:
		b.WriteByte('(')
		writeCoord(b, *v.Coord, v.Dimension)
		b.WriteByte(')')
	case LineString[T]:
		writeCoordSeq(b, v.Coords, v.Dimension)
	case Polygon[T]:
		b.WriteByte('(')
		for i, ring := range v.Rings {
			if i > 0 {
				b.WriteString(", ")
			}
			writeCoordSeq(b, ring, v.Dimension)
		}
		b.WriteByte(')')
	case MultiPoint[T]:
		b.WriteByte('(')
		for i, pt := range v.Points {
			if i > 0 {
				b.WriteString(", ")
			}
			if pt.Empty() {
				b.WriteString("EMPTY")
				continue
			}
			b.WriteByte('(')
			writeCoord(b, *pt.Coord, v.Dimension)
			b.WriteByte(')')
		}
		b.WriteByte(')')
	case MultiLineString[T]:
		b.WriteByte('(')
		for i, line := range v.Lines {
			if i > 0 {
				b.WriteString(", ")
			}
			if line.Empty() {
				b.WriteString("EMPTY")
				continue
			}
			writeCoordSeq(b, line.Coords, v.Dimension)
		}
		b.WriteByte(')')
	case MultiPolygon[T]:
		b.WriteByte('(')
		for i, poly := range v.Polygons {
			if i > 0 {
				b.WriteString(", ")
			}
			if poly.Empty() {
				b.WriteString("EMPTY")
				continue
			}
			b.WriteByte('(')
			for j, ring := range poly.Rings {
				if j > 0 {
					b.WriteString(", ")
				}
				writeCoordSeq(b, ring, v.Dimension)
			}
			b.WriteByte(')')
		}
		b.WriteByte(')')
	case GeometryCollection[T]:
		b.WriteByte('(')
		for i, member := range v.Geometries {
			if i > 0 {
				b.WriteString(", ")
			}
			writeGeometry(b, member)
		}
		b.WriteByte(')')
	}
}

// writeHeader emits the keyword, the dimension tag when not XY, and the
// trailing space before the body or EMPTY.
func writeHeader[T constraints.Float](b *strings.Builder, g Geometry[T]) {
	b.WriteString(g.GeometryType().String())
	if suffix := g.Dim().Suffix(); suffix != "" {
		b.WriteByte(' ')
		b.WriteString(suffix)
	}
	b.WriteByte(' ')
}

func writeCoordSeq[T constraints.Float](b *strings.Builder, coords []Coord[T], dim Dimension) {
	b.WriteByte('(')
	for i, c := range coords {
		if i > 0 {
			b.WriteString(", ")
		}
		writeCoord(b, c, dim)
	}
	b.WriteByte(')')
}

func writeCoord[T constraints.Float](b *strings.Builder, c Coord[T], dim Dimension) {
	writeFloat[T](b, c.X)
	b.WriteByte(' ')
	writeFloat[T](b, c.Y)
	if dim.hasZ() {
		b.WriteByte(' ')
		writeFloat[T](b, c.Z)
	}
	if dim.hasM() {
		b.WriteByte(' ')
		writeFloat[T](b, c.M)
	}
}

func writeFloat[T constraints.Float](b *strings.Builder, v T) {
	b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, floatBits[T]()))
}

// floatBits returns the mantissa width strconv should round-trip for the
// coordinate type.
func floatBits[T constraints.Float]() int {
	if unsafe.Sizeof(T(0)) == 4 {
		return 32
	}
	return 64
}
