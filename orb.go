package wkt

import (
	"github.com/paulmach/orb"
	"golang.org/x/exp/constraints"
)

// ToOrb converts a geometry tree to the equivalent orb.Geometry. orb
// geometries are strictly two-dimensional, so trees carrying Z or M
// ordinates are rejected rather than silently flattened. Polygon rings are
// validated here (not at parse time): every ring must have at least four
// coordinates and be closed.
func ToOrb[T constraints.Float](g Geometry[T]) (orb.Geometry, error) {
	switch v := g.(type) {
	case Point[T]:
		return ToOrbPoint(v)
	case LineString[T]:
		return ToOrbLineString(v)
	case Polygon[T]:
		return ToOrbPolygon(v)
	case MultiPoint[T]:
		return ToOrbMultiPoint(v)
	case MultiLineString[T]:
		return ToOrbMultiLineString(v)
	case MultiPolygon[T]:
		return ToOrbMultiPolygon(v)
	case GeometryCollection[T]:
		return ToOrbCollection(v)
	default:
		return nil, conversionErr(ErrMismatchedType, "nil or unknown geometry")
	}
}

func checkPlanar[T constraints.Float](g Geometry[T]) error {
	if dim := g.Dim(); dim != XY {
		return conversionErr(ErrDimensionUnsupported,
			"%s has dimension %s; orb geometries are XY only", g.GeometryType(), dim)
	}
	return nil
}

// ToOrbPoint converts a Point. Empty points have no orb representation and
// are rejected.
func ToOrbPoint[T constraints.Float](p Point[T]) (orb.Point, error) {
	if err := checkPlanar[T](p); err != nil {
		return orb.Point{}, err
	}
	if p.Empty() {
		return orb.Point{}, conversionErr(ErrEmptyGeometry, "empty point has no orb representation")
	}
	return orb.Point{float64(p.Coord.X), float64(p.Coord.Y)}, nil
}

// ToOrbLineString converts a LineString. An empty node becomes a zero-length
// orb.LineString.
func ToOrbLineString[T constraints.Float](l LineString[T]) (orb.LineString, error) {
	if err := checkPlanar[T](l); err != nil {
		return nil, err
	}
	return orb.LineString(coordsToOrb(l.Coords)), nil
}

// ToOrbPolygon converts a Polygon, validating ring structure.
func ToOrbPolygon[T constraints.Float](p Polygon[T]) (orb.Polygon, error) {
	if err := checkPlanar[T](p); err != nil {
		return nil, err
	}
	if p.Empty() {
		return nil, conversionErr(ErrEmptyGeometry, "polygon has no rings")
	}
	poly := make(orb.Polygon, 0, len(p.Rings))
	for i, ring := range p.Rings {
		if err := checkRing(i, ring); err != nil {
			return nil, err
		}
		poly = append(poly, orb.Ring(coordsToOrb(ring)))
	}
	return poly, nil
}

// ToOrbMultiPoint converts a MultiPoint. Empty member points are rejected
// for the same reason empty points are.
func ToOrbMultiPoint[T constraints.Float](m MultiPoint[T]) (orb.MultiPoint, error) {
	if err := checkPlanar[T](m); err != nil {
		return nil, err
	}
	mp := make(orb.MultiPoint, 0, len(m.Points))
	for i, pt := range m.Points {
		if pt.Empty() {
			return nil, conversionErr(ErrEmptyGeometry, "multipoint member %d is empty", i)
		}
		mp = append(mp, orb.Point{float64(pt.Coord.X), float64(pt.Coord.Y)})
	}
	return mp, nil
}

// ToOrbMultiLineString converts a MultiLineString.
func ToOrbMultiLineString[T constraints.Float](m MultiLineString[T]) (orb.MultiLineString, error) {
	if err := checkPlanar[T](m); err != nil {
		return nil, err
	}
	mls := make(orb.MultiLineString, 0, len(m.Lines))
	for _, line := range m.Lines {
		mls = append(mls, orb.LineString(coordsToOrb(line.Coords)))
	}
	return mls, nil
}

// ToOrbMultiPolygon converts a MultiPolygon, validating every member's
// rings. Empty member polygons are rejected like empty polygons.
func ToOrbMultiPolygon[T constraints.Float](m MultiPolygon[T]) (orb.MultiPolygon, error) {
	if err := checkPlanar[T](m); err != nil {
		return nil, err
	}
	mp := make(orb.MultiPolygon, 0, len(m.Polygons))
	for i, member := range m.Polygons {
		if member.Empty() {
			return nil, conversionErr(ErrEmptyGeometry, "multipolygon member %d has no rings", i)
		}
		poly, err := ToOrbPolygon(member)
		if err != nil {
			return nil, err
		}
		mp = append(mp, poly)
	}
	return mp, nil
}

// ToOrbCollection converts a GeometryCollection, recursing into members.
func ToOrbCollection[T constraints.Float](c GeometryCollection[T]) (orb.Collection, error) {
	coll := make(orb.Collection, 0, len(c.Geometries))
	for _, member := range c.Geometries {
		g, err := ToOrb(member)
		if err != nil {
			return nil, err
		}
		coll = append(coll, g)
	}
	return coll, nil
}

func coordsToOrb[T constraints.Float](coords []Coord[T]) []orb.Point {
	pts := make([]orb.Point, 0, len(coords))
	for _, c := range coords {
		pts = append(pts, orb.Point{float64(c.X), float64(c.Y)})
	}
	return pts
}

func checkRing[T constraints.Float](i int, ring []Coord[T]) error {
	switch {
	case len(ring) == 0:
		return conversionErr(ErrEmptyRing, "ring %d", i)
	case len(ring) < 4:
		return conversionErr(ErrRingTooShort, "ring %d has %d coordinates", i, len(ring))
	case ring[0] != ring[len(ring)-1]:
		return conversionErr(ErrRingNotClosed, "ring %d", i)
	}
	return nil
}

// FromOrb converts an orb.Geometry to a geometry tree. All orb geometries
// are planar, so the result always has dimension XY. orb.Ring and
// orb.Bound have no WKT keyword of their own and convert to Polygon. A nil
// geometry converts to nil.
func FromOrb(g orb.Geometry) Geometry[float64] {
	switch v := g.(type) {
	case orb.Point:
		return FromOrbPoint(v)
	case orb.LineString:
		return FromOrbLineString(v)
	case orb.Ring:
		return Polygon[float64]{Rings: [][]Coord[float64]{coordsFromOrb(v)}}
	case orb.Polygon:
		return FromOrbPolygon(v)
	case orb.MultiPoint:
		return FromOrbMultiPoint(v)
	case orb.MultiLineString:
		return FromOrbMultiLineString(v)
	case orb.MultiPolygon:
		return FromOrbMultiPolygon(v)
	case orb.Collection:
		return FromOrbCollection(v)
	case orb.Bound:
		return FromOrb(v.ToPolygon())
	default:
		return nil
	}
}

// FromOrbPoint converts an orb.Point.
func FromOrbPoint(p orb.Point) Point[float64] {
	return Point[float64]{Coord: &Coord[float64]{X: p[0], Y: p[1]}}
}

// FromOrbLineString converts an orb.LineString.
func FromOrbLineString(l orb.LineString) LineString[float64] {
	return LineString[float64]{Coords: coordsFromOrb(l)}
}

// FromOrbPolygon converts an orb.Polygon. A polygon with zero rings
// becomes an empty node.
func FromOrbPolygon(p orb.Polygon) Polygon[float64] {
	if len(p) == 0 {
		return Polygon[float64]{}
	}
	rings := make([][]Coord[float64], 0, len(p))
	for _, ring := range p {
		rings = append(rings, coordsFromOrb(ring))
	}
	return Polygon[float64]{Rings: rings}
}

// FromOrbMultiPoint converts an orb.MultiPoint.
func FromOrbMultiPoint(m orb.MultiPoint) MultiPoint[float64] {
	pts := make([]Point[float64], 0, len(m))
	for _, p := range m {
		pts = append(pts, FromOrbPoint(p))
	}
	return MultiPoint[float64]{Points: pts}
}

// FromOrbMultiLineString converts an orb.MultiLineString.
func FromOrbMultiLineString(m orb.MultiLineString) MultiLineString[float64] {
	lines := make([]LineString[float64], 0, len(m))
	for _, l := range m {
		lines = append(lines, FromOrbLineString(l))
	}
	return MultiLineString[float64]{Lines: lines}
}

// FromOrbMultiPolygon converts an orb.MultiPolygon.
func FromOrbMultiPolygon(m orb.MultiPolygon) MultiPolygon[float64] {
	polys := make([]Polygon[float64], 0, len(m))
	for _, p := range m {
		polys = append(polys, FromOrbPolygon(p))
	}
	return MultiPolygon[float64]{Polygons: polys}
}

// FromOrbCollection converts an orb.Collection, skipping nil members.
func FromOrbCollection(c orb.Collection) GeometryCollection[float64] {
	members := make([]Geometry[float64], 0, len(c))
	for _, g := range c {
		if converted := FromOrb(g); converted != nil {
			members = append(members, converted)
		}
	}
	return GeometryCollection[float64]{Geometries: members}
}

func coordsFromOrb(pts []orb.Point) []Coord[float64] {
	coords := make([]Coord[float64], 0, len(pts))
	for _, p := range pts {
		coords = append(coords, Coord[float64]{X: p[0], Y: p[1]})
	}
	return coords
}
