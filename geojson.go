package wkt

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/exp/constraints"
)

// ToGeoJSON converts a geometry tree to a geojson.Geometry via the orb
// conversion layer. Only XY trees convert; geojson.Geometry wraps
// two-dimensional orb values.
func ToGeoJSON[T constraints.Float](g Geometry[T]) (*geojson.Geometry, error) {
	og, err := ToOrb(g)
	if err != nil {
		return nil, err
	}
	return geojson.NewGeometry(og), nil
}

// FromGeoJSON converts a geojson.Geometry to a geometry tree. A nil
// argument converts to nil.
func FromGeoJSON(g *geojson.Geometry) Geometry[float64] {
	if g == nil {
		return nil
	}
	return FromOrb(g.Geometry())
}

// ToValue converts a geometry tree to a GeoJSON-shaped key/value tree
// suitable for schema-less interchange. Unlike the orb bridge it preserves
// elevation: XYZ positions carry three elements and XYZM four. XYM cannot
// be represented (a bare third element always reads back as elevation) and
// is rejected.
func ToValue[T constraints.Float](g Geometry[T]) (map[string]any, error) {
	if g == nil {
		return nil, conversionErr(ErrMismatchedType, "nil or unknown geometry")
	}
	if g.Dim() == XYM {
		return nil, conversionErr(ErrDimensionUnsupported,
			"XYM has no GeoJSON-shaped representation; a third position element means elevation")
	}

	switch v := g.(type) {
	case Point[T]:
		pos := []any{}
		if !v.Empty() {
			pos = position(*v.Coord, v.Dimension)
		}
		return value("Point", pos), nil
	case LineString[T]:
		return value("LineString", positions(v.Coords, v.Dimension)), nil
	case Polygon[T]:
		rings := make([]any, 0, len(v.Rings))
		for _, ring := range v.Rings {
			rings = append(rings, positions(ring, v.Dimension))
		}
		return value("Polygon", rings), nil
	case MultiPoint[T]:
		pts := make([]any, 0, len(v.Points))
		for _, pt := range v.Points {
			if pt.Empty() {
				pts = append(pts, []any{})
				continue
			}
			pts = append(pts, position(*pt.Coord, v.Dimension))
		}
		return value("MultiPoint", pts), nil
	case MultiLineString[T]:
		lines := make([]any, 0, len(v.Lines))
		for _, line := range v.Lines {
			lines = append(lines, positions(line.Coords, v.Dimension))
		}
		return value("MultiLineString", lines), nil
	case MultiPolygon[T]:
		polys := make([]any, 0, len(v.Polygons))
		for _, poly := range v.Polygons {
			rings := make([]any, 0, len(poly.Rings))
			for _, ring := range poly.Rings {
				rings = append(rings, positions(ring, v.Dimension))
			}
			polys = append(polys, rings)
		}
		return value("MultiPolygon", polys), nil
	case GeometryCollection[T]:
		members := make([]any, 0, len(v.Geometries))
		for _, member := range v.Geometries {
			mv, err := ToValue(member)
			if err != nil {
				return nil, err
			}
			members = append(members, mv)
		}
		return map[string]any{"type": "GeometryCollection", "geometries": members}, nil
	default:
		return nil, conversionErr(ErrMismatchedType, "nil or unknown geometry")
	}
}

func value(typ string, coordinates any) map[string]any {
	return map[string]any{"type": typ, "coordinates": coordinates}
}

func position[T constraints.Float](c Coord[T], dim Dimension) []any {
	pos := []any{float64(c.X), float64(c.Y)}
	if dim.hasZ() {
		pos = append(pos, float64(c.Z))
	}
	if dim == XYZM {
		pos = append(pos, float64(c.M))
	}
	return pos
}

func positions[T constraints.Float](coords []Coord[T], dim Dimension) []any {
	out := make([]any, 0, len(coords))
	for _, c := range coords {
		out = append(out, position(c, dim))
	}
	return out
}

var geojsonTags = map[string]GeometryType{
	"Point":           GeometryTypePoint,
	"LineString":      GeometryTypeLineString,
	"Polygon":         GeometryTypePolygon,
	"MultiPoint":      GeometryTypeMultiPoint,
	"MultiLineString": GeometryTypeMultiLineString,
	"MultiPolygon":    GeometryTypeMultiPolygon,
}

// FromValue converts a GeoJSON-shaped key/value tree back to a geometry
// tree. Position arity fixes the dimension the same way untagged WKT does:
// three elements mean XYZ, four mean XYZM.
func FromValue(v map[string]any) (Geometry[float64], error) {
	typ, _ := v["type"].(string)
	if typ == "GeometryCollection" {
		raw, ok := v["geometries"].([]any)
		if !ok {
			return nil, conversionErr(ErrMismatchedType, "GeometryCollection has no geometries array")
		}
		members := make([]Geometry[float64], 0, len(raw))
		for _, rm := range raw {
			mv, ok := rm.(map[string]any)
			if !ok {
				return nil, conversionErr(ErrMismatchedType, "collection member is not an object")
			}
			member, err := FromValue(mv)
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		}
		return GeometryCollection[float64]{Geometries: members}, nil
	}

	kind, ok := geojsonTags[typ]
	if !ok {
		return nil, conversionErr(ErrMismatchedType, "unknown geometry type %q", typ)
	}
	coords, ok := v["coordinates"].([]any)
	if !ok {
		return nil, conversionErr(ErrMismatchedType, "%s has no coordinates array", typ)
	}

	d := &dims{}
	switch kind {
	case GeometryTypePoint:
		if len(coords) == 0 {
			return Point[float64]{}, nil
		}
		c, err := valueCoord(coords, d)
		if err != nil {
			return nil, err
		}
		return Point[float64]{Dimension: d.d, Coord: &c}, nil
	case GeometryTypeLineString:
		seq, err := valueCoordSeq(coords, d)
		if err != nil {
			return nil, err
		}
		return LineString[float64]{Dimension: d.d, Coords: seq}, nil
	case GeometryTypePolygon:
		rings, err := valueRings(coords, d)
		if err != nil {
			return nil, err
		}
		return Polygon[float64]{Dimension: d.d, Rings: rings}, nil
	case GeometryTypeMultiPoint:
		points := make([]Point[float64], 0, len(coords))
		for _, raw := range coords {
			pos, ok := raw.([]any)
			if !ok {
				return nil, conversionErr(ErrMismatchedType, "position is not an array")
			}
			if len(pos) == 0 {
				points = append(points, Point[float64]{})
				continue
			}
			c, err := valueCoord(pos, d)
			if err != nil {
				return nil, err
			}
			points = append(points, Point[float64]{Coord: &c})
		}
		for i := range points {
			points[i].Dimension = d.d
		}
		return MultiPoint[float64]{Dimension: d.d, Points: points}, nil
	case GeometryTypeMultiLineString:
		lines := make([]LineString[float64], 0, len(coords))
		for _, raw := range coords {
			seqRaw, ok := raw.([]any)
			if !ok {
				return nil, conversionErr(ErrMismatchedType, "line is not an array")
			}
			seq, err := valueCoordSeq(seqRaw, d)
			if err != nil {
				return nil, err
			}
			lines = append(lines, LineString[float64]{Coords: seq})
		}
		for i := range lines {
			lines[i].Dimension = d.d
		}
		return MultiLineString[float64]{Dimension: d.d, Lines: lines}, nil
	default: // MultiPolygon
		polys := make([]Polygon[float64], 0, len(coords))
		for _, raw := range coords {
			ringsRaw, ok := raw.([]any)
			if !ok {
				return nil, conversionErr(ErrMismatchedType, "polygon is not an array")
			}
			rings, err := valueRings(ringsRaw, d)
			if err != nil {
				return nil, err
			}
			polys = append(polys, Polygon[float64]{Rings: rings})
		}
		for i := range polys {
			polys[i].Dimension = d.d
		}
		return MultiPolygon[float64]{Dimension: d.d, Polygons: polys}, nil
	}
}

func valueRings(raw []any, d *dims) ([][]Coord[float64], error) {
	rings := make([][]Coord[float64], 0, len(raw))
	for _, r := range raw {
		seqRaw, ok := r.([]any)
		if !ok {
			return nil, conversionErr(ErrMismatchedType, "ring is not an array")
		}
		seq, err := valueCoordSeq(seqRaw, d)
		if err != nil {
			return nil, err
		}
		rings = append(rings, seq)
	}
	return rings, nil
}

func valueCoordSeq(raw []any, d *dims) ([]Coord[float64], error) {
	coords := make([]Coord[float64], 0, len(raw))
	for _, r := range raw {
		pos, ok := r.([]any)
		if !ok {
			return nil, conversionErr(ErrMismatchedType, "position is not an array")
		}
		c, err := valueCoord(pos, d)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

func valueCoord(pos []any, d *dims) (Coord[float64], error) {
	vals := make([]float64, 0, len(pos))
	for _, p := range pos {
		n, ok := toFloat(p)
		if !ok {
			return Coord[float64]{}, conversionErr(ErrMismatchedType, "position element %v is not a number", p)
		}
		vals = append(vals, n)
	}

	if d.fixed {
		if len(vals) != d.d.Size() {
			return Coord[float64]{}, conversionErr(ErrDimensionMismatch,
				"expected %d position elements for %s, found %d", d.d.Size(), d.d, len(vals))
		}
	} else {
		switch len(vals) {
		case 2:
			d.d = XY
		case 3:
			d.d = XYZ
		case 4:
			d.d = XYZM
		default:
			return Coord[float64]{}, conversionErr(ErrDimensionMismatch,
				"expected 2 to 4 position elements, found %d", len(vals))
		}
		d.fixed = true
	}

	c := Coord[float64]{X: vals[0], Y: vals[1]}
	if d.d.hasZ() {
		c.Z = vals[2]
	}
	if d.d.hasM() {
		c.M = vals[d.d.Size()-1]
	}
	return c, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// MarshalJSON encodes the point as a GeoJSON-shaped object.
func (p Point[T]) MarshalJSON() ([]byte, error)              { return marshalValue[T](p) }
func (l LineString[T]) MarshalJSON() ([]byte, error)         { return marshalValue[T](l) }
func (p Polygon[T]) MarshalJSON() ([]byte, error)            { return marshalValue[T](p) }
func (m MultiPoint[T]) MarshalJSON() ([]byte, error)         { return marshalValue[T](m) }
func (m MultiLineString[T]) MarshalJSON() ([]byte, error)    { return marshalValue[T](m) }
func (m MultiPolygon[T]) MarshalJSON() ([]byte, error)       { return marshalValue[T](m) }
func (c GeometryCollection[T]) MarshalJSON() ([]byte, error) { return marshalValue[T](c) }

func marshalValue[T constraints.Float](g Geometry[T]) ([]byte, error) {
	v, err := ToValue(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes a GeoJSON-shaped object into a geometry tree.
func UnmarshalJSON(data []byte) (Geometry[float64], error) {
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("wkt: %w", err)
	}
	return FromValue(v)
}
