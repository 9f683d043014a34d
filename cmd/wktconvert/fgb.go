package main

import (
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// writeFGB writes geometries as a FlatGeobuf layer without properties or a
// spatial index.
func writeFGB(w io.Writer, geometries []orb.Geometry, name string) error {
	builder := flatbuffers.NewBuilder(4096)

	header := writer.NewHeader(builder)
	header.SetName(name)
	header.SetGeometryType(layerGeometryType(geometries))

	gen := &geometryGenerator{geometries: geometries}
	fgbWriter := writer.NewWriter(header, false, gen, nil)
	_, err := fgbWriter.Write(w)
	return err
}

// layerGeometryType is the common type of all geometries, or Unknown for a
// mixed layer.
func layerGeometryType(geometries []orb.Geometry) flattypes.GeometryType {
	typ := fgbGeometryType(geometries[0])
	for _, g := range geometries[1:] {
		if fgbGeometryType(g) != typ {
			return flattypes.GeometryTypeUnknown
		}
	}
	return typ
}

func fgbGeometryType(g orb.Geometry) flattypes.GeometryType {
	switch g.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case orb.Ring, orb.Polygon:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	case orb.Collection:
		return flattypes.GeometryTypeGeometryCollection
	default:
		return flattypes.GeometryTypeUnknown
	}
}

type geometryGenerator struct {
	geometries []orb.Geometry
	index      int
}

func (g *geometryGenerator) Generate() *writer.Feature {
	if g.index >= len(g.geometries) {
		return nil
	}
	geom := g.geometries[g.index]
	g.index++

	builder := flatbuffers.NewBuilder(1024)
	fgbGeom := fgbGeometry(builder, geom)
	if fgbGeom == nil {
		return g.Generate()
	}

	feature := writer.NewFeature(builder)
	feature.SetGeometry(fgbGeom)
	return feature
}

// fgbGeometry flattens an orb geometry into FlatGeobuf's xy/ends/parts
// encoding.
func fgbGeometry(builder *flatbuffers.Builder, geom orb.Geometry) *writer.Geometry {
	g := writer.NewGeometry(builder)

	switch v := geom.(type) {
	case orb.Point:
		g.SetType(flattypes.GeometryTypePoint)
		g.SetXY([]float64{v[0], v[1]})
	case orb.MultiPoint:
		g.SetType(flattypes.GeometryTypeMultiPoint)
		g.SetXY(flattenXY(v))
	case orb.LineString:
		g.SetType(flattypes.GeometryTypeLineString)
		g.SetXY(flattenXY(v))
	case orb.MultiLineString:
		g.SetType(flattypes.GeometryTypeMultiLineString)
		xy, ends := flattenParts(partsOf(v))
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.Ring:
		g.SetType(flattypes.GeometryTypePolygon)
		g.SetXY(flattenXY(v))
		g.SetEnds([]uint32{uint32(len(v))})
	case orb.Polygon:
		g.SetType(flattypes.GeometryTypePolygon)
		xy, ends := flattenParts(partsOfPolygon(v))
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.MultiPolygon:
		g.SetType(flattypes.GeometryTypeMultiPolygon)
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := flattenParts(partsOfPolygon(poly))
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		g.SetParts(parts)
	case orb.Collection:
		g.SetType(flattypes.GeometryTypeGeometryCollection)
		parts := make([]writer.Geometry, 0, len(v))
		for _, child := range v {
			if cg := fgbGeometry(builder, child); cg != nil {
				parts = append(parts, *cg)
			}
		}
		g.SetParts(parts)
	default:
		return nil
	}

	return g
}

func flattenXY(points []orb.Point) []float64 {
	xy := make([]float64, 0, len(points)*2)
	for _, p := range points {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func partsOf(mls orb.MultiLineString) [][]orb.Point {
	parts := make([][]orb.Point, 0, len(mls))
	for _, ls := range mls {
		parts = append(parts, ls)
	}
	return parts
}

func partsOfPolygon(poly orb.Polygon) [][]orb.Point {
	parts := make([][]orb.Point, 0, len(poly))
	for _, ring := range poly {
		parts = append(parts, ring)
	}
	return parts
}

func flattenParts(parts [][]orb.Point) ([]float64, []uint32) {
	total := 0
	for _, part := range parts {
		total += len(part)
	}

	xy := make([]float64, 0, total*2)
	ends := make([]uint32, 0, len(parts))
	cumulative := uint32(0)
	for _, part := range parts {
		for _, p := range part {
			xy = append(xy, p[0], p[1])
		}
		cumulative += uint32(len(part))
		ends = append(ends, cumulative)
	}
	return xy, ends
}
