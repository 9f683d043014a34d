package wkt

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func coord(vals ...float64) *Coord[float64] {
	c := Coord[float64]{X: vals[0], Y: vals[1]}
	switch len(vals) {
	case 3:
		c.Z = vals[2]
	case 4:
		c.Z = vals[2]
		c.M = vals[3]
	}
	return &c
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Geometry[float64]
	}{
		{"xy", "POINT (10 -20)", Point[float64]{Dimension: XY, Coord: coord(10, -20)}},
		{"z", "POINT Z (1 2 3)", Point[float64]{Dimension: XYZ, Coord: coord(1, 2, 3)}},
		{"m", "POINT M (1 2 3)", Point[float64]{Dimension: XYM, Coord: &Coord[float64]{X: 1, Y: 2, M: 3}}},
		{"zm", "POINT ZM (1 2 3 4)", Point[float64]{Dimension: XYZM, Coord: coord(1, 2, 3, 4)}},
		{"fused z", "POINTZ (1 2 3)", Point[float64]{Dimension: XYZ, Coord: coord(1, 2, 3)}},
		{"fused zm", "POINTZM (1 2 3 4)", Point[float64]{Dimension: XYZM, Coord: coord(1, 2, 3, 4)}},
		{"lower case", "point(1 2)", Point[float64]{Dimension: XY, Coord: coord(1, 2)}},
		{"untagged 3d", "POINT (1 2 3)", Point[float64]{Dimension: XYZ, Coord: coord(1, 2, 3)}},
		{"untagged 4d", "POINT (1 2 3 4)", Point[float64]{Dimension: XYZM, Coord: coord(1, 2, 3, 4)}},
		{"empty", "POINT EMPTY", Point[float64]{Dimension: XY}},
		{"empty z", "POINT Z EMPTY", Point[float64]{Dimension: XYZ}},
		{"empty parens", "POINT ()", Point[float64]{Dimension: XY}},
		{"whitespace", " \n\t\rPOINT \n\t\rZ ( \n\r\t10 \n\t\r-20 \n\t\r30 \n\t\r) \n\t\r",
			Point[float64]{Dimension: XYZ, Coord: coord(10, -20, 30)}},
		{"exponents", "POINT (1.5e3 -2E-2)", Point[float64]{Dimension: XY, Coord: coord(1500, -0.02)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %#v, got %#v", tt.expected, got)
			}
		})
	}
}

func TestParseLineString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Geometry[float64]
	}{
		{"xy", "LINESTRING (1 2, 3 4)", LineString[float64]{
			Dimension: XY,
			Coords:    []Coord[float64]{{X: 1, Y: 2}, {X: 3, Y: 4}},
		}},
		{"untagged 3d is always elevation", "LINESTRING (1 2 3, 4 5 6)", LineString[float64]{
			Dimension: XYZ,
			Coords:    []Coord[float64]{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
		}},
		{"explicit measure", "LINESTRING M (1 2 3, 4 5 6)", LineString[float64]{
			Dimension: XYM,
			Coords:    []Coord[float64]{{X: 1, Y: 2, M: 3}, {X: 4, Y: 5, M: 6}},
		}},
		{"empty", "LINESTRING EMPTY", LineString[float64]{Dimension: XY}},
		{"empty zm", "LINESTRING ZM EMPTY", LineString[float64]{Dimension: XYZM}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %#v, got %#v", tt.expected, got)
			}
		})
	}
}

func TestParsePolygon(t *testing.T) {
	got, err := Parse("POLYGON ((0 0, 4 0, 4 4, 0 0), (1 1, 2 1, 2 2, 1 1))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Polygon[float64]{
		Dimension: XY,
		Rings: [][]Coord[float64]{
			{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 0}},
			{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 1}},
		},
	}
	if !reflect.DeepEqual(got, Geometry[float64](expected)) {
		t.Errorf("expected %#v, got %#v", expected, got)
	}

	// An unclosed 2-coordinate ring is syntactically fine; validation
	// happens at conversion time.
	if _, err := Parse("POLYGON ((1 2, 3 4))"); err != nil {
		t.Errorf("unexpected error for short ring: %v", err)
	}
}

func TestParseMultiPoint(t *testing.T) {
	bare := "MULTIPOINT (1 2, 3 4)"
	wrapped := "MULTIPOINT ((1 2), (3 4))"

	expected := Geometry[float64](MultiPoint[float64]{
		Dimension: XY,
		Points: []Point[float64]{
			{Dimension: XY, Coord: coord(1, 2)},
			{Dimension: XY, Coord: coord(3, 4)},
		},
	})

	for _, input := range []string{bare, wrapped} {
		got, err := Parse(input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", input, err)
		}
		if !reflect.DeepEqual(got, expected) {
			t.Errorf("%s: expected %#v, got %#v", input, expected, got)
		}
	}

	got, err := Parse("MULTIPOINT (EMPTY, (1 2))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withEmpty := Geometry[float64](MultiPoint[float64]{
		Dimension: XY,
		Points: []Point[float64]{
			{Dimension: XY},
			{Dimension: XY, Coord: coord(1, 2)},
		},
	})
	if !reflect.DeepEqual(got, withEmpty) {
		t.Errorf("expected %#v, got %#v", withEmpty, got)
	}
}

func TestParseMultiLineString(t *testing.T) {
	got, err := Parse("MULTILINESTRING Z ((1 2 3, 4 5 6), EMPTY)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Geometry[float64](MultiLineString[float64]{
		Dimension: XYZ,
		Lines: []LineString[float64]{
			{Dimension: XYZ, Coords: []Coord[float64]{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}},
			{Dimension: XYZ},
		},
	})
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %#v, got %#v", expected, got)
	}
}

func TestParseMultiPolygon(t *testing.T) {
	got, err := Parse("MULTIPOLYGON (((0 0, 1 0, 1 1, 0 0)), EMPTY)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Geometry[float64](MultiPolygon[float64]{
		Dimension: XY,
		Polygons: []Polygon[float64]{
			{Dimension: XY, Rings: [][]Coord[float64]{
				{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}},
			}},
			{Dimension: XY},
		},
	})
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %#v, got %#v", expected, got)
	}
}

func TestParseGeometryCollection(t *testing.T) {
	got, err := Parse("GEOMETRYCOLLECTION (POINT (1 2), LINESTRING (1 2, 3 4))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Geometry[float64](GeometryCollection[float64]{
		Dimension: XY,
		Geometries: []Geometry[float64]{
			Point[float64]{Dimension: XY, Coord: coord(1, 2)},
			LineString[float64]{Dimension: XY, Coords: []Coord[float64]{{X: 1, Y: 2}, {X: 3, Y: 4}}},
		},
	})
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %#v, got %#v", expected, got)
	}
}

func TestParseGeometryCollectionMixedDimensions(t *testing.T) {
	// Members declare their own tags and need not agree.
	got, err := Parse("GEOMETRYCOLLECTION (POINT Z (1 2 3), POINT (4 5))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gc, ok := got.(GeometryCollection[float64])
	if !ok {
		t.Fatalf("expected GeometryCollection, got %T", got)
	}
	if gc.Geometries[0].Dim() != XYZ {
		t.Errorf("expected first member XYZ, got %s", gc.Geometries[0].Dim())
	}
	if gc.Geometries[1].Dim() != XY {
		t.Errorf("expected second member XY, got %s", gc.Geometries[1].Dim())
	}
}

func TestParseNestedCollections(t *testing.T) {
	got, err := Parse("GEOMETRYCOLLECTION (GEOMETRYCOLLECTION (POINT (1 2)), GEOMETRYCOLLECTION EMPTY)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gc, ok := got.(GeometryCollection[float64])
	if !ok {
		t.Fatalf("expected GeometryCollection, got %T", got)
	}
	if len(gc.Geometries) != 2 {
		t.Fatalf("expected 2 members, got %d", len(gc.Geometries))
	}
	inner, ok := gc.Geometries[0].(GeometryCollection[float64])
	if !ok {
		t.Fatalf("expected nested GeometryCollection, got %T", gc.Geometries[0])
	}
	if len(inner.Geometries) != 1 {
		t.Errorf("expected 1 nested member, got %d", len(inner.Geometries))
	}
	if !gc.Geometries[1].Empty() {
		t.Error("expected second member to be empty")
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := strings.Repeat("GEOMETRYCOLLECTION (", 200) + "POINT (1 2)" + strings.Repeat(")", 200)

	if _, err := Parse(deep); !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("expected ErrNestingTooDeep with default options, got %v", err)
	}

	if _, err := ParseAs[float64](deep, &Options{MaxDepth: 300}); err != nil {
		t.Errorf("unexpected error with raised limit: %v", err)
	}

	shallow := "GEOMETRYCOLLECTION (GEOMETRYCOLLECTION (POINT (1 2)))"
	if _, err := ParseAs[float64](shallow, &Options{MaxDepth: 1}); !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("expected ErrNestingTooDeep with MaxDepth 1, got %v", err)
	}
	if _, err := ParseAs[float64](shallow, &Options{MaxDepth: 2}); err != nil {
		t.Errorf("unexpected error with MaxDepth 2: %v", err)
	}

	// A lexical error surfacing at the depth boundary keeps its own
	// position instead of being masked by the depth error.
	bad := "GEOMETRYCOLLECTIONZM (GEOMETRYCOLLECTIONZM @"
	_, err := ParseAs[float64](bad, &Options{MaxDepth: 1})
	if !errors.Is(err, ErrUnexpectedCharacter) {
		t.Fatalf("expected ErrUnexpectedCharacter, got %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if want := strings.Index(bad, "@"); perr.Pos != want {
		t.Errorf("expected position %d, got %d", want, perr.Pos)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"empty input", "", ErrUnexpectedEOF},
		{"bare keyword", "POINT", ErrUnexpectedEOF},
		{"missing close paren", "POINT (1 2", ErrUnexpectedEOF},
		{"mid list", "LINESTRING (1 2,", ErrUnexpectedEOF},
		{"unknown tag", "BOGUS (1 2)", ErrUnknownGeometryTag},
		{"number before keyword", "10 POINT", ErrUnexpectedToken},
		{"no parens", "POINT 10", ErrUnexpectedToken},
		{"word as ordinate", "POINT (a b)", ErrUnexpectedToken},
		{"trailing input", "POINT (1 2) POINT (3 4)", ErrUnexpectedToken},
		{"one ordinate", "POINT (10)", ErrDimensionMismatch},
		{"five ordinates", "POINT (1 2 3 4 5)", ErrDimensionMismatch},
		{"tag arity", "POINT Z (1 2)", ErrDimensionMismatch},
		{"mixed arity", "LINESTRING (1 2, 3 4 5)", ErrDimensionMismatch},
		{"bad exponent", "POINT (1e 2)", ErrInvalidNumber},
		{"bare sign", "POINT (- 2)", ErrInvalidNumber},
		{"overflow", "POINT (1 1e999)", ErrInvalidNumber},
		{"stray character", "POINT (; 2)", ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(tt.input)
			if g != nil {
				t.Errorf("expected nil geometry, got %#v", g)
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("POINT (1 2")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
	if perr.Pos != len("POINT (1 2") {
		t.Errorf("expected position %d, got %d", len("POINT (1 2"), perr.Pos)
	}
}

func TestParseAsFloat32(t *testing.T) {
	got, err := ParseAs[float32]("POINT (1.5 -2.5)", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Geometry[float32](Point[float32]{
		Dimension: XY,
		Coord:     &Coord[float32]{X: 1.5, Y: -2.5},
	})
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %#v, got %#v", expected, got)
	}

	// 1e50 is finite in float64 but overflows float32; it must be
	// rejected, not clamped.
	if _, err := ParseAs[float32]("POINT (1e50 0)", nil); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("expected ErrInvalidNumber for float32 overflow, got %v", err)
	}
	if _, err := ParseAs[float64]("POINT (1e50 0)", nil); err != nil {
		t.Errorf("unexpected error for float64: %v", err)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParse("POINT (")
}

func TestParseDimensionConsistency(t *testing.T) {
	inputs := []string{
		"POINT ZM (1 2 3 4)",
		"LINESTRING (1 2 3, 4 5 6)",
		"POLYGON M ((1 2 3, 4 5 6, 7 8 9, 1 2 3))",
		"MULTIPOINT Z ((1 2 3), (4 5 6))",
		"GEOMETRYCOLLECTION (POINT (1 2), POINT ZM (1 2 3 4))",
	}
	for _, input := range inputs {
		g, err := Parse(input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", input, err)
		}
		checkDimensions(t, g)
	}
}

// checkDimensions walks a tree verifying every node's members share its
// dimensionality marker.
func checkDimensions(t *testing.T, g Geometry[float64]) {
	t.Helper()
	switch v := g.(type) {
	case MultiPoint[float64]:
		for _, pt := range v.Points {
			if pt.Dimension != v.Dimension {
				t.Errorf("multipoint member dimension %s != %s", pt.Dimension, v.Dimension)
			}
		}
	case MultiLineString[float64]:
		for _, line := range v.Lines {
			if line.Dimension != v.Dimension {
				t.Errorf("multilinestring member dimension %s != %s", line.Dimension, v.Dimension)
			}
		}
	case MultiPolygon[float64]:
		for _, poly := range v.Polygons {
			if poly.Dimension != v.Dimension {
				t.Errorf("multipolygon member dimension %s != %s", poly.Dimension, v.Dimension)
			}
		}
	case GeometryCollection[float64]:
		for _, member := range v.Geometries {
			checkDimensions(t, member)
		}
	}
}
