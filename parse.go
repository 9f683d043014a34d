package wkt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Parse parses a WKT string into a float64 geometry tree with default
// options.
func Parse(input string) (Geometry[float64], error) {
	return ParseAs[float64](input, nil)
}

// MustParse is like Parse but panics on error. Intended for geometry
// literals in tests and initialization code.
func MustParse(input string) Geometry[float64] {
	g, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseAs parses a WKT string into a geometry tree with the given
// coordinate type. A nil opts uses DefaultOptions. The whole input must be
// consumed; trailing tokens are an error.
func ParseAs[T constraints.Float](input string, opts *Options) (Geometry[T], error) {
	maxDepth := 0
	if opts != nil {
		maxDepth = opts.MaxDepth
	}
	if maxDepth <= 0 {
		maxDepth = DefaultOptions().MaxDepth
	}

	p := &parser[T]{scan: newScanner(input), maxDepth: maxDepth}
	g, err := p.parseGeometry(0)
	if err != nil {
		return nil, err
	}
	tok, err := p.scan.Next()
	if err != nil {
		return nil, err
	}
	if tok.Type != TokenEOF {
		return nil, p.tokenErr(tok, "end of input")
	}
	return g, nil
}

// geometryTags maps upper-case WKT keywords to geometry types.
var geometryTags = map[string]GeometryType{
	"POINT":              GeometryTypePoint,
	"LINESTRING":         GeometryTypeLineString,
	"POLYGON":            GeometryTypePolygon,
	"MULTIPOINT":         GeometryTypeMultiPoint,
	"MULTILINESTRING":    GeometryTypeMultiLineString,
	"MULTIPOLYGON":       GeometryTypeMultiPolygon,
	"GEOMETRYCOLLECTION": GeometryTypeGeometryCollection,
}

// splitTag resolves a keyword to a geometry type, recognizing fused
// dimension forms such as POINTZ and MULTIPOLYGONZM. tagged reports
// whether the keyword itself carried a dimension.
func splitTag(word string) (typ GeometryType, dim Dimension, tagged, ok bool) {
	u := strings.ToUpper(word)
	if typ, ok := geometryTags[u]; ok {
		return typ, XY, false, true
	}
	for _, suf := range []struct {
		text string
		dim  Dimension
	}{{"ZM", XYZM}, {"Z", XYZ}, {"M", XYM}} {
		base, found := strings.CutSuffix(u, suf.text)
		if !found {
			continue
		}
		if typ, ok := geometryTags[base]; ok {
			return typ, suf.dim, true, true
		}
	}
	return 0, XY, false, false
}

func suffixDimension(word string) (Dimension, bool) {
	switch strings.ToUpper(word) {
	case "Z":
		return XYZ, true
	case "M":
		return XYM, true
	case "ZM":
		return XYZM, true
	default:
		return XY, false
	}
}

// dims tracks the active dimensionality of one geometry production. When a
// geometry carries no explicit tag, the first coordinate's arity fixes the
// dimension: 3 ordinates always mean XYZ (WKT text cannot express XYM
// without a tag), 4 mean XYZM.
type dims struct {
	d     Dimension
	fixed bool
}

type parser[T constraints.Float] struct {
	scan     *scanner
	maxDepth int
}

// parseGeometry is the entry production. depth counts enclosing
// GEOMETRYCOLLECTIONs.
func (p *parser[T]) parseGeometry(depth int) (Geometry[T], error) {
	tok, err := p.scan.Next()
	if err != nil {
		return nil, err
	}
	if tok.Type != TokenWord {
		return nil, p.tokenErr(tok, "geometry keyword")
	}

	typ, dim, tagged, ok := splitTag(tok.Text)
	if !ok {
		return nil, &ParseError{
			Pos: tok.Pos,
			Err: fmt.Errorf("%w %q", ErrUnknownGeometryTag, tok.Text),
		}
	}
	if !tagged {
		// The dimension tag is usually a separate word: POINT Z (...).
		next, err := p.scan.Peek()
		if err != nil {
			return nil, err
		}
		if next.Type == TokenWord {
			if d, isTag := suffixDimension(next.Text); isTag {
				p.scan.Next()
				dim, tagged = d, true
			}
		}
	}

	d := &dims{d: dim, fixed: tagged}
	switch typ {
	case GeometryTypePoint:
		return p.parsePoint(d)
	case GeometryTypeLineString:
		return p.parseLineString(d)
	case GeometryTypePolygon:
		return p.parsePolygon(d)
	case GeometryTypeMultiPoint:
		return p.parseMultiPoint(d)
	case GeometryTypeMultiLineString:
		return p.parseMultiLineString(d)
	case GeometryTypeMultiPolygon:
		return p.parseMultiPolygon(d)
	default:
		return p.parseCollection(d, depth)
	}
}

// parseBody handles the part after the keyword and optional tag: either the
// EMPTY keyword, an empty pair of parentheses, or '(' fill ')'. It reports
// whether the body was empty.
func (p *parser[T]) parseBody(fill func() error) (bool, error) {
	tok, err := p.scan.Peek()
	if err != nil {
		return false, err
	}
	switch tok.Type {
	case TokenWord:
		if strings.EqualFold(tok.Text, "EMPTY") {
			p.scan.Next()
			return true, nil
		}
		return false, p.tokenErr(tok, "EMPTY or '('")
	case TokenLParen:
		p.scan.Next()
		next, err := p.scan.Peek()
		if err != nil {
			return false, err
		}
		if next.Type == TokenRParen {
			p.scan.Next()
			return true, nil
		}
		if err := fill(); err != nil {
			return false, err
		}
		return false, p.expect(TokenRParen)
	default:
		return false, p.tokenErr(tok, "EMPTY or '('")
	}
}

func (p *parser[T]) parsePoint(d *dims) (Geometry[T], error) {
	var coord *Coord[T]
	_, err := p.parseBody(func() error {
		c, err := p.parseCoord(d)
		if err != nil {
			return err
		}
		coord = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Point[T]{Dimension: d.d, Coord: coord}, nil
}

func (p *parser[T]) parseLineString(d *dims) (Geometry[T], error) {
	var coords []Coord[T]
	_, err := p.parseBody(func() error {
		var err error
		coords, err = p.parseCoordSeq(d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return LineString[T]{Dimension: d.d, Coords: coords}, nil
}

func (p *parser[T]) parsePolygon(d *dims) (Geometry[T], error) {
	var rings [][]Coord[T]
	_, err := p.parseBody(func() error {
		for {
			ring, err := p.parseRing(d)
			if err != nil {
				return err
			}
			rings = append(rings, ring)
			if !p.eatComma() {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return Polygon[T]{Dimension: d.d, Rings: rings}, nil
}

func (p *parser[T]) parseMultiPoint(d *dims) (Geometry[T], error) {
	var points []Point[T]
	_, err := p.parseBody(func() error {
		for {
			pt, err := p.parseMultiPointMember(d)
			if err != nil {
				return err
			}
			points = append(points, pt)
			if !p.eatComma() {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	// The dimension may have been inferred after early EMPTY members.
	for i := range points {
		points[i].Dimension = d.d
	}
	return MultiPoint[T]{Dimension: d.d, Points: points}, nil
}

// parseMultiPointMember accepts EMPTY, a parenthesized coordinate, or the
// legacy bare form without parentheses: MULTIPOINT (1 2, 3 4).
func (p *parser[T]) parseMultiPointMember(d *dims) (Point[T], error) {
	tok, err := p.scan.Peek()
	if err != nil {
		return Point[T]{}, err
	}
	switch tok.Type {
	case TokenWord:
		if strings.EqualFold(tok.Text, "EMPTY") {
			p.scan.Next()
			return Point[T]{Dimension: d.d}, nil
		}
		return Point[T]{}, p.tokenErr(tok, "EMPTY, '(' or number")
	case TokenLParen:
		p.scan.Next()
		c, err := p.parseCoord(d)
		if err != nil {
			return Point[T]{}, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return Point[T]{}, err
		}
		return Point[T]{Dimension: d.d, Coord: &c}, nil
	case TokenNumber:
		c, err := p.parseCoord(d)
		if err != nil {
			return Point[T]{}, err
		}
		return Point[T]{Dimension: d.d, Coord: &c}, nil
	default:
		return Point[T]{}, p.tokenErr(tok, "EMPTY, '(' or number")
	}
}

func (p *parser[T]) parseMultiLineString(d *dims) (Geometry[T], error) {
	var lines []LineString[T]
	_, err := p.parseBody(func() error {
		for {
			line, err := p.parseMultiLineStringMember(d)
			if err != nil {
				return err
			}
			lines = append(lines, line)
			if !p.eatComma() {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].Dimension = d.d
	}
	return MultiLineString[T]{Dimension: d.d, Lines: lines}, nil
}

func (p *parser[T]) parseMultiLineStringMember(d *dims) (LineString[T], error) {
	tok, err := p.scan.Peek()
	if err != nil {
		return LineString[T]{}, err
	}
	if tok.Type == TokenWord && strings.EqualFold(tok.Text, "EMPTY") {
		p.scan.Next()
		return LineString[T]{Dimension: d.d}, nil
	}
	coords, err := p.parseRing(d)
	if err != nil {
		return LineString[T]{}, err
	}
	return LineString[T]{Dimension: d.d, Coords: coords}, nil
}

func (p *parser[T]) parseMultiPolygon(d *dims) (Geometry[T], error) {
	var polygons []Polygon[T]
	_, err := p.parseBody(func() error {
		for {
			poly, err := p.parseMultiPolygonMember(d)
			if err != nil {
				return err
			}
			polygons = append(polygons, poly)
			if !p.eatComma() {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	for i := range polygons {
		polygons[i].Dimension = d.d
	}
	return MultiPolygon[T]{Dimension: d.d, Polygons: polygons}, nil
}

func (p *parser[T]) parseMultiPolygonMember(d *dims) (Polygon[T], error) {
	tok, err := p.scan.Peek()
	if err != nil {
		return Polygon[T]{}, err
	}
	if tok.Type == TokenWord && strings.EqualFold(tok.Text, "EMPTY") {
		p.scan.Next()
		return Polygon[T]{Dimension: d.d}, nil
	}
	if tok.Type != TokenLParen {
		return Polygon[T]{}, p.tokenErr(tok, "EMPTY or '('")
	}
	p.scan.Next()

	var rings [][]Coord[T]
	next, err := p.scan.Peek()
	if err != nil {
		return Polygon[T]{}, err
	}
	if next.Type == TokenRParen {
		p.scan.Next()
		return Polygon[T]{Dimension: d.d}, nil
	}
	for {
		ring, err := p.parseRing(d)
		if err != nil {
			return Polygon[T]{}, err
		}
		rings = append(rings, ring)
		if !p.eatComma() {
			break
		}
	}
	if err := p.expect(TokenRParen); err != nil {
		return Polygon[T]{}, err
	}
	return Polygon[T]{Dimension: d.d, Rings: rings}, nil
}

func (p *parser[T]) parseCollection(d *dims, depth int) (Geometry[T], error) {
	if depth+1 > p.maxDepth {
		tok, err := p.scan.Peek()
		if err != nil {
			return nil, err
		}
		return nil, &ParseError{
			Pos: tok.Pos,
			Err: fmt.Errorf("%w (limit %d)", ErrNestingTooDeep, p.maxDepth),
		}
	}

	var members []Geometry[T]
	_, err := p.parseBody(func() error {
		for {
			g, err := p.parseGeometry(depth + 1)
			if err != nil {
				return err
			}
			members = append(members, g)
			if !p.eatComma() {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return GeometryCollection[T]{Dimension: d.d, Geometries: members}, nil
}

// parseRing reads a parenthesized coordinate sequence, possibly empty.
func (p *parser[T]) parseRing(d *dims) ([]Coord[T], error) {
	if err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	tok, err := p.scan.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenRParen {
		p.scan.Next()
		return nil, nil
	}
	coords, err := p.parseCoordSeq(d)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return coords, nil
}

// parseCoordSeq reads one or more comma-separated coordinates.
func (p *parser[T]) parseCoordSeq(d *dims) ([]Coord[T], error) {
	var coords []Coord[T]
	for {
		c, err := p.parseCoord(d)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
		if !p.eatComma() {
			return coords, nil
		}
	}
}

// parseCoord reads whitespace-separated ordinates for a single coordinate
// and checks their count against the active dimensionality.
func (p *parser[T]) parseCoord(d *dims) (Coord[T], error) {
	tok, err := p.scan.Peek()
	if err != nil {
		return Coord[T]{}, err
	}
	if tok.Type != TokenNumber {
		return Coord[T]{}, p.tokenErr(tok, "number")
	}
	start := tok.Pos

	var vals []T
	for {
		tok, err := p.scan.Peek()
		if err != nil {
			return Coord[T]{}, err
		}
		if tok.Type != TokenNumber {
			break
		}
		p.scan.Next()
		v, err := parseFloat[T](tok)
		if err != nil {
			return Coord[T]{}, err
		}
		vals = append(vals, v)
	}

	if d.fixed {
		if len(vals) != d.d.Size() {
			return Coord[T]{}, &ParseError{
				Pos: start,
				Err: fmt.Errorf("%w: expected %d ordinates for %s, found %d",
					ErrDimensionMismatch, d.d.Size(), d.d, len(vals)),
			}
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
			return Coord[T]{}, &ParseError{
				Pos: start,
				Err: fmt.Errorf("%w: expected 2 to 4 ordinates, found %d",
					ErrDimensionMismatch, len(vals)),
			}
		}
		d.fixed = true
	}

	c := Coord[T]{X: vals[0], Y: vals[1]}
	if d.d.hasZ() {
		c.Z = vals[2]
	}
	if d.d.hasM() {
		c.M = vals[d.d.Size()-1]
	}
	return c, nil
}

// eatComma consumes a comma if one is next and reports whether it did.
func (p *parser[T]) eatComma() bool {
	tok, err := p.scan.Peek()
	if err != nil || tok.Type != TokenComma {
		return false
	}
	p.scan.Next()
	return true
}

func (p *parser[T]) expect(tt TokenType) error {
	tok, err := p.scan.Next()
	if err != nil {
		return err
	}
	if tok.Type != tt {
		return p.tokenErr(tok, tt.String())
	}
	return nil
}

// tokenErr builds a positioned error for an unexpected token, mapping EOF
// to its own sentinel.
func (p *parser[T]) tokenErr(tok Token, want string) *ParseError {
	if tok.Type == TokenEOF {
		return &ParseError{
			Pos: tok.Pos,
			Err: fmt.Errorf("%w: expected %s", ErrUnexpectedEOF, want),
		}
	}
	return &ParseError{
		Pos: tok.Pos,
		Err: fmt.Errorf("%w: expected %s, found %s %q", ErrUnexpectedToken, want, tok.Type, tok.Text),
	}
}

// parseFloat converts a number token to the coordinate type. Overflow for
// the target precision and non-finite results are errors, never clamped.
func parseFloat[T constraints.Float](tok Token) (T, error) {
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &ParseError{
			Pos: tok.Pos,
			Err: fmt.Errorf("%w %q: value is not a finite number", ErrInvalidNumber, tok.Text),
		}
	}
	t := T(v)
	if math.IsInf(float64(t), 0) {
		return 0, &ParseError{
			Pos: tok.Pos,
			Err: fmt.Errorf("%w %q: overflows coordinate type", ErrInvalidNumber, tok.Text),
		}
	}
	return t, nil
}
