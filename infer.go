package wkt

import "fmt"

// Probe reads only the leading geometry keyword and optional dimension tag
// of a WKT string, without parsing the body. Useful for routing inputs by
// type before committing to a full parse. Untagged input reports XY even
// when the coordinates inside would infer a higher dimension; only a full
// Parse performs that inference.
func Probe(input string) (GeometryType, Dimension, error) {
	s := newScanner(input)
	tok, err := s.Next()
	if err != nil {
		return 0, XY, err
	}
	if tok.Type != TokenWord {
		if tok.Type == TokenEOF {
			return 0, XY, &ParseError{
				Pos: tok.Pos,
				Err: fmt.Errorf("%w: expected geometry keyword", ErrUnexpectedEOF),
			}
		}
		return 0, XY, &ParseError{
			Pos: tok.Pos,
			Err: fmt.Errorf("%w: expected geometry keyword, found %s %q", ErrUnexpectedToken, tok.Type, tok.Text),
		}
	}

	typ, dim, tagged, ok := splitTag(tok.Text)
	if !ok {
		return 0, XY, &ParseError{
			Pos: tok.Pos,
			Err: fmt.Errorf("%w %q", ErrUnknownGeometryTag, tok.Text),
		}
	}
	if !tagged {
		next, err := s.Peek()
		if err == nil && next.Type == TokenWord {
			if d, isTag := suffixDimension(next.Text); isTag {
				dim = d
			}
		}
	}
	return typ, dim, nil
}
