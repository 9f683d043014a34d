// Command wktconvert reads newline-separated WKT geometries and converts
// them to canonical WKT, a GeoJSON FeatureCollection, or a FlatGeobuf
// file.
//
// Usage:
//
//	wktconvert -to geojson input.wkt
//	cat input.wkt | wktconvert -to fgb -o out.fgb -name layer
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	wkt "github.com/tingold/orb-wkt"
)

func main() {
	var (
		to   = flag.String("to", "wkt", "output format: wkt, geojson or fgb")
		out  = flag.String("o", "", "output file (default stdout)")
		name = flag.String("name", "geometries", "layer name for fgb output")
	)
	flag.Parse()

	in := os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	geometries, err := readWKT(in)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	if len(geometries) == 0 {
		log.Fatal("no geometries in input")
	}

	dst := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		dst = f
	}

	switch *to {
	case "wkt":
		for _, g := range geometries {
			fmt.Fprintln(dst, wkt.Write(g))
		}
	case "geojson":
		if err := writeGeoJSON(dst, geometries); err != nil {
			log.Fatalf("write geojson: %v", err)
		}
	case "fgb":
		orbGeoms, err := toOrb(geometries)
		if err != nil {
			log.Fatalf("convert: %v", err)
		}
		if err := writeFGB(dst, orbGeoms, *name); err != nil {
			log.Fatalf("write flatgeobuf: %v", err)
		}
	default:
		log.Fatalf("unknown output format %q", *to)
	}
}

// readWKT parses one geometry per non-blank line.
func readWKT(r io.Reader) ([]wkt.Geometry[float64], error) {
	var geometries []wkt.Geometry[float64]
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		g, err := wkt.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		geometries = append(geometries, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return geometries, nil
}

func toOrb(geometries []wkt.Geometry[float64]) ([]orb.Geometry, error) {
	out := make([]orb.Geometry, 0, len(geometries))
	for i, g := range geometries {
		og, err := wkt.ToOrb(g)
		if err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i+1, err)
		}
		out = append(out, og)
	}
	return out, nil
}

func writeGeoJSON(w io.Writer, geometries []wkt.Geometry[float64]) error {
	fc := geojson.NewFeatureCollection()
	for i, g := range geometries {
		og, err := wkt.ToOrb(g)
		if err != nil {
			return fmt.Errorf("geometry %d: %w", i+1, err)
		}
		fc.Append(geojson.NewFeature(og))
	}
	enc := json.NewEncoder(w)
	return enc.Encode(fc)
}
