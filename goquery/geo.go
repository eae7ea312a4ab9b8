package goquery

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/PuerkitoBio/goquery"
)

// Coordinate names one half of a geographic position.
type Coordinate string

// Supported coordinates.
const (
	Latitude  Coordinate = "latitude"
	Longitude Coordinate = "longitude"
)

func (c Coordinate) dataAttrs() []string {
	if c == Latitude {
		return []string{"data-latitude", "data-lat"}
	}
	return []string{"data-longitude", "data-lng", "data-lon"}
}

func (c Coordinate) metaNames() []string {
	return []string{string(c), "place:location:" + string(c), "geo." + string(c)}
}

// pairIndex is the coordinate's position in "lat;lon" style values.
func (c Coordinate) pairIndex() int {
	if c == Latitude {
		return 0
	}
	return 1
}

// JSONLDGeo reads the coordinate from the first linked data block that
// holds a nested geo object with it. Blocks that are not valid JSON are
// skipped; if no block yields a value and at least one was malformed the
// outcome is Malformed.
func JSONLDGeo(c Coordinate) Strategy {
	return Strategy{
		Name: "json-ld",
		Find: func(doc *goquery.Document) Outcome {
			var (
				out    = notFound
				badErr error
			)
			doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
				raw := strings.TrimSpace(s.Text())
				if raw == "" {
					return true
				}
				var v any
				if err := decodeJSON(raw, &v); err != nil {
					badErr = hotelscraper.WrapError(hotelscraper.EPARSE, err, "linked data block %d", i)
					return true
				}
				if val, ok := findGeo(v, c); ok {
					out = found(val)
					return false
				}
				return true
			})
			if out.Status == NotFound && badErr != nil {
				return malformed(badErr)
			}
			return out
		},
	}
}

// decodeJSON decodes raw as exactly one JSON value, keeping numbers as
// json.Number. Anything after that value makes the input malformed.
func decodeJSON(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	return nil
}

// findGeo walks a decoded linked data value depth-first, in sorted key
// order, looking for a "geo" object that carries coordinate c.
func findGeo(v any, c Coordinate) (string, bool) {
	switch x := v.(type) {
	case map[string]any:
		if g, ok := x["geo"]; ok {
			if val, ok := geoValue(g, c); ok {
				return val, true
			}
		}
		for _, k := range slices.Sorted(maps.Keys(x)) {
			if val, ok := findGeo(x[k], c); ok {
				return val, true
			}
		}
	case []any:
		for _, item := range x {
			if val, ok := findGeo(item, c); ok {
				return val, true
			}
		}
	}
	return "", false
}

func geoValue(g any, c Coordinate) (string, bool) {
	switch x := g.(type) {
	case map[string]any:
		return scalarString(x[string(c)])
	case []any:
		for _, item := range x {
			if val, ok := geoValue(item, c); ok {
				return val, true
			}
		}
	}
	return "", false
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return s, true
		}
	}
	return "", false
}

// DataAttrGeo reads the coordinate from a data attribute on any element.
func DataAttrGeo(c Coordinate) Strategy {
	return Strategy{
		Name: "data-attr",
		Find: func(doc *goquery.Document) Outcome {
			for _, attr := range c.dataAttrs() {
				v, ok := doc.Find("[" + attr + "]").First().Attr(attr)
				if ok && strings.TrimSpace(v) != "" {
					return found(strings.TrimSpace(v))
				}
			}
			return notFound
		},
	}
}

// MetaGeo reads the coordinate from a meta tag matched by name or
// property, falling back to combined geo.position and ICBM tags.
func MetaGeo(c Coordinate) Strategy {
	return Strategy{
		Name: "meta",
		Find: func(doc *goquery.Document) Outcome {
			for _, name := range c.metaNames() {
				if v, ok := metaContent(doc, name); ok {
					return found(v)
				}
			}
			for _, name := range []string{"geo.position", "ICBM"} {
				v, ok := metaContent(doc, name)
				if !ok {
					continue
				}
				parts := strings.FieldsFunc(v, func(r rune) bool { return r == ';' || r == ',' })
				if len(parts) != 2 {
					return malformed(hotelscraper.Errorf(hotelscraper.EPARSE, "meta %s: %q is not a coordinate pair", name, v))
				}
				return found(strings.TrimSpace(parts[c.pairIndex()]))
			}
			return notFound
		},
	}
}

func metaContent(doc *goquery.Document, name string) (string, bool) {
	sel := fmt.Sprintf(`meta[name=%q], meta[property=%q]`, name, name)
	v, ok := doc.Find(sel).First().Attr("content")
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// DefaultGeoStrategies returns the chain for coordinate c: linked data,
// then data attributes, then meta tags.
func DefaultGeoStrategies(c Coordinate) []Strategy {
	return []Strategy{JSONLDGeo(c), DataAttrGeo(c), MetaGeo(c)}
}
