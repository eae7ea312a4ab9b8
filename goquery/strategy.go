package goquery

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Status is the result kind of a single extraction strategy.
type Status int

// Strategy outcomes. Malformed means the source was present but unreadable,
// which is different from the value simply not being there.
const (
	NotFound Status = iota
	Found
	Malformed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Malformed:
		return "malformed"
	default:
		return "not_found"
	}
}

// Outcome is what a strategy returns for one document.
type Outcome struct {
	Status Status
	Value  string
	Err    error
}

func found(v string) Outcome     { return Outcome{Status: Found, Value: v} }
func malformed(err error) Outcome { return Outcome{Status: Malformed, Err: err} }

var notFound = Outcome{Status: NotFound}

// Strategy is one named technique for locating a field value.
// Find must not modify the document.
type Strategy struct {
	Name string
	Find func(doc *goquery.Document) Outcome
}

// visibleText returns the text of the document body without script,
// style and template content.
func visibleText(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	clone := body.Clone()
	clone.Find("script, style, noscript, template").Remove()
	return clone.Text()
}

// toFloat converts a decoded JSON value or attribute string to float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}
