package goquery

import (
	"log/slog"
	"strconv"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/PuerkitoBio/goquery"
)

// Ensure FieldExtractor implements hotelscraper.Extractor at compile time.
var _ hotelscraper.Extractor = (*FieldExtractor)(nil)

// FieldExtractor reads hotel fields from a detail page. Each field has an
// ordered chain of strategies; the first one that finds a value wins.
type FieldExtractor struct {
	InfoSelectors []string
	Phone         []Strategy
	Email         []Strategy
	Latitude      []Strategy
	Longitude     []Strategy
	Logger        *slog.Logger
}

// ExtractorOption configures a FieldExtractor.
type ExtractorOption func(*FieldExtractor)

// WithPhoneStrategies replaces the phone chain. The dynamic source lists a
// tel: link, so it puts PhoneLink first.
func WithPhoneStrategies(s ...Strategy) ExtractorOption {
	return func(e *FieldExtractor) {
		e.Phone = s
	}
}

// WithInfoSelectors replaces the name/address container selectors.
func WithInfoSelectors(sel ...string) ExtractorOption {
	return func(e *FieldExtractor) {
		e.InfoSelectors = sel
	}
}

// WithExtractorLogger sets the logger that receives malformed-source events.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(e *FieldExtractor) {
		e.Logger = l
	}
}

// NewFieldExtractor creates a FieldExtractor with the default chains:
// phone from visible text then tel: link, email from containers then mail
// link then text, coordinates from linked data then data attributes then
// meta tags.
func NewFieldExtractor(opts ...ExtractorOption) *FieldExtractor {
	e := &FieldExtractor{
		InfoSelectors: DefaultInfoSelectors,
		Phone:         []Strategy{PhoneText(), PhoneLink()},
		Email:         DefaultEmailStrategies(),
		Latitude:      DefaultGeoStrategies(Latitude),
		Longitude:     DefaultGeoStrategies(Longitude),
		Logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads every field from doc. Missing fields are nil. The only
// error is a missing document.
func (e *FieldExtractor) Extract(doc *hotelscraper.RenderedDocument) (hotelscraper.Fields, error) {
	if doc == nil || doc.Doc == nil {
		return hotelscraper.Fields{}, hotelscraper.Errorf(hotelscraper.EINVALID, "extract: nil document")
	}
	d := doc.Doc

	var f hotelscraper.Fields
	f.Name, f.Address = nameAndAddress(d, e.InfoSelectors)
	f.Phone = e.firstString(doc.URL, "phone", d, e.Phone)
	f.Email = e.firstString(doc.URL, "email", d, e.Email)
	f.Latitude = e.firstFloat(doc.URL, "latitude", d, e.Latitude)
	f.Longitude = e.firstFloat(doc.URL, "longitude", d, e.Longitude)
	return f, nil
}

// firstString applies strategies in order and returns the first found value.
func (e *FieldExtractor) firstString(url, field string, d *goquery.Document, strategies []Strategy) *string {
	for _, s := range strategies {
		out := s.Find(d)
		switch out.Status {
		case Found:
			v := out.Value
			return &v
		case Malformed:
			e.logMalformed(url, field, s.Name, out.Err)
		}
	}
	return nil
}

// firstFloat is like firstString but only accepts values that parse as a
// float. An unparsable value counts as malformed and the chain moves on.
func (e *FieldExtractor) firstFloat(url, field string, d *goquery.Document, strategies []Strategy) *float64 {
	for _, s := range strategies {
		out := s.Find(d)
		switch out.Status {
		case Found:
			v, err := strconv.ParseFloat(out.Value, 64)
			if err == nil {
				return &v
			}
			e.logMalformed(url, field, s.Name, err)
		case Malformed:
			e.logMalformed(url, field, s.Name, out.Err)
		}
	}
	return nil
}

func (e *FieldExtractor) logMalformed(url, field, strategy string, err error) {
	if e.Logger == nil {
		return
	}
	e.Logger.Debug("skipping malformed source",
		"url", url,
		"field", field,
		"strategy", strategy,
		"err", err,
	)
}
