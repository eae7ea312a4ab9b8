package hotelscraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultBaseURL is the site the dynamic source searches.
const DefaultBaseURL = "https://www.marriott.com"

// SearchPath is the fixed search endpoint, relative to the base URL.
const SearchPath = "/search/findHotels.mi"

// searchDateLayout is the date format the search endpoint expects.
const searchDateLayout = "01/02/2006"

// RenderMode selects how the search results page lays out hotels.
type RenderMode string

// Supported render modes.
const (
	RenderList RenderMode = "list"
	RenderMap  RenderMode = "map"
)

// SearchParams describes a hotel search against the dynamic source.
type SearchParams struct {
	City     string
	Country  string
	CheckIn  time.Time
	CheckOut time.Time
	Mode     RenderMode
}

// Validate returns an error if the search cannot be encoded.
func (p SearchParams) Validate() error {
	if p.City == "" {
		return Errorf(EINVALID, "search city required")
	}
	if p.CheckIn.IsZero() || p.CheckOut.IsZero() {
		return Errorf(EINVALID, "check-in and check-out dates required")
	}
	if !p.CheckOut.After(p.CheckIn) {
		return Errorf(EINVALID, "check-out %s must be after check-in %s",
			p.CheckOut.Format(time.DateOnly), p.CheckIn.Format(time.DateOnly))
	}
	switch p.Mode {
	case "", RenderList, RenderMap:
	default:
		return Errorf(EINVALID, "unknown render mode %q", p.Mode)
	}
	return nil
}

// URL encodes the search as query parameters against the search endpoint
// of base.
func (p SearchParams) URL(base string) string {
	mode := p.Mode
	if mode == "" {
		mode = RenderList
	}
	q := url.Values{}
	q.Set("destinationAddress.city", p.City)
	if p.Country != "" {
		q.Set("destinationAddress.country", p.Country)
	}
	q.Set("fromDate", p.CheckIn.Format(searchDateLayout))
	q.Set("toDate", p.CheckOut.Format(searchDateLayout))
	q.Set("view", string(mode))
	q.Set("isSearch", "true")
	return strings.TrimRight(base, "/") + SearchPath + "?" + q.Encode()
}

var (
	slugStrip  = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s-]`)
	slugSpace  = regexp.MustCompile(`\s+`)
	slugHyphen = regexp.MustCompile(`-+`)
)

// Slug derives the URL slug for a hotel name: lower-cased, punctuation
// removed, whitespace runs replaced by single hyphens. Letters and digits
// outside ASCII are kept.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DetailURL builds the detail-page URL for a property:
// {base}/en-us/hotels/{code}-{slug}/overview/.
func DetailURL(base, propertyCode, name string) string {
	return fmt.Sprintf("%s/en-us/hotels/%s-%s/overview/",
		strings.TrimRight(base, "/"), propertyCode, Slug(name))
}
