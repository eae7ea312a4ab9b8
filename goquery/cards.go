package goquery

import (
	"log/slog"
	"strings"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/PuerkitoBio/goquery"
)

// Default selectors for listing cards on the dynamic search results page.
const (
	DefaultCardSelector = "[data-property-card], .property-card"
	DefaultCardDataAttr = "data-property"
)

// DefaultCardNameSelectors locate the hotel name inside a card, in order.
var DefaultCardNameSelectors = []string{"[data-property-name]", ".property-name", "h2", "h3"}

// cardCodeAttrs carry the property code directly on the card when the
// structured data attribute is missing or unreadable.
var cardCodeAttrs = []string{"data-marsha-code", "data-property-code"}

var _ hotelscraper.Discoverer = (*CardDiscoverer)(nil)

// CardDiscoverer reads listing cards from a dynamically rendered search
// results page and turns them into detail-page URLs.
type CardDiscoverer struct {
	BaseURL       string
	CardSelector  string
	NameSelectors []string
	DataAttr      string
	Logger        *slog.Logger
}

// NewCardDiscoverer creates a CardDiscoverer that builds detail URLs
// under baseURL.
func NewCardDiscoverer(baseURL string) *CardDiscoverer {
	return &CardDiscoverer{
		BaseURL:       baseURL,
		CardSelector:  DefaultCardSelector,
		NameSelectors: DefaultCardNameSelectors,
		DataAttr:      DefaultCardDataAttr,
		Logger:        slog.New(slog.DiscardHandler),
	}
}

// Discover returns one detail URL per usable card, in listing order.
func (d *CardDiscoverer) Discover(doc *hotelscraper.RenderedDocument) []string {
	if doc == nil || doc.Doc == nil {
		return nil
	}
	var urls []string
	seen := make(map[string]struct{})
	for _, c := range d.DiscoverCandidates(doc.Doc) {
		u := hotelscraper.DetailURL(d.BaseURL, c.PropertyCode, c.Name)
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// DiscoverCandidates scans listing cards in document order. Index is the
// card's 1-based position among all cards, including dropped ones. Cards
// without both a name and a property code are dropped.
func (d *CardDiscoverer) DiscoverCandidates(doc *goquery.Document) []hotelscraper.ListingCandidate {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var out []hotelscraper.ListingCandidate

	doc.Find(d.CardSelector).Each(func(i int, card *goquery.Selection) {
		c := hotelscraper.ListingCandidate{
			Index: i + 1,
			Name:  d.cardName(card),
		}

		if raw, ok := card.Attr(d.DataAttr); ok && strings.TrimSpace(raw) != "" {
			data, err := parseCardData(raw)
			if err != nil {
				logger.Debug("malformed card data",
					"index", c.Index,
					"name", c.Name,
					"err", err,
				)
			} else {
				c.PropertyCode = data.code
				c.Latitude = data.lat
				c.Longitude = data.lng
			}
		}
		if c.PropertyCode == "" {
			for _, attr := range cardCodeAttrs {
				if v, ok := card.Attr(attr); ok && strings.TrimSpace(v) != "" {
					c.PropertyCode = strings.TrimSpace(v)
					break
				}
			}
		}

		if c.Name == "" || c.PropertyCode == "" {
			logger.Debug("dropping listing card",
				"index", c.Index,
				"name", c.Name,
				"property_code", c.PropertyCode,
			)
			return
		}
		out = append(out, c)
	})

	return out
}

func (d *CardDiscoverer) cardName(card *goquery.Selection) string {
	for _, sel := range d.NameSelectors {
		if name := collapseSpace(card.Find(sel).First().Text()); name != "" {
			return name
		}
	}
	return ""
}

type cardData struct {
	code string
	lat  *float64
	lng  *float64
}

// parseCardData decodes the JSON-encoded structured data of a card.
func parseCardData(raw string) (cardData, error) {
	var m map[string]any
	if err := decodeJSON(raw, &m); err != nil {
		return cardData{}, hotelscraper.WrapError(hotelscraper.EPARSE, err, "card data")
	}

	var data cardData
	for _, key := range []string{"marshaCode", "propertyCode", "marsha", "code"} {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			data.code = strings.TrimSpace(s)
			break
		}
	}
	data.lat = firstFloat(m, "latitude", "lat")
	data.lng = firstFloat(m, "longitude", "lng", "lon")
	return data, nil
}

func firstFloat(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := toFloat(v); ok {
				return &f
			}
		}
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
