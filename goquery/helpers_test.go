package goquery_test

import (
	"strings"
	"testing"

	"github.com/96nitishkumar/hotelscraper"
	gq "github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// parse builds a goquery document from html.
func parse(t *testing.T, html string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// rendered wraps html as a RenderedDocument fetched from url.
func rendered(t *testing.T, url, html string) *hotelscraper.RenderedDocument {
	t.Helper()
	return &hotelscraper.RenderedDocument{URL: url, Doc: parse(t, html)}
}
