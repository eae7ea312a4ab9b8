package goquery_test

import (
	"testing"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/96nitishkumar/hotelscraper/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetectLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want goquery.Layout
	}{
		{
			name: "cards",
			html: `<div class="property-card"><h2>A</h2></div><a href="/hotels/a/overview/">A</a>`,
			want: goquery.LayoutCards,
		},
		{
			name: "attribute cards",
			html: `<div data-property-card></div>`,
			want: goquery.LayoutCards,
		},
		{
			name: "links",
			html: `<a href="/hotels/a/overview/">A</a>`,
			want: goquery.LayoutLinks,
		},
		{
			name: "empty",
			html: `<p>No results</p>`,
			want: goquery.LayoutUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.DetectLayout(parse(t, tt.html)))
		})
	}
}

func TestAutoDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("uses cards under the listing origin", func(t *testing.T) {
		t.Parallel()

		doc := rendered(t, "https://www.example.com/search/findHotels.mi?view=list",
			`<div data-property-card data-property='{"marshaCode":"DELHI"}'><h2>JW Marriott Hotel New Delhi Aerocity</h2></div>`)

		urls := goquery.NewAutoDiscoverer().Discover(doc)

		assert.Equal(t, []string{"https://www.example.com/en-us/hotels/DELHI-jw-marriott-hotel-new-delhi-aerocity/overview/"}, urls)
	})

	t.Run("falls back to links when cards are unusable", func(t *testing.T) {
		t.Parallel()

		doc := rendered(t, "https://www.example.com/travel/delhi",
			`<div class="property-card"><h2>Nameless code</h2></div><a href="/hotels/b/overview/">B</a>`)

		urls := goquery.NewAutoDiscoverer().Discover(doc)

		assert.Equal(t, []string{"https://www.example.com/hotels/b/overview/"}, urls)
	})

	t.Run("uses links for plain listings", func(t *testing.T) {
		t.Parallel()

		called := false
		d := &goquery.AutoDiscoverer{
			Cards: hotelscraper.DiscovererFunc(func(*hotelscraper.RenderedDocument) []string {
				called = true
				return nil
			}),
			Links: goquery.NewLinkDiscoverer(),
		}

		urls := d.Discover(rendered(t, "https://www.example.com/travel/", `<a href="/hotels/a/overview/">A</a>`))

		assert.False(t, called)
		assert.Equal(t, []string{"https://www.example.com/hotels/a/overview/"}, urls)
	})
}
