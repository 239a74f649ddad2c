// Package deeplink turns a site's homepage into a search-results URL for the
// user's query on the retailers whose search endpoints are known.
package deeplink

import (
	"net/url"
	"strings"

	"shopmate/internal/models"
	"shopmate/pkg/categorizer"
)

// retailer describes one known search endpoint. build receives the encoded
// normalized query and the normalized query itself.
type retailer struct {
	domain string
	build  func(site models.Site, category, encoded, normalized string) string
}

var retailers = []retailer{
	// Electronics
	{domain: "amazon.in", build: func(site models.Site, category, q, _ string) string {
		if strings.HasPrefix(strings.ToLower(site.Name), "amazon fashion") || strings.EqualFold(category, "fashion") {
			return "https://www.amazon.in/s?k=" + q + "&i=apparel"
		}
		return "https://www.amazon.in/s?k=" + q
	}},
	{domain: "flipkart.com", build: func(_ models.Site, _, q, _ string) string {
		return "https://www.flipkart.com/search?q=" + q
	}},
	{domain: "croma.com", build: func(_ models.Site, _, q, _ string) string {
		return "https://www.croma.com/searchB?q=" + q
	}},
	{domain: "reliancedigital.in", build: func(_ models.Site, _, q, _ string) string {
		return "https://www.reliancedigital.in/search?q=" + q
	}},

	// Fashion
	{domain: "myntra.com", build: func(_ models.Site, _, q, normalized string) string {
		return "https://www.myntra.com/" + Slug(normalized) + "?rawQuery=" + q + "&p=1"
	}},
	{domain: "ajio.com", build: func(_ models.Site, _, q, _ string) string {
		return "https://www.ajio.com/search/?text=" + q
	}},

	// Furniture
	{domain: "pepperfry.com", build: func(_ models.Site, _, q, _ string) string {
		return "https://www.pepperfry.com/site_product/search?q=" + q
	}},
	{domain: "ikea.com", build: func(_ models.Site, _, q, _ string) string {
		return "https://www.ikea.com/in/en/search/?q=" + q
	}},
	{domain: "urbanladder.com", build: func(_ models.Site, _, q, _ string) string {
		return "https://www.urbanladder.com/products/search?keywords=" + q
	}},
}

// Build returns the deep search URL for site, or site.URL unchanged when the
// host is not a known retailer.
func Build(site models.Site, query, category string) string {
	host := Host(site.URL)
	if host == "" {
		return site.URL
	}
	normalized := categorizer.Normalize(query)
	encoded := EncodeQuery(normalized)
	for _, r := range retailers {
		if host == r.domain || strings.HasSuffix(host, "."+r.domain) {
			return r.build(site, category, encoded, normalized)
		}
	}
	return site.URL
}

// Known reports whether Build has a search template for the site's host.
func Known(site models.Site) bool {
	host := Host(site.URL)
	if host == "" {
		return false
	}
	for _, r := range retailers {
		if host == r.domain || strings.HasSuffix(host, "."+r.domain) {
			return true
		}
	}
	return false
}

// Host returns the lowercased host of rawURL without port, or "".
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

// EncodeQuery percent-encodes q for use as a query parameter value, with
// spaces as %20.
func EncodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}
