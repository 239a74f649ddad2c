package deeplink

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"shopmate/internal/models"
)

func TestBuild_KnownRetailers(t *testing.T) {
	testCases := []struct {
		name     string
		site     models.Site
		query    string
		category string
		want     string
	}{
		{
			name:     "amazon electronics",
			site:     models.Site{Name: "Amazon India", URL: "https://www.amazon.in"},
			query:    "Gaming  Laptop",
			category: "electronics",
			want:     "https://www.amazon.in/s?k=gaming%20laptop",
		},
		{
			name:     "amazon fashion by category",
			site:     models.Site{Name: "Amazon India", URL: "https://www.amazon.in"},
			query:    "linen shirt",
			category: "fashion",
			want:     "https://www.amazon.in/s?k=linen%20shirt&i=apparel",
		},
		{
			name:     "amazon fashion by site name",
			site:     models.Site{Name: "Amazon Fashion", URL: "https://amazon.in/fashion"},
			query:    "kurta",
			category: "ethnic wear",
			want:     "https://www.amazon.in/s?k=kurta&i=apparel",
		},
		{
			name:     "flipkart",
			site:     models.Site{Name: "Flipkart", URL: "https://www.flipkart.com/"},
			query:    "mobile & charger",
			category: "electronics",
			want:     "https://www.flipkart.com/search?q=mobile%20%26%20charger",
		},
		{
			name:  "croma",
			site:  models.Site{Name: "Croma", URL: "https://www.croma.com"},
			query: "tv",
			want:  "https://www.croma.com/searchB?q=tv",
		},
		{
			name:  "reliance digital",
			site:  models.Site{Name: "Reliance Digital", URL: "https://www.reliancedigital.in"},
			query: "washing machine",
			want:  "https://www.reliancedigital.in/search?q=washing%20machine",
		},
		{
			name:     "myntra slug and raw query",
			site:     models.Site{Name: "Myntra", URL: "https://www.myntra.com"},
			query:    "blue cotton shirt",
			category: "fashion",
			want:     "https://www.myntra.com/blue-cotton-shirt?rawQuery=blue%20cotton%20shirt&p=1",
		},
		{
			name:  "ajio",
			site:  models.Site{Name: "AJIO", URL: "https://www.ajio.com"},
			query: "sneakers",
			want:  "https://www.ajio.com/search/?text=sneakers",
		},
		{
			name:  "pepperfry",
			site:  models.Site{Name: "Pepperfry", URL: "https://www.pepperfry.com"},
			query: "sofa",
			want:  "https://www.pepperfry.com/site_product/search?q=sofa",
		},
		{
			name:  "ikea",
			site:  models.Site{Name: "IKEA India", URL: "https://www.ikea.com/in/en/"},
			query: "study table",
			want:  "https://www.ikea.com/in/en/search/?q=study%20table",
		},
		{
			name:  "urban ladder",
			site:  models.Site{Name: "Urban Ladder", URL: "https://www.urbanladder.com"},
			query: "wooden dining table",
			want:  "https://www.urbanladder.com/products/search?keywords=wooden%20dining%20table",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Build(tc.site, tc.query, tc.category))
			assert.True(t, Known(tc.site))
		})
	}
}

func TestBuild_MyntraHostWithoutWWW(t *testing.T) {
	got := Build(models.Site{Name: "Myntra", URL: "https://myntra.com"}, "blue cotton shirt", "fashion")
	assert.Contains(t, got, "/blue-cotton-shirt?")
	assert.Contains(t, got, "rawQuery=blue%20cotton%20shirt")
}

func TestBuild_UnknownHostReturnsBaseURL(t *testing.T) {
	for _, raw := range []string{
		"https://www.bigbasket.com",
		"https://notamazon.in",
		"https://amazon.in.example.org/shop",
		"not a url at all",
		"",
		"%zz",
	} {
		site := models.Site{Name: "Other", URL: raw}
		assert.Equal(t, raw, Build(site, "rice 5kg", "groceries"), raw)
		assert.False(t, Known(site), raw)
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlug(t *testing.T) {
	testCases := map[string]string{
		"blue cotton shirt":          "blue-cotton-shirt",
		"  Men's   T-Shirt!! ":        "men-s-t-shirt",
		"--leading and trailing--":   "leading-and-trailing",
		"Café crème 2-in-1":          "cafe-creme-2-in-1",
		"₹500 under, kurta/pyjama":   "500-under-kurta-pyjama",
		"!!!":                        "search",
		"":                           "search",
		"日本語":                        "search",
		"a---b___c":                  "a-b-c",
	}
	for in, want := range testCases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slug(in))
		})
	}
}

func TestSlug_Invariants(t *testing.T) {
	inputs := []string{
		"I want to buy a laptop under ₹50,000",
		"   ",
		"-a-",
		"Ünïcödé    Füß",
		"x" + strings.Repeat("-!?", 20) + "y",
		"\t\nwooden dining   table\n",
	}
	for _, in := range inputs {
		s := Slug(in)
		assert.Regexp(t, slugPattern, s, "input %q", in)
		assert.NotContains(t, s, "--")
		assert.False(t, strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-"))
	}
}

func TestEncodeQuery(t *testing.T) {
	assert.Equal(t, "a%20b", EncodeQuery("a b"))
	assert.Equal(t, "c%2B%2B%20book", EncodeQuery("c++ book"))
	assert.Equal(t, "size%3D10%26colour", EncodeQuery("size=10&colour"))
}
